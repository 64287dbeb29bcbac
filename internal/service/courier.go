// Package service carries the courier business flows: registering drivers and
// packages, assignment, delivery completion and the reporting queries. All
// multi-row flows run in a single transaction; constraint failures surface
// through the models error taxonomy.
package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"courier_service/internal/models"
)

type Courier struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Courier {
	return &Courier{db: db}
}

// --- Driver operations ---

func (s *Courier) AddDriver(d *models.Driver) error {
	if err := s.db.Create(d).Error; err != nil {
		return models.ClassifyError(err)
	}
	return nil
}

// Driver returns a driver with its undelivered packages preloaded.
func (s *Courier) Driver(driverID string) (*models.Driver, error) {
	var driver models.Driver
	err := s.db.
		Preload("Packages", "status <> ?", models.PackageDelivered).
		First(&driver, "driver_id = ?", driverID).Error
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

func (s *Courier) Drivers() ([]models.Driver, error) {
	var drivers []models.Driver
	err := s.db.
		Preload("Packages", "status <> ?", models.PackageDelivered).
		Find(&drivers).Error
	return drivers, err
}

func (s *Courier) UpdateDriverStatus(driverID, status string) error {
	res := s.db.Model(&models.Driver{}).
		Where("driver_id = ?", driverID).
		Update("status", status)
	if res.Error != nil {
		return models.ClassifyError(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveDriver deletes the driver. The model hook nulls assigned_driver on
// every referencing package in the same transaction; packages survive.
func (s *Courier) RemoveDriver(driverID string) error {
	res := s.db.Delete(&models.Driver{DriverID: driverID})
	if res.Error != nil {
		return models.ClassifyError(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --- Package operations ---

// AddPackage registers a package and writes its "created" audit event in one
// transaction. A package id is generated when the caller does not supply one.
func (s *Courier) AddPackage(p *models.Package) error {
	if p.PackageID == "" {
		p.PackageID = newPackageID()
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		event := models.JobEvent{
			JobID:     p.PackageID,
			EventType: models.EventCreated,
			Metadata:  fmt.Sprintf("package registered for %s", p.RecipientName),
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return models.ClassifyError(err)
	}
	return nil
}

func (s *Courier) Package(packageID string) (*models.Package, error) {
	var pkg models.Package
	err := s.db.
		Preload("Events").
		Preload("Proofs").
		First(&pkg, "package_id = ?", packageID).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (s *Courier) Packages() ([]models.Package, error) {
	var pkgs []models.Package
	err := s.db.Find(&pkgs).Error
	return pkgs, err
}

// DriverPackages lists the packages a driver is still carrying.
func (s *Courier) DriverPackages(driverID string) ([]models.Package, error) {
	var pkgs []models.Package
	err := s.db.
		Where("assigned_driver = ? AND status <> ?", driverID, models.PackageDelivered).
		Find(&pkgs).Error
	return pkgs, err
}

// UpdatePackageStatus sets the package status, stamps delivered_at when the
// status is "delivered", and appends the matching lifecycle event when the
// status belongs to the event enumeration. Any other string is accepted and
// simply recorded without an event.
func (s *Courier) UpdatePackageStatus(packageID, status string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var pkg models.Package
		if err := tx.First(&pkg, "package_id = ?", packageID).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"status": status}
		if status == models.PackageDelivered && pkg.DeliveredAt == nil {
			now := time.Now()
			updates["delivered_at"] = &now
		}
		if err := tx.Model(&pkg).Updates(updates).Error; err != nil {
			return err
		}

		if et, ok := eventForStatus(status); ok {
			event := models.JobEvent{JobID: packageID, EventType: et}
			return tx.Create(&event).Error
		}
		return nil
	})
	if err != nil {
		return models.ClassifyError(err)
	}
	return nil
}

// RemovePackage deletes the package; its events and proofs cascade with it.
func (s *Courier) RemovePackage(packageID string) error {
	res := s.db.Delete(&models.Package{PackageID: packageID})
	if res.Error != nil {
		return models.ClassifyError(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --- Delivery flow ---

// AssignPackage hands a package to a driver: the package becomes "assigned",
// the driver becomes "busy", and an "assigned" event is recorded.
func (s *Courier) AssignPackage(packageID, driverID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var driver models.Driver
		if err := tx.First(&driver, "driver_id = ?", driverID).Error; err != nil {
			return err
		}
		var pkg models.Package
		if err := tx.First(&pkg, "package_id = ?", packageID).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"assigned_driver": driverID,
			"status":          models.PackageAssigned,
		}
		if err := tx.Model(&pkg).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&driver).Update("status", models.DriverBusy).Error; err != nil {
			return err
		}

		event := models.JobEvent{
			JobID:     packageID,
			EventType: models.EventAssigned,
			Metadata:  fmt.Sprintf("assigned to driver %s", driverID),
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return models.ClassifyError(err)
	}
	logrus.WithFields(logrus.Fields{"package": packageID, "driver": driverID}).Info("package assigned")
	return nil
}

// CompleteDelivery marks the package delivered, records the event and the
// optional proof, bumps the driver's delivery counter with a single UPDATE
// (no read-modify-write), and frees the driver when nothing is left on board.
func (s *Courier) CompleteDelivery(packageID string, proof *models.DeliveryProof) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var pkg models.Package
		if err := tx.First(&pkg, "package_id = ?", packageID).Error; err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":       models.PackageDelivered,
			"delivered_at": &now,
		}
		if err := tx.Model(&pkg).Updates(updates).Error; err != nil {
			return err
		}

		event := models.JobEvent{JobID: packageID, EventType: models.EventDelivered}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		if proof != nil {
			proof.JobID = packageID
			if proof.RecipientName == "" {
				proof.RecipientName = pkg.RecipientName
			}
			if err := tx.Create(proof).Error; err != nil {
				return err
			}
		}

		if pkg.AssignedDriver == nil {
			return nil
		}
		driverID := *pkg.AssignedDriver

		if err := tx.Model(&models.Driver{}).
			Where("driver_id = ?", driverID).
			Update("total_deliveries", gorm.Expr("total_deliveries + 1")).Error; err != nil {
			return err
		}

		var remaining int64
		if err := tx.Model(&models.Package{}).
			Where("assigned_driver = ? AND status <> ?", driverID, models.PackageDelivered).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Model(&models.Driver{}).
				Where("driver_id = ?", driverID).
				Update("status", models.DriverAvailable).Error
		}
		return nil
	})
	if err != nil {
		return models.ClassifyError(err)
	}
	logrus.WithField("package", packageID).Info("delivery completed")
	return nil
}

// --- Audit trail ---

func (s *Courier) PackageEvents(packageID string) ([]models.JobEvent, error) {
	var events []models.JobEvent
	err := s.db.
		Where("job_id = ?", packageID).
		Order("id asc").
		Find(&events).Error
	return events, err
}

func (s *Courier) PackageProofs(packageID string) ([]models.DeliveryProof, error) {
	var proofs []models.DeliveryProof
	err := s.db.Where("job_id = ?", packageID).Find(&proofs).Error
	return proofs, err
}

// --- Reporting ---

type PackageSummary struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Assigned  int64 `json:"assigned"`
	InTransit int64 `json:"in_transit"`
	Delivered int64 `json:"delivered"`
	Cancelled int64 `json:"cancelled"`
}

func (s *Courier) Summary() (*PackageSummary, error) {
	var sum PackageSummary
	counts := []struct {
		dest   *int64
		status string
	}{
		{&sum.Pending, models.PackagePending},
		{&sum.Assigned, models.PackageAssigned},
		{&sum.InTransit, models.PackageInTransit},
		{&sum.Delivered, models.PackageDelivered},
		{&sum.Cancelled, models.PackageCancelled},
	}
	if err := s.db.Model(&models.Package{}).Count(&sum.Total).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		if err := s.db.Model(&models.Package{}).
			Where("status = ?", c.status).
			Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &sum, nil
}

type DriverPerformance struct {
	DriverID        string `json:"driver_id"`
	Name            string `json:"name"`
	TotalDeliveries int    `json:"total_deliveries"`
	CurrentLoad     int    `json:"current_load"`
	Status          string `json:"status"`
}

// Performance reports every driver's lifetime deliveries and current load,
// busiest first.
func (s *Courier) Performance() ([]DriverPerformance, error) {
	drivers, err := s.Drivers()
	if err != nil {
		return nil, err
	}
	perf := make([]DriverPerformance, 0, len(drivers))
	for _, d := range drivers {
		perf = append(perf, DriverPerformance{
			DriverID:        d.DriverID,
			Name:            d.Name,
			TotalDeliveries: d.TotalDeliveries,
			CurrentLoad:     len(d.Packages),
			Status:          d.Status,
		})
	}
	sort.SliceStable(perf, func(i, j int) bool {
		return perf[i].TotalDeliveries > perf[j].TotalDeliveries
	})
	return perf, nil
}

func (s *Courier) AvailableDrivers() ([]models.Driver, error) {
	var drivers []models.Driver
	err := s.db.Where("status = ?", models.DriverAvailable).Find(&drivers).Error
	return drivers, err
}

func (s *Courier) PendingPackages() ([]models.Package, error) {
	var pkgs []models.Package
	err := s.db.Where("status = ?", models.PackagePending).Find(&pkgs).Error
	return pkgs, err
}

// OrphanedPackages lists unassigned packages whose status still says they are
// on the road. Happens when a driver is deleted mid-delivery: the reference
// is nulled but the status is deliberately left for the backend to reconcile.
func (s *Courier) OrphanedPackages() ([]models.Package, error) {
	var pkgs []models.Package
	err := s.db.
		Where("assigned_driver IS NULL AND status NOT IN ?",
			[]string{models.PackagePending, models.PackageDelivered, models.PackageCancelled}).
		Find(&pkgs).Error
	return pkgs, err
}

// --- helpers ---

func newPackageID() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "PKG-" + id[:10]
}

func eventForStatus(status string) (models.EventType, bool) {
	switch status {
	case models.PackageAssigned:
		return models.EventAssigned, true
	case models.PackageInTransit:
		return models.EventInTransit, true
	case models.PackageDelivered:
		return models.EventDelivered, true
	case models.PackageCancelled:
		return models.EventCancelled, true
	}
	return "", false
}
