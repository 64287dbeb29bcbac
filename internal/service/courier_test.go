package service_test

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"courier_service/internal/models"
	"courier_service/internal/service"
)

func newCourier(t *testing.T) (*service.Courier, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Driver{}, &models.Package{}, &models.JobEvent{}, &models.DeliveryProof{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return service.New(db), db
}

func seedDriver(t *testing.T, s *service.Courier, id string) {
	t.Helper()
	d := models.Driver{DriverID: id, Name: "Driver " + id, Phone: "555-0100", VehicleType: models.VehicleVan}
	if err := s.AddDriver(&d); err != nil {
		t.Fatalf("seed driver %s: %v", id, err)
	}
}

func seedPackage(t *testing.T, s *service.Courier, id string) {
	t.Helper()
	p := models.Package{
		PackageID:        id,
		SenderName:       "Acme Ltd",
		SenderAddress:    "1 Warehouse Rd",
		RecipientName:    "Jane Doe",
		RecipientAddress: "42 Elm St",
		Weight:           1.25,
	}
	if err := s.AddPackage(&p); err != nil {
		t.Fatalf("seed package %s: %v", id, err)
	}
}

func TestAddPackageWritesCreatedEvent(t *testing.T) {
	s, _ := newCourier(t)
	seedPackage(t, s, "P1")

	events, err := s.PackageEvents("P1")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 1 || events[0].EventType != models.EventCreated {
		t.Fatalf("expected single created event, got %+v", events)
	}
}

func TestAddPackageGeneratesID(t *testing.T) {
	s, _ := newCourier(t)

	p := models.Package{
		SenderName:       "Acme Ltd",
		SenderAddress:    "1 Warehouse Rd",
		RecipientName:    "Jane Doe",
		RecipientAddress: "42 Elm St",
		Weight:           0.75,
	}
	if err := s.AddPackage(&p); err != nil {
		t.Fatalf("add package: %v", err)
	}
	if p.PackageID == "" {
		t.Fatal("package id was not generated")
	}
}

func TestUpdateDriverStatus(t *testing.T) {
	s, _ := newCourier(t)
	seedDriver(t, s, "D1")

	if err := s.UpdateDriverStatus("D1", models.DriverOffline); err != nil {
		t.Fatalf("update status: %v", err)
	}

	driver, err := s.Driver("D1")
	if err != nil {
		t.Fatalf("reload driver: %v", err)
	}
	if driver.Status != models.DriverOffline {
		t.Errorf("status = %q, want offline", driver.Status)
	}
	if driver.VehicleType != models.VehicleVan {
		t.Errorf("vehicle_type = %q, want van (untouched)", driver.VehicleType)
	}

	if err := s.UpdateDriverStatus("NOPE", models.DriverBusy); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("unknown driver: expected record not found, got %v", err)
	}
}

func TestAssignPackage(t *testing.T) {
	s, _ := newCourier(t)
	seedDriver(t, s, "D1")
	seedPackage(t, s, "P1")

	if err := s.AssignPackage("P1", "D1"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	pkg, err := s.Package("P1")
	if err != nil {
		t.Fatalf("reload package: %v", err)
	}
	if pkg.Status != models.PackageAssigned {
		t.Errorf("package status = %q, want assigned", pkg.Status)
	}
	if pkg.AssignedDriver == nil || *pkg.AssignedDriver != "D1" {
		t.Errorf("assigned_driver = %v, want D1", pkg.AssignedDriver)
	}

	driver, err := s.Driver("D1")
	if err != nil {
		t.Fatalf("reload driver: %v", err)
	}
	if driver.Status != models.DriverBusy {
		t.Errorf("driver status = %q, want busy", driver.Status)
	}

	events, _ := s.PackageEvents("P1")
	if len(events) != 2 || events[1].EventType != models.EventAssigned {
		t.Errorf("expected created+assigned events, got %+v", events)
	}
}

func TestAssignPackageUnknownDriver(t *testing.T) {
	s, _ := newCourier(t)
	seedPackage(t, s, "P1")

	err := s.AssignPackage("P1", "NOPE")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestCompleteDelivery(t *testing.T) {
	s, _ := newCourier(t)
	seedDriver(t, s, "D1")
	seedPackage(t, s, "P1")
	if err := s.AssignPackage("P1", "D1"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	proof := &models.DeliveryProof{Note: "signed at reception", PhotoRef: "img/123.jpg"}
	if err := s.CompleteDelivery("P1", proof); err != nil {
		t.Fatalf("complete: %v", err)
	}

	pkg, _ := s.Package("P1")
	if pkg.Status != models.PackageDelivered {
		t.Errorf("status = %q, want delivered", pkg.Status)
	}
	if pkg.DeliveredAt == nil {
		t.Error("delivered_at not stamped")
	}

	driver, _ := s.Driver("D1")
	if driver.TotalDeliveries != 1 {
		t.Errorf("total_deliveries = %d, want 1", driver.TotalDeliveries)
	}
	if driver.Status != models.DriverAvailable {
		t.Errorf("driver status = %q, want available (nothing left on board)", driver.Status)
	}

	proofs, _ := s.PackageProofs("P1")
	if len(proofs) != 1 {
		t.Fatalf("proofs = %d, want 1", len(proofs))
	}
	// Proof recipient falls back to the package recipient when not supplied.
	if proofs[0].RecipientName != "Jane Doe" {
		t.Errorf("proof recipient = %q, want Jane Doe", proofs[0].RecipientName)
	}
}

func TestCompleteDeliveryKeepsDriverBusyWithLoad(t *testing.T) {
	s, _ := newCourier(t)
	seedDriver(t, s, "D1")
	seedPackage(t, s, "P1")
	seedPackage(t, s, "P2")
	if err := s.AssignPackage("P1", "D1"); err != nil {
		t.Fatal(err)
	}
	if err := s.AssignPackage("P2", "D1"); err != nil {
		t.Fatal(err)
	}

	if err := s.CompleteDelivery("P1", nil); err != nil {
		t.Fatalf("complete: %v", err)
	}

	driver, _ := s.Driver("D1")
	if driver.Status != models.DriverBusy {
		t.Errorf("driver status = %q, want busy (P2 still on board)", driver.Status)
	}
	if driver.TotalDeliveries != 1 {
		t.Errorf("total_deliveries = %d, want 1", driver.TotalDeliveries)
	}
}

func TestRemoveDriverOrphansPackage(t *testing.T) {
	s, _ := newCourier(t)
	seedDriver(t, s, "D1")
	seedPackage(t, s, "P1")
	if err := s.AssignPackage("P1", "D1"); err != nil {
		t.Fatal(err)
	}

	if err := s.RemoveDriver("D1"); err != nil {
		t.Fatalf("remove driver: %v", err)
	}

	pkg, err := s.Package("P1")
	if err != nil {
		t.Fatalf("package should survive: %v", err)
	}
	if pkg.AssignedDriver != nil {
		t.Errorf("assigned_driver = %v, want null", *pkg.AssignedDriver)
	}
	// Status is deliberately NOT reset; the package shows up as an orphan.
	if pkg.Status != models.PackageAssigned {
		t.Errorf("status = %q, want assigned (never auto-reset)", pkg.Status)
	}

	orphans, err := s.OrphanedPackages()
	if err != nil {
		t.Fatalf("orphans: %v", err)
	}
	if len(orphans) != 1 || orphans[0].PackageID != "P1" {
		t.Errorf("orphans = %+v, want [P1]", orphans)
	}
}

func TestUpdatePackageStatusFreeText(t *testing.T) {
	s, _ := newCourier(t)
	seedPackage(t, s, "P1")

	// Arbitrary strings are accepted; only enumerated ones produce events.
	if err := s.UpdatePackageStatus("P1", "held_at_customs"); err != nil {
		t.Fatalf("free-text status rejected: %v", err)
	}
	events, _ := s.PackageEvents("P1")
	if len(events) != 1 {
		t.Errorf("free-text status should not append events, got %d", len(events))
	}

	if err := s.UpdatePackageStatus("P1", models.PackageInTransit); err != nil {
		t.Fatalf("in_transit: %v", err)
	}
	events, _ = s.PackageEvents("P1")
	if len(events) != 2 || events[1].EventType != models.EventInTransit {
		t.Errorf("expected in_transit event appended, got %+v", events)
	}
}

func TestSummaryAndReports(t *testing.T) {
	s, _ := newCourier(t)
	seedDriver(t, s, "D1")
	seedDriver(t, s, "D2")
	seedPackage(t, s, "P1")
	seedPackage(t, s, "P2")
	seedPackage(t, s, "P3")
	if err := s.AssignPackage("P1", "D1"); err != nil {
		t.Fatal(err)
	}
	if err := s.CompleteDelivery("P1", nil); err != nil {
		t.Fatal(err)
	}
	if err := s.AssignPackage("P2", "D2"); err != nil {
		t.Fatal(err)
	}

	sum, err := s.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Total != 3 || sum.Pending != 1 || sum.Assigned != 1 || sum.Delivered != 1 {
		t.Errorf("summary = %+v", sum)
	}

	perf, err := s.Performance()
	if err != nil {
		t.Fatalf("performance: %v", err)
	}
	if len(perf) != 2 || perf[0].DriverID != "D1" || perf[0].TotalDeliveries != 1 {
		t.Errorf("performance order wrong: %+v", perf)
	}
	if perf[1].CurrentLoad != 1 {
		t.Errorf("D2 current load = %d, want 1", perf[1].CurrentLoad)
	}

	avail, err := s.AvailableDrivers()
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(avail) != 1 || avail[0].DriverID != "D1" {
		t.Errorf("available drivers = %+v, want [D1]", avail)
	}

	pending, err := s.PendingPackages()
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].PackageID != "P3" {
		t.Errorf("pending = %+v, want [P3]", pending)
	}
}

func TestDuplicatePackageID(t *testing.T) {
	s, _ := newCourier(t)
	seedPackage(t, s, "P1")

	p := models.Package{
		PackageID:        "P1",
		SenderName:       "Acme Ltd",
		SenderAddress:    "1 Warehouse Rd",
		RecipientName:    "John Roe",
		RecipientAddress: "7 Oak Ave",
		Weight:           3.00,
	}
	err := s.AddPackage(&p)
	if !errors.Is(err, models.ErrPrimaryKeyViolation) {
		t.Fatalf("expected primary key violation, got %v", err)
	}
}

func TestRemovePackageCascades(t *testing.T) {
	s, db := newCourier(t)
	seedDriver(t, s, "D1")
	seedPackage(t, s, "P1")
	if err := s.AssignPackage("P1", "D1"); err != nil {
		t.Fatal(err)
	}
	if err := s.CompleteDelivery("P1", &models.DeliveryProof{Note: "ok"}); err != nil {
		t.Fatal(err)
	}

	if err := s.RemovePackage("P1"); err != nil {
		t.Fatalf("remove package: %v", err)
	}

	var events, proofs int64
	db.Model(&models.JobEvent{}).Where("job_id = ?", "P1").Count(&events)
	db.Model(&models.DeliveryProof{}).Where("job_id = ?", "P1").Count(&proofs)
	if events != 0 || proofs != 0 {
		t.Errorf("cascade left events=%d proofs=%d", events, proofs)
	}
}
