package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"courier_service/internal/models"
)

var (
	// DB is the globally accessible database handle
	DB *gorm.DB
)

// InitDB initializes the database connection using environment variables.
// Postgres is the default; set DB_DRIVER=sqlite for a local file database
// (no server needed, same schema and cascade behavior).
func InitDB() {
	// 1) Load .env (if present)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	var (
		db  *gorm.DB
		err error
	)

	if getEnv("DB_DRIVER", "postgres") == "sqlite" {
		// sqlite leaves foreign keys off unless the pragma is set; without it
		// the ForeignKeyViolation class could never surface in this mode.
		dsn := getEnv("DB_PATH", "courier.db")
		if strings.Contains(dsn, "?") {
			dsn += "&_foreign_keys=1"
		} else {
			dsn += "?_foreign_keys=1"
		}
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	} else {
		host := getEnv("DB_HOST", "localhost")
		port := getEnv("DB_PORT", "5432")
		user := getEnv("DB_USER", "postgres")
		password := getEnv("DB_PASSWORD", "password")
		dbname := getEnv("DB_NAME", "courier")
		sslmode := getEnv("DB_SSLMODE", "disable")
		timezone := getEnv("DB_TIMEZONE", "UTC")

		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			host, user, password, dbname, port, sslmode, timezone,
		)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	}
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("auto-migration failed: %v", err)
	}

	// Assign to global
	DB = db
}

// Migrate applies the courier schema. Split out so tests can run it against
// their own in-memory handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Driver{},
		&models.Package{},
		&models.JobEvent{},
		&models.DeliveryProof{},
	)
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

// GetDB returns the initialized DB handle
func GetDB() *gorm.DB {
	return DB
}
