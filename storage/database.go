package storage

import (
	"log"
	"os"
	"strings"

	"github.com/theophane330/HABIPRO-NEW/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		dialector = postgres.Open(dsn)
	case dsn != "":
		// Assume a postgres DSN even without the scheme prefix
		dialector = postgres.Open(dsn)
	default:
		// Local development fallback
		dialector = sqlite.Open("habipro.db")
		log.Println("⚠️  DB_CONNECTION_STRING not set, using habipro.db (development mode)")
	}

	db, dbError := gorm.Open(dialector, &gorm.Config{})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Tenant{},
		&models.Lease{},
		&models.Contract{},
		&models.Payment{},
		&models.MaintenanceRequest{},
		&models.VisitRequest{},
		&models.Prestataire{},
		&models.Notification{},
		&models.AuditLog{},
	)
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}
