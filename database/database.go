package database

import (
	"Drivebox/internal/config"
	"Drivebox/internal/models"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func SetupDatabase(configuration *config.Configuration) (*gorm.DB, error) {
	dialector, err := openDialector(configuration.Database)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if configuration.Database.Driver == "sqlite" {
		// sqlite serialises writers; a single connection avoids SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Item{}, &models.SharedGrant{})
}

func openDialector(databaseConfig config.DatabaseConfig) (gorm.Dialector, error) {
	if databaseConfig.Driver == "sqlite" {
		return sqlite.Open(databaseConfig.SqlitePath), nil
	}

	var envVariables = [...]string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "DB_TZ"}
	for _, envVariable := range envVariables {
		if os.Getenv(envVariable) != "" {
			continue
		}
		switch envVariable {
		case "DB_SSLMODE":
			if err := os.Setenv("DB_SSLMODE", "disable"); err != nil {
				return nil, err
			}
		case "DB_TZ":
			if err := os.Setenv("DB_TZ", "UTC"); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%s environment variable not set", envVariable)
		}
	}
	dsn := os.ExpandEnv("host=${DB_HOST} user=${DB_USER} password=${DB_PASSWORD} dbname=${DB_NAME} port=${DB_PORT} sslmode=${DB_SSLMODE} TimeZone=${DB_TZ}")
	return postgres.Open(dsn), nil
}

func CloseDatabase(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Could not get DB instance: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}
