package database

import (
	"fmt"
	"log"

	"github.com/keramy/formulapmv2-sub001/internal/config"
	"github.com/keramy/formulapmv2-sub001/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	DB = db

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Status enums must exist before AutoMigrate touches the columns that
	// reference them. Skipped automatically on non-postgres dialects.
	if db.Dialector.Name() == "postgres" {
		if err := models.EnsureStatusEnums(db); err != nil {
			log.Fatal("failed to create status enums:", err)
		}
	}

	err := db.AutoMigrate(
		&models.UserProfile{},
		&models.Client{},
		&models.Supplier{},
		&models.Project{},
		&models.ProjectAssignment{},
		&models.Task{},
		&models.ScopeItem{},
		&models.ShopDrawing{},
		&models.MaterialSpec{},
		&models.Report{},
		&models.ReportLine{},
		&models.StatusChange{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}
	log.Println("Database migrated successfully!")
	return nil
}
