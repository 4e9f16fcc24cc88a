package database

import (
	"fmt"

	"gorm.io/gorm"

	"propertyscout/internal/models"
)

// MigrateSchema creates or updates the comparables and analyses tables.
func MigrateSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.ComparableRecord{}, &models.AnalysisRecord{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (d *Database) RunMigrations() error {
	return MigrateSchema(d.db)
}
