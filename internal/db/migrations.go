package db

import (
	"fmt"

	"gorm.io/gorm"

	"taller-service/internal/model"
)

var migrationModels = []interface{}{
	&model.Vehicle{},
	&model.SyncRun{},
}

// Statements run after AutoMigrate. They must stay valid on both postgres
// and sqlite.
var migrationStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_vehicle_snapshots_patente_lower ON vehicle_snapshots (lower(patente));`,
	`CREATE INDEX IF NOT EXISTS idx_vehicle_snapshots_area_lower ON vehicle_snapshots (lower(area_taller));`,
}

func runMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(migrationModels...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
