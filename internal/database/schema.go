package database

import (
	"fmt"

	"gorm.io/gorm"
)

// InitializeTables creates the tables backing the given models when they do
// not exist yet. Production deployments get these tables from the schema
// migration tool; this covers local and embedded setups.
func InitializeTables(db *gorm.DB, logger Logger, models ...interface{}) error {
	for _, model := range models {
		if db.Migrator().HasTable(model) {
			continue
		}
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
		logger.LogInfo("Created table", map[string]interface{}{
			"model": fmt.Sprintf("%T", model),
		})
	}
	return nil
}
