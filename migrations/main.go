// Package migrations holds the application's data migrations. The order of
// Units is the order they run in; new migrations are appended at the end.
package migrations

import (
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/dashboard"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/datamigration"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/logger"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/permissions"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/settings"
)

// Units returns every data migration in registration order.
func Units(log logger.Logger) []datamigration.Unit {
	return []datamigration.Unit{
		NewClickThroughMigration(log),
		NewRemoveAdminFromGroupMappingMigration(log),
	}
}

// NewRegistry builds and seals the registry of data migrations.
func NewRegistry(log logger.Logger) (*datamigration.Registry, error) {
	return datamigration.BuildRegistry(Units(log)...)
}

// EngineModels are the tables the migration engine itself needs.
func EngineModels() []interface{} {
	return []interface{}{
		&datamigration.MigrationRecord{},
		&settings.Setting{},
	}
}

// DomainModels are the tables data migrations read and rewrite. They are
// owned by the application schema and only auto-migrated for local use.
func DomainModels() []interface{} {
	return []interface{}{
		&permissions.Group{},
		&dashboard.Card{},
		&dashboard.DashboardCard{},
	}
}
