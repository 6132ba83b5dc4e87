// Package app wires configuration, logging, the database and the data
// migration runner for the binaries.
package app

import (
	"context"
	"fmt"

	"github.com/consensuslabs/pavilion-network/datamigrate/internal/config"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/database"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/datamigration"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/logger"
	"github.com/consensuslabs/pavilion-network/datamigrate/migrations"
	"gorm.io/gorm"
)

// Components holds the wired dependencies
type Components struct {
	Config   *config.Config
	Logger   logger.Logger
	Database *database.DatabaseService
	DB       *gorm.DB
	Runner   *datamigration.Runner
}

// Bootstrap loads configuration from configPath and builds every component.
// The caller owns the returned Components and must Close them.
func Bootstrap(configPath string) (*Components, error) {
	bootLogger, err := logger.NewLogger(&logger.Config{Level: logger.InfoLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.NewConfigService(bootLogger).Load(configPath)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// New builds every component from an already loaded configuration.
func New(cfg *config.Config) (*Components, error) {
	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log = log.WithFields(map[string]interface{}{"environment": cfg.Environment})

	dbService := database.NewDatabaseService(&cfg.Database, log)
	db, err := dbService.Connect()
	if err != nil {
		return nil, err
	}

	c := &Components{
		Config:   cfg,
		Logger:   log,
		Database: dbService,
		DB:       db,
	}

	if cfg.Migration.AutoMigrate {
		models := migrations.EngineModels()
		// An embedded database has no separate schema tool.
		if cfg.Database.Driver == config.DriverSQLite {
			models = append(models, migrations.DomainModels()...)
		}
		if err := database.InitializeTables(db, log, models...); err != nil {
			c.Close()
			return nil, err
		}
	}

	registry, err := migrations.NewRegistry(log)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("invalid data migration registry: %w", err)
	}
	c.Runner, err = datamigration.NewRunner(db, registry, log)
	if err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// RunMigrations executes the startup data migration pass when enabled.
func (c *Components) RunMigrations(ctx context.Context) error {
	if !c.Config.Migration.Enabled {
		c.Logger.LogInfo("Data migrations disabled", nil)
		return nil
	}
	return c.Runner.RunAll(ctx)
}

// Close releases the database connection
func (c *Components) Close() error {
	return c.Database.Close()
}
