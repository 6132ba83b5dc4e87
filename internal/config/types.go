package config

import (
	"time"

	"github.com/consensuslabs/pavilion-network/datamigrate/internal/logger"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents the application configuration
type Config struct {
	Environment string          `mapstructure:"environment" yaml:"environment"`
	Server      ServerConfig    `mapstructure:"server" yaml:"server"`
	Database    DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Logging     logger.Config   `mapstructure:"logging" yaml:"logging"`
	Migration   MigrationConfig `mapstructure:"migration" yaml:"migration"`
}

// ServerConfig represents server configuration settings
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// DatabaseConfig represents database configuration settings
type DatabaseConfig struct {
	Driver    string        `mapstructure:"driver"`
	Host      string        `mapstructure:"host"`
	User      string        `mapstructure:"user"`
	Password  string        `mapstructure:"password"`
	Dbname    string        `mapstructure:"dbname"`
	Port      int           `mapstructure:"port"`
	Sslmode   string        `mapstructure:"sslmode"`
	Timezone  string        `mapstructure:"timezone"`
	Path      string        `mapstructure:"path"`
	SlowQuery time.Duration `mapstructure:"slowQuery"`
	Pool      struct {
		MaxOpen int `mapstructure:"maxOpen"`
		MaxIdle int `mapstructure:"maxIdle"`
	} `mapstructure:"pool"`
}

// MigrationConfig controls the startup data migration pass
type MigrationConfig struct {
	// Enabled runs the data migration pass at startup.
	Enabled bool `mapstructure:"enabled"`
	// AutoMigrate creates the engine's own tables (ledger, settings) when the
	// schema migration tool has not done so.
	AutoMigrate bool `mapstructure:"autoMigrate"`
}
