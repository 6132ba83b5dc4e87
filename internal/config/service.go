package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// DATAMIGRATE_DATABASE_PASSWORD.
const EnvPrefix = "DATAMIGRATE"

// ConfigService implements the Service interface
type ConfigService struct {
	logger Logger
}

// NewConfigService creates a new configuration service
func NewConfigService(logger Logger) *ConfigService {
	return &ConfigService{
		logger: logger,
	}
}

// Load loads the configuration from the specified path
func (s *ConfigService) Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	// Use test configuration file if ENV is set to test
	if os.Getenv("ENV") == "test" {
		v.SetConfigName("config_test")
	} else {
		v.SetConfigName("config")
	}
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if config.Database.Driver == DriverSQLite {
		if err := resolveDatabasePath(&config, path); err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
	}

	s.logger.LogInfo("Configuration loaded successfully", map[string]interface{}{
		"environment": config.Environment,
		"driver":      config.Database.Driver,
	})
	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", DriverPostgres)
	// Keys without a default are invisible to AutomaticEnv during Unmarshal.
	v.SetDefault("database.host", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.path", "")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.slowQuery", 200*time.Millisecond)
	v.SetDefault("database.pool.maxOpen", 10)
	v.SetDefault("database.pool.maxIdle", 2)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("migration.enabled", true)
	v.SetDefault("migration.autoMigrate", false)
}

// validate performs validation on the configuration
func validate(config *Config) error {
	if config.Server.Enabled && config.Server.Port <= 0 {
		return fmt.Errorf("invalid server port")
	}

	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if config.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if config.Database.Dbname == "" {
			return fmt.Errorf("database name is required")
		}
		if config.Database.Port <= 0 {
			return fmt.Errorf("invalid database port")
		}
	case DriverSQLite:
		if config.Database.Path == "" {
			return fmt.Errorf("database path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	return nil
}

// resolveDatabasePath makes a relative sqlite path absolute against the
// config directory. In-memory DSNs are left alone.
func resolveDatabasePath(config *Config, basePath string) error {
	p := config.Database.Path
	if filepath.IsAbs(p) || strings.HasPrefix(p, "file:") || p == ":memory:" {
		return nil
	}
	absPath, err := filepath.Abs(filepath.Join(basePath, p))
	if err != nil {
		return err
	}
	config.Database.Path = absPath
	return nil
}
