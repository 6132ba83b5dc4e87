package database

import (
	"fmt"

	"github.com/consensuslabs/pavilion-network/datamigrate/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DatabaseService implements the Service interface
type DatabaseService struct {
	config *config.DatabaseConfig
	logger Logger
	db     *gorm.DB
}

var _ Service = (*DatabaseService)(nil)

// NewDatabaseService creates a new database service instance
func NewDatabaseService(config *config.DatabaseConfig, logger Logger) *DatabaseService {
	return &DatabaseService{
		config: config,
		logger: logger,
	}
}

// Connect establishes a connection to the database
func (s *DatabaseService) Connect() (*gorm.DB, error) {
	dialector, err := s.dialector()
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		// Lets the ledger detect unique-key violations portably.
		TranslateError: true,
		Logger:         NewGormLogger(s.logger, s.config.SlowQuery),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if s.config.Pool.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(s.config.Pool.MaxOpen)
	}
	if s.config.Pool.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(s.config.Pool.MaxIdle)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	return db, nil
}

func (s *DatabaseService) dialector() (gorm.Dialector, error) {
	switch s.config.Driver {
	case config.DriverPostgres, "":
		s.logger.LogInfo("Connecting to database", map[string]interface{}{
			"driver": config.DriverPostgres,
			"host":   s.config.Host,
			"dbname": s.config.Dbname,
			"port":   s.config.Port,
		})
		return postgres.Open(PostgresDSN(s.config)), nil
	case config.DriverSQLite:
		s.logger.LogInfo("Connecting to database", map[string]interface{}{
			"driver": config.DriverSQLite,
			"path":   s.config.Path,
		})
		return sqlite.Open(s.config.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", s.config.Driver)
	}
}

// PostgresDSN builds a keyword/value connection string from the config.
func PostgresDSN(c *config.DatabaseConfig) string {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host,
		c.User,
		c.Password,
		c.Dbname,
		c.Port,
		c.Sslmode,
	)
	if c.Timezone != "" {
		dsn += " TimeZone=" + c.Timezone
	}
	return dsn
}

// Close closes the database connection
func (s *DatabaseService) Close() error {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}
	return nil
}
