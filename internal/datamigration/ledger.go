package datamigration

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/consensuslabs/pavilion-network/datamigrate/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MigrationRecord is one row of the completion ledger. The name is the
// primary key, so a second insert of the same name violates the constraint.
type MigrationRecord struct {
	ID        string    `gorm:"column:id;primaryKey;size:254" json:"id"`
	Timestamp time.Time `gorm:"column:timestamp;not null" json:"timestamp"`
}

// TableName specifies the table name for MigrationRecord
func (MigrationRecord) TableName() string {
	return "data_migrations"
}

// Ledger records which data migrations have completed.
type Ledger struct {
	db  *gorm.DB
	now func() time.Time
}

// NewLedger creates a ledger over db.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// LoadCompletedNames returns the names of every recorded migration.
func (l *Ledger) LoadCompletedNames(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := l.db.WithContext(ctx).Model(&MigrationRecord{}).Pluck("id", &ids).Error; err != nil {
		return nil, apperrors.NewStorageError("failed to load completed data migrations", err)
	}

	completed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		completed[id] = struct{}{}
	}
	return completed, nil
}

// MarkCompleted records name as completed inside tx. The record becomes
// visible only when tx commits. A name that is already recorded yields a
// DuplicateMigrationError.
func (l *Ledger) MarkCompleted(ctx context.Context, tx *gorm.DB, name string) error {
	if tx == nil {
		tx = l.db
	}
	tx = tx.WithContext(ctx)

	var count int64
	if err := tx.Model(&MigrationRecord{}).Where(&MigrationRecord{ID: name}).Count(&count).Error; err != nil {
		return apperrors.NewStorageError("failed to check data migration ledger", err)
	}
	if count > 0 {
		return apperrors.NewDuplicateMigrationError(name)
	}

	record := MigrationRecord{ID: name, Timestamp: l.now().UTC()}
	if err := tx.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewDuplicateMigrationError(name)
		}
		return apperrors.NewStorageError("failed to record data migration", err)
	}
	return nil
}

// List returns every ledger row, oldest first.
func (l *Ledger) List(ctx context.Context) ([]MigrationRecord, error) {
	var records []MigrationRecord
	if err := l.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Find(&records).Error; err != nil {
		return nil, apperrors.NewStorageError("failed to list data migrations", err)
	}
	return records, nil
}
