package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	apperrors "github.com/consensuslabs/pavilion-network/datamigrate/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on the setting table
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a new settings store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// WithTx returns a store bound to tx. Writes through it commit or roll back
// with the transaction.
func (s *GormStore) WithTx(tx *gorm.DB) *GormStore {
	return &GormStore{db: tx}
}

// Get returns the raw value stored under key and whether it was set.
func (s *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, apperrors.NewValidationError("key", "setting key must not be empty")
	}

	var setting Setting
	err := s.db.WithContext(ctx).Where(&Setting{Key: key}).Take(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperrors.NewStorageError(fmt.Sprintf("failed to read setting %s", key), err)
	}
	return setting.Value, true, nil
}

// GetInt returns the value under key parsed as an integer.
func (s *GormStore) GetInt(ctx context.Context, key string) (int, bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return 0, ok, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, apperrors.NewStorageError(fmt.Sprintf("setting %s is not an integer", key), err)
	}
	return n, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *GormStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return apperrors.NewValidationError("key", "setting key must not be empty")
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&Setting{Key: key, Value: value}).Error
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write setting %s", key), err)
	}
	return nil
}

// Delete removes key. Deleting an unset key is not an error.
func (s *GormStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return apperrors.NewValidationError("key", "setting key must not be empty")
	}

	if err := s.db.WithContext(ctx).Where(&Setting{Key: key}).Delete(&Setting{}).Error; err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to delete setting %s", key), err)
	}
	return nil
}
