// Package permissions reads permission groups.
package permissions

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/consensuslabs/pavilion-network/datamigrate/internal/errors"
	"gorm.io/gorm"
)

// AdminGroupName is the name of the built-in group holding superusers.
const AdminGroupName = "Administrators"

// Group is a permission group.
type Group struct {
	ID   uint64 `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`
}

// TableName specifies the table name for Group
func (Group) TableName() string {
	return "permissions_group"
}

// FindByName returns the group called name, or nil when there is none.
func FindByName(ctx context.Context, db *gorm.DB, name string) (*Group, error) {
	var group Group
	err := db.WithContext(ctx).Where(&Group{Name: name}).Take(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to look up group %s", name), err)
	}
	return &group, nil
}
