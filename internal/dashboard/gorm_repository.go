package dashboard

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/consensuslabs/pavilion-network/datamigrate/internal/errors"
	"gorm.io/gorm"
)

// GormRepository implements Repository on the report tables
type GormRepository struct {
	db *gorm.DB
}

var _ Repository = (*GormRepository)(nil)

// NewRepository creates a new dashboard repository
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *GormRepository) WithTx(tx *gorm.DB) *GormRepository {
	return &GormRepository{db: tx}
}

func (r *GormRepository) FindSettingsPairs(ctx context.Context, contains ...string) ([]SettingsPair, error) {
	if len(contains) == 0 {
		return nil, apperrors.NewValidationError("contains", "at least one pattern is required")
	}

	var (
		conds []string
		args  []interface{}
	)
	for _, s := range contains {
		pattern := "%" + escapeLike(s) + "%"
		conds = append(conds,
			`c.visualization_settings LIKE ? ESCAPE '\'`,
			`dc.visualization_settings LIKE ? ESCAPE '\'`)
		args = append(args, pattern, pattern)
	}

	var pairs []SettingsPair
	err := r.db.WithContext(ctx).
		Table(DashboardCard{}.TableName()+" AS dc").
		Select("dc.id AS dashcard_id, c.visualization_settings AS card_settings, dc.visualization_settings AS dashcard_settings").
		Joins("JOIN "+Card{}.TableName()+" AS c ON c.id = dc.card_id").
		Where(strings.Join(conds, " OR "), args...).
		Order("dc.id").
		Scan(&pairs).Error
	if err != nil {
		return nil, apperrors.NewStorageError("failed to select dashboard cards", err)
	}
	return pairs, nil
}

func (r *GormRepository) UpdateVisualizationSettings(ctx context.Context, dashboardCardID uint64, settings string) error {
	result := r.db.WithContext(ctx).
		Model(&DashboardCard{ID: dashboardCardID}).
		UpdateColumn("visualization_settings", settings)
	if result.Error != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to update dashboard card %d", dashboardCardID), result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewStorageError(fmt.Sprintf("dashboard card %d not found", dashboardCardID), nil)
	}
	return nil
}

// escapeLike escapes LIKE wildcards so s matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
