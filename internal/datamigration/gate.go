package datamigration

import (
	"context"
	"strconv"

	"github.com/consensuslabs/pavilion-network/datamigrate/internal/settings"
	"gorm.io/gorm"
)

// GateSettingKey holds the index of the last gated migration applied to this
// dataset. It travels with the data, unlike the ledger.
const GateSettingKey = "data-migration-index"

// Gate decides whether a gated migration still has to run. Methods taking a
// tx read and write through it, so an advance commits with the unit.
type Gate struct {
	db *gorm.DB
}

// NewGate creates a gate over db.
func NewGate(db *gorm.DB) *Gate {
	return &Gate{db: db}
}

func (g *Gate) store(tx *gorm.DB) settings.Store {
	if tx == nil {
		tx = g.db
	}
	return settings.NewGormStore(tx)
}

// ShouldRun reports whether the stored index is unset or below requiredIndex.
func (g *Gate) ShouldRun(ctx context.Context, tx *gorm.DB, requiredIndex int) (bool, error) {
	current, ok, err := g.store(tx).GetInt(ctx, GateSettingKey)
	if err != nil {
		return false, err
	}
	return !ok || current < requiredIndex, nil
}

// AdvanceTo stores requiredIndex unconditionally.
func (g *Gate) AdvanceTo(ctx context.Context, tx *gorm.DB, requiredIndex int) error {
	return g.store(tx).Set(ctx, GateSettingKey, strconv.Itoa(requiredIndex))
}

// RunWithIndex runs body only when ShouldRun allows it and advances the index
// after body succeeds. A failing body leaves the index untouched. ran reports
// whether body was invoked.
func (g *Gate) RunWithIndex(ctx context.Context, tx *gorm.DB, requiredIndex int, body func() error) (ran bool, err error) {
	should, err := g.ShouldRun(ctx, tx, requiredIndex)
	if err != nil || !should {
		return false, err
	}
	if err := body(); err != nil {
		return true, err
	}
	return true, g.AdvanceTo(ctx, tx, requiredIndex)
}

// Current returns the stored index and whether it is set.
func (g *Gate) Current(ctx context.Context) (int, bool, error) {
	return g.store(nil).GetInt(ctx, GateSettingKey)
}
