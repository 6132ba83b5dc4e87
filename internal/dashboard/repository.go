package dashboard

import (
	"context"
)

// Repository defines the data access used by dashboard data migrations
type Repository interface {
	// FindSettingsPairs returns, ordered by dashboard card id, every dashboard
	// card whose own settings or whose card's settings contain one of the
	// given substrings.
	FindSettingsPairs(ctx context.Context, contains ...string) ([]SettingsPair, error)
	UpdateVisualizationSettings(ctx context.Context, dashboardCardID uint64, settings string) error
}
