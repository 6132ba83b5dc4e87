package dashboard

import "time"

// Card is a saved question. Its visualization settings are the defaults that
// every dashboard card showing it inherits.
type Card struct {
	ID                    uint64    `gorm:"primaryKey" json:"id"`
	Name                  string    `gorm:"size:254;not null" json:"name"`
	VisualizationSettings string    `gorm:"column:visualization_settings;type:text;not null" json:"visualization_settings"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// TableName specifies the table name for Card
func (Card) TableName() string {
	return "report_card"
}

// DashboardCard places a card on a dashboard. Its visualization settings
// override the card's. Text cards have no CardID.
type DashboardCard struct {
	ID                    uint64    `gorm:"primaryKey" json:"id"`
	DashboardID           uint64    `gorm:"column:dashboard_id;not null;index" json:"dashboard_id"`
	CardID                *uint64   `gorm:"column:card_id;index" json:"card_id,omitempty"`
	VisualizationSettings string    `gorm:"column:visualization_settings;type:text;not null" json:"visualization_settings"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// TableName specifies the table name for DashboardCard
func (DashboardCard) TableName() string {
	return "report_dashboardcard"
}

// SettingsPair is a dashboard card together with the settings of the card it
// shows.
type SettingsPair struct {
	DashboardCardID       uint64 `gorm:"column:dashcard_id"`
	CardSettings          string `gorm:"column:card_settings"`
	DashboardCardSettings string `gorm:"column:dashcard_settings"`
}
