package settings

// Setting is one row of the application settings table.
type Setting struct {
	Key   string `gorm:"column:key;primaryKey;size:254"`
	Value string `gorm:"column:value;type:text;not null"`
}

// TableName specifies the table name for settings
func (Setting) TableName() string {
	return "setting"
}
