package entity

// Media is an attachment owned by a reminder. Exactly one of Path (a locally
// downloaded image) or ForeignURL (an external link card) is set.
type Media struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	ReminderID uint   `gorm:"column:reminder_id;index"`
	Path       string `gorm:"column:path"`
	Alt        string `gorm:"column:alt"`
	ForeignURL string `gorm:"column:foreign_url"`
	Title      string `gorm:"column:title"`
}

// TableName specifies the table name for the Media entity.
func (Media) TableName() string {
	return "media"
}

// IsForeign reports whether the attachment is an external link card rather
// than a locally stored image.
func (m *Media) IsForeign() bool {
	return m.ForeignURL != ""
}
