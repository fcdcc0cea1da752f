package entity

// SeenNotification marks a source notification CID as processed. Rows are
// written the first time a CID is observed and never deleted.
type SeenNotification struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	SourceID string `gorm:"column:source_id;uniqueIndex"`
}

// TableName specifies the table name for the SeenNotification entity.
func (SeenNotification) TableName() string {
	return "seen_notifications"
}
