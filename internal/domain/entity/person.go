package entity

// Person represents a participant handle referenced by at least one reminder.
// Rows are created lazily on first reference and never deleted.
type Person struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	Handle string `gorm:"column:handle;uniqueIndex"`
}

// TableName specifies the table name for the Person entity.
func (Person) TableName() string {
	return "people"
}
