package entity

import "time"

// Reminder represents a pending or recurring reminder of an original post.
// DueAt is kept at minute resolution in UTC; RepeatSeconds of zero means
// one-shot.
type Reminder struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	Text          string    `gorm:"column:text;type:text"`
	DueAt         time.Time `gorm:"column:due_at;index"`
	RequesterID   uint      `gorm:"column:requester_id"`
	AuthorID      uint      `gorm:"column:author_id"`
	RepeatSeconds int       `gorm:"column:repeat_seconds"`
	RequestedAt   time.Time `gorm:"column:requested_at"`
}

// TableName specifies the table name for the Reminder entity.
func (Reminder) TableName() string {
	return "reminders"
}

// Mention links a reminder to an additional person to ping on dispatch.
type Mention struct {
	ID         uint `gorm:"primaryKey;autoIncrement"`
	ReminderID uint `gorm:"column:reminder_id;index"`
	PersonID   uint `gorm:"column:person_id"`
}

// TableName specifies the table name for the Mention entity.
func (Mention) TableName() string {
	return "reminder_mentions"
}
