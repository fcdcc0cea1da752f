package entity

import "remindbot/internal/domain/constant"

// Span is a rich-text annotation over a byte range [ByteStart, ByteEnd) of the
// owning reminder's text. Target holds a DID for mentions, the tag string for
// tags, or a URI for links.
type Span struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	ReminderID uint   `gorm:"column:reminder_id;index"`
	ByteStart  int    `gorm:"column:byte_start"`
	ByteEnd    int    `gorm:"column:byte_end"`
	Kind       string `gorm:"column:kind"`
	Target     string `gorm:"column:target"`
}

// TableName specifies the table name for the Span entity.
func (Span) TableName() string {
	return "spans"
}

// GetKind returns the span kind as a SpanKind type.
func (s *Span) GetKind() constant.SpanKind {
	return constant.SpanKind(s.Kind)
}
