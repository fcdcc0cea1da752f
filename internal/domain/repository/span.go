package repository

import (
	"context"
	"remindbot/internal/domain/entity"
)

// SpanRepository defines the interface for rich-text span operations.
type SpanRepository interface {
	// Insert persists a rich-text span.
	Insert(ctx context.Context, span *entity.Span) error
	// ByReminderID retrieves all spans owned by a reminder.
	ByReminderID(ctx context.Context, reminderID uint) ([]*entity.Span, error)
}
