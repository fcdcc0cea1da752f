package repository

import (
	"context"
	"remindbot/internal/domain/entity"
)

// MediaRepository defines the interface for media attachment operations.
type MediaRepository interface {
	// Insert persists a media attachment.
	Insert(ctx context.Context, media *entity.Media) error
	// ByReminderID retrieves all attachments owned by a reminder.
	ByReminderID(ctx context.Context, reminderID uint) ([]*entity.Media, error)
	// Count returns the number of stored attachments.
	Count(ctx context.Context) (int64, error)
}
