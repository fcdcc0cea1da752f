package sqlite

import (
	"context"
	"fmt"
	"remindbot/internal/domain/entity"
	"remindbot/internal/domain/repository"

	"gorm.io/gorm"
)

type spanRepository struct {
	db *gorm.DB
}

// NewSpanRepository creates a new instance of SpanRepository.
func NewSpanRepository(db *gorm.DB) repository.SpanRepository {
	return &spanRepository{db: db}
}

// Insert persists a rich-text span.
func (r *spanRepository) Insert(ctx context.Context, span *entity.Span) error {
	if err := r.db.WithContext(ctx).Create(span).Error; err != nil {
		return fmt.Errorf("🔴 ERROR: failed to insert span for reminder %d: %w", span.ReminderID, err)
	}
	return nil
}

// ByReminderID retrieves all spans owned by a reminder.
func (r *spanRepository) ByReminderID(ctx context.Context, reminderID uint) ([]*entity.Span, error) {
	var spans []*entity.Span
	if err := r.db.WithContext(ctx).Where("reminder_id = ?", reminderID).Find(&spans).Error; err != nil {
		return nil, fmt.Errorf("🔴 ERROR: failed to find spans for reminder %d: %w", reminderID, err)
	}
	return spans, nil
}
