package sqlite

import (
	"context"
	"fmt"
	"remindbot/internal/domain/entity"
	"remindbot/internal/domain/repository"

	"gorm.io/gorm"
)

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new instance of MediaRepository.
func NewMediaRepository(db *gorm.DB) repository.MediaRepository {
	return &mediaRepository{db: db}
}

// Insert persists a media attachment.
func (r *mediaRepository) Insert(ctx context.Context, media *entity.Media) error {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return fmt.Errorf("🔴 ERROR: failed to insert media for reminder %d: %w", media.ReminderID, err)
	}
	return nil
}

// ByReminderID retrieves all attachments owned by a reminder.
func (r *mediaRepository) ByReminderID(ctx context.Context, reminderID uint) ([]*entity.Media, error) {
	var attachments []*entity.Media
	if err := r.db.WithContext(ctx).Where("reminder_id = ?", reminderID).Find(&attachments).Error; err != nil {
		return nil, fmt.Errorf("🔴 ERROR: failed to find media for reminder %d: %w", reminderID, err)
	}
	return attachments, nil
}

// Count returns the number of stored attachments.
func (r *mediaRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Media{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("🔴 ERROR: failed to count media: %w", err)
	}
	return count, nil
}
