package sqlite

import (
	"context"
	"errors"
	"fmt"
	"remindbot/internal/domain/entity"
	"remindbot/internal/domain/repository"

	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

// MarkSeen records the source id and reports whether this call observed it
// for the first time. Check and insert run inside one transaction so a given
// id yields true exactly once.
func (r *notificationRepository) MarkSeen(ctx context.Context, sourceID string) (bool, error) {
	var first bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seen entity.SeenNotification
		err := tx.Where("source_id = ?", sourceID).First(&seen).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("🔴 ERROR: failed to look up notification %s: %w", sourceID, err)
		}
		if err := tx.Create(&entity.SeenNotification{SourceID: sourceID}).Error; err != nil {
			return fmt.Errorf("🔴 ERROR: failed to mark notification %s as seen: %w", sourceID, err)
		}
		first = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return first, nil
}

// Count returns the number of recorded notifications.
func (r *notificationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.SeenNotification{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("🔴 ERROR: failed to count notifications: %w", err)
	}
	return count, nil
}
