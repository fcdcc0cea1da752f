package sqlite

import (
	"context"
	"errors"
	"fmt"
	"remindbot/internal/application/dto"
	"remindbot/internal/domain/entity"
	"remindbot/internal/domain/repository"
	appErrors "remindbot/internal/pkg/errors"
	"time"

	"gorm.io/gorm"
)

type reminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new instance of ReminderRepository.
func NewReminderRepository(db *gorm.DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

// Insert persists a reminder draft in one transaction, lazily creating the
// author, requester and every mentioned person. A draft without explicit
// mentions records the requester as the sole mention target.
func (r *reminderRepository) Insert(ctx context.Context, draft *dto.ReminderDraft) (uint, error) {
	var reminderID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		authorID, err := findOrCreatePerson(tx, draft.AuthorHandle)
		if err != nil {
			return err
		}
		requesterID, err := findOrCreatePerson(tx, draft.RequesterHandle)
		if err != nil {
			return err
		}

		reminder := entity.Reminder{
			Text:          draft.Text,
			DueAt:         draft.DueAt.UTC().Truncate(time.Minute),
			RequesterID:   requesterID,
			AuthorID:      authorID,
			RepeatSeconds: draft.RepeatSeconds,
			RequestedAt:   draft.RequestedAt.UTC(),
		}
		if err := tx.Create(&reminder).Error; err != nil {
			return fmt.Errorf("🔴 ERROR: failed to create reminder for %s: %w", draft.RequesterHandle, err)
		}
		reminderID = reminder.ID

		targets := draft.MentionHandles
		if len(targets) == 0 {
			targets = []string{draft.RequesterHandle}
		}
		for _, handle := range targets {
			personID, err := findOrCreatePerson(tx, handle)
			if err != nil {
				return err
			}
			mention := entity.Mention{ReminderID: reminder.ID, PersonID: personID}
			if err := tx.Create(&mention).Error; err != nil {
				return fmt.Errorf("🔴 ERROR: failed to link mention %s to reminder %d: %w", handle, reminder.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reminderID, nil
}

// FindByID retrieves a reminder by its ID.
func (r *reminderRepository) FindByID(ctx context.Context, id uint) (*entity.Reminder, error) {
	var reminder entity.Reminder
	if err := r.db.WithContext(ctx).First(&reminder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrReminderNotFound
		}
		return nil, fmt.Errorf("🔴 ERROR: failed to find reminder %d: %w", id, err)
	}
	return &reminder, nil
}

// FindDueAt retrieves all reminders whose due time equals the given minute.
// The comparison is strict equality at minute resolution; a minute the
// dispatcher never polled stays unserved.
func (r *reminderRepository) FindDueAt(ctx context.Context, minute time.Time) ([]*entity.Reminder, error) {
	var reminders []*entity.Reminder
	minute = minute.UTC().Truncate(time.Minute)
	if err := r.db.WithContext(ctx).Where("due_at = ?", minute).Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("🔴 ERROR: failed to find reminders due at %v: %w", minute, err)
	}
	return reminders, nil
}

// FindAll retrieves every stored reminder.
func (r *reminderRepository) FindAll(ctx context.Context) ([]*entity.Reminder, error) {
	var reminders []*entity.Reminder
	if err := r.db.WithContext(ctx).Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("🔴 ERROR: failed to find all reminders: %w", err)
	}
	return reminders, nil
}

// Reschedule advances the reminder's due time by its repeat interval.
func (r *reminderRepository) Reschedule(ctx context.Context, reminder *entity.Reminder) error {
	reminder.DueAt = reminder.DueAt.Add(time.Duration(reminder.RepeatSeconds) * time.Second)
	if err := r.db.WithContext(ctx).Save(reminder).Error; err != nil {
		return fmt.Errorf("🔴 ERROR: failed to reschedule reminder %d: %w", reminder.ID, err)
	}
	return nil
}

// DeleteByID removes the reminder row with all owned media, span and mention
// rows in one transaction. It returns the file names of locally stored media
// so the caller can unlink them after the commit.
func (r *reminderRepository) DeleteByID(ctx context.Context, id uint) ([]string, error) {
	var localPaths []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attachments []entity.Media
		if err := tx.Where("reminder_id = ?", id).Find(&attachments).Error; err != nil {
			return fmt.Errorf("🔴 ERROR: failed to load media for reminder %d: %w", id, err)
		}
		for _, media := range attachments {
			if !media.IsForeign() {
				localPaths = append(localPaths, media.Path)
			}
		}

		if err := tx.Delete(&entity.Reminder{}, id).Error; err != nil {
			return fmt.Errorf("🔴 ERROR: failed to delete reminder %d: %w", id, err)
		}
		if err := tx.Where("reminder_id = ?", id).Delete(&entity.Media{}).Error; err != nil {
			return fmt.Errorf("🔴 ERROR: failed to delete media for reminder %d: %w", id, err)
		}
		if err := tx.Where("reminder_id = ?", id).Delete(&entity.Span{}).Error; err != nil {
			return fmt.Errorf("🔴 ERROR: failed to delete spans for reminder %d: %w", id, err)
		}
		if err := tx.Where("reminder_id = ?", id).Delete(&entity.Mention{}).Error; err != nil {
			return fmt.Errorf("🔴 ERROR: failed to delete mentions for reminder %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return localPaths, nil
}

// DeleteByRequesterAndRequestTime finds the reminder created by the given
// requester at the given request time and cascade-deletes it.
func (r *reminderRepository) DeleteByRequesterAndRequestTime(ctx context.Context, requesterID uint, requestedAt time.Time) ([]string, error) {
	var reminder entity.Reminder
	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND requested_at = ?", requesterID, requestedAt.UTC()).
		First(&reminder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrReminderNotFound
		}
		return nil, fmt.Errorf("🔴 ERROR: failed to find reminder by requester %d: %w", requesterID, err)
	}
	return r.DeleteByID(ctx, reminder.ID)
}

// MentionHandles returns the handles of all mention targets of the reminder.
func (r *reminderRepository) MentionHandles(ctx context.Context, reminderID uint) ([]string, error) {
	var handles []string
	err := r.db.WithContext(ctx).
		Model(&entity.Mention{}).
		Select("people.handle").
		Joins("JOIN people ON people.id = reminder_mentions.person_id").
		Where("reminder_mentions.reminder_id = ?", reminderID).
		Scan(&handles).Error
	if err != nil {
		return nil, fmt.Errorf("🔴 ERROR: failed to resolve mentions for reminder %d: %w", reminderID, err)
	}
	return handles, nil
}

// Count returns the number of stored reminders.
func (r *reminderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Reminder{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("🔴 ERROR: failed to count reminders: %w", err)
	}
	return count, nil
}
