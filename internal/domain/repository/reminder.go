package repository

import (
	"context"
	"remindbot/internal/application/dto"
	"remindbot/internal/domain/entity"
	"time"
)

// ReminderRepository defines the interface for reminder data operations.
// Every mutating operation is atomic with respect to the others.
type ReminderRepository interface {
	// Insert persists a reminder draft, lazily creating all referenced people
	// and writing the mention links. When the draft names nobody besides the
	// requester, the requester is recorded as the sole mention target.
	// Returns the id of the created reminder.
	Insert(ctx context.Context, draft *dto.ReminderDraft) (uint, error)
	// FindByID retrieves a reminder by its ID.
	FindByID(ctx context.Context, id uint) (*entity.Reminder, error)
	// FindDueAt retrieves all reminders whose due time equals the given
	// minute-resolution timestamp. The match is exact, not a range scan, so a
	// minute with no poll is a minute with no dispatch.
	FindDueAt(ctx context.Context, minute time.Time) ([]*entity.Reminder, error)
	// FindAll retrieves every stored reminder.
	FindAll(ctx context.Context) ([]*entity.Reminder, error)
	// Reschedule advances the reminder's due time by its repeat interval.
	Reschedule(ctx context.Context, reminder *entity.Reminder) error
	// DeleteByID removes the reminder with all owned media, span and mention
	// rows in one transaction. It returns the file names of locally stored
	// media so the caller can remove them from disk.
	DeleteByID(ctx context.Context, id uint) ([]string, error)
	// DeleteByRequesterAndRequestTime finds the reminder created by the given
	// requester at the given request time and cascade-deletes it. Returns
	// ErrReminderNotFound when no reminder matches.
	DeleteByRequesterAndRequestTime(ctx context.Context, requesterID uint, requestedAt time.Time) ([]string, error)
	// MentionHandles returns the handles of all people linked as mention
	// targets of the reminder.
	MentionHandles(ctx context.Context, reminderID uint) ([]string, error)
	// Count returns the number of stored reminders.
	Count(ctx context.Context) (int64, error)
}
