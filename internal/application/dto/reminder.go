package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ReminderDraft carries a parsed reminder instruction from the ingestor to the
// store. Handles are raw (no leading '@').
type ReminderDraft struct {
	Text            string
	AuthorHandle    string
	RequesterHandle string
	RequestedAt     time.Time
	DueAt           time.Time
	RepeatSeconds   int
	MentionHandles  []string
}

// Validate checks the structural invariants of a draft before it is persisted.
func (d ReminderDraft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.AuthorHandle, validation.Required),
		validation.Field(&d.RequesterHandle, validation.Required),
		validation.Field(&d.RequestedAt, validation.Required),
		validation.Field(&d.DueAt, validation.Required, validation.By(d.dueNotBeforeRequest)),
		validation.Field(&d.RepeatSeconds, validation.Min(0)),
	)
}

func (d ReminderDraft) dueNotBeforeRequest(value interface{}) error {
	due, _ := value.(time.Time)
	if due.Before(d.RequestedAt) {
		return validation.NewError("validation_due_in_past", "due time precedes the request time")
	}
	return nil
}
