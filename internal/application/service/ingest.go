package service

import "context"

// IngestService turns Bluesky mention notifications into stored reminders.
type IngestService interface {
	// PollOnce runs a single notification poll cycle. Failures on individual
	// notifications are logged and skipped so one bad mention cannot stall
	// the rest of the queue.
	PollOnce(ctx context.Context) error
}
