package service

import (
	"context"
	"time"
)

// DispatchService posts due reminders back to Bluesky.
type DispatchService interface {
	// DispatchDue sends every reminder whose due time equals the given
	// minute, then deletes one-shots and reschedules recurring ones. A send
	// failure is logged and the remaining reminders still go out.
	DispatchDue(ctx context.Context, minute time.Time) error
}
