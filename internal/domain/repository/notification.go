package repository

import "context"

// NotificationRepository defines the interface for the seen-notification
// dedup set.
type NotificationRepository interface {
	// MarkSeen records the source id and reports whether this call observed
	// it for the first time. Check and insert happen as one operation, so the
	// first result is true exactly once per id.
	MarkSeen(ctx context.Context, sourceID string) (bool, error)
	// Count returns the number of recorded notifications.
	Count(ctx context.Context) (int64, error)
}
