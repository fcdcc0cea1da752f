package errors

import "errors"

// Custom application errors
var (
	ErrReminderNotFound  = errors.New("reminder not found")                   // No reminder matched the lookup
	ErrPersonNotFound    = errors.New("person not found")                     // No person row for the given id
	ErrNotAReply         = errors.New("mentioning post is not a reply")       // Reminder request must reply to the post to remember
	ErrDueInPast         = errors.New("reminder date is in the past")         // Parsed due time precedes the request time
	ErrInvalidDraft      = errors.New("reminder draft failed validation")     // Draft rejected before insert
	ErrDatabaseOperation = errors.New("database operation failed")            // Generic database error
	ErrBlueskyAPI        = errors.New("bluesky api request failed")           // Generic XRPC transport error
	ErrScheduling        = errors.New("scheduling failed")                    // Cron job registration error
	ErrMediaFetch        = errors.New("media could not be fetched or stored") // CDN download or local file error
)
