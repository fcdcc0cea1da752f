package repository

import "context"

// PersonRepository defines the interface for person data operations.
type PersonRepository interface {
	// FindOrCreate returns the id of the person with the given handle,
	// inserting a new row on first reference.
	FindOrCreate(ctx context.Context, handle string) (uint, error)
	// HandleByID returns the handle of the person with the given id.
	HandleByID(ctx context.Context, id uint) (string, error)
	// Count returns the number of known people.
	Count(ctx context.Context) (int64, error)
}
