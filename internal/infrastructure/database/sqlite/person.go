package sqlite

import (
	"context"
	"errors"
	"fmt"
	"remindbot/internal/domain/entity"
	"remindbot/internal/domain/repository"
	appErrors "remindbot/internal/pkg/errors"

	"gorm.io/gorm"
)

type personRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a new instance of PersonRepository.
func NewPersonRepository(db *gorm.DB) repository.PersonRepository {
	return &personRepository{db: db}
}

// FindOrCreate returns the id of the person with the given handle, inserting
// a new row on first reference. Lookup-then-insert is not atomic against
// concurrent callers; the single-process access pattern makes that acceptable.
func (r *personRepository) FindOrCreate(ctx context.Context, handle string) (uint, error) {
	return findOrCreatePerson(r.db.WithContext(ctx), handle)
}

func findOrCreatePerson(tx *gorm.DB, handle string) (uint, error) {
	var person entity.Person
	err := tx.Where("handle = ?", handle).First(&person).Error
	if err == nil {
		return person.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("🔴 ERROR: failed to look up person %s: %w", handle, err)
	}
	person = entity.Person{Handle: handle}
	if err := tx.Create(&person).Error; err != nil {
		return 0, fmt.Errorf("🔴 ERROR: failed to insert person %s: %w", handle, err)
	}
	return person.ID, nil
}

// HandleByID returns the handle of the person with the given id.
func (r *personRepository) HandleByID(ctx context.Context, id uint) (string, error) {
	var person entity.Person
	if err := r.db.WithContext(ctx).First(&person, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", appErrors.ErrPersonNotFound
		}
		return "", fmt.Errorf("🔴 ERROR: failed to find person %d: %w", id, err)
	}
	return person.Handle, nil
}

// Count returns the number of known people.
func (r *personRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Person{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("🔴 ERROR: failed to count people: %w", err)
	}
	return count, nil
}
