package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"
)

// Store keeps downloaded reminder images on the local filesystem. Files are
// named {reminderID}_{imageCID}.jpg and removed together with their owning
// reminder.
type Store struct {
	dir string
	log logger.Logger
}

// NewStore creates a media store rooted at dir, creating the directory when
// missing.
func NewStore(dir string, log logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating media dir %s: %v", appErrors.ErrMediaFetch, dir, err)
	}
	return &Store{dir: dir, log: log}, nil
}

// FileName returns the canonical file name for an image of a reminder.
func FileName(reminderID uint, imageCID string) string {
	return fmt.Sprintf("%d_%s.jpg", reminderID, imageCID)
}

// Save writes the image stream to disk under the canonical name and returns
// that name.
func (s *Store) Save(reminderID uint, imageCID string, r io.Reader) (string, error) {
	name := FileName(reminderID, imageCID)
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", appErrors.ErrMediaFetch, name, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", appErrors.ErrMediaFetch, name, err)
	}
	return name, nil
}

// Read returns the full contents of a stored file.
func (s *Store) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", appErrors.ErrMediaFetch, name, err)
	}
	return data, nil
}

// Remove deletes the named files, logging and continuing on individual
// failures. Called after the owning reminder's rows are gone.
func (s *Store) Remove(names []string) {
	for _, name := range names {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			s.log.Error(fmt.Sprintf("Failed to remove media file %s", name), err)
		}
	}
}
