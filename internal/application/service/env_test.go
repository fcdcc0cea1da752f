package service

import (
	"path/filepath"
	"testing"

	"remindbot/internal/domain/repository"
	"remindbot/internal/infrastructure/database/sqlite"
	"remindbot/internal/infrastructure/media"
	"remindbot/internal/pkg/logger"

	"github.com/stretchr/testify/require"
)

// serviceEnv wires the fake client to real repositories over a throwaway
// database and media directory.
type serviceEnv struct {
	client    *fakeClient
	people    repository.PersonRepository
	reminders repository.ReminderRepository
	media     repository.MediaRepository
	spans     repository.SpanRepository
	seen      repository.NotificationRepository
	files     *media.Store
	log       logger.Logger
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	log := logger.New()
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.CloseDB(db) })

	files, err := media.NewStore(t.TempDir(), log)
	require.NoError(t, err)

	return &serviceEnv{
		client:    newFakeClient(),
		people:    sqlite.NewPersonRepository(db),
		reminders: sqlite.NewReminderRepository(db),
		media:     sqlite.NewMediaRepository(db),
		spans:     sqlite.NewSpanRepository(db),
		seen:      sqlite.NewNotificationRepository(db),
		files:     files,
		log:       log,
	}
}

func (e *serviceEnv) ingestService() IngestService {
	return NewIngestService(e.client, e.reminders, e.people, e.media, e.spans, e.seen, e.files, e.log)
}

func (e *serviceEnv) dispatchService() DispatchService {
	return NewDispatchService(e.client, e.reminders, e.people, e.media, e.spans, e.files, e.log)
}
