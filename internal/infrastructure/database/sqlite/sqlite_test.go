package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"remindbot/internal/application/dto"
	"remindbot/internal/domain/entity"
	"remindbot/internal/domain/repository"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var testDue = time.Date(2024, 5, 22, 15, 35, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	db            *gorm.DB
	people        repository.PersonRepository
	reminders     repository.ReminderRepository
	media         repository.MediaRepository
	spans         repository.SpanRepository
	notifications repository.NotificationRepository
}

func (s *testSuite) SetupTest() {
	db, err := NewDB(filepath.Join(s.T().TempDir(), "test.db"), logger.New())
	s.Require().NoError(err)
	s.db = db
	s.people = NewPersonRepository(db)
	s.reminders = NewReminderRepository(db)
	s.media = NewMediaRepository(db)
	s.spans = NewSpanRepository(db)
	s.notifications = NewNotificationRepository(db)
}

func (s *testSuite) TearDownTest() {
	s.Require().NoError(CloseDB(s.db))
}

func (s *testSuite) draft(mentions ...string) *dto.ReminderDraft {
	return &dto.ReminderDraft{
		Text:            "the post to remember",
		AuthorHandle:    "author.example",
		RequesterHandle: "requester.example",
		RequestedAt:     testDue.Add(-time.Hour),
		DueAt:           testDue,
		MentionHandles:  mentions,
	}
}

func (s *testSuite) TestFindOrCreatePersonIsIdempotent() {
	ctx := context.Background()
	first, err := s.people.FindOrCreate(ctx, "alice.example")
	s.Require().NoError(err)
	second, err := s.people.FindOrCreate(ctx, "alice.example")
	s.Require().NoError(err)
	s.Equal(first, second)

	count, err := s.people.Count(ctx)
	s.Require().NoError(err)
	s.EqualValues(1, count)

	handle, err := s.people.HandleByID(ctx, first)
	s.Require().NoError(err)
	s.Equal("alice.example", handle)
}

func (s *testSuite) TestHandleByIDUnknownPerson() {
	_, err := s.people.HandleByID(context.Background(), 42)
	s.ErrorIs(err, appErrors.ErrPersonNotFound)
}

func (s *testSuite) TestInsertLinksMentionedPeople() {
	ctx := context.Background()
	id, err := s.reminders.Insert(ctx, s.draft("alice.example", "bob.example"))
	s.Require().NoError(err)

	handles, err := s.reminders.MentionHandles(ctx, id)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"alice.example", "bob.example"}, handles)

	count, err := s.people.Count(ctx)
	s.Require().NoError(err)
	s.EqualValues(4, count)
}

func (s *testSuite) TestInsertWithoutMentionsTargetsRequester() {
	ctx := context.Background()
	id, err := s.reminders.Insert(ctx, s.draft())
	s.Require().NoError(err)

	handles, err := s.reminders.MentionHandles(ctx, id)
	s.Require().NoError(err)
	s.Equal([]string{"requester.example"}, handles)
}

func (s *testSuite) TestFindDueAtMatchesExactMinuteOnly() {
	ctx := context.Background()
	_, err := s.reminders.Insert(ctx, s.draft())
	s.Require().NoError(err)

	due, err := s.reminders.FindDueAt(ctx, testDue)
	s.Require().NoError(err)
	s.Len(due, 1)

	for _, minute := range []time.Time{testDue.Add(-time.Minute), testDue.Add(time.Minute)} {
		missed, err := s.reminders.FindDueAt(ctx, minute)
		s.Require().NoError(err)
		s.Empty(missed)
	}
}

func (s *testSuite) TestRescheduleAdvancesDueTime() {
	ctx := context.Background()
	draft := s.draft()
	draft.RepeatSeconds = 60
	id, err := s.reminders.Insert(ctx, draft)
	s.Require().NoError(err)

	reminder, err := s.reminders.FindByID(ctx, id)
	s.Require().NoError(err)
	s.Require().NoError(s.reminders.Reschedule(ctx, reminder))

	due, err := s.reminders.FindDueAt(ctx, testDue.Add(time.Minute))
	s.Require().NoError(err)
	s.Len(due, 1)
	s.Equal(id, due[0].ID)
}

func (s *testSuite) TestDeleteByIDCascades() {
	ctx := context.Background()
	id, err := s.reminders.Insert(ctx, s.draft("alice.example"))
	s.Require().NoError(err)

	s.Require().NoError(s.media.Insert(ctx, &entity.Media{ReminderID: id, Path: "1_cid.jpg", Alt: "a photo"}))
	s.Require().NoError(s.media.Insert(ctx, &entity.Media{ReminderID: id, ForeignURL: "https://media.example/x.gif", Title: "a gif"}))
	s.Require().NoError(s.spans.Insert(ctx, &entity.Span{ReminderID: id, ByteStart: 0, ByteEnd: 5, Kind: "tag", Target: "news"}))

	localPaths, err := s.reminders.DeleteByID(ctx, id)
	s.Require().NoError(err)
	s.Equal([]string{"1_cid.jpg"}, localPaths)

	_, err = s.reminders.FindByID(ctx, id)
	s.ErrorIs(err, appErrors.ErrReminderNotFound)

	attachments, err := s.media.ByReminderID(ctx, id)
	s.Require().NoError(err)
	s.Empty(attachments)

	spans, err := s.spans.ByReminderID(ctx, id)
	s.Require().NoError(err)
	s.Empty(spans)

	handles, err := s.reminders.MentionHandles(ctx, id)
	s.Require().NoError(err)
	s.Empty(handles)
}

func (s *testSuite) TestDeleteByRequesterAndRequestTime() {
	ctx := context.Background()
	draft := s.draft()
	_, err := s.reminders.Insert(ctx, draft)
	s.Require().NoError(err)

	requesterID, err := s.people.FindOrCreate(ctx, draft.RequesterHandle)
	s.Require().NoError(err)

	_, err = s.reminders.DeleteByRequesterAndRequestTime(ctx, requesterID, draft.RequestedAt.Add(time.Second))
	s.ErrorIs(err, appErrors.ErrReminderNotFound)

	_, err = s.reminders.DeleteByRequesterAndRequestTime(ctx, requesterID, draft.RequestedAt)
	s.Require().NoError(err)

	count, err := s.reminders.Count(ctx)
	s.Require().NoError(err)
	s.EqualValues(0, count)
}

func (s *testSuite) TestMarkSeenReportsFirstObservationOnce() {
	ctx := context.Background()
	first, err := s.notifications.MarkSeen(ctx, "bafy-notification-1")
	s.Require().NoError(err)
	s.True(first)

	again, err := s.notifications.MarkSeen(ctx, "bafy-notification-1")
	s.Require().NoError(err)
	s.False(again)

	other, err := s.notifications.MarkSeen(ctx, "bafy-notification-2")
	s.Require().NoError(err)
	s.True(other)

	count, err := s.notifications.Count(ctx)
	s.Require().NoError(err)
	s.EqualValues(2, count)
}

func TestSQLiteRepositories(t *testing.T) {
	suite.Run(t, new(testSuite))
}
