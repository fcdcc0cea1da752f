package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"remindbot/internal/domain/constant"
	"remindbot/internal/domain/entity"
	"remindbot/internal/domain/repository"
	"remindbot/internal/infrastructure/bluesky"
	"remindbot/internal/infrastructure/media"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"
)

// maxPostChars is the Bluesky post length limit. The title thread is split
// into chunks that stay below it; the body post carries the original text
// unchanged since it fit in one post to begin with.
const maxPostChars = 300

const (
	titleGreeting  = "Hi! Here's a reminder for you! "
	titleRequester = "\nAnd this reminder is brought to you by: "
	titleAuthor    = "\nOriginal post was created by: "
)

type dispatchService struct {
	client       bluesky.API
	reminderRepo repository.ReminderRepository
	personRepo   repository.PersonRepository
	mediaRepo    repository.MediaRepository
	spanRepo     repository.SpanRepository
	files        *media.Store
	log          logger.Logger
}

// NewDispatchService creates a new instance of DispatchService implementation.
func NewDispatchService(
	client bluesky.API,
	reminderRepo repository.ReminderRepository,
	personRepo repository.PersonRepository,
	mediaRepo repository.MediaRepository,
	spanRepo repository.SpanRepository,
	files *media.Store,
	log logger.Logger,
) DispatchService {
	return &dispatchService{
		client:       client,
		reminderRepo: reminderRepo,
		personRepo:   personRepo,
		mediaRepo:    mediaRepo,
		spanRepo:     spanRepo,
		files:        files,
		log:          log,
	}
}

// DispatchDue sends every reminder due at the given minute. One failed
// reminder does not block the rest; it stays in the store and is simply not
// retried until its next due minute, if any.
func (s *dispatchService) DispatchDue(ctx context.Context, minute time.Time) error {
	due, err := s.reminderRepo.FindDueAt(ctx, minute)
	if err != nil {
		return err
	}
	for _, reminder := range due {
		if err := s.sendReminder(ctx, reminder); err != nil {
			s.log.Error(fmt.Sprintf("Failed to dispatch reminder %d", reminder.ID), err)
		}
	}
	return nil
}

// sendReminder posts the title thread and the reconstructed original post,
// then finalizes the record: one-shots are deleted together with their local
// media files, recurring reminders get their due time advanced.
func (s *dispatchService) sendReminder(ctx context.Context, reminder *entity.Reminder) error {
	authorHandle, err := s.personRepo.HandleByID(ctx, reminder.AuthorID)
	if err != nil {
		return err
	}
	requesterHandle, err := s.personRepo.HandleByID(ctx, reminder.RequesterID)
	if err != nil {
		return err
	}
	mentions, err := s.reminderRepo.MentionHandles(ctx, reminder.ID)
	if err != nil {
		return err
	}

	thread, err := s.postTitle(ctx, authorHandle, requesterHandle, mentions)
	if err != nil {
		return err
	}
	if err := s.postBody(ctx, thread, reminder); err != nil {
		return err
	}

	if reminder.RepeatSeconds == 0 {
		localFiles, err := s.reminderRepo.DeleteByID(ctx, reminder.ID)
		if err != nil {
			return err
		}
		s.files.Remove(localFiles)
		s.log.Info(fmt.Sprintf("Dispatched one-shot reminder %d", reminder.ID))
		return nil
	}
	if err := s.reminderRepo.Reschedule(ctx, reminder); err != nil {
		return err
	}
	s.log.Info(fmt.Sprintf("Dispatched reminder %d, next due %s", reminder.ID, reminder.DueAt.Format("2006-01-02 15:04")))
	return nil
}

// replyThread tracks the growing title thread. root is the first chunk sent,
// last the most recent one; every further post replies to last under root.
type replyThread struct {
	root *bluesky.StrongRef
	last *bluesky.StrongRef
}

func (t *replyThread) ref() *bluesky.ReplyRef {
	if t.root == nil {
		return nil
	}
	return &bluesky.ReplyRef{Root: *t.root, Parent: *t.last}
}

// titleWriter accumulates title text, flushing a chunk whenever the next
// segment would push the post over the length limit. The first error sticks
// and turns the remaining calls into no-ops.
type titleWriter struct {
	svc     *dispatchService
	ctx     context.Context
	thread  replyThread
	builder *bluesky.TextBuilder
	err     error
}

func (w *titleWriter) text(s string) {
	if w.err != nil {
		return
	}
	w.flushFor(s)
	if w.err == nil {
		w.builder.Text(s)
	}
}

// mention appends "@handle" with the given suffix as a mention facet. When
// the handle no longer resolves it degrades to plain text.
func (w *titleWriter) mention(handle, suffix string) {
	if w.err != nil {
		return
	}
	segment := "@" + handle + suffix
	w.flushFor(segment)
	if w.err != nil {
		return
	}
	did, err := w.svc.client.ResolveHandle(w.ctx, handle)
	if err != nil {
		w.builder.Text(segment)
		return
	}
	w.builder.Mention(segment, did)
}

func (w *titleWriter) flushFor(next string) {
	if w.builder.Len()+utf8.RuneCountInString(next) <= maxPostChars {
		return
	}
	w.post()
	w.builder = bluesky.NewTextBuilder()
}

func (w *titleWriter) post() {
	if w.err != nil {
		return
	}
	record := w.builder.Record()
	record.Reply = w.thread.ref()
	ref, err := w.svc.client.SendPost(w.ctx, record)
	if err != nil {
		w.err = fmt.Errorf("%w: %v", appErrors.ErrBlueskyAPI, err)
		return
	}
	if w.thread.root == nil {
		w.thread.root = ref
	}
	w.thread.last = ref
}

// postTitle posts the title thread greeting everyone involved and returns
// the thread refs the body post must attach to.
func (s *dispatchService) postTitle(ctx context.Context, authorHandle, requesterHandle string, mentions []string) (*replyThread, error) {
	w := &titleWriter{svc: s, ctx: ctx, builder: bluesky.NewTextBuilder()}
	w.text(titleGreeting)
	for _, handle := range mentions {
		w.mention(handle, " ")
	}
	w.text(titleRequester)
	w.mention(requesterHandle, "")
	w.text(titleAuthor)
	w.mention(authorHandle, "")
	w.post()
	if w.err != nil {
		return nil, w.err
	}
	return &w.thread, nil
}

// postBody sends the original post's text under the title thread, with its
// stored facets rebuilt and its media re-attached.
func (s *dispatchService) postBody(ctx context.Context, thread *replyThread, reminder *entity.Reminder) error {
	record := &bluesky.Record{Text: reminder.Text, Reply: thread.ref()}

	facets, err := s.storedFacets(ctx, reminder.ID)
	if err != nil {
		return err
	}
	record.Facets = facets

	embed, err := s.storedEmbed(ctx, reminder.ID)
	if err != nil {
		return err
	}
	record.Embed = embed

	if _, err := s.client.SendPost(ctx, record); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrBlueskyAPI, err)
	}
	return nil
}

// storedFacets rebuilds the rich-text facets from the spans captured at
// ingest time.
func (s *dispatchService) storedFacets(ctx context.Context, reminderID uint) ([]bluesky.Facet, error) {
	spans, err := s.spanRepo.ByReminderID(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	var facets []bluesky.Facet
	for _, span := range spans {
		var feature bluesky.FacetFeature
		switch span.GetKind() {
		case constant.SpanMention:
			feature = bluesky.FacetFeature{Type: bluesky.FeatureMention, Did: span.Target}
		case constant.SpanTag:
			feature = bluesky.FacetFeature{Type: bluesky.FeatureTag, Tag: span.Target}
		case constant.SpanLink:
			feature = bluesky.FacetFeature{Type: bluesky.FeatureLink, URI: span.Target}
		default:
			continue
		}
		facets = append(facets, bluesky.Facet{
			Index:    bluesky.ByteSlice{ByteStart: span.ByteStart, ByteEnd: span.ByteEnd},
			Features: []bluesky.FacetFeature{feature},
		})
	}
	return facets, nil
}

// storedEmbed rebuilds the post's embed. Locally stored images are uploaded
// again as fresh blobs; a link card is re-emitted from its metadata.
func (s *dispatchService) storedEmbed(ctx context.Context, reminderID uint) (*bluesky.Embed, error) {
	attachments, err := s.mediaRepo.ByReminderID(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	if len(attachments) == 0 {
		return nil, nil
	}
	if attachments[0].IsForeign() {
		first := attachments[0]
		return bluesky.NewExternalEmbed(bluesky.ExternalEmbed{
			URI:         first.ForeignURL,
			Title:       first.Title,
			Description: first.Alt,
		}), nil
	}
	images := make([]bluesky.ImageEmbed, 0, len(attachments))
	for _, attachment := range attachments {
		data, err := s.files.Read(attachment.Path)
		if err != nil {
			return nil, err
		}
		blob, err := s.client.UploadBlob(ctx, data, "image/jpeg")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", appErrors.ErrBlueskyAPI, err)
		}
		images = append(images, bluesky.ImageEmbed{Alt: attachment.Alt, Image: *blob})
	}
	return bluesky.NewImagesEmbed(images), nil
}
