package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"remindbot/internal/application/dto"
	"remindbot/internal/domain/constant"
	"remindbot/internal/domain/entity"
	"remindbot/internal/domain/repository"
	"remindbot/internal/infrastructure/bluesky"
	"remindbot/internal/infrastructure/media"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"
	"remindbot/internal/pkg/timeexpr"
)

// Reply texts sent back to the requester. Dates in the confirmation are
// always UTC.
const (
	msgConfirm       = "I will remind you this on %s at %s! :)\nBeware! Date of the reminder is in UTC-0 time!"
	msgGenericError  = "I am sorry. Error occurred. I cannot remind you this :("
	msgDueInPast     = "You want me to remind on a date that is in the past. I don't have time machine yet. I am really sorry :("
	msgNotAReply     = "Your message is not a reply. I am sorry :("
	msgDeleted       = "Okay, I deleted this reminder from my mind. :)"
	msgDeleteUnknown = "I'm sorry. I don't find this post in my memory. Maybe you meant the one I answered to?"
)

type ingestService struct {
	client       bluesky.API
	reminderRepo repository.ReminderRepository
	personRepo   repository.PersonRepository
	mediaRepo    repository.MediaRepository
	spanRepo     repository.SpanRepository
	seenRepo     repository.NotificationRepository
	files        *media.Store
	log          logger.Logger
}

// NewIngestService creates a new instance of IngestService implementation.
func NewIngestService(
	client bluesky.API,
	reminderRepo repository.ReminderRepository,
	personRepo repository.PersonRepository,
	mediaRepo repository.MediaRepository,
	spanRepo repository.SpanRepository,
	seenRepo repository.NotificationRepository,
	files *media.Store,
	log logger.Logger,
) IngestService {
	return &ingestService{
		client:       client,
		reminderRepo: reminderRepo,
		personRepo:   personRepo,
		mediaRepo:    mediaRepo,
		spanRepo:     spanRepo,
		seenRepo:     seenRepo,
		files:        files,
		log:          log,
	}
}

// PollOnce lists notifications, marks the batch as seen upstream and handles
// every not-yet-processed mention. A failed list triggers one re-login and
// retry; anything after that is fatal for the cycle.
func (s *ingestService) PollOnce(ctx context.Context) error {
	cycleStart := time.Now().UTC()
	notifications, err := s.client.ListNotifications(ctx)
	if err != nil {
		s.log.Warn(fmt.Sprintf("Notification poll failed, re-authenticating: %v", err))
		if err := s.client.Login(ctx); err != nil {
			return fmt.Errorf("%w: %v", appErrors.ErrBlueskyAPI, err)
		}
		notifications, err = s.client.ListNotifications(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", appErrors.ErrBlueskyAPI, err)
		}
	}
	if err := s.client.UpdateSeen(ctx, cycleStart); err != nil {
		s.log.Warn(fmt.Sprintf("Could not update seen marker: %v", err))
	}

	for i := range notifications {
		notification := &notifications[i]
		if notification.Reason != "mention" {
			continue
		}
		first, err := s.seenRepo.MarkSeen(ctx, notification.CID)
		if err != nil {
			s.log.Error(fmt.Sprintf("Failed to record notification %s", notification.CID), err)
			continue
		}
		if !first {
			continue
		}
		if err := s.processMention(ctx, notification); err != nil {
			s.log.Error(fmt.Sprintf("Failed to process mention %s", notification.URI), err)
		}
	}
	return nil
}

// processMention handles one fresh mention notification end to end. User
// mistakes (past date, not a reply, unknown delete target) are answered with
// a reply and reported as handled, so the caller does not log them as faults.
func (s *ingestService) processMention(ctx context.Context, notification *bluesky.Notification) error {
	if notification.Author.Did == s.client.Did() {
		return nil
	}
	post, err := s.client.GetPost(ctx, notification.URI)
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrBlueskyAPI, err)
	}

	sent := parsePostTime(post.Record.CreatedAt)
	due := timeexpr.ParseDueTime(post.Record.Text, sent)
	if due.Before(time.Now().UTC()) {
		s.reply(ctx, post, msgDueInPast)
		return nil
	}

	if post.Record.Reply == nil {
		s.reply(ctx, post, msgNotAReply)
		return nil
	}
	parent, err := s.client.GetPost(ctx, post.Record.Reply.Parent.URI)
	if err != nil {
		s.reply(ctx, post, msgGenericError)
		return fmt.Errorf("%w: %v", appErrors.ErrBlueskyAPI, err)
	}

	if strings.Contains(post.Record.Text, "delete") {
		return s.handleDelete(ctx, notification, post, parent)
	}

	draft := &dto.ReminderDraft{
		Text:            parent.Record.Text,
		AuthorHandle:    parent.Author.Handle,
		RequesterHandle: notification.Author.Handle,
		RequestedAt:     sent,
		DueAt:           due,
		RepeatSeconds:   timeexpr.ParseRepeatInterval(post.Record.Text),
		MentionHandles:  s.mentionHandles(ctx, post),
	}
	if err := draft.Validate(); err != nil {
		s.reply(ctx, post, msgGenericError)
		return fmt.Errorf("%w: %v", appErrors.ErrInvalidDraft, err)
	}

	reminderID, err := s.reminderRepo.Insert(ctx, draft)
	if err != nil {
		s.reply(ctx, post, msgGenericError)
		return err
	}
	s.log.Info(fmt.Sprintf("Stored reminder %d for @%s, due %s", reminderID, draft.RequesterHandle, due.Format("2006-01-02 15:04")))

	s.copyMedia(ctx, parent, reminderID)
	s.copySpans(ctx, parent, reminderID)
	s.reply(ctx, post, fmt.Sprintf(msgConfirm, due.Format("02-01-2006"), due.Format("15:04")))
	return nil
}

// handleDelete removes the reminder the parent post created. The parent must
// be the requester's own instruction post, so it is matched by requester
// handle plus the parent's creation time.
func (s *ingestService) handleDelete(ctx context.Context, notification *bluesky.Notification, post, parent *bluesky.Post) error {
	if !strings.Contains(parent.Record.Text, "@"+s.client.Handle()) {
		s.reply(ctx, post, msgDeleteUnknown)
		return nil
	}
	requesterID, err := s.personRepo.FindOrCreate(ctx, notification.Author.Handle)
	if err != nil {
		s.reply(ctx, post, msgGenericError)
		return err
	}
	localFiles, err := s.reminderRepo.DeleteByRequesterAndRequestTime(ctx, requesterID, parsePostTime(parent.Record.CreatedAt))
	if err != nil {
		if errors.Is(err, appErrors.ErrReminderNotFound) {
			s.reply(ctx, post, msgDeleteUnknown)
			return nil
		}
		s.reply(ctx, post, msgGenericError)
		return err
	}
	s.files.Remove(localFiles)
	s.reply(ctx, post, msgDeleted)
	return nil
}

// mentionHandles resolves the people mentioned in the instruction post,
// excluding the bot itself. A handle that fails to resolve is skipped rather
// than failing the whole reminder.
func (s *ingestService) mentionHandles(ctx context.Context, post *bluesky.Post) []string {
	var handles []string
	for _, facet := range post.Record.Facets {
		if len(facet.Features) == 0 || facet.Features[0].Type != bluesky.FeatureMention {
			continue
		}
		did := facet.Features[0].Did
		if did == s.client.Did() {
			continue
		}
		profile, err := s.client.GetProfile(ctx, did)
		if err != nil {
			s.log.Warn(fmt.Sprintf("Could not resolve mentioned did %s: %v", did, err))
			continue
		}
		handles = append(handles, profile.Handle)
	}
	return handles
}

// copyMedia persists the parent post's embed. Images are downloaded from the
// CDN and stored locally; an external link card keeps only its metadata. A
// failed image download skips that image and keeps the rest.
func (s *ingestService) copyMedia(ctx context.Context, parent *bluesky.Post, reminderID uint) {
	embed := parent.Record.Embed
	switch embed.Kind() {
	case bluesky.EmbedImages:
		for _, img := range embed.Images {
			name, err := s.downloadImage(ctx, parent.Author.Did, img.Image.Ref.Link, reminderID)
			if err != nil {
				s.log.Error(fmt.Sprintf("Media of reminder %d could not be retrieved", reminderID), err)
				continue
			}
			attachment := &entity.Media{ReminderID: reminderID, Path: name, Alt: img.Alt}
			if err := s.mediaRepo.Insert(ctx, attachment); err != nil {
				s.log.Error(fmt.Sprintf("Failed to store media row for reminder %d", reminderID), err)
			}
		}
	case bluesky.EmbedExternal:
		attachment := &entity.Media{
			ReminderID: reminderID,
			ForeignURL: embed.External.URI,
			Alt:        embed.External.Description,
			Title:      embed.External.Title,
		}
		if err := s.mediaRepo.Insert(ctx, attachment); err != nil {
			s.log.Error(fmt.Sprintf("Failed to store link card for reminder %d", reminderID), err)
		}
	}
}

func (s *ingestService) downloadImage(ctx context.Context, authorDid, imageCID string, reminderID uint) (string, error) {
	body, err := s.client.DownloadImage(ctx, authorDid, imageCID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", appErrors.ErrMediaFetch, err)
	}
	defer body.Close()
	return s.files.Save(reminderID, imageCID, body)
}

// copySpans persists the parent post's rich-text facets so the dispatcher can
// rebuild them later.
func (s *ingestService) copySpans(ctx context.Context, parent *bluesky.Post, reminderID uint) {
	for _, facet := range parent.Record.Facets {
		if len(facet.Features) == 0 {
			continue
		}
		feature := facet.Features[0]
		span := &entity.Span{
			ReminderID: reminderID,
			ByteStart:  facet.Index.ByteStart,
			ByteEnd:    facet.Index.ByteEnd,
		}
		switch feature.Type {
		case bluesky.FeatureMention:
			span.Kind = constant.SpanMention.String()
			span.Target = feature.Did
		case bluesky.FeatureTag:
			span.Kind = constant.SpanTag.String()
			span.Target = feature.Tag
		case bluesky.FeatureLink:
			span.Kind = constant.SpanLink.String()
			span.Target = feature.URI
		default:
			continue
		}
		if err := s.spanRepo.Insert(ctx, span); err != nil {
			s.log.Error(fmt.Sprintf("Failed to store span for reminder %d", reminderID), err)
		}
	}
}

// reply answers the given post in its own thread. Reply failures are logged
// only; the reminder state is already settled by the time a reply goes out.
func (s *ingestService) reply(ctx context.Context, post *bluesky.Post, text string) {
	ref := post.Ref()
	record := &bluesky.Record{Text: text, Reply: &bluesky.ReplyRef{Root: ref, Parent: ref}}
	if _, err := s.client.SendPost(ctx, record); err != nil {
		s.log.Error(fmt.Sprintf("Failed to reply to %s", post.URI), err)
	}
}

// parsePostTime reads a post's createdAt. Second resolution is enough here;
// an unparsable value falls back to the current time.
func parsePostTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t = time.Now()
	}
	return t.UTC().Truncate(time.Second)
}
