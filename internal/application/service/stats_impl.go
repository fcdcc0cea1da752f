package service

import (
	"context"

	"remindbot/internal/application/dto"
	"remindbot/internal/domain/repository"
	"remindbot/internal/pkg/logger"
)

type statsService struct {
	reminderRepo repository.ReminderRepository
	personRepo   repository.PersonRepository
	mediaRepo    repository.MediaRepository
	seenRepo     repository.NotificationRepository
	log          logger.Logger
}

// NewStatsService creates a new instance of StatsService implementation.
func NewStatsService(
	reminderRepo repository.ReminderRepository,
	personRepo repository.PersonRepository,
	mediaRepo repository.MediaRepository,
	seenRepo repository.NotificationRepository,
	log logger.Logger,
) StatsService {
	return &statsService{
		reminderRepo: reminderRepo,
		personRepo:   personRepo,
		mediaRepo:    mediaRepo,
		seenRepo:     seenRepo,
		log:          log,
	}
}

// Collect gathers entity counts and the lead-time distribution. Lead time is
// the gap between a reminder's request and its due time, in hours.
func (s *statsService) Collect(ctx context.Context) (*dto.StatsResponse, error) {
	people, err := s.personRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	reminders, err := s.reminderRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	attachments, err := s.mediaRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	seen, err := s.seenRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.StatsResponse{
		People:            people,
		Reminders:         reminders,
		MediaAttachments:  attachments,
		SeenNotifications: seen,
	}

	all, err := s.reminderRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return resp, nil
	}

	lead := &dto.LeadTimes{Count: len(all)}
	var sum float64
	for i, reminder := range all {
		hours := reminder.DueAt.Sub(reminder.RequestedAt).Hours()
		if i == 0 || hours < lead.Min {
			lead.Min = hours
		}
		if i == 0 || hours > lead.Max {
			lead.Max = hours
		}
		sum += hours
	}
	lead.Mean = sum / float64(len(all))
	resp.LeadTimeHours = lead
	return resp, nil
}
