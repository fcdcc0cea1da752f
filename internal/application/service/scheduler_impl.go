package service

import (
	"context"
	"fmt"
	"time"

	"remindbot/internal/infrastructure/scheduler"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"
)

// Dispatch fires at second 0 of every minute. Due times are stored at minute
// resolution and matched by equality, so the cadence is fixed.
const dispatchCronSpec = "0 * * * * *"

type schedulerService struct {
	cron           *scheduler.Scheduler
	ingestSvc      IngestService
	dispatchSvc    DispatchService
	ingestInterval time.Duration
	log            logger.Logger
}

// NewSchedulerService creates a new instance of SchedulerService
// implementation.
func NewSchedulerService(
	cron *scheduler.Scheduler,
	ingestSvc IngestService,
	dispatchSvc DispatchService,
	ingestInterval time.Duration,
	log logger.Logger,
) SchedulerService {
	return &schedulerService{
		cron:           cron,
		ingestSvc:      ingestSvc,
		dispatchSvc:    dispatchSvc,
		ingestInterval: ingestInterval,
		log:            log,
	}
}

// Start registers the ingest and dispatch jobs and launches the scheduler.
// The jobs share nothing but the store, so they need no coordination here.
func (s *schedulerService) Start() error {
	ingestSpec := fmt.Sprintf("@every %s", s.ingestInterval)
	if _, err := s.cron.AddJob(ingestSpec, s.runIngest); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}
	if _, err := s.cron.AddJob(dispatchCronSpec, s.runDispatch); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for in-flight jobs.
func (s *schedulerService) Stop() {
	s.cron.Stop()
}

func (s *schedulerService) runIngest() {
	if err := s.ingestSvc.PollOnce(context.Background()); err != nil {
		s.log.Error("Notification poll cycle failed", err)
	}
}

func (s *schedulerService) runDispatch() {
	minute := time.Now().UTC().Truncate(time.Minute)
	if err := s.dispatchSvc.DispatchDue(context.Background(), minute); err != nil {
		s.log.Error("Dispatch cycle failed", err)
	}
}
