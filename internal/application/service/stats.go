package service

import (
	"context"

	"remindbot/internal/application/dto"
)

// StatsService summarizes the store for the operational stats endpoint.
type StatsService interface {
	// Collect counts the stored entities and computes the distribution of
	// request-to-due lead times across pending reminders.
	Collect(ctx context.Context) (*dto.StatsResponse, error)
}
