package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"remindbot/internal/application/dto"
	"remindbot/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStatsService struct {
	resp *dto.StatsResponse
	err  error
}

func (s *stubStatsService) Collect(ctx context.Context) (*dto.StatsResponse, error) {
	return s.resp, s.err
}

func doRequest(h echo.HandlerFunc, target string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = h(c)
	return rec
}

func TestHealthz(t *testing.T) {
	h := NewOpsHandler(&stubStatsService{}, logger.New())
	rec := doRequest(h.Healthz, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStats(t *testing.T) {
	stats := &dto.StatsResponse{
		People:            3,
		Reminders:         2,
		MediaAttachments:  1,
		SeenNotifications: 7,
		LeadTimeHours:     &dto.LeadTimes{Count: 2, Min: 1, Max: 24, Mean: 12.5},
	}
	h := NewOpsHandler(&stubStatsService{resp: stats}, logger.New())

	rec := doRequest(h.Stats, "/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"people":3`)
	assert.Contains(t, rec.Body.String(), `"lead_time_hours"`)
}

func TestStatsFailure(t *testing.T) {
	h := NewOpsHandler(&stubStatsService{err: errors.New("db gone")}, logger.New())
	rec := doRequest(h.Stats, "/stats")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
