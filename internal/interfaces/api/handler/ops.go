package handler

import (
	"net/http"

	"remindbot/internal/application/service"
	"remindbot/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// OpsHandler serves the operational endpoints: liveness and store statistics.
type OpsHandler struct {
	statsService service.StatsService
	log          logger.Logger
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(statsService service.StatsService, log logger.Logger) *OpsHandler {
	return &OpsHandler{
		statsService: statsService,
		log:          log,
	}
}

// Healthz reports process liveness.
func (h *OpsHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Stats returns entity counts and the lead-time distribution of pending
// reminders.
func (h *OpsHandler) Stats(c echo.Context) error {
	stats, err := h.statsService.Collect(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to collect stats", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "stats collection failed"})
	}
	return c.JSON(http.StatusOK, stats)
}
