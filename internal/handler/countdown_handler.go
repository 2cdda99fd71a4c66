package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tryxpert/tryxpert-backend/internal/response"
	"github.com/tryxpert/tryxpert-backend/internal/schedule"
	"github.com/tryxpert/tryxpert-backend/internal/service"
	"github.com/tryxpert/tryxpert-backend/internal/session"
)

// CountdownHandler serves one-shot countdown reads. The continuous feed is
// the WebSocket stream.
type CountdownHandler struct {
	tryoutService *service.TryoutService
	clock         session.Clock
}

// NewCountdownHandler creates a new CountdownHandler.
func NewCountdownHandler(tryoutService *service.TryoutService, clock session.Clock) *CountdownHandler {
	return &CountdownHandler{tryoutService: tryoutService, clock: clock}
}

// GetCountdown godoc
// GET /api/v1/tryouts/:tryout_id/countdown
// Resolves the tryout status at the current instant and the breakdown
// toward the relevant window boundary.
func (h *CountdownHandler) GetCountdown(c *gin.Context) {
	tryoutID, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}

	tryout, err := h.tryoutService.Get(c.Request.Context(), tryoutID)
	if errors.Is(err, service.ErrTryoutNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	cd := schedule.Countdown{Start: tryout.StartDate, End: tryout.EndDate}
	status, remaining := cd.Tick(h.clock.Now())
	response.Success(c, http.StatusOK, gin.H{
		"status":    status,
		"remaining": remaining,
	})
}
