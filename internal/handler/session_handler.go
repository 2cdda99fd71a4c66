package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tryxpert/tryxpert-backend/internal/model"
	"github.com/tryxpert/tryxpert-backend/internal/response"
	"github.com/tryxpert/tryxpert-backend/internal/service"
	"github.com/tryxpert/tryxpert-backend/internal/session"
	"github.com/tryxpert/tryxpert-backend/internal/validator"
)

// SessionHandler handles the session lifecycle endpoints.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// StartSession godoc
// POST /api/v1/tryouts/:tryout_id/session
// Starts a new session or resumes the existing one from its draft.
func (h *SessionHandler) StartSession(c *gin.Context) {
	tryoutID, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}

	view, err := h.sessionService.Start(c.Request.Context(), tryoutID)
	switch {
	case errors.Is(err, service.ErrTryoutNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrTryoutNotStarted):
		response.Fail(c, http.StatusBadRequest, response.ErrTryoutNotStarted)
	case errors.Is(err, service.ErrTryoutEnded):
		response.Fail(c, http.StatusBadRequest, response.ErrTryoutEnded)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusBadRequest, response.ErrNoQuestions)
	case err != nil:
		response.Fail(c, http.StatusServiceUnavailable, response.ErrPersistence)
	default:
		response.Success(c, http.StatusCreated, gin.H{"session": view})
	}
}

// GetSession godoc
// GET /api/v1/tryouts/:tryout_id/session
func (h *SessionHandler) GetSession(c *gin.Context) {
	tryoutID, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}

	view, err := h.sessionService.State(tryoutID)
	if errors.Is(err, service.ErrSessionNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// UpdateAnswer godoc
// PUT /api/v1/tryouts/:tryout_id/session/answer
// Mutates the answer of the session's current question.
func (h *SessionHandler) UpdateAnswer(c *gin.Context) {
	tryoutID, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}

	var req model.AnswerUpdateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.sessionService.UpdateAnswer(tryoutID, &req)
	if !h.handleSessionError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// SetPosition godoc
// PUT /api/v1/tryouts/:tryout_id/session/position
func (h *SessionHandler) SetPosition(c *gin.Context) {
	tryoutID, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}

	var req model.PositionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.sessionService.SeekTo(tryoutID, *req.Index)
	if !h.handleSessionError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// SubmitSession godoc
// POST /api/v1/tryouts/:tryout_id/session/submit
// Idempotent: an already submitted session returns its summary again.
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	tryoutID, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}

	summary, err := h.sessionService.Submit(c.Request.Context(), tryoutID)
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, session.ErrSubmitInFlight):
		response.Fail(c, http.StatusConflict, response.ErrSubmitInFlight)
	case err != nil:
		// Persistence failed; the session is still alive for a retry.
		response.Fail(c, http.StatusServiceUnavailable, response.ErrPersistence)
	default:
		response.Success(c, http.StatusOK, gin.H{"summary": summary})
	}
}

func (h *SessionHandler) handleSessionError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, session.ErrSessionClosed):
		response.Fail(c, http.StatusConflict, response.ErrSessionNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
	return false
}
