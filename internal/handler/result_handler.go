package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tryxpert/tryxpert-backend/internal/response"
	"github.com/tryxpert/tryxpert-backend/internal/service"
)

// ResultHandler serves scored results and persisted submissions.
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// GetResult godoc
// GET /api/v1/tryouts/:tryout_id/result
// Returns the scored summary, the per-question review with the answer key,
// the score category, and study recommendations.
func (h *ResultHandler) GetResult(c *gin.Context) {
	tryoutID, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}

	result, err := h.resultService.Get(c.Request.Context(), tryoutID)
	switch {
	case errors.Is(err, service.ErrTryoutNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrResultNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrResultNotFound)
	case err != nil:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	default:
		response.Success(c, http.StatusOK, gin.H{"result": result})
	}
}

// ListSubmissions godoc
// GET /api/v1/tryouts/:tryout_id/submissions
// Lists the submission records the worker has persisted to PostgreSQL.
func (h *ResultHandler) ListSubmissions(c *gin.Context) {
	tryoutID, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}

	subs, err := h.resultService.ListSubmissions(c.Request.Context(), tryoutID)
	if errors.Is(err, service.ErrTryoutNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submissions": subs})
}
