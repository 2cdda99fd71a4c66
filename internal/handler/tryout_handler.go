package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tryxpert/tryxpert-backend/internal/model"
	"github.com/tryxpert/tryxpert-backend/internal/response"
	"github.com/tryxpert/tryxpert-backend/internal/service"
	"github.com/tryxpert/tryxpert-backend/internal/validator"
)

// TryoutHandler handles tryout management endpoints.
type TryoutHandler struct {
	tryoutService *service.TryoutService
}

// NewTryoutHandler creates a new TryoutHandler.
func NewTryoutHandler(tryoutService *service.TryoutService) *TryoutHandler {
	return &TryoutHandler{tryoutService: tryoutService}
}

// parseID reads an int64 path parameter.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// ListTryouts godoc
// GET /api/v1/tryouts
// Lists all tryouts with their live availability status.
func (h *TryoutHandler) ListTryouts(c *gin.Context) {
	tryouts, err := h.tryoutService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tryouts": tryouts})
}

// GetTryout godoc
// GET /api/v1/tryouts/:tryout_id
func (h *TryoutHandler) GetTryout(c *gin.Context) {
	id, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}

	tryout, err := h.tryoutService.Get(c.Request.Context(), id)
	if errors.Is(err, service.ErrTryoutNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tryout": tryout})
}

// CreateTryout godoc
// POST /api/v1/tryouts
func (h *TryoutHandler) CreateTryout(c *gin.Context) {
	var req model.CreateTryoutRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	tryout, err := h.tryoutService.Create(c.Request.Context(), &req)
	if errors.Is(err, service.ErrInvalidWindow) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"end_date": "Tanggal berakhir harus setelah tanggal mulai."})
		return
	}
	if errors.Is(err, service.ErrInvalidDuration) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"duration": "Durasi harus -1 (tanpa batas) atau minimal 1 menit."})
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"tryout": tryout})
}

// UpdateTryout godoc
// PUT /api/v1/tryouts/:tryout_id
// Rejected once the tryout has participants.
func (h *TryoutHandler) UpdateTryout(c *gin.Context) {
	id, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}

	var req model.UpdateTryoutRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	tryout, err := h.tryoutService.Update(c.Request.Context(), id, &req)
	switch {
	case errors.Is(err, service.ErrTryoutNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrTryoutLocked):
		response.Fail(c, http.StatusConflict, response.ErrTryoutLocked)
	case errors.Is(err, service.ErrInvalidWindow):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"end_date": "Tanggal berakhir harus setelah tanggal mulai."})
	case errors.Is(err, service.ErrInvalidDuration):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"duration": "Durasi harus -1 (tanpa batas) atau minimal 1 menit."})
	case err != nil:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	default:
		response.Success(c, http.StatusOK, gin.H{"tryout": tryout})
	}
}

// DeleteTryout godoc
// DELETE /api/v1/tryouts/:tryout_id
func (h *TryoutHandler) DeleteTryout(c *gin.Context) {
	id, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}

	err := h.tryoutService.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, service.ErrTryoutNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrTryoutLocked):
		response.Fail(c, http.StatusConflict, response.ErrTryoutLocked)
	case err != nil:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	default:
		response.Success(c, http.StatusOK, gin.H{"deleted": true})
	}
}
