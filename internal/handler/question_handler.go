package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tryxpert/tryxpert-backend/internal/model"
	"github.com/tryxpert/tryxpert-backend/internal/response"
	"github.com/tryxpert/tryxpert-backend/internal/service"
	"github.com/tryxpert/tryxpert-backend/internal/validator"
)

// QuestionHandler handles question authoring endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ListQuestions godoc
// GET /api/v1/tryouts/:tryout_id/questions
// Authoring view, includes the answer key.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	tryoutID, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}

	questions, err := h.questionService.List(c.Request.Context(), tryoutID)
	if errors.Is(err, service.ErrTryoutNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// CreateQuestion godoc
// POST /api/v1/tryouts/:tryout_id/questions
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	tryoutID, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}

	var req model.QuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), tryoutID, &req)
	if !h.handleMutationError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// UpdateQuestion godoc
// PUT /api/v1/tryouts/:tryout_id/questions/:question_id
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	tryoutID, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}
	questionID, ok := parseID(c, "question_id")
	if !ok {
		return
	}

	var req model.QuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), tryoutID, questionID, &req)
	if !h.handleMutationError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// DeleteQuestion godoc
// DELETE /api/v1/tryouts/:tryout_id/questions/:question_id
// The remaining questions are renumbered contiguously.
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	tryoutID, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}
	questionID, ok := parseID(c, "question_id")
	if !ok {
		return
	}

	if !h.handleMutationError(c, h.questionService.Delete(c.Request.Context(), tryoutID, questionID)) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ReorderQuestion godoc
// PUT /api/v1/tryouts/:tryout_id/questions/:question_id/order
func (h *QuestionHandler) ReorderQuestion(c *gin.Context) {
	tryoutID, ok := parseID(c, "tryout_id")
	if !ok {
		return
	}
	questionID, ok := parseID(c, "question_id")
	if !ok {
		return
	}

	var req model.ReorderQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if !h.handleMutationError(c, h.questionService.Reorder(c.Request.Context(), tryoutID, questionID, req.OrderNumber)) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reordered": true})
}

// handleMutationError writes the error response for question mutations and
// reports whether the caller may proceed with the success path.
func (h *QuestionHandler) handleMutationError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, service.ErrTryoutNotFound), errors.Is(err, service.ErrQuestionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrTryoutLocked):
		response.Fail(c, http.StatusConflict, response.ErrTryoutLocked)
	case errors.Is(err, model.ErrInvalidQuestion):
		// Per-type validation failures carry user-facing messages.
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"detail": err.Error()})
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
	return false
}
