package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/tryxpert/tryxpert-backend/internal/model"
	"github.com/tryxpert/tryxpert-backend/internal/repository"
)

// ErrQuestionNotFound is returned when a question id does not exist or
// belongs to a different tryout.
var ErrQuestionNotFound = errors.New("question not found")

// QuestionService handles question authoring for tryouts.
type QuestionService struct {
	tryoutRepo   *repository.TryoutRepository
	questionRepo *repository.QuestionRepository
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(tryoutRepo *repository.TryoutRepository, questionRepo *repository.QuestionRepository, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		tryoutRepo:   tryoutRepo,
		questionRepo: questionRepo,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// List returns a tryout's questions in display order, with the answer key.
// Used by the authoring UI and the result review.
func (s *QuestionService) List(ctx context.Context, tryoutID int64) ([]model.Question, error) {
	if _, err := s.lockCheck(ctx, tryoutID, false); err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.ListByTryout(ctx, tryoutID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, nil
}

// Create validates and appends a question to a tryout.
func (s *QuestionService) Create(ctx context.Context, tryoutID int64, req *model.QuestionRequest) (*model.Question, error) {
	if _, err := s.lockCheck(ctx, tryoutID, true); err != nil {
		return nil, err
	}
	if err := model.ValidateQuestion(req); err != nil {
		return nil, err
	}

	q := questionFromRequest(tryoutID, req)
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	s.log.Info().Int64("tryout_id", tryoutID).Int64("question_id", q.ID).Msg("question created")
	return q, nil
}

// Update rewrites a question's content.
func (s *QuestionService) Update(ctx context.Context, tryoutID, questionID int64, req *model.QuestionRequest) (*model.Question, error) {
	if _, err := s.lockCheck(ctx, tryoutID, true); err != nil {
		return nil, err
	}
	if err := model.ValidateQuestion(req); err != nil {
		return nil, err
	}

	existing, err := s.getOwned(ctx, tryoutID, questionID)
	if err != nil {
		return nil, err
	}

	q := questionFromRequest(tryoutID, req)
	q.ID = existing.ID
	q.OrderNumber = existing.OrderNumber
	if err := s.questionRepo.Update(ctx, q); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return q, nil
}

// Delete removes a question; the remaining questions are renumbered to a
// contiguous run.
func (s *QuestionService) Delete(ctx context.Context, tryoutID, questionID int64) error {
	if _, err := s.lockCheck(ctx, tryoutID, true); err != nil {
		return err
	}
	if _, err := s.getOwned(ctx, tryoutID, questionID); err != nil {
		return err
	}
	if err := s.questionRepo.Delete(ctx, questionID, tryoutID); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	s.log.Info().Int64("tryout_id", tryoutID).Int64("question_id", questionID).Msg("question deleted")
	return nil
}

// Reorder moves a question to a new position; out-of-range positions clamp
// to the ends of the list.
func (s *QuestionService) Reorder(ctx context.Context, tryoutID, questionID int64, newOrder int) error {
	if _, err := s.lockCheck(ctx, tryoutID, true); err != nil {
		return err
	}
	if _, err := s.getOwned(ctx, tryoutID, questionID); err != nil {
		return err
	}
	if err := s.questionRepo.Reorder(ctx, tryoutID, questionID, newOrder); err != nil {
		return fmt.Errorf("reorder question: %w", err)
	}
	return nil
}

// lockCheck loads the tryout and, for mutations, enforces the content
// freeze once participants exist.
func (s *QuestionService) lockCheck(ctx context.Context, tryoutID int64, mutation bool) (*model.Tryout, error) {
	t, err := s.tryoutRepo.GetByID(ctx, tryoutID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTryoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tryout: %w", err)
	}
	if mutation && !t.Editable() {
		return nil, ErrTryoutLocked
	}
	return t, nil
}

func (s *QuestionService) getOwned(ctx context.Context, tryoutID, questionID int64) (*model.Question, error) {
	q, err := s.questionRepo.GetByID(ctx, questionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	if q.TryoutID != tryoutID {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

func questionFromRequest(tryoutID int64, req *model.QuestionRequest) *model.Question {
	points := req.Points
	if points < 1 {
		points = 1
	}
	options := req.Options
	if model.QuestionType(req.QuestionType) == model.QuestionTypeTrueFalse {
		options = []string{"true", "false"}
	}
	if model.QuestionType(req.QuestionType) == model.QuestionTypeEssay {
		options = nil
	}
	return &model.Question{
		TryoutID:      tryoutID,
		QuestionText:  req.QuestionText,
		QuestionType:  model.QuestionType(req.QuestionType),
		Options:       options,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
		Points:        points,
		OrderNumber:   req.OrderNumber,
	}
}
