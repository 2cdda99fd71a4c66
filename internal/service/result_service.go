package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/tryxpert/tryxpert-backend/internal/model"
	"github.com/tryxpert/tryxpert-backend/internal/repository"
	"github.com/tryxpert/tryxpert-backend/internal/scoring"
	"github.com/tryxpert/tryxpert-backend/internal/session"
)

// ErrResultNotFound is returned when a tryout has no submitted result.
var ErrResultNotFound = errors.New("no result for this tryout")

// ResultService builds the result view from the persisted final record.
type ResultService struct {
	tryoutRepo     *repository.TryoutRepository
	questionRepo   *repository.QuestionRepository
	submissionRepo *repository.SubmissionRepository
	store          session.Store
	log            zerolog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(
	tryoutRepo *repository.TryoutRepository,
	questionRepo *repository.QuestionRepository,
	submissionRepo *repository.SubmissionRepository,
	store session.Store,
	log zerolog.Logger,
) *ResultService {
	return &ResultService{
		tryoutRepo:     tryoutRepo,
		questionRepo:   questionRepo,
		submissionRepo: submissionRepo,
		store:          store,
		log:            log.With().Str("component", "result_service").Logger(),
	}
}

// Get assembles the scored result and the per-question review for a tryout.
// Aggregates are recomputed from the stored answers so the result stays
// consistent with the grading rules even if the record predates them.
func (s *ResultService) Get(ctx context.Context, tryoutID int64) (*model.TryoutResult, error) {
	tryout, err := s.tryoutRepo.GetByID(ctx, tryoutID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTryoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tryout: %w", err)
	}

	rec, err := s.store.LoadFinal(ctx, tryoutID)
	if err != nil {
		return nil, fmt.Errorf("load result: %w", err)
	}
	if rec == nil {
		return nil, ErrResultNotFound
	}

	questions, err := s.questionRepo.ListByTryout(ctx, tryoutID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	answers := make([]model.UserAnswer, 0, len(rec.Answers))
	for _, a := range rec.Answers {
		answers = append(answers, model.UserAnswer{
			QuestionID:     a.QuestionID,
			SelectedOption: a.SelectedOption,
			EssayAnswer:    a.EssayAnswer,
			Flagged:        a.Flagged,
		})
	}
	summary := scoring.Score(questions, answers)

	return &model.TryoutResult{
		TryoutID:         tryout.ID,
		Title:            tryout.Title,
		Subject:          tryout.Subject,
		Percentage:       summary.Percentage,
		Category:         scoring.Category(summary.Percentage),
		EarnedPoints:     summary.EarnedPoints,
		TotalPoints:      summary.TotalPoints,
		CorrectCount:     summary.CorrectCount,
		IncorrectCount:   summary.IncorrectCount,
		UnansweredCount:  summary.UnansweredCount,
		TotalQuestions:   len(questions),
		StartTime:        rec.StartTime,
		EndTime:          rec.EndTime,
		TimeTakenSeconds: rec.TimeTakenSeconds,
		TimeTakenLabel:   scoring.FormatTimeTaken(rec.TimeTakenSeconds),
		Answers:          summary.Answers,
		Questions:        questions,
		Recommendations:  scoring.Recommendations(summary.Percentage),
	}, nil
}

// ListSubmissions returns the persisted submission headers for a tryout.
func (s *ResultService) ListSubmissions(ctx context.Context, tryoutID int64) ([]model.Submission, error) {
	if _, err := s.tryoutRepo.GetByID(ctx, tryoutID); errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTryoutNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get tryout: %w", err)
	}

	subs, err := s.submissionRepo.ListByTryout(ctx, tryoutID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if subs == nil {
		subs = []model.Submission{}
	}
	return subs, nil
}
