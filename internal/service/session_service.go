package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tryxpert/tryxpert-backend/internal/config"
	"github.com/tryxpert/tryxpert-backend/internal/model"
	"github.com/tryxpert/tryxpert-backend/internal/repository"
	"github.com/tryxpert/tryxpert-backend/internal/schedule"
	"github.com/tryxpert/tryxpert-backend/internal/scoring"
	"github.com/tryxpert/tryxpert-backend/internal/session"
)

// Domain Errors
var (
	ErrTryoutNotStarted = errors.New("tryout has not started")
	ErrTryoutEnded      = errors.New("tryout has ended")
	ErrNoQuestions      = errors.New("tryout has no questions")
	ErrSessionNotFound  = errors.New("no active session for this tryout")
)

// SessionService owns the in-process session runners. Identity is a fixed
// placeholder, so there is at most one runner per tryout.
type SessionService struct {
	tryoutRepo   *repository.TryoutRepository
	questionRepo *repository.QuestionRepository
	store        session.Store
	rdb          *redis.Client
	clock        session.Clock
	userID       string
	log          zerolog.Logger

	mu      sync.Mutex
	runners map[int64]*runnerEntry
}

type runnerEntry struct {
	runner    *session.Runner
	tryout    *model.Tryout
	questions []model.Question
	cancel    context.CancelFunc
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	tryoutRepo *repository.TryoutRepository,
	questionRepo *repository.QuestionRepository,
	store session.Store,
	rdb *redis.Client,
	clock session.Clock,
	userID string,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		tryoutRepo:   tryoutRepo,
		questionRepo: questionRepo,
		store:        store,
		rdb:          rdb,
		clock:        clock,
		userID:       userID,
		log:          log.With().Str("component", "session_service").Logger(),
		runners:      make(map[int64]*runnerEntry),
	}
}

// SessionView is the API shape of a running session. Questions are the
// public view, without the answer key.
type SessionView struct {
	session.Snapshot
	TryoutID  int64            `json:"tryout_id"`
	Title     string           `json:"title"`
	Duration  int              `json:"duration"`
	Questions []model.Question `json:"questions"`
}

// Start opens or resumes a session for a tryout. The tryout window is
// resolved against a fresh clock reading immediately before the session is
// created; a tryout outside its window never gets a session.
func (s *SessionService) Start(ctx context.Context, tryoutID int64) (*SessionView, error) {
	s.mu.Lock()
	if entry, ok := s.runners[tryoutID]; ok {
		s.mu.Unlock()
		return s.view(entry), nil
	}
	s.mu.Unlock()

	tryout, err := s.tryoutRepo.GetByID(ctx, tryoutID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTryoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tryout: %w", err)
	}

	switch schedule.Resolve(s.clock.Now(), tryout.StartDate, tryout.EndDate) {
	case schedule.StatusNotStarted:
		return nil, ErrTryoutNotStarted
	case schedule.StatusEnded:
		return nil, ErrTryoutEnded
	}

	questions, err := s.questionRepo.ListByTryout(ctx, tryoutID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	runner := session.NewRunner(tryout, questions, s.store, s.clock, s.enqueueSubmission, s.log)
	if err := runner.Start(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if entry, ok := s.runners[tryoutID]; ok {
		// Lost the race to a concurrent start; use the winner.
		s.mu.Unlock()
		runner.Stop()
		return s.view(entry), nil
	}
	runCtx, cancel := context.WithCancel(context.Background())
	entry := &runnerEntry{runner: runner, tryout: tryout, questions: questions, cancel: cancel}
	s.runners[tryoutID] = entry
	s.mu.Unlock()

	go runner.Run(runCtx)
	return s.view(entry), nil
}

// State returns the current session snapshot for a tryout.
func (s *SessionService) State(tryoutID int64) (*SessionView, error) {
	entry, err := s.get(tryoutID)
	if err != nil {
		return nil, err
	}
	return s.view(entry), nil
}

// Runner exposes the raw runner, used by the WebSocket stream.
func (s *SessionService) Runner(tryoutID int64) (*session.Runner, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.runners[tryoutID]
	if !ok {
		return nil, false
	}
	return entry.runner, true
}

// UpdateAnswer applies one answer mutation to the session's current question.
func (s *SessionService) UpdateAnswer(tryoutID int64, req *model.AnswerUpdateRequest) (*SessionView, error) {
	entry, err := s.get(tryoutID)
	if err != nil {
		return nil, err
	}

	switch {
	case req.SelectedOption != nil:
		err = entry.runner.SelectOption(*req.SelectedOption)
	case req.EssayAnswer != nil:
		err = entry.runner.WriteEssay(*req.EssayAnswer)
	case req.ToggleFlag:
		err = entry.runner.ToggleFlag()
	default:
		return s.view(entry), nil
	}
	if err != nil {
		return nil, err
	}
	return s.view(entry), nil
}

// SeekTo moves the session cursor. Out-of-range indexes leave it unchanged.
func (s *SessionService) SeekTo(tryoutID int64, index int) (*SessionView, error) {
	entry, err := s.get(tryoutID)
	if err != nil {
		return nil, err
	}
	if err := entry.runner.SeekTo(index); err != nil {
		return nil, err
	}
	return s.view(entry), nil
}

// Submit finishes the session. Safe to call repeatedly; the first submit
// wins and later calls get the same summary. The submitted runner stays
// registered so repeated submits keep resolving instead of turning into a
// missing session.
func (s *SessionService) Submit(ctx context.Context, tryoutID int64) (*scoring.Summary, error) {
	entry, err := s.get(tryoutID)
	if err != nil {
		return nil, err
	}

	summary, err := entry.runner.Submit(ctx)
	if err != nil {
		return nil, err
	}

	// The runner cancelled its own tickers; stop the Run goroutine too.
	entry.cancel()
	return summary, nil
}

// Shutdown stops every runner and flushes their drafts.
func (s *SessionService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	entries := make([]*runnerEntry, 0, len(s.runners))
	for _, entry := range s.runners {
		entries = append(entries, entry)
	}
	s.runners = make(map[int64]*runnerEntry)
	s.mu.Unlock()

	for _, entry := range entries {
		if err := entry.runner.SaveDraft(ctx); err != nil {
			s.log.Warn().Err(err).Msg("final draft flush failed")
		}
		entry.cancel()
	}
}

// enqueueSubmission hands the graded submission to the persistence worker
// through the Redis queue.
func (s *SessionService) enqueueSubmission(ctx context.Context, sub *model.Submission, _ *scoring.Summary) error {
	sub.ID = uuid.New()
	sub.UserID = s.userID

	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistSubmissionsQueue, payload).Err(); err != nil {
		return fmt.Errorf("queue submission: %w", err)
	}
	return nil
}

func (s *SessionService) get(tryoutID int64) (*runnerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.runners[tryoutID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry, nil
}

func (s *SessionService) view(entry *runnerEntry) *SessionView {
	questions := make([]model.Question, len(entry.questions))
	for i, q := range entry.questions {
		questions[i] = q.PublicView()
	}
	return &SessionView{
		Snapshot:  entry.runner.Snapshot(),
		TryoutID:  entry.tryout.ID,
		Title:     entry.tryout.Title,
		Duration:  entry.tryout.Duration,
		Questions: questions,
	}
}
