// Package session owns a learner's progress through one tryout: the timer,
// the answer sheet, draft persistence, and the submit path.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tryxpert/tryxpert-backend/internal/model"
	"github.com/tryxpert/tryxpert-backend/internal/scoring"
)

// State is the lifecycle phase of a session.
type State string

const (
	StateInitializing State = "initializing"
	StateActive       State = "active"
	StateExpired      State = "expired"
	StateSubmitting   State = "submitting"
	StateSubmitted    State = "submitted"
)

const (
	countdownInterval = time.Second
	autosaveInterval  = 10 * time.Second
)

var (
	// ErrSubmitInFlight is returned while an earlier submit is still running.
	ErrSubmitInFlight = errors.New("submit already in flight")
	// ErrSessionClosed is returned for mutations after the session submitted.
	ErrSessionClosed = errors.New("session already submitted")
	// ErrNotStarted is returned when the runner has not been started yet.
	ErrNotStarted = errors.New("session not started")
)

// SubmitFunc receives the final graded submission for remote persistence.
// An error keeps the session alive so the submit can be retried.
type SubmitFunc func(ctx context.Context, sub *model.Submission, summary *scoring.Summary) error

// Snapshot is a consistent read of the runner state for API responses and
// the WebSocket stream.
type Snapshot struct {
	State            State              `json:"state"`
	CurrentIndex     int                `json:"current_index"`
	Answers          []model.UserAnswer `json:"answers"`
	StartedAt        time.Time          `json:"started_at"`
	RemainingSeconds *int               `json:"remaining_seconds"` // nil when unlimited
	AnsweredCount    int                `json:"answered_count"`
	TotalQuestions   int                `json:"total_questions"`
	Progress         int                `json:"progress"`
}

// Runner drives one session. All exported methods are safe for concurrent
// use; the countdown and autosave tickers run in Run.
type Runner struct {
	tryout    *model.Tryout
	questions []model.Question
	store     Store
	clock     Clock
	submit    SubmitFunc
	log       zerolog.Logger

	mu         sync.Mutex
	state      State
	answers    []model.UserAnswer
	current    int
	startedAt  time.Time
	remaining  *int // seconds left; nil when the tryout is unlimited
	submitting bool
	summary    *scoring.Summary

	cancel context.CancelFunc
}

// NewRunner builds a runner in the Initializing state. Call Start before
// anything else.
func NewRunner(tryout *model.Tryout, questions []model.Question, store Store, clock Clock, submit SubmitFunc, log zerolog.Logger) *Runner {
	return &Runner{
		tryout:    tryout,
		questions: questions,
		store:     store,
		clock:     clock,
		submit:    submit,
		log: log.With().
			Str("component", "session_runner").
			Int64("tryout_id", tryout.ID).
			Logger(),
		state: StateInitializing,
	}
}

// Start restores a draft if one exists, otherwise initializes a blank answer
// sheet, then computes the remaining time. A resume that lands on zero
// remaining expires and auto-submits immediately.
func (r *Runner) Start(ctx context.Context) error {
	draft, err := r.store.LoadDraft(ctx, r.tryout.ID)
	if err != nil {
		return fmt.Errorf("restore draft: %w", err)
	}

	now := r.clock.Now()

	r.mu.Lock()
	if r.state != StateInitializing {
		r.mu.Unlock()
		return nil
	}
	if draft != nil {
		r.answers = alignAnswers(draft.Answers, r.questions)
		r.startedAt = draft.StartedAt
		r.log.Info().Time("started_at", r.startedAt).Msg("session resumed from draft")
	} else {
		r.answers = model.NewBlankAnswers(r.questions)
		r.startedAt = now
	}

	expired := false
	if total, limited := r.tryout.DurationSeconds(); limited {
		left := total - int(now.Sub(r.startedAt)/time.Second)
		if left <= 0 {
			left = 0
			expired = true
		}
		r.remaining = &left
	}

	if expired {
		r.state = StateExpired
		r.mu.Unlock()
		r.log.Info().Msg("resumed past the time limit, submitting")
		_, err := r.Submit(ctx)
		return err
	}

	r.state = StateActive
	r.mu.Unlock()
	return nil
}

// Run drives the countdown and autosave tickers until the session submits
// or ctx is cancelled. Both tickers stop together.
func (r *Runner) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.mu.Lock()
	r.cancel = cancel
	done := r.state == StateSubmitted
	r.mu.Unlock()
	if done {
		return
	}

	countdown := time.NewTicker(countdownInterval)
	defer countdown.Stop()
	autosave := time.NewTicker(autosaveInterval)
	defer autosave.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-countdown.C:
			r.Tick(ctx)
		case <-autosave.C:
			if err := r.SaveDraft(ctx); err != nil {
				r.log.Warn().Err(err).Msg("draft autosave failed")
			}
		}
	}
}

// Tick advances the countdown by one interval. When the tick exhausts the
// remaining time the session expires and auto-submits through the same path
// as a manual submit. Returns true when the tick caused expiry.
func (r *Runner) Tick(ctx context.Context) bool {
	r.mu.Lock()
	if r.state != StateActive || r.remaining == nil {
		r.mu.Unlock()
		return false
	}
	left := *r.remaining - 1
	if left > 0 {
		r.remaining = &left
		r.mu.Unlock()
		return false
	}
	zero := 0
	r.remaining = &zero
	r.state = StateExpired
	r.mu.Unlock()

	r.log.Info().Msg("time limit reached, submitting")
	if _, err := r.Submit(ctx); err != nil && !errors.Is(err, ErrSubmitInFlight) {
		r.log.Error().Err(err).Msg("auto-submit failed")
	}
	return true
}

// SaveDraft persists the current answer sheet and start time. It is a no-op
// once the session has submitted.
func (r *Runner) SaveDraft(ctx context.Context) error {
	r.mu.Lock()
	if r.state == StateSubmitted || r.state == StateSubmitting || r.state == StateInitializing {
		r.mu.Unlock()
		return nil
	}
	draft := &Draft{
		Answers:   append([]model.UserAnswer(nil), r.answers...),
		StartedAt: r.startedAt,
	}
	r.mu.Unlock()

	return r.store.SaveDraft(ctx, r.tryout.ID, draft)
}

// Submit grades the answer sheet, persists the final record, clears the
// draft, and hands the submission to the persistence hook. It is idempotent:
// a submitted session returns its existing summary, and a second caller
// racing an in-flight submit gets ErrSubmitInFlight. On persistence failure
// the in-memory state is kept so the submit can be retried.
func (r *Runner) Submit(ctx context.Context) (*scoring.Summary, error) {
	r.mu.Lock()
	switch {
	case r.state == StateSubmitted:
		summary := r.summary
		r.mu.Unlock()
		return summary, nil
	case r.state == StateInitializing:
		r.mu.Unlock()
		return nil, ErrNotStarted
	case r.submitting:
		r.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	prev := r.state
	r.submitting = true
	r.state = StateSubmitting
	answers := append([]model.UserAnswer(nil), r.answers...)
	startedAt := r.startedAt
	r.mu.Unlock()

	now := r.clock.Now()
	elapsed := int(now.Sub(startedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	summary := scoring.Score(r.questions, answers)

	rec := &FinalRecord{
		Answers:          summary.Answers,
		StartTime:        startedAt,
		EndTime:          now,
		TimeTakenSeconds: elapsed,
	}
	if err := r.store.SaveFinal(ctx, r.tryout.ID, rec); err != nil {
		r.rollback(prev)
		return nil, fmt.Errorf("persist result: %w", err)
	}

	if r.submit != nil {
		sub := &model.Submission{
			TryoutID:         r.tryout.ID,
			StartTime:        startedAt,
			EndTime:          now,
			TimeTakenSeconds: elapsed,
			Answers:          answers,
		}
		if err := r.submit(ctx, sub, &summary); err != nil {
			r.rollback(prev)
			return nil, fmt.Errorf("queue submission: %w", err)
		}
	}

	r.mu.Lock()
	r.state = StateSubmitted
	r.summary = &summary
	r.submitting = false
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.log.Info().
		Int("percentage", summary.Percentage).
		Int("time_taken_seconds", elapsed).
		Msg("session submitted")
	return &summary, nil
}

// rollback restores the pre-submit state after a persistence failure.
func (r *Runner) rollback(prev State) {
	r.mu.Lock()
	r.state = prev
	r.submitting = false
	r.mu.Unlock()
}

// SeekTo moves the cursor to index. Out-of-range values leave the cursor
// where it is.
func (r *Runner) SeekTo(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.mutableLocked(); err != nil {
		return err
	}
	if index >= 0 && index < len(r.questions) {
		r.current = index
	}
	return nil
}

// Next advances the cursor by one; a no-op on the last question.
func (r *Runner) Next() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.mutableLocked(); err != nil {
		return err
	}
	if r.current < len(r.questions)-1 {
		r.current++
	}
	return nil
}

// Previous moves the cursor back by one; a no-op on the first question.
func (r *Runner) Previous() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.mutableLocked(); err != nil {
		return err
	}
	if r.current > 0 {
		r.current--
	}
	return nil
}

// SelectOption records an option for the current question. Any string is
// accepted; grading happens at submit.
func (r *Runner) SelectOption(value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.mutableLocked(); err != nil {
		return err
	}
	r.answers[r.current].SelectedOption = &value
	return nil
}

// WriteEssay records essay text for the current question.
func (r *Runner) WriteEssay(value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.mutableLocked(); err != nil {
		return err
	}
	r.answers[r.current].EssayAnswer = &value
	return nil
}

// ToggleFlag flips the review flag on the current question.
func (r *Runner) ToggleFlag() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.mutableLocked(); err != nil {
		return err
	}
	r.answers[r.current].Flagged = !r.answers[r.current].Flagged
	return nil
}

// Snapshot returns a consistent copy of the session state.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	answered := 0
	for i, q := range r.questions {
		if i < len(r.answers) && scoring.Answered(q, r.answers[i]) {
			answered++
		}
	}
	progress := 0
	if len(r.questions) > 0 {
		progress = int(math.Round(100 * float64(answered) / float64(len(r.questions))))
	}

	snap := Snapshot{
		State:          r.state,
		CurrentIndex:   r.current,
		Answers:        append([]model.UserAnswer(nil), r.answers...),
		StartedAt:      r.startedAt,
		AnsweredCount:  answered,
		TotalQuestions: len(r.questions),
		Progress:       progress,
	}
	if r.remaining != nil {
		left := *r.remaining
		snap.RemainingSeconds = &left
	}
	return snap
}

// State returns the current lifecycle phase.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Summary returns the graded summary once submitted, nil before.
func (r *Runner) Summary() *scoring.Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// Stop cancels the ticker loop without submitting.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (r *Runner) mutableLocked() error {
	switch r.state {
	case StateInitializing:
		return ErrNotStarted
	case StateSubmitted, StateSubmitting:
		return ErrSessionClosed
	}
	return nil
}

// alignAnswers maps a restored draft onto the current question list. Answers
// for deleted questions are dropped; new questions get blank slots.
func alignAnswers(saved []model.UserAnswer, questions []model.Question) []model.UserAnswer {
	byQuestion := make(map[int64]model.UserAnswer, len(saved))
	for _, a := range saved {
		byQuestion[a.QuestionID] = a
	}
	answers := make([]model.UserAnswer, len(questions))
	for i, q := range questions {
		if a, ok := byQuestion[q.ID]; ok {
			answers[i] = a
		} else {
			answers[i] = model.UserAnswer{QuestionID: q.ID}
		}
	}
	return answers
}
