package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tryxpert/tryxpert-backend/internal/model"
	"github.com/tryxpert/tryxpert-backend/internal/scoring"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// failingStore wraps MemoryStore and fails SaveFinal until unblocked.
type failingStore struct {
	*MemoryStore
	mu   sync.Mutex
	fail bool
}

func (s *failingStore) SaveFinal(ctx context.Context, tryoutID int64, rec *FinalRecord) error {
	s.mu.Lock()
	fail := s.fail
	s.mu.Unlock()
	if fail {
		return errors.New("storage unavailable")
	}
	return s.MemoryStore.SaveFinal(ctx, tryoutID, rec)
}

func testQuestions() []model.Question {
	return []model.Question{
		{ID: 1, QuestionType: model.QuestionTypeMultipleChoice, Options: []string{"A", "B"}, CorrectAnswer: "A", Points: 10},
		{ID: 2, QuestionType: model.QuestionTypeMultipleChoice, Options: []string{"A", "B"}, CorrectAnswer: "B", Points: 10},
		{ID: 3, QuestionType: model.QuestionTypeEssay, Points: 20},
	}
}

func testTryout(durationMinutes int) *model.Tryout {
	return &model.Tryout{ID: 42, Title: "Tryout Matematika", Duration: durationMinutes}
}

func newTestRunner(t *testing.T, tryout *model.Tryout, store Store, clock Clock, submit SubmitFunc) *Runner {
	t.Helper()
	return NewRunner(tryout, testQuestions(), store, clock, submit, zerolog.Nop())
}

func TestStartFreshSession(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	r := newTestRunner(t, testTryout(60), NewMemoryStore(), clock, nil)

	require.NoError(t, r.Start(context.Background()))

	snap := r.Snapshot()
	assert.Equal(t, StateActive, snap.State)
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.Len(t, snap.Answers, 3)
	assert.Equal(t, clock.Now(), snap.StartedAt)
	require.NotNil(t, snap.RemainingSeconds)
	assert.Equal(t, 3600, *snap.RemainingSeconds)
	assert.Equal(t, 0, snap.AnsweredCount)
}

func TestStartUnlimitedDuration(t *testing.T) {
	clock := newFakeClock(time.Now())
	r := newTestRunner(t, testTryout(model.UnlimitedDuration), NewMemoryStore(), clock, nil)

	require.NoError(t, r.Start(context.Background()))
	assert.Nil(t, r.Snapshot().RemainingSeconds)

	// Ticks never expire an unlimited session.
	for i := 0; i < 1000; i++ {
		assert.False(t, r.Tick(context.Background()))
	}
	assert.Equal(t, StateActive, r.State())
}

func TestResumeFromDraft(t *testing.T) {
	store := NewMemoryStore()
	startedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	selected := "A"
	require.NoError(t, store.SaveDraft(context.Background(), 42, &Draft{
		Answers: []model.UserAnswer{
			{QuestionID: 1, SelectedOption: &selected, Flagged: true},
			{QuestionID: 2},
			{QuestionID: 3},
		},
		StartedAt: startedAt,
	}))

	// 10 minutes have passed since the draft's start time.
	clock := newFakeClock(startedAt.Add(10 * time.Minute))
	r := newTestRunner(t, testTryout(60), store, clock, nil)
	require.NoError(t, r.Start(context.Background()))

	snap := r.Snapshot()
	assert.Equal(t, StateActive, snap.State)
	assert.Equal(t, startedAt, snap.StartedAt)
	require.NotNil(t, snap.Answers[0].SelectedOption)
	assert.Equal(t, "A", *snap.Answers[0].SelectedOption)
	assert.True(t, snap.Answers[0].Flagged)
	require.NotNil(t, snap.RemainingSeconds)
	assert.Equal(t, 50*60, *snap.RemainingSeconds)
}

func TestResumePastDeadlineAutoSubmits(t *testing.T) {
	store := NewMemoryStore()
	startedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	selected := "A"
	require.NoError(t, store.SaveDraft(context.Background(), 42, &Draft{
		Answers: []model.UserAnswer{
			{QuestionID: 1, SelectedOption: &selected},
			{QuestionID: 2},
			{QuestionID: 3},
		},
		StartedAt: startedAt,
	}))

	// The draft is 61 minutes old against a 60 minute limit.
	clock := newFakeClock(startedAt.Add(61 * time.Minute))
	submitted := 0
	r := newTestRunner(t, testTryout(60), store, clock, func(_ context.Context, sub *model.Submission, _ *scoring.Summary) error {
		submitted++
		assert.Equal(t, int64(42), sub.TryoutID)
		assert.Equal(t, 61*60, sub.TimeTakenSeconds)
		return nil
	})

	require.NoError(t, r.Start(context.Background()))
	assert.Equal(t, StateSubmitted, r.State())
	assert.Equal(t, 1, submitted)
	assert.False(t, store.HasDraft(42))

	rec, err := store.LoadFinal(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, startedAt, rec.StartTime)
}

func TestTickCountsDownAndExpires(t *testing.T) {
	startedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := newFakeClock(startedAt)
	store := NewMemoryStore()
	submitted := 0
	// One minute limit so expiry is 60 ticks away.
	r := newTestRunner(t, testTryout(1), store, clock, func(context.Context, *model.Submission, *scoring.Summary) error {
		submitted++
		return nil
	})
	require.NoError(t, r.Start(context.Background()))

	for i := 0; i < 59; i++ {
		assert.False(t, r.Tick(context.Background()))
	}
	snap := r.Snapshot()
	require.NotNil(t, snap.RemainingSeconds)
	assert.Equal(t, 1, *snap.RemainingSeconds)

	clock.Advance(time.Minute)
	assert.True(t, r.Tick(context.Background()))
	assert.Equal(t, StateSubmitted, r.State())
	assert.Equal(t, 1, submitted)

	// Further ticks are inert.
	assert.False(t, r.Tick(context.Background()))
}

func TestNavigationIgnoresOutOfRange(t *testing.T) {
	clock := newFakeClock(time.Now())
	r := newTestRunner(t, testTryout(60), NewMemoryStore(), clock, nil)
	require.NoError(t, r.Start(context.Background()))

	require.NoError(t, r.Previous())
	assert.Equal(t, 0, r.Snapshot().CurrentIndex)

	require.NoError(t, r.Next())
	require.NoError(t, r.Next())
	require.NoError(t, r.Next())
	assert.Equal(t, 2, r.Snapshot().CurrentIndex)

	// Out-of-range jumps leave the cursor untouched.
	require.NoError(t, r.SeekTo(-5))
	assert.Equal(t, 2, r.Snapshot().CurrentIndex)
	require.NoError(t, r.SeekTo(99))
	assert.Equal(t, 2, r.Snapshot().CurrentIndex)
	require.NoError(t, r.SeekTo(3))
	assert.Equal(t, 2, r.Snapshot().CurrentIndex)

	require.NoError(t, r.SeekTo(1))
	assert.Equal(t, 1, r.Snapshot().CurrentIndex)
	require.NoError(t, r.SeekTo(0))
	assert.Equal(t, 0, r.Snapshot().CurrentIndex)
}

func TestAnswerMutationsTargetCurrentQuestion(t *testing.T) {
	clock := newFakeClock(time.Now())
	r := newTestRunner(t, testTryout(60), NewMemoryStore(), clock, nil)
	require.NoError(t, r.Start(context.Background()))

	require.NoError(t, r.SelectOption("B"))
	require.NoError(t, r.ToggleFlag())
	require.NoError(t, r.SeekTo(2))
	require.NoError(t, r.WriteEssay("Jawaban uraian."))

	snap := r.Snapshot()
	require.NotNil(t, snap.Answers[0].SelectedOption)
	assert.Equal(t, "B", *snap.Answers[0].SelectedOption)
	assert.True(t, snap.Answers[0].Flagged)
	assert.Nil(t, snap.Answers[1].SelectedOption)
	require.NotNil(t, snap.Answers[2].EssayAnswer)
	assert.Equal(t, "Jawaban uraian.", *snap.Answers[2].EssayAnswer)

	// Two of three questions answered.
	assert.Equal(t, 2, snap.AnsweredCount)
	assert.Equal(t, 67, snap.Progress)

	require.NoError(t, r.ToggleFlag())
	require.NoError(t, r.ToggleFlag())
	assert.False(t, r.Snapshot().Answers[2].Flagged)
}

func TestSubmitIsIdempotent(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	store := NewMemoryStore()
	submitted := 0
	r := newTestRunner(t, testTryout(60), store, clock, func(context.Context, *model.Submission, *scoring.Summary) error {
		submitted++
		return nil
	})
	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.SelectOption("A"))

	clock.Advance(5 * time.Minute)
	first, err := r.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, 1, first.CorrectCount)

	second, err := r.Submit(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, submitted)
	assert.False(t, store.HasDraft(42))

	rec, err := store.LoadFinal(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 300, rec.TimeTakenSeconds)
}

func TestSubmitFailureKeepsSessionAlive(t *testing.T) {
	clock := newFakeClock(time.Now())
	store := &failingStore{MemoryStore: NewMemoryStore(), fail: true}
	r := newTestRunner(t, testTryout(60), store, clock, nil)
	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.SelectOption("A"))

	_, err := r.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateActive, r.State())

	// Answers survive the failed attempt and the retry succeeds.
	store.mu.Lock()
	store.fail = false
	store.mu.Unlock()

	summary, err := r.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.CorrectCount)
	assert.Equal(t, StateSubmitted, r.State())
}

func TestMutationsRejectedAfterSubmit(t *testing.T) {
	clock := newFakeClock(time.Now())
	r := newTestRunner(t, testTryout(60), NewMemoryStore(), clock, nil)
	require.NoError(t, r.Start(context.Background()))

	_, err := r.Submit(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, r.SelectOption("A"), ErrSessionClosed)
	assert.ErrorIs(t, r.Next(), ErrSessionClosed)
	assert.ErrorIs(t, r.SeekTo(1), ErrSessionClosed)
	assert.ErrorIs(t, r.ToggleFlag(), ErrSessionClosed)
}

func TestSaveDraftRoundTrip(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	store := NewMemoryStore()
	r := newTestRunner(t, testTryout(60), store, clock, nil)
	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.SelectOption("B"))
	require.NoError(t, r.SeekTo(2))
	require.NoError(t, r.WriteEssay("Draf jawaban"))

	require.NoError(t, r.SaveDraft(context.Background()))

	draft, err := store.LoadDraft(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, r.Snapshot().Answers, draft.Answers)
	assert.Equal(t, r.Snapshot().StartedAt, draft.StartedAt)
}

func TestDraftAlignsWithChangedQuestionList(t *testing.T) {
	store := NewMemoryStore()
	startedAt := time.Now().Add(-time.Minute)
	selected := "A"
	// The draft references a question that no longer exists (id 99).
	require.NoError(t, store.SaveDraft(context.Background(), 42, &Draft{
		Answers: []model.UserAnswer{
			{QuestionID: 99, SelectedOption: &selected},
			{QuestionID: 2, SelectedOption: &selected},
		},
		StartedAt: startedAt,
	}))

	clock := newFakeClock(time.Now())
	r := newTestRunner(t, testTryout(60), store, clock, nil)
	require.NoError(t, r.Start(context.Background()))

	snap := r.Snapshot()
	require.Len(t, snap.Answers, 3)
	assert.Nil(t, snap.Answers[0].SelectedOption)
	require.NotNil(t, snap.Answers[1].SelectedOption)
	assert.Equal(t, "A", *snap.Answers[1].SelectedOption)
	assert.Equal(t, int64(3), snap.Answers[2].QuestionID)
}
