package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	start = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	end   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func TestResolveBoundaries(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"well before start", start.Add(-24 * time.Hour), StatusNotStarted},
		{"one second before start", start.Add(-time.Second), StatusNotStarted},
		{"exactly at start", start, StatusInProgress},
		{"mid window", start.Add(2 * time.Hour), StatusInProgress},
		{"one second before end", end.Add(-time.Second), StatusInProgress},
		{"exactly at end", end, StatusEnded},
		{"after end", end.Add(time.Hour), StatusEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.now, start, end))
		})
	}
}

func TestResolvePartitionsTimeline(t *testing.T) {
	// Every instant resolves to exactly one status; stepping forward one
	// second at a time never skips or revisits a phase.
	now := start.Add(-5 * time.Second)
	prev := Resolve(now, start, end)
	order := map[Status]int{StatusNotStarted: 0, StatusInProgress: 1, StatusEnded: 2}
	for i := 0; i < int(end.Sub(start)/time.Second)+10; i++ {
		now = now.Add(time.Second)
		cur := Resolve(now, start, end)
		assert.GreaterOrEqual(t, order[cur], order[prev])
		prev = cur
	}
	assert.Equal(t, StatusEnded, prev)
}

func TestRemainingDecomposition(t *testing.T) {
	target := time.Date(2026, 3, 3, 10, 30, 45, 0, time.UTC)
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	got := Remaining(target, now)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Days)
	assert.Equal(t, 2, got.Hours)
	assert.Equal(t, 30, got.Minutes)
	assert.Equal(t, 45, got.Seconds)
}

func TestRemainingNilAtAndAfterTarget(t *testing.T) {
	target := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	assert.Nil(t, Remaining(target, target))
	assert.Nil(t, Remaining(target, target.Add(time.Second)))
	assert.NotNil(t, Remaining(target, target.Add(-time.Second)))
}

func TestRemainingNeverNegative(t *testing.T) {
	target := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{-90 * time.Second, -time.Second, 0, time.Second, time.Hour} {
		b := Remaining(target, target.Add(offset))
		if b == nil {
			continue
		}
		assert.GreaterOrEqual(t, b.Days, 0)
		assert.GreaterOrEqual(t, b.Hours, 0)
		assert.GreaterOrEqual(t, b.Minutes, 0)
		assert.GreaterOrEqual(t, b.Seconds, 0)
	}
}

func TestRemainingMonotoneNonIncreasing(t *testing.T) {
	target := time.Date(2026, 3, 1, 8, 1, 0, 0, time.UTC)
	now := target.Add(-75 * time.Second)

	prevTotal := 1 << 30
	for now.Before(target) {
		b := Remaining(target, now)
		require.NotNil(t, b)
		total := b.Days*86400 + b.Hours*3600 + b.Minutes*60 + b.Seconds
		assert.LessOrEqual(t, total, prevTotal)
		prevTotal = total
		now = now.Add(time.Second)
	}
}

func TestCountdownSwitchesTarget(t *testing.T) {
	cd := Countdown{Start: start, End: end}

	// Before the window, the countdown runs toward the start.
	status, b := cd.Tick(start.Add(-time.Minute))
	assert.Equal(t, StatusNotStarted, status)
	require.NotNil(t, b)
	assert.Equal(t, 1, b.Minutes)
	assert.Equal(t, 0, b.Seconds)

	// Inside the window, it runs toward the end.
	status, b = cd.Tick(start)
	assert.Equal(t, StatusInProgress, status)
	require.NotNil(t, b)
	assert.Equal(t, 4, b.Hours)

	// At and after the end, the countdown is terminal.
	status, b = cd.Tick(end)
	assert.Equal(t, StatusEnded, status)
	assert.Nil(t, b)
}

func TestCountdownFullScenario(t *testing.T) {
	// A window observed shortly before start counts down to it, flips to
	// the in-progress countdown at the boundary, and ends cleanly.
	cd := Countdown{Start: start, End: start.Add(3 * time.Second)}

	now := start.Add(-2 * time.Second)
	var statuses []Status
	for i := 0; i < 7; i++ {
		status, _ := cd.Tick(now)
		statuses = append(statuses, status)
		now = now.Add(time.Second)
	}
	assert.Equal(t, []Status{
		StatusNotStarted, StatusNotStarted,
		StatusInProgress, StatusInProgress, StatusInProgress,
		StatusEnded, StatusEnded,
	}, statuses)
}
