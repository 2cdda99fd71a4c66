// Package schedule derives tryout availability from its scheduled window and
// decomposes the time left until a boundary. Everything here is pure; callers
// supply the clock reading so behavior stays deterministic under test.
package schedule

import "time"

// Status is the availability of a tryout at a given instant.
type Status string

const (
	StatusNotStarted Status = "notStarted"
	StatusInProgress Status = "inProgress"
	StatusEnded      Status = "ended"
)

// Resolve maps an instant onto the tryout window. The intervals are
// half-open: now == start is already in progress, now == end is already
// ended. The three statuses partition the timeline with no gaps.
func Resolve(now, start, end time.Time) Status {
	if now.Before(start) {
		return StatusNotStarted
	}
	if now.Before(end) {
		return StatusInProgress
	}
	return StatusEnded
}

// Breakdown is a countdown split into display units.
type Breakdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Remaining decomposes the time left until target into whole display units.
// Returns nil once the target has been reached or passed.
func Remaining(target, now time.Time) *Breakdown {
	if !now.Before(target) {
		return nil
	}
	total := int(target.Sub(now) / time.Second)
	return &Breakdown{
		Days:    total / 86400,
		Hours:   (total % 86400) / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// Countdown tracks a tryout window so each tick can re-resolve the status
// and count toward the relevant boundary.
type Countdown struct {
	Start time.Time
	End   time.Time
}

// Tick resolves the status at now and returns the breakdown toward the
// boundary that matters: the start while not started, the end while in
// progress, nil once ended. Ended is terminal for display purposes.
func (c Countdown) Tick(now time.Time) (Status, *Breakdown) {
	switch status := Resolve(now, c.Start, c.End); status {
	case StatusNotStarted:
		return status, Remaining(c.Start, now)
	case StatusInProgress:
		return status, Remaining(c.End, now)
	default:
		return status, nil
	}
}
