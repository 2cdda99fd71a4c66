package websocket

import (
	"github.com/tryxpert/tryxpert-backend/internal/schedule"
	"github.com/tryxpert/tryxpert-backend/internal/session"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError     Event = "error"
	EventCountdown Event = "countdown"
	EventExpired   Event = "expired"
	EventSubmitted Event = "submitted"
	EventPong      Event = "pong"
)

// CountdownFrame is pushed once per second while a stream is open. The
// breakdown counts toward the window start before the tryout opens and
// toward the window end while it runs; it is absent once the tryout ended.
// Session fields are present only while the learner has an active session.
type CountdownFrame struct {
	Event                   Event               `json:"event"`
	Status                  schedule.Status     `json:"status"`
	Remaining               *schedule.Breakdown `json:"remaining,omitempty"`
	SessionState            session.State       `json:"session_state,omitempty"`
	SessionRemainingSeconds *int                `json:"session_remaining_seconds,omitempty"`
	Progress                *int                `json:"progress,omitempty"`
}

// SubmittedFrame notifies the client that the session finished, either by
// an explicit submit or by the timer expiring.
type SubmittedFrame struct {
	Event      Event  `json:"event"`
	AutoSubmit bool   `json:"auto_submit"`
	Percentage int    `json:"percentage"`
	Category   string `json:"category"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
