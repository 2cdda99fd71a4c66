package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tryxpert/tryxpert-backend/internal/schedule"
	"github.com/tryxpert/tryxpert-backend/internal/scoring"
	"github.com/tryxpert/tryxpert-backend/internal/service"
	"github.com/tryxpert/tryxpert-backend/internal/session"
	ws "github.com/tryxpert/tryxpert-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the countdown and session timer over WebSocket. It is
// the production driver of the 1 s tick the clients display.
type WSHandler struct {
	tryoutService  *service.TryoutService
	sessionService *service.SessionService
	clock          session.Clock
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(tryoutService *service.TryoutService, sessionService *service.SessionService, clock session.Clock, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		tryoutService:  tryoutService,
		sessionService: sessionService,
		clock:          clock,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// TryoutStream godoc
// WS /ws/v1/tryouts/:tryout_id/stream
// Pushes one countdown frame per second. While a session is running the
// frame carries its state, remaining seconds, and progress; when the timer
// expires or the session submits, a final submitted frame closes the loop.
func (h *WSHandler) TryoutStream(c *gin.Context) {
	tryoutID, err := strconv.ParseInt(c.Param("tryout_id"), 10, 64)
	if err != nil || tryoutID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tryout ID"})
		return
	}

	tryout, err := h.tryoutService.Get(c.Request.Context(), tryoutID)
	if errors.Is(err, service.ErrTryoutNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "tryout not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int64("tryout_id", tryoutID).Logger()
	wsLog.Info().Msg("stream connected")

	closed := make(chan struct{})
	go h.readPump(conn, closed, wsLog)

	cd := schedule.Countdown{Start: tryout.StartDate, End: tryout.EndDate}
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var wasActive bool
	for {
		select {
		case <-closed:
			wsLog.Debug().Msg("stream closed by client")
			return
		case <-ticker.C:
			status, remaining := cd.Tick(h.clock.Now())
			frame := ws.CountdownFrame{
				Event:     ws.EventCountdown,
				Status:    status,
				Remaining: remaining,
			}

			runner, ok := h.sessionService.Runner(tryoutID)
			if ok {
				snap := runner.Snapshot()
				frame.SessionState = snap.State
				frame.SessionRemainingSeconds = snap.RemainingSeconds
				progress := snap.Progress
				frame.Progress = &progress

				if snap.State == session.StateSubmitted {
					h.writeSubmitted(conn, runner, wasActive, wsLog)
					return
				}
				wasActive = true
			} else if wasActive {
				// The runner disappeared between ticks: the session
				// submitted and was unregistered.
				wsLog.Info().Msg("session finished, closing stream")
				_ = ws.WriteTyped(conn, ws.SubmittedFrame{Event: ws.EventSubmitted})
				return
			}

			if err := ws.WriteTyped(conn, frame); err != nil {
				wsLog.Debug().Err(err).Msg("write failed, dropping stream")
				return
			}
		}
	}
}

// writeSubmitted sends the terminal frame after an expiry or submit.
func (h *WSHandler) writeSubmitted(conn *websocket.Conn, runner *session.Runner, wasActive bool, wsLog zerolog.Logger) {
	frame := ws.SubmittedFrame{
		Event:      ws.EventSubmitted,
		AutoSubmit: wasActive,
	}
	if summary := runner.Summary(); summary != nil {
		frame.Percentage = summary.Percentage
		frame.Category = scoring.Category(summary.Percentage)
	}
	if err := ws.WriteTyped(conn, frame); err != nil {
		wsLog.Debug().Err(err).Msg("submitted frame write failed")
	}
	wsLog.Info().Msg("session finished, closing stream")
}

// readPump answers pings and detects the client going away.
func (h *WSHandler) readPump(conn *websocket.Conn, closed chan<- struct{}, wsLog zerolog.Logger) {
	defer close(closed)
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("unexpected close")
			}
			return
		}
		if msg.Action == ws.ActionPing {
			_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		}
	}
}
