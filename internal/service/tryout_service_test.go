package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/tryxpert/tryxpert-backend/internal/model"
	"github.com/tryxpert/tryxpert-backend/internal/session"
)

func intPtr(n int) *int { return &n }

func createRequest() *model.CreateTryoutRequest {
	start := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	return &model.CreateTryoutRequest{
		Title:      "Tryout Fisika",
		Subject:    "Fisika",
		StartDate:  start,
		EndDate:    start.Add(2 * time.Hour),
		Difficulty: "Menengah",
	}
}

func TestCreateTryoutRejectsInvalidWindow(t *testing.T) {
	svc := NewTryoutService(nil, session.SystemClock{}, zerolog.Nop())

	req := createRequest()
	req.EndDate = req.StartDate
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	req.EndDate = req.StartDate.Add(-time.Hour)
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestCreateTryoutRejectsZeroDuration(t *testing.T) {
	svc := NewTryoutService(nil, session.SystemClock{}, zerolog.Nop())

	req := createRequest()
	req.Duration = intPtr(0)
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	req.Duration = intPtr(-5)
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}
