package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/tryxpert/tryxpert-backend/internal/model"
	"github.com/tryxpert/tryxpert-backend/internal/repository"
	"github.com/tryxpert/tryxpert-backend/internal/schedule"
	"github.com/tryxpert/tryxpert-backend/internal/session"
)

// Domain Errors
var (
	ErrTryoutNotFound  = errors.New("tryout not found")
	ErrTryoutLocked    = errors.New("tryout already has participants")
	ErrInvalidWindow   = errors.New("start date must be before end date")
	ErrInvalidDuration = errors.New("duration must be -1 or at least one minute")
)

// TryoutService handles tryout business logic.
type TryoutService struct {
	tryoutRepo *repository.TryoutRepository
	clock      session.Clock
	log        zerolog.Logger
}

// NewTryoutService creates a new TryoutService.
func NewTryoutService(tryoutRepo *repository.TryoutRepository, clock session.Clock, log zerolog.Logger) *TryoutService {
	return &TryoutService{
		tryoutRepo: tryoutRepo,
		clock:      clock,
		log:        log.With().Str("component", "tryout_service").Logger(),
	}
}

// TryoutView pairs a tryout with its availability at read time.
type TryoutView struct {
	model.Tryout
	Status schedule.Status `json:"status"`
}

// List returns all tryouts with their current availability status. The
// status is resolved against a fresh clock reading, never cached.
func (s *TryoutService) List(ctx context.Context) ([]TryoutView, error) {
	tryouts, err := s.tryoutRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tryouts: %w", err)
	}

	now := s.clock.Now()
	views := make([]TryoutView, 0, len(tryouts))
	for _, t := range tryouts {
		views = append(views, TryoutView{
			Tryout: t,
			Status: schedule.Resolve(now, t.StartDate, t.EndDate),
		})
	}
	return views, nil
}

// Get returns one tryout with its current availability status.
func (s *TryoutService) Get(ctx context.Context, id int64) (*TryoutView, error) {
	t, err := s.tryoutRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTryoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tryout: %w", err)
	}
	return &TryoutView{
		Tryout: *t,
		Status: schedule.Resolve(s.clock.Now(), t.StartDate, t.EndDate),
	}, nil
}

// Create validates and stores a new tryout.
func (s *TryoutService) Create(ctx context.Context, req *model.CreateTryoutRequest) (*model.Tryout, error) {
	if !req.StartDate.Before(req.EndDate) {
		return nil, ErrInvalidWindow
	}

	duration := model.UnlimitedDuration
	if req.Duration != nil {
		duration = *req.Duration
	}
	if duration != model.UnlimitedDuration && duration < 1 {
		return nil, ErrInvalidDuration
	}

	t := &model.Tryout{
		Title:       req.Title,
		Subject:     req.Subject,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Duration:    duration,
		Difficulty:  model.Difficulty(req.Difficulty),
		Syllabus:    req.Syllabus,
		Features:    req.Features,
	}
	if err := s.tryoutRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create tryout: %w", err)
	}

	s.log.Info().Int64("tryout_id", t.ID).Str("title", t.Title).Msg("tryout created")
	return t, nil
}

// Update applies partial changes to a tryout. Content is frozen once the
// tryout has participants.
func (s *TryoutService) Update(ctx context.Context, id int64, req *model.UpdateTryoutRequest) (*model.Tryout, error) {
	t, err := s.tryoutRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTryoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tryout: %w", err)
	}
	if !t.Editable() {
		return nil, ErrTryoutLocked
	}

	if req.Title != "" {
		t.Title = req.Title
	}
	if req.Subject != "" {
		t.Subject = req.Subject
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.StartDate != nil {
		t.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		t.EndDate = *req.EndDate
	}
	if req.Duration != nil {
		t.Duration = *req.Duration
	}
	if req.Difficulty != "" {
		t.Difficulty = model.Difficulty(req.Difficulty)
	}
	if req.Syllabus != nil {
		t.Syllabus = req.Syllabus
	}
	if req.Features != nil {
		t.Features = req.Features
	}

	if !t.StartDate.Before(t.EndDate) {
		return nil, ErrInvalidWindow
	}
	if t.Duration != model.UnlimitedDuration && t.Duration < 1 {
		return nil, ErrInvalidDuration
	}

	if err := s.tryoutRepo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update tryout: %w", err)
	}
	return t, nil
}

// Delete removes a tryout unless somebody has already taken it.
func (s *TryoutService) Delete(ctx context.Context, id int64) error {
	t, err := s.tryoutRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrTryoutNotFound
	}
	if err != nil {
		return fmt.Errorf("get tryout: %w", err)
	}
	if !t.Editable() {
		return ErrTryoutLocked
	}

	if err := s.tryoutRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete tryout: %w", err)
	}
	s.log.Info().Int64("tryout_id", id).Msg("tryout deleted")
	return nil
}
