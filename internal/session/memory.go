package session

import (
	"context"
	"sync"

	"github.com/tryxpert/tryxpert-backend/internal/model"
)

// MemoryStore is an in-process Store. It backs tests and single-node runs
// without Redis.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[int64]Draft
	finals map[int64]FinalRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[int64]Draft),
		finals: make(map[int64]FinalRecord),
	}
}

func (s *MemoryStore) LoadDraft(_ context.Context, tryoutID int64) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[tryoutID]
	if !ok {
		return nil, nil
	}
	cp := d
	cp.Answers = append([]model.UserAnswer(nil), d.Answers...)
	return &cp, nil
}

func (s *MemoryStore) SaveDraft(_ context.Context, tryoutID int64, draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *draft
	cp.Answers = append([]model.UserAnswer(nil), draft.Answers...)
	s.drafts[tryoutID] = cp
	return nil
}

func (s *MemoryStore) SaveFinal(_ context.Context, tryoutID int64, rec *FinalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finals[tryoutID] = *rec
	delete(s.drafts, tryoutID)
	return nil
}

func (s *MemoryStore) LoadFinal(_ context.Context, tryoutID int64) (*FinalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.finals[tryoutID]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

// HasDraft reports whether a draft currently exists, for tests.
func (s *MemoryStore) HasDraft(tryoutID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.drafts[tryoutID]
	return ok
}
