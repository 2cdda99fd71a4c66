package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tryxpert/tryxpert-backend/internal/config"
	"github.com/tryxpert/tryxpert-backend/internal/model"
)

// Draft is the persisted, unsubmitted state of a session. It is written on
// the autosave tick and read back when a session resumes. Last write wins;
// there is exactly one writer per tryout.
type Draft struct {
	Answers   []model.UserAnswer `json:"answers"`
	StartedAt time.Time          `json:"started_at"`
}

// FinalRecord is the persisted outcome of a submitted session.
type FinalRecord struct {
	Answers          []model.ResultAnswer `json:"answers"`
	StartTime        time.Time            `json:"start_time"`
	EndTime          time.Time            `json:"end_time"`
	TimeTakenSeconds int                  `json:"time_taken_seconds"`
}

// Store persists drafts and final results keyed by tryout id.
type Store interface {
	// LoadDraft returns nil, nil when no draft exists.
	LoadDraft(ctx context.Context, tryoutID int64) (*Draft, error)
	SaveDraft(ctx context.Context, tryoutID int64, draft *Draft) error
	// SaveFinal writes the final record and deletes the draft atomically.
	SaveFinal(ctx context.Context, tryoutID int64, rec *FinalRecord) error
	// LoadFinal returns nil, nil when no final record exists.
	LoadFinal(ctx context.Context, tryoutID int64) (*FinalRecord, error)
}

// RedisStore keeps drafts and final records in Redis under the per-tryout
// keys from config.CacheKey.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) LoadDraft(ctx context.Context, tryoutID int64) (*Draft, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.DraftAnswersKey(tryoutID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft answers: %w", err)
	}

	var answers []model.UserAnswer
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		// A corrupted draft is not worth failing the session over; the
		// learner starts fresh instead.
		return nil, nil
	}

	startRaw, err := s.rdb.Get(ctx, config.CacheKey.DraftStartTimeKey(tryoutID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft start time: %w", err)
	}
	startedAt, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return nil, nil
	}

	return &Draft{Answers: answers, StartedAt: startedAt}, nil
}

func (s *RedisStore) SaveDraft(ctx context.Context, tryoutID int64, draft *Draft) error {
	payload, err := json.Marshal(draft.Answers)
	if err != nil {
		return fmt.Errorf("marshal draft answers: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, config.CacheKey.DraftAnswersKey(tryoutID), payload, 0)
	pipe.Set(ctx, config.CacheKey.DraftStartTimeKey(tryoutID), draft.StartedAt.Format(time.RFC3339), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *RedisStore) SaveFinal(ctx context.Context, tryoutID int64, rec *FinalRecord) error {
	payload, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("marshal final answers: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, config.CacheKey.FinalAnswersKey(tryoutID), payload, 0)
	pipe.Set(ctx, config.CacheKey.StartTimeKey(tryoutID), rec.StartTime.Format(time.RFC3339), 0)
	pipe.Set(ctx, config.CacheKey.EndTimeKey(tryoutID), rec.EndTime.Format(time.RFC3339), 0)
	pipe.Set(ctx, config.CacheKey.TimeTakenKey(tryoutID), rec.TimeTakenSeconds, 0)
	pipe.Del(ctx, config.CacheKey.DraftAnswersKey(tryoutID), config.CacheKey.DraftStartTimeKey(tryoutID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save final record: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadFinal(ctx context.Context, tryoutID int64) (*FinalRecord, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.FinalAnswersKey(tryoutID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load final answers: %w", err)
	}

	var answers []model.ResultAnswer
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil, fmt.Errorf("decode final answers: %w", err)
	}

	rec := &FinalRecord{Answers: answers}

	startRaw, err := s.rdb.Get(ctx, config.CacheKey.StartTimeKey(tryoutID)).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("load start time: %w", err)
	}
	if t, perr := time.Parse(time.RFC3339, startRaw); perr == nil {
		rec.StartTime = t
	}

	endRaw, err := s.rdb.Get(ctx, config.CacheKey.EndTimeKey(tryoutID)).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("load end time: %w", err)
	}
	if t, perr := time.Parse(time.RFC3339, endRaw); perr == nil {
		rec.EndTime = t
	}

	taken, err := s.rdb.Get(ctx, config.CacheKey.TimeTakenKey(tryoutID)).Int()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("load time taken: %w", err)
	}
	rec.TimeTakenSeconds = taken

	return rec, nil
}
