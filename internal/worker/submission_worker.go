package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tryxpert/tryxpert-backend/internal/config"
	"github.com/tryxpert/tryxpert-backend/internal/model"
	"github.com/tryxpert/tryxpert-backend/internal/repository"
)

const (
	SubmissionPollTimeout = 1 * time.Second
	// SubmissionMaxRetries bounds requeues of a failing payload so a poison
	// message cannot spin the worker forever.
	SubmissionMaxRetries = 5
)

// SubmissionWorker drains the submissions queue and writes each record to
// PostgreSQL. The HTTP path only touches Redis; this worker is the sole
// bridge between the queue and the database.
type SubmissionWorker struct {
	submissions *repository.SubmissionRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewSubmissionWorker creates a new SubmissionWorker.
func NewSubmissionWorker(submissions *repository.SubmissionRepository, rdb *redis.Client, log zerolog.Logger) *SubmissionWorker {
	return &SubmissionWorker{
		submissions: submissions,
		rdb:         rdb,
		log:         log.With().Str("component", "submission_worker").Logger(),
	}
}

type queuedSubmission struct {
	model.Submission
	Retries int `json:"retries,omitempty"`
}

// Start runs the consume loop until ctx is cancelled, then drains whatever
// is still queued.
func (w *SubmissionWorker) Start(ctx context.Context) {
	w.log.Info().Msg("SubmissionWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Draining queue...")
			w.drain(context.Background())
			return
		default:
			item, err := w.rdb.BLPop(ctx, SubmissionPollTimeout, config.WorkerKey.PersistSubmissionsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}
			w.process(ctx, []byte(item[1]))
		}
	}
}

// drain consumes everything left in the queue without blocking.
func (w *SubmissionWorker) drain(ctx context.Context) {
	for {
		raw, err := w.rdb.LPop(ctx, config.WorkerKey.PersistSubmissionsQueue).Result()
		if err == redis.Nil {
			return
		}
		if err != nil {
			w.log.Error().Err(err).Msg("drain LPop error")
			return
		}
		w.process(ctx, []byte(raw))
	}
}

func (w *SubmissionWorker) process(ctx context.Context, raw []byte) {
	var q queuedSubmission
	if err := json.Unmarshal(raw, &q); err != nil {
		w.log.Error().Err(err).Msg("Invalid JSON payload, dropping")
		return
	}

	if err := w.submissions.Insert(ctx, &q.Submission); err != nil {
		w.requeue(ctx, &q, err)
		return
	}

	w.log.Info().
		Str("submission_id", q.ID.String()).
		Int64("tryout_id", q.TryoutID).
		Msg("submission persisted")
}

// requeue pushes a failed payload back with an incremented retry counter.
func (w *SubmissionWorker) requeue(ctx context.Context, q *queuedSubmission, cause error) {
	q.Retries++
	if q.Retries > SubmissionMaxRetries {
		w.log.Error().Err(cause).
			Str("submission_id", q.ID.String()).
			Int("retries", q.Retries).
			Msg("giving up on submission")
		return
	}

	w.log.Warn().Err(cause).
		Str("submission_id", q.ID.String()).
		Int("retries", q.Retries).
		Msg("persist failed, requeueing")

	raw, _ := json.Marshal(q)
	if err := w.rdb.RPush(ctx, config.WorkerKey.PersistSubmissionsQueue, raw).Err(); err != nil {
		w.log.Error().Err(err).Msg("requeue failed")
	}
}
