package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tryxpert/tryxpert-backend/internal/model"
)

// SubmissionRepository handles persisted submission records.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Insert writes a submission with its answers and bumps the tryout's
// participant counter, all in one transaction.
func (r *SubmissionRepository) Insert(ctx context.Context, sub *model.Submission) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO submissions (id, tryout_id, user_id, start_time, end_time, time_taken_seconds)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			sub.ID, sub.TryoutID, sub.UserID, sub.StartTime, sub.EndTime, sub.TimeTakenSeconds)
		if err != nil {
			return err
		}

		for _, a := range sub.Answers {
			if _, err := tx.Exec(ctx,
				`INSERT INTO submission_answers (submission_id, question_id, selected_option, essay_answer, flagged)
				 VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (submission_id, question_id) DO NOTHING`,
				sub.ID, a.QuestionID, a.SelectedOption, a.EssayAnswer, a.Flagged); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx,
			`UPDATE tryouts SET participants = participants + 1 WHERE id = $1`,
			sub.TryoutID)
		return err
	})
}

// ListByTryout retrieves submission headers for a tryout, newest first.
func (r *SubmissionRepository) ListByTryout(ctx context.Context, tryoutID int64) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tryout_id, user_id, start_time, end_time, time_taken_seconds
		 FROM submissions WHERE tryout_id = $1
		 ORDER BY end_time DESC`, tryoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.TryoutID, &s.UserID, &s.StartTime,
			&s.EndTime, &s.TimeTakenSeconds); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
