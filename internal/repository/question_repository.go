package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tryxpert/tryxpert-backend/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByTryout retrieves all questions for a tryout, ordered by order_number.
func (r *QuestionRepository) ListByTryout(ctx context.Context, tryoutID int64) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tryout_id, question_text, question_type, options,
		        correct_answer, explanation, points, order_number
		 FROM questions WHERE tryout_id = $1
		 ORDER BY order_number, id`, tryoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var options []byte
		if err := rows.Scan(&q.ID, &q.TryoutID, &q.QuestionText, &q.QuestionType,
			&options, &q.CorrectAnswer, &q.Explanation, &q.Points, &q.OrderNumber); err != nil {
			return nil, err
		}
		q.Options = decodeStrings(options)
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetByID retrieves a single question.
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	q := &model.Question{}
	var options []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, tryout_id, question_text, question_type, options,
		        correct_answer, explanation, points, order_number
		 FROM questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.TryoutID, &q.QuestionText, &q.QuestionType,
		&options, &q.CorrectAnswer, &q.Explanation, &q.Points, &q.OrderNumber)
	if err != nil {
		return nil, err
	}
	q.Options = decodeStrings(options)
	return q, nil
}

// Create appends a question to its tryout. When OrderNumber is zero the
// question lands at the end of the list.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (tryout_id, question_text, question_type, options,
		                        correct_answer, explanation, points, order_number)
		 VALUES ($1, $2, $3, $4, $5, $6, $7,
		         CASE WHEN $8 > 0 THEN $8
		              ELSE (SELECT COALESCE(MAX(order_number), 0) + 1
		                    FROM questions WHERE tryout_id = $1) END)
		 RETURNING id, order_number`,
		q.TryoutID, q.QuestionText, q.QuestionType, encodeStrings(q.Options),
		q.CorrectAnswer, q.Explanation, q.Points, q.OrderNumber,
	).Scan(&q.ID, &q.OrderNumber)
}

// Update rewrites a question's content. Order is changed through Reorder.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET question_text = $1, question_type = $2, options = $3,
		     correct_answer = $4, explanation = $5, points = $6
		 WHERE id = $7`,
		q.QuestionText, q.QuestionType, encodeStrings(q.Options),
		q.CorrectAnswer, q.Explanation, q.Points, q.ID)
	return err
}

// Delete removes a question and closes the gap in its tryout's ordering.
func (r *QuestionRepository) Delete(ctx context.Context, id, tryoutID int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id); err != nil {
			return err
		}
		return resequence(ctx, tx, tryoutID)
	})
}

// Reorder moves a question to position newOrder (1-based) within its tryout
// and renumbers the rest contiguously.
func (r *QuestionRepository) Reorder(ctx context.Context, tryoutID, questionID int64, newOrder int) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT id FROM questions WHERE tryout_id = $1
			 ORDER BY order_number, id FOR UPDATE`, tryoutID)
		if err != nil {
			return err
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return err
		}

		from := -1
		for i, id := range ids {
			if id == questionID {
				from = i
				break
			}
		}
		if from == -1 {
			return fmt.Errorf("question %d not in tryout %d", questionID, tryoutID)
		}

		to := newOrder - 1
		if to < 0 {
			to = 0
		}
		if to > len(ids)-1 {
			to = len(ids) - 1
		}

		ids = append(ids[:from], ids[from+1:]...)
		ids = append(ids[:to], append([]int64{questionID}, ids[to:]...)...)

		for i, id := range ids {
			if _, err := tx.Exec(ctx,
				`UPDATE questions SET order_number = $1 WHERE id = $2`, i+1, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// resequence renumbers a tryout's questions to a contiguous 1..N run.
func resequence(ctx context.Context, tx pgx.Tx, tryoutID int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE questions q
		 SET order_number = ranked.rn
		 FROM (SELECT id, ROW_NUMBER() OVER (ORDER BY order_number, id) AS rn
		       FROM questions WHERE tryout_id = $1) ranked
		 WHERE q.id = ranked.id AND q.order_number <> ranked.rn`, tryoutID)
	return err
}
