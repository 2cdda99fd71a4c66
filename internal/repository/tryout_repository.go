package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tryxpert/tryxpert-backend/internal/model"
)

// TryoutRepository handles tryout data access.
type TryoutRepository struct {
	pool *pgxpool.Pool
}

// NewTryoutRepository creates a new TryoutRepository.
func NewTryoutRepository(pool *pgxpool.Pool) *TryoutRepository {
	return &TryoutRepository{pool: pool}
}

const tryoutColumns = `t.id, t.title, t.subject, t.description, t.start_date, t.end_date,
	        t.duration, t.difficulty, t.participants, t.syllabus, t.features,
	        t.created_at, t.updated_at,
	        (SELECT COUNT(*) FROM questions q WHERE q.tryout_id = t.id) AS total_questions`

// List retrieves all tryouts ordered by their window start.
func (r *TryoutRepository) List(ctx context.Context) ([]model.Tryout, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tryoutColumns+` FROM tryouts t ORDER BY t.start_date, t.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tryouts []model.Tryout
	for rows.Next() {
		t, err := scanTryout(rows)
		if err != nil {
			return nil, err
		}
		tryouts = append(tryouts, *t)
	}
	return tryouts, rows.Err()
}

// GetByID retrieves a single tryout with its question count.
func (r *TryoutRepository) GetByID(ctx context.Context, id int64) (*model.Tryout, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+tryoutColumns+` FROM tryouts t WHERE t.id = $1`, id)
	return scanTryout(row)
}

// Create inserts a new tryout and fills the generated fields.
func (r *TryoutRepository) Create(ctx context.Context, t *model.Tryout) error {
	syllabus, features := encodeStrings(t.Syllabus), encodeStrings(t.Features)
	return r.pool.QueryRow(ctx,
		`INSERT INTO tryouts (title, subject, description, start_date, end_date,
		                      duration, difficulty, syllabus, features)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, participants, created_at, updated_at`,
		t.Title, t.Subject, t.Description, t.StartDate, t.EndDate,
		t.Duration, t.Difficulty, syllabus, features,
	).Scan(&t.ID, &t.Participants, &t.CreatedAt, &t.UpdatedAt)
}

// Update rewrites a tryout's editable fields.
func (r *TryoutRepository) Update(ctx context.Context, t *model.Tryout) error {
	syllabus, features := encodeStrings(t.Syllabus), encodeStrings(t.Features)
	_, err := r.pool.Exec(ctx,
		`UPDATE tryouts
		 SET title = $1, subject = $2, description = $3, start_date = $4,
		     end_date = $5, duration = $6, difficulty = $7, syllabus = $8,
		     features = $9, updated_at = NOW()
		 WHERE id = $10`,
		t.Title, t.Subject, t.Description, t.StartDate, t.EndDate,
		t.Duration, t.Difficulty, syllabus, features, t.ID)
	return err
}

// Delete removes a tryout; questions cascade at the schema level.
func (r *TryoutRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tryouts WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTryout(row rowScanner) (*model.Tryout, error) {
	t := &model.Tryout{}
	var syllabus, features []byte
	err := row.Scan(&t.ID, &t.Title, &t.Subject, &t.Description, &t.StartDate,
		&t.EndDate, &t.Duration, &t.Difficulty, &t.Participants,
		&syllabus, &features, &t.CreatedAt, &t.UpdatedAt, &t.TotalQuestions)
	if err != nil {
		return nil, err
	}
	t.Syllabus = decodeStrings(syllabus)
	t.Features = decodeStrings(features)
	return t, nil
}

// decodeStrings unmarshals a JSONB string array. Malformed or empty data
// decodes to an empty slice rather than failing the whole row.
func decodeStrings(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func encodeStrings(in []string) []byte {
	if in == nil {
		in = []string{}
	}
	raw, _ := json.Marshal(in)
	return raw
}
