package model

import (
	"time"
)

// Difficulty enumerates tryout difficulty levels.
type Difficulty string

const (
	DifficultyMudah    Difficulty = "Mudah"
	DifficultyMenengah Difficulty = "Menengah"
	DifficultySulit    Difficulty = "Sulit"
)

// UnlimitedDuration is the reserved duration value meaning "no time limit".
// It is distinct from an absent duration in the API payload, which maps to it.
const UnlimitedDuration = -1

// Tryout represents a mock exam definition with an availability window.
type Tryout struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Subject        string     `json:"subject"`
	Description    string     `json:"description,omitempty"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	Duration       int        `json:"duration"` // minutes; UnlimitedDuration means no limit
	Difficulty     Difficulty `json:"difficulty"`
	Participants   int        `json:"participants"`
	Syllabus       []string   `json:"syllabus"`
	Features       []string   `json:"features"`
	TotalQuestions int        `json:"total_questions"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Editable reports whether the tryout content may still be modified.
// Content is frozen once somebody has taken the tryout.
func (t *Tryout) Editable() bool {
	return t.Participants == 0
}

// DurationSeconds returns the time limit in seconds, or ok=false when the
// tryout is unlimited.
func (t *Tryout) DurationSeconds() (int, bool) {
	if t.Duration == UnlimitedDuration {
		return 0, false
	}
	return t.Duration * 60, true
}

// CreateTryoutRequest is the payload for creating a new tryout.
// A missing duration and the -1 sentinel both mean "no time limit".
type CreateTryoutRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=255"`
	Subject     string    `json:"subject" binding:"required,min=2,max=100"`
	Description string    `json:"description" binding:"omitempty,max=2000"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required,gtfield=StartDate"`
	Duration    *int      `json:"duration" binding:"omitempty,min=-1,max=1440"`
	Difficulty  string    `json:"difficulty" binding:"required,oneof=Mudah Menengah Sulit"`
	Syllabus    []string  `json:"syllabus" binding:"omitempty,dive,min=1,max=255"`
	Features    []string  `json:"features" binding:"omitempty,dive,min=1,max=255"`
}

// UpdateTryoutRequest is the payload for updating an existing tryout.
// All fields are optional; omitted fields keep their current value.
type UpdateTryoutRequest struct {
	Title       string     `json:"title" binding:"omitempty,min=3,max=255"`
	Subject     string     `json:"subject" binding:"omitempty,min=2,max=100"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	StartDate   *time.Time `json:"start_date" binding:"omitempty"`
	EndDate     *time.Time `json:"end_date" binding:"omitempty"`
	Duration    *int       `json:"duration" binding:"omitempty,min=-1,max=1440"`
	Difficulty  string     `json:"difficulty" binding:"omitempty,oneof=Mudah Menengah Sulit"`
	Syllabus    []string   `json:"syllabus" binding:"omitempty,dive,min=1,max=255"`
	Features    []string   `json:"features" binding:"omitempty,dive,min=1,max=255"`
}
