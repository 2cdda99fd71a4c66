package model

import (
	"time"

	"github.com/google/uuid"
)

// UserAnswer is one learner answer slot for a question within a session.
// Both pointers nil means the question has not been touched.
type UserAnswer struct {
	QuestionID     int64   `json:"question_id"`
	SelectedOption *string `json:"selected_option"`
	EssayAnswer    *string `json:"essay_answer"`
	Flagged        bool    `json:"flagged"`
}

// NewBlankAnswers builds one empty answer per question, preserving order.
func NewBlankAnswers(questions []Question) []UserAnswer {
	answers := make([]UserAnswer, len(questions))
	for i, q := range questions {
		answers[i] = UserAnswer{QuestionID: q.ID}
	}
	return answers
}

// Submission is the final record produced when a session ends, either by the
// learner submitting or by the timer expiring. Written once, never mutated.
type Submission struct {
	ID               uuid.UUID    `json:"id"`
	TryoutID         int64        `json:"tryout_id"`
	UserID           string       `json:"user_id"`
	StartTime        time.Time    `json:"start_time"`
	EndTime          time.Time    `json:"end_time"`
	TimeTakenSeconds int          `json:"time_taken_seconds"`
	Answers          []UserAnswer `json:"answers"`
}

// AnswerUpdateRequest mutates the answer for the session's current question.
// Exactly one of the three actions should be set per call.
type AnswerUpdateRequest struct {
	SelectedOption *string `json:"selected_option" binding:"omitempty,max=500"`
	EssayAnswer    *string `json:"essay_answer" binding:"omitempty,max=10000"`
	ToggleFlag     bool    `json:"toggle_flag"`
}

// PositionRequest moves the session cursor to a question index.
type PositionRequest struct {
	Index *int `json:"index" binding:"required,min=0"`
}
