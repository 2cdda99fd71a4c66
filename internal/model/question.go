package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuestion wraps every per-type validation failure so handlers can
// map them to a validation response.
var ErrInvalidQuestion = errors.New("soal tidak valid")

// QuestionType enumerates supported question formats.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeEssay          QuestionType = "essay"
)

// Question belongs to exactly one tryout. OrderNumber is kept contiguous
// (1..N per tryout) by the question service.
type Question struct {
	ID            int64        `json:"id"`
	TryoutID      int64        `json:"tryout_id"`
	QuestionText  string       `json:"question_text"`
	QuestionType  QuestionType `json:"question_type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	Explanation   string       `json:"explanation,omitempty"`
	Points        int          `json:"points"`
	OrderNumber   int          `json:"order_number"`
}

// PublicView strips grading fields so learners never receive the key.
func (q Question) PublicView() Question {
	q.CorrectAnswer = ""
	q.Explanation = ""
	return q
}

// QuestionRequest is the payload for creating or updating a question.
type QuestionRequest struct {
	QuestionText  string   `json:"question_text" binding:"required,min=1"`
	QuestionType  string   `json:"question_type" binding:"required,oneof=multiple_choice true_false essay"`
	Options       []string `json:"options" binding:"omitempty,dive,max=500"`
	CorrectAnswer string   `json:"correct_answer" binding:"omitempty,max=500"`
	Explanation   string   `json:"explanation" binding:"omitempty,max=2000"`
	Points        int      `json:"points" binding:"omitempty,min=1,max=100"`
	OrderNumber   int      `json:"order_number" binding:"omitempty,min=1"`
}

// ReorderQuestionRequest moves a question to a new position within its tryout.
type ReorderQuestionRequest struct {
	OrderNumber int `json:"order_number" binding:"required,min=1"`
}

// ValidateQuestion enforces the per-type rules that struct tags cannot
// express. The returned error message is user-facing.
func ValidateQuestion(req *QuestionRequest) error {
	switch QuestionType(req.QuestionType) {
	case QuestionTypeMultipleChoice:
		seen := make(map[string]bool, len(req.Options))
		for _, opt := range req.Options {
			trimmed := strings.TrimSpace(opt)
			if trimmed == "" {
				return fmt.Errorf("%w: opsi jawaban tidak boleh kosong", ErrInvalidQuestion)
			}
			key := strings.ToLower(trimmed)
			if seen[key] {
				return fmt.Errorf("%w: opsi jawaban tidak boleh duplikat: %s", ErrInvalidQuestion, trimmed)
			}
			seen[key] = true
		}
		if len(seen) < 2 {
			return fmt.Errorf("%w: soal pilihan ganda membutuhkan minimal 2 opsi jawaban", ErrInvalidQuestion)
		}
		answer := strings.TrimSpace(req.CorrectAnswer)
		if answer == "" {
			return fmt.Errorf("%w: kunci jawaban wajib diisi", ErrInvalidQuestion)
		}
		if !seen[strings.ToLower(answer)] {
			return fmt.Errorf("%w: kunci jawaban harus salah satu opsi", ErrInvalidQuestion)
		}
	case QuestionTypeTrueFalse:
		answer := strings.ToLower(strings.TrimSpace(req.CorrectAnswer))
		if answer != "true" && answer != "false" {
			return fmt.Errorf("%w: kunci jawaban benar/salah harus 'true' atau 'false'", ErrInvalidQuestion)
		}
	case QuestionTypeEssay:
		// Graded manually; no key required.
	default:
		return fmt.Errorf("%w: tipe soal tidak dikenal: %s", ErrInvalidQuestion, req.QuestionType)
	}
	return nil
}
