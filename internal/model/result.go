package model

import "time"

// ResultAnswer is one graded answer as shown on the review screen.
// Correct is nil for essay questions and for unanswered questions.
type ResultAnswer struct {
	QuestionID     int64   `json:"question_id"`
	SelectedOption *string `json:"selected_option"`
	EssayAnswer    *string `json:"essay_answer"`
	Flagged        bool    `json:"flagged"`
	Answered       bool    `json:"answered"`
	Correct        *bool   `json:"correct"`
	Points         int     `json:"points"`
}

// TryoutResult is the full result view for a finished tryout session.
type TryoutResult struct {
	TryoutID         int64          `json:"tryout_id"`
	Title            string         `json:"title"`
	Subject          string         `json:"subject"`
	Percentage       int            `json:"percentage"`
	Category         string         `json:"category"`
	EarnedPoints     int            `json:"earned_points"`
	TotalPoints      int            `json:"total_points"`
	CorrectCount     int            `json:"correct_count"`
	IncorrectCount   int            `json:"incorrect_count"`
	UnansweredCount  int            `json:"unanswered_count"`
	TotalQuestions   int            `json:"total_questions"`
	StartTime        time.Time      `json:"start_time"`
	EndTime          time.Time      `json:"end_time"`
	TimeTakenSeconds int            `json:"time_taken_seconds"`
	TimeTakenLabel   string         `json:"time_taken_label"`
	Answers          []ResultAnswer `json:"answers"`
	Questions        []Question     `json:"questions"`
	Recommendations  []string       `json:"recommendations"`
}
