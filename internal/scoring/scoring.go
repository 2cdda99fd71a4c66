// Package scoring grades a submitted answer set against its questions.
// Grading is deterministic: the same questions and answers always produce
// the same summary.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/tryxpert/tryxpert-backend/internal/model"
)

// Summary aggregates a graded session.
type Summary struct {
	Answers         []model.ResultAnswer `json:"answers"`
	EarnedPoints    int                  `json:"earned_points"`
	TotalPoints     int                  `json:"total_points"`
	Percentage      int                  `json:"percentage"`
	CorrectCount    int                  `json:"correct_count"`
	IncorrectCount  int                  `json:"incorrect_count"`
	UnansweredCount int                  `json:"unanswered_count"`
}

// Answered reports whether an answer counts as given for its question type.
// Essay answers must contain something other than whitespace; choice types
// need a non-empty selected option.
func Answered(q model.Question, a model.UserAnswer) bool {
	if q.QuestionType == model.QuestionTypeEssay {
		return a.EssayAnswer != nil && strings.TrimSpace(*a.EssayAnswer) != ""
	}
	return a.SelectedOption != nil && *a.SelectedOption != ""
}

// Score grades answers against questions. Choice answers are compared to the
// key case-insensitively. Every question's points count toward the total;
// essay questions never earn points or count as correct or incorrect, since
// they need manual review. A question missing from answers is graded as
// unanswered.
func Score(questions []model.Question, answers []model.UserAnswer) Summary {
	byQuestion := make(map[int64]model.UserAnswer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	s := Summary{Answers: make([]model.ResultAnswer, 0, len(questions))}
	for _, q := range questions {
		points := q.Points
		if points < 1 {
			points = 1
		}

		ans := byQuestion[q.ID]
		res := model.ResultAnswer{
			QuestionID:     q.ID,
			SelectedOption: ans.SelectedOption,
			EssayAnswer:    ans.EssayAnswer,
			Flagged:        ans.Flagged,
			Points:         points,
		}
		s.TotalPoints += points

		switch {
		case !Answered(q, ans):
			s.UnansweredCount++
		case q.QuestionType == model.QuestionTypeEssay:
			res.Answered = true
		default:
			res.Answered = true
			correct := strings.EqualFold(*ans.SelectedOption, q.CorrectAnswer)
			res.Correct = &correct
			if correct {
				s.EarnedPoints += points
				s.CorrectCount++
			} else {
				s.IncorrectCount++
			}
		}
		s.Answers = append(s.Answers, res)
	}

	if s.TotalPoints > 0 {
		s.Percentage = int(math.Round(100 * float64(s.EarnedPoints) / float64(s.TotalPoints)))
	}
	return s
}

// Category labels a percentage band for display.
func Category(percentage int) string {
	switch {
	case percentage >= 90:
		return "Sangat Baik"
	case percentage >= 75:
		return "Baik"
	case percentage >= 60:
		return "Cukup"
	case percentage >= 40:
		return "Kurang"
	default:
		return "Perlu Banyak Perbaikan"
	}
}

// Recommendations returns study suggestions for a score band.
func Recommendations(percentage int) []string {
	switch {
	case percentage >= 85:
		return []string{
			"Pertahankan performa dengan latihan rutin",
			"Coba tryout dengan tingkat kesulitan lebih tinggi",
		}
	case percentage >= 70:
		return []string{
			"Tinjau kembali soal yang dijawab salah",
			"Perbanyak latihan pada materi yang masih lemah",
		}
	case percentage >= 50:
		return []string{
			"Pelajari ulang materi dasar sebelum mencoba lagi",
			"Diskusikan pembahasan soal dengan pengajar",
			"Ulangi tryout setelah belajar",
		}
	default:
		return []string{
			"Mulai dari materi paling dasar secara bertahap",
			"Gunakan pembahasan soal sebagai bahan belajar",
			"Ulangi tryout setelah memahami materi",
		}
	}
}

// FormatTimeTaken renders elapsed seconds for display, e.g. "1 jam 5 menit".
func FormatTimeTaken(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d jam", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d menit", minutes))
	}
	if secs > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d detik", secs))
	}
	return strings.Join(parts, " ")
}
