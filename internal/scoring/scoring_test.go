package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tryxpert/tryxpert-backend/internal/model"
)

func strPtr(s string) *string { return &s }

func mcQuestion(id int64, answer string, points int) model.Question {
	return model.Question{
		ID:            id,
		QuestionText:  "soal",
		QuestionType:  model.QuestionTypeMultipleChoice,
		Options:       []string{"A", "B", "C", "D"},
		CorrectAnswer: answer,
		Points:        points,
	}
}

func TestScoreMixedAnswers(t *testing.T) {
	questions := []model.Question{
		mcQuestion(1, "A", 10),
		mcQuestion(2, "B", 10),
		mcQuestion(3, "C", 10),
	}
	answers := []model.UserAnswer{
		{QuestionID: 1, SelectedOption: strPtr("A")},
		{QuestionID: 2, SelectedOption: strPtr("X")},
		{QuestionID: 3},
	}

	s := Score(questions, answers)
	assert.Equal(t, 1, s.CorrectCount)
	assert.Equal(t, 1, s.IncorrectCount)
	assert.Equal(t, 1, s.UnansweredCount)
	assert.Equal(t, 10, s.EarnedPoints)
	assert.Equal(t, 30, s.TotalPoints)
	assert.Equal(t, 33, s.Percentage)

	require.Len(t, s.Answers, 3)
	require.NotNil(t, s.Answers[0].Correct)
	assert.True(t, *s.Answers[0].Correct)
	require.NotNil(t, s.Answers[1].Correct)
	assert.False(t, *s.Answers[1].Correct)
	assert.Nil(t, s.Answers[2].Correct)
	assert.False(t, s.Answers[2].Answered)
}

func TestScoreCaseInsensitive(t *testing.T) {
	questions := []model.Question{mcQuestion(1, "Jakarta", 5)}
	answers := []model.UserAnswer{{QuestionID: 1, SelectedOption: strPtr("jAKARTA")}}

	s := Score(questions, answers)
	assert.Equal(t, 1, s.CorrectCount)
	assert.Equal(t, 100, s.Percentage)
}

func TestScoreEssayNeverEarnsPoints(t *testing.T) {
	questions := []model.Question{
		{ID: 1, QuestionType: model.QuestionTypeEssay, Points: 20},
		{ID: 2, QuestionType: model.QuestionTypeEssay, Points: 20},
	}
	answers := []model.UserAnswer{
		{QuestionID: 1, EssayAnswer: strPtr("Fotosintesis adalah ...")},
		{QuestionID: 2, EssayAnswer: strPtr("   ")},
	}

	s := Score(questions, answers)
	assert.Equal(t, 0, s.CorrectCount)
	assert.Equal(t, 0, s.IncorrectCount)
	assert.Equal(t, 0, s.EarnedPoints)
	// Essay points still count toward the total, so an essay-only tryout
	// scores zero percent until graded manually.
	assert.Equal(t, 40, s.TotalPoints)
	assert.Equal(t, 0, s.Percentage)
	// Whitespace-only essay text counts as unanswered.
	assert.Equal(t, 1, s.UnansweredCount)
	assert.True(t, s.Answers[0].Answered)
	assert.Nil(t, s.Answers[0].Correct)
	assert.False(t, s.Answers[1].Answered)
}

func TestScoreEssayPointsInTotal(t *testing.T) {
	questions := []model.Question{
		mcQuestion(1, "A", 10),
		{ID: 2, QuestionType: model.QuestionTypeEssay, Points: 10},
	}
	answers := []model.UserAnswer{
		{QuestionID: 1, SelectedOption: strPtr("A")},
		{QuestionID: 2, EssayAnswer: strPtr("Jawaban uraian.")},
	}

	// A correct choice question next to an answered essay is half the
	// available points, not a perfect score.
	s := Score(questions, answers)
	assert.Equal(t, 10, s.EarnedPoints)
	assert.Equal(t, 20, s.TotalPoints)
	assert.Equal(t, 50, s.Percentage)
}

func TestScoreMissingAnswerSlot(t *testing.T) {
	questions := []model.Question{mcQuestion(1, "A", 1), mcQuestion(2, "B", 1)}
	// Only one answer slot present; the other question grades as unanswered.
	s := Score(questions, []model.UserAnswer{{QuestionID: 1, SelectedOption: strPtr("A")}})
	assert.Equal(t, 1, s.CorrectCount)
	assert.Equal(t, 1, s.UnansweredCount)
	assert.Equal(t, 50, s.Percentage)
}

func TestScoreDefaultsPointsToOne(t *testing.T) {
	questions := []model.Question{mcQuestion(1, "A", 0)}
	s := Score(questions, []model.UserAnswer{{QuestionID: 1, SelectedOption: strPtr("A")}})
	assert.Equal(t, 1, s.EarnedPoints)
	assert.Equal(t, 1, s.TotalPoints)
}

func TestScoreEmpty(t *testing.T) {
	s := Score(nil, nil)
	assert.Equal(t, 0, s.TotalPoints)
	assert.Equal(t, 0, s.Percentage)
	assert.Empty(t, s.Answers)
}

func TestScorePercentageRounds(t *testing.T) {
	questions := []model.Question{
		mcQuestion(1, "A", 1),
		mcQuestion(2, "A", 1),
		mcQuestion(3, "A", 1),
	}
	answers := []model.UserAnswer{
		{QuestionID: 1, SelectedOption: strPtr("A")},
		{QuestionID: 2, SelectedOption: strPtr("A")},
		{QuestionID: 3, SelectedOption: strPtr("B")},
	}
	// 2/3 rounds to 67, not truncates to 66.
	assert.Equal(t, 67, Score(questions, answers).Percentage)
}

func TestCategoryThresholds(t *testing.T) {
	tests := []struct {
		percentage int
		want       string
	}{
		{100, "Sangat Baik"},
		{90, "Sangat Baik"},
		{89, "Baik"},
		{75, "Baik"},
		{74, "Cukup"},
		{60, "Cukup"},
		{59, "Kurang"},
		{40, "Kurang"},
		{39, "Perlu Banyak Perbaikan"},
		{0, "Perlu Banyak Perbaikan"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Category(tt.percentage), "percentage %d", tt.percentage)
	}
}

func TestRecommendationsNeverEmpty(t *testing.T) {
	for _, p := range []int{0, 49, 50, 69, 70, 84, 85, 100} {
		assert.NotEmpty(t, Recommendations(p))
	}
}

func TestFormatTimeTaken(t *testing.T) {
	assert.Equal(t, "0 detik", FormatTimeTaken(0))
	assert.Equal(t, "45 detik", FormatTimeTaken(45))
	assert.Equal(t, "2 menit", FormatTimeTaken(120))
	assert.Equal(t, "1 jam 1 menit 5 detik", FormatTimeTaken(3665))
	assert.Equal(t, "0 detik", FormatTimeTaken(-10))
}
