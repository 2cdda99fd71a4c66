package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateQuestionMultipleChoice(t *testing.T) {
	base := func() *QuestionRequest {
		return &QuestionRequest{
			QuestionText:  "Ibu kota Indonesia?",
			QuestionType:  "multiple_choice",
			Options:       []string{"Jakarta", "Bandung", "Surabaya"},
			CorrectAnswer: "Jakarta",
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateQuestion(base()))
	})

	t.Run("too few options", func(t *testing.T) {
		req := base()
		req.Options = []string{"Jakarta"}
		assert.Error(t, ValidateQuestion(req))
	})

	t.Run("blank option", func(t *testing.T) {
		req := base()
		req.Options = []string{"Jakarta", "   "}
		assert.Error(t, ValidateQuestion(req))
	})

	t.Run("duplicate options ignoring case", func(t *testing.T) {
		req := base()
		req.Options = []string{"Jakarta", "jakarta"}
		assert.Error(t, ValidateQuestion(req))
	})

	t.Run("missing answer key", func(t *testing.T) {
		req := base()
		req.CorrectAnswer = "  "
		assert.Error(t, ValidateQuestion(req))
	})

	t.Run("answer key not among options", func(t *testing.T) {
		req := base()
		req.CorrectAnswer = "Medan"
		assert.Error(t, ValidateQuestion(req))
	})

	t.Run("answer key matches option ignoring case", func(t *testing.T) {
		req := base()
		req.CorrectAnswer = "jakarta"
		assert.NoError(t, ValidateQuestion(req))
	})
}

func TestValidateQuestionTrueFalse(t *testing.T) {
	req := &QuestionRequest{
		QuestionText:  "Bumi itu bulat.",
		QuestionType:  "true_false",
		CorrectAnswer: "True",
	}
	require.NoError(t, ValidateQuestion(req))

	req.CorrectAnswer = "ya"
	assert.Error(t, ValidateQuestion(req))
}

func TestValidateQuestionEssay(t *testing.T) {
	req := &QuestionRequest{
		QuestionText: "Jelaskan proses fotosintesis.",
		QuestionType: "essay",
	}
	assert.NoError(t, ValidateQuestion(req))
}

func TestPublicViewStripsKey(t *testing.T) {
	q := Question{
		ID:            1,
		QuestionText:  "2+2?",
		QuestionType:  QuestionTypeMultipleChoice,
		Options:       []string{"3", "4"},
		CorrectAnswer: "4",
		Explanation:   "Penjumlahan dasar.",
	}
	pub := q.PublicView()
	assert.Empty(t, pub.CorrectAnswer)
	assert.Empty(t, pub.Explanation)
	assert.Equal(t, q.Options, pub.Options)
}
