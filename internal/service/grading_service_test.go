package service

import (
	"testing"
	"time"

	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/model"
	"gorm.io/datatypes"
)

func strptr(s string) *string { return &s }

func testKey() *model.AnswerKey {
	return &model.AnswerKey{
		MCQAnswers: datatypes.JSONMap{
			"1": "A",
			"2": "B",
			"3": "C",
		},
		WrittenQuestions: datatypes.JSONMap{
			"36": map[string]interface{}{"a": "12", "b": "7"},
			"37": map[string]interface{}{"a": "x+1"},
		},
	}
}

func TestGradeMCQ(t *testing.T) {
	key := testKey()

	tests := []struct {
		name      string
		answers   []dto.MCQAnswerSubmitDTO
		wantScore int
		wantRows  int
	}{
		{
			name: "all correct",
			answers: []dto.MCQAnswerSubmitDTO{
				{QuestionNumber: 1, Answer: strptr("A")},
				{QuestionNumber: 2, Answer: strptr("B")},
				{QuestionNumber: 3, Answer: strptr("C")},
			},
			wantScore: 3,
			wantRows:  3,
		},
		{
			name: "wrong letters earn nothing",
			answers: []dto.MCQAnswerSubmitDTO{
				{QuestionNumber: 1, Answer: strptr("B")},
				{QuestionNumber: 2, Answer: strptr("B")},
			},
			wantScore: 1,
			wantRows:  2,
		},
		{
			name: "blank answer is recorded but incorrect",
			answers: []dto.MCQAnswerSubmitDTO{
				{QuestionNumber: 1, Answer: nil},
			},
			wantScore: 0,
			wantRows:  1,
		},
		{
			name: "question missing from key is skipped",
			answers: []dto.MCQAnswerSubmitDTO{
				{QuestionNumber: 1, Answer: strptr("A")},
				{QuestionNumber: 99, Answer: strptr("A")},
			},
			wantScore: 1,
			wantRows:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, score := gradeMCQ(key, tt.answers)
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if len(rows) != tt.wantRows {
				t.Errorf("rows = %d, want %d", len(rows), tt.wantRows)
			}
		})
	}
}

func TestGradeMCQSnapshotsCorrectLetter(t *testing.T) {
	rows, _ := gradeMCQ(testKey(), []dto.MCQAnswerSubmitDTO{
		{QuestionNumber: 2, Answer: strptr("A")},
	})
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].CorrectAnswer != "B" {
		t.Errorf("CorrectAnswer = %q, want %q", rows[0].CorrectAnswer, "B")
	}
	if rows[0].IsCorrect {
		t.Error("IsCorrect = true for a wrong letter")
	}
}

func TestGradeWritten(t *testing.T) {
	key := testKey()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	answers := []dto.WrittenAnswerSubmitDTO{
		{QuestionNumber: 36, Answer: map[string]string{"a": "the answer is 12", "b": "9"}},
		{QuestionNumber: 37, Answer: map[string]string{"a": "x+1"}},
	}

	rows, total, err := gradeWritten(key, answers, now)
	if err != nil {
		t.Fatalf("gradeWritten: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Score != 1 {
		t.Errorf("question 36 score = %d, want 1", rows[0].Score)
	}
	if rows[1].Score != 1 {
		t.Errorf("question 37 score = %d, want 1", rows[1].Score)
	}
	for _, row := range rows {
		if row.StudentAnswer == nil {
			t.Errorf("question %d: raw answer not serialized", row.QuestionNumber)
		}
		if row.ReviewedAt == nil || !row.ReviewedAt.Equal(now) {
			t.Errorf("question %d: ReviewedAt = %v, want %v", row.QuestionNumber, row.ReviewedAt, now)
		}
	}
}

func TestGradeWrittenBlankSubmission(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rows, total, err := gradeWritten(testKey(), []dto.WrittenAnswerSubmitDTO{
		{QuestionNumber: 36, Answer: nil},
	}, now)
	if err != nil {
		t.Fatalf("gradeWritten: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
	if rows[0].StudentAnswer != nil {
		t.Error("nil answer should stay nil after serialization")
	}
}

func TestSumWrittenScores(t *testing.T) {
	answers := []model.WrittenAnswer{{Score: 1}, {Score: 0}}
	if got := sumWrittenScores(answers); got != 1 {
		t.Errorf("sum = %d, want 1", got)
	}

	// A manual review bumping one score is reflected by a full recompute.
	answers[1].Score = 2
	if got := sumWrittenScores(answers); got != 3 {
		t.Errorf("sum after review = %d, want 3", got)
	}

	if got := sumWrittenScores(nil); got != 0 {
		t.Errorf("sum of nothing = %d, want 0", got)
	}
}
