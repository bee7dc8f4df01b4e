package dto

import (
	"time"

	"github.com/google/uuid"
)

// MCQAnswerSubmitDTO is one multiple-choice answer. A nil Answer means the
// student left the question blank.
type MCQAnswerSubmitDTO struct {
	QuestionNumber int     `json:"question_number" binding:"required,min=1,max=35"`
	Answer         *string `json:"answer" binding:"omitempty,oneof=A B C D E F"`
}

// WrittenAnswerSubmitDTO carries a written question's named sub-answers,
// e.g. {"a": "12", "b": "x+1"}.
type WrittenAnswerSubmitDTO struct {
	QuestionNumber int               `json:"question_number" binding:"required,min=36,max=37"`
	Answer         map[string]string `json:"answer"`
}

// ResultSubmitDTO is the full submission: exactly one entry per defined
// question, validated here so the grading engine can assume the shape holds.
type ResultSubmitDTO struct {
	SessionToken   string                   `json:"session_token" binding:"required"`
	MCQAnswers     []MCQAnswerSubmitDTO     `json:"mcq_answers" binding:"required,len=35,dive"`
	WrittenAnswers []WrittenAnswerSubmitDTO `json:"written_answers" binding:"required,len=2,dive"`
}

type MCQAnswerResponseDTO struct {
	QuestionNumber int     `json:"question_number"`
	StudentAnswer  *string `json:"student_answer"`
	CorrectAnswer  string  `json:"correct_answer"`
	IsCorrect      bool    `json:"is_correct"`
}

type WrittenAnswerResponseDTO struct {
	ID             uuid.UUID  `json:"id"`
	QuestionNumber int        `json:"question_number"`
	StudentAnswer  *string    `json:"student_answer"`
	Score          int        `json:"score"`
	ReviewedAt     *time.Time `json:"reviewed_at"`
}

type ResultResponseDTO struct {
	ID             uuid.UUID                  `json:"id"`
	UserID         uuid.UUID                  `json:"user_id"`
	TestID         uuid.UUID                  `json:"test_id"`
	MCQScore       int                        `json:"mcq_score"`
	WrittenScore   int                        `json:"written_score"`
	TotalScore     int                        `json:"total_score"`
	SubmittedAt    time.Time                  `json:"submitted_at"`
	MCQAnswers     []MCQAnswerResponseDTO     `json:"mcq_answers"`
	WrittenAnswers []WrittenAnswerResponseDTO `json:"written_answers"`
}

// UserResultSummaryDTO is the compact per-test outcome shown to students.
type UserResultSummaryDTO struct {
	TestTitle    string    `json:"test_title"`
	TestCode     string    `json:"test_code"`
	MCQScore     int       `json:"mcq_score"`
	WrittenScore int       `json:"written_score"`
	TotalScore   int       `json:"total_score"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// WrittenGradeDTO is a reviewer's manual grade for one written answer.
type WrittenGradeDTO struct {
	WrittenAnswerID uuid.UUID `json:"written_answer_id" binding:"required"`
	Score           *int      `json:"score" binding:"required,min=0"`
	Comments        *string   `json:"comments"`
}
