package dto

import (
	"time"

	"github.com/google/uuid"
)

// AnswerKeyDTO mirrors the stored key: MCQ letters by question number and
// written sub-answers by question number then sub-part name.
type AnswerKeyDTO struct {
	MCQAnswers       map[string]string            `json:"mcq_answers" binding:"required"`
	WrittenQuestions map[string]map[string]string `json:"written_questions"`
}

// TestCreateDTO creates a test together with its answer key (atomically).
type TestCreateDTO struct {
	TestCode    string       `json:"test_code" binding:"required,max=50"`
	Title       string       `json:"title" binding:"required,max=255"`
	Description string       `json:"description"`
	StartTime   *time.Time   `json:"start_time"`
	EndTime     *time.Time   `json:"end_time"`
	AnswerKey   AnswerKeyDTO `json:"answer_key" binding:"required"`
}

// TestUpdateDTO applies administrative corrections; nil fields are untouched.
type TestUpdateDTO struct {
	TestCode    *string       `json:"test_code" binding:"omitempty,max=50"`
	Title       *string       `json:"title" binding:"omitempty,max=255"`
	Description *string       `json:"description"`
	IsActive    *bool         `json:"is_active"`
	StartTime   *time.Time    `json:"start_time"`
	EndTime     *time.Time    `json:"end_time"`
	AnswerKey   *AnswerKeyDTO `json:"answer_key"`
}

type TestResponseDTO struct {
	ID           uuid.UUID  `json:"id"`
	TestCode     string     `json:"test_code"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	PDFFilePath  string     `json:"pdf_file_path,omitempty"`
	IsActive     bool       `json:"is_active"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	ExtraMinutes int        `json:"extra_minutes"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TestWithKeyDTO is the admin view including the answer key.
type TestWithKeyDTO struct {
	TestResponseDTO
	AnswerKey *AnswerKeyDTO `json:"answer_key"`
}
