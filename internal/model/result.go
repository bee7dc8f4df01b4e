package model

import (
	"time"

	"github.com/google/uuid"
)

// Result is the durable outcome of a submission, exactly one per session.
// The unique session_id index is what makes duplicate submissions structurally
// impossible.
type Result struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TestID       uuid.UUID `gorm:"type:uuid;not null;index" json:"test_id"`
	SessionID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"session_id"`
	MCQScore     int       `gorm:"not null;default:0" json:"mcq_score"`
	WrittenScore int       `gorm:"not null;default:0" json:"written_score"`
	TotalScore   int       `gorm:"not null;default:0" json:"total_score"`
	SubmittedAt  time.Time `gorm:"not null" json:"submitted_at"`

	MCQAnswers     []MCQAnswer     `gorm:"foreignKey:ResultID;constraint:OnDelete:CASCADE" json:"mcq_answers,omitempty"`
	WrittenAnswers []WrittenAnswer `gorm:"foreignKey:ResultID;constraint:OnDelete:CASCADE" json:"written_answers,omitempty"`
}

// MCQAnswer snapshots one auto-graded multiple-choice outcome. Immutable
// after creation.
type MCQAnswer struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ResultID       uuid.UUID `gorm:"type:uuid;not null;index" json:"result_id"`
	QuestionNumber int       `gorm:"not null" json:"question_number"`
	StudentAnswer  *string   `gorm:"size:1" json:"student_answer"`
	CorrectAnswer  string    `gorm:"size:1;not null" json:"correct_answer"`
	IsCorrect      bool      `gorm:"not null" json:"is_correct"`
}

// WrittenAnswer stores the raw sub-answers (JSON-serialized) plus the current
// score driving the Result aggregate. ReviewedAt is set at auto-grading time
// and refreshed by every manual review.
type WrittenAnswer struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ResultID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"result_id"`
	QuestionNumber int        `gorm:"not null" json:"question_number"`
	StudentAnswer  *string    `gorm:"type:text" json:"student_answer"`
	Score          int        `gorm:"not null;default:0" json:"score"`
	ReviewedAt     *time.Time `json:"reviewed_at"`

	Reviews []WrittenReview `gorm:"foreignKey:WrittenAnswerID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

// WrittenReview is the append-only audit trail of manual regrading. Only the
// parent WrittenAnswer's Score field feeds the Result aggregate.
type WrittenReview struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WrittenAnswerID uuid.UUID `gorm:"type:uuid;not null;index" json:"written_answer_id"`
	ReviewedByAdmin uuid.UUID `gorm:"type:uuid;not null" json:"reviewed_by_admin"`
	ScoreAwarded    int       `gorm:"not null" json:"score_awarded"`
	Comments        *string   `gorm:"type:text" json:"comments,omitempty"`
	ReviewedAt      time.Time `gorm:"not null" json:"reviewed_at"`
}
