package model

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Test is an examination definition. Start/end times are optional: a test
// without a window is open-ended and sessions run for the configured default
// duration instead.
type Test struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TestCode       string     `gorm:"size:50;uniqueIndex;not null" json:"test_code"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description,omitempty"`
	PDFFilePath    string     `gorm:"size:500" json:"pdf_file_path,omitempty"`
	CreatedByAdmin *uuid.UUID `gorm:"type:uuid" json:"created_by_admin,omitempty"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	StartTime      *time.Time `json:"start_time,omitempty"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	// ExtraMinutes is the admin-granted global extension applied to the
	// scheduled window (capped at MaxExtraMinutes).
	ExtraMinutes int       `gorm:"not null;default:0" json:"extra_minutes"`
	CreatedAt    time.Time `json:"created_at"`

	AnswerKey *AnswerKey    `gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE" json:"answer_key,omitempty"`
	Sessions  []TestSession `gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE" json:"-"`
	Results   []Result      `gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE" json:"-"`
}

// EffectiveEnd is the scheduled end time plus the global extension. Returns
// false when the test has no scheduled end.
func (t *Test) EffectiveEnd() (time.Time, bool) {
	if t.EndTime == nil {
		return time.Time{}, false
	}
	return t.EndTime.Add(time.Duration(t.ExtraMinutes) * time.Minute), true
}

// AnswerKey holds the ground truth for one test: MCQ letters keyed by
// question number and written sub-answers keyed by question number then
// sub-part name, e.g. {"36": {"a": "12", "b": "7"}}.
type AnswerKey struct {
	ID               uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TestID           uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null" json:"test_id"`
	MCQAnswers       datatypes.JSONMap `gorm:"not null" json:"mcq_answers"`
	WrittenQuestions datatypes.JSONMap `json:"written_questions,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// CorrectChoice returns the correct letter for an MCQ question number.
func (k *AnswerKey) CorrectChoice(questionNumber int) (string, bool) {
	v, ok := k.MCQAnswers[strconv.Itoa(questionNumber)]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// WrittenKey returns the named sub-answers for a written question number.
// Missing questions and malformed entries yield an empty map.
func (k *AnswerKey) WrittenKey(questionNumber int) map[string]string {
	out := make(map[string]string)
	v, ok := k.WrittenQuestions[strconv.Itoa(questionNumber)]
	if !ok {
		return out
	}
	sub, ok := v.(map[string]interface{})
	if !ok {
		return out
	}
	for name, raw := range sub {
		if s, ok := raw.(string); ok {
			out[name] = s
		}
	}
	return out
}
