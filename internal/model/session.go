package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	// ExtendStepMinutes is granted per extension request.
	ExtendStepMinutes = 5
	// MaxExtraMinutes caps a single session's extensions (3 x 5 minutes).
	MaxExtraMinutes = 15
)

// TestSession is one attempt by one student at one test. The unique
// (user_id, test_id) index enforces single-attempt semantics: unsubmitted
// leftovers are deleted before a retry, a submitted session blocks forever.
type TestSession struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_test_attempt" json:"user_id"`
	TestID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_test_attempt" json:"test_id"`
	SessionToken string    `gorm:"size:255;uniqueIndex;not null" json:"session_token"`
	StartedAt    time.Time `gorm:"not null" json:"started_at"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	IsSubmitted  bool      `gorm:"not null;default:false" json:"is_submitted"`
	IsExpired    bool      `gorm:"not null;default:false" json:"is_expired"`
	// ExtraMinutes tracks this session's own extensions, independent of the
	// test-level global extension.
	ExtraMinutes int `gorm:"not null;default:0" json:"extra_minutes"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Test   *Test   `gorm:"foreignKey:TestID" json:"test,omitempty"`
	Result *Result `gorm:"foreignKey:SessionID" json:"-"`
}

// IsValid reports whether the session can still be used to work on the test.
func (s *TestSession) IsValid(now time.Time) bool {
	return !s.IsExpired && !s.IsSubmitted && now.Before(s.ExpiresAt)
}

// TimeRemaining returns whole seconds left, never negative.
func (s *TestSession) TimeRemaining(now time.Time) int {
	if s.IsExpired || s.IsSubmitted {
		return 0
	}
	remaining := int(s.ExpiresAt.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ExtensionsLeft derives how many 5-minute grants remain under the cap.
func (s *TestSession) ExtensionsLeft() int {
	left := (MaxExtraMinutes - s.ExtraMinutes) / ExtendStepMinutes
	if left < 0 {
		return 0
	}
	return left
}
