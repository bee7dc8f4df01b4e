package dto

import (
	"time"

	"github.com/google/uuid"
)

// SessionCreateDTO starts a test session for a registered student.
type SessionCreateDTO struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	TestID uuid.UUID `json:"test_id" binding:"required"`
}

// SessionResponseDTO is the session descriptor handed to the client. The
// token is a capability credential: presenting it authorizes this student's
// submission without further authentication.
type SessionResponseDTO struct {
	ID                   uuid.UUID `json:"id"`
	UserID               uuid.UUID `json:"user_id"`
	TestID               uuid.UUID `json:"test_id"`
	SessionToken         string    `json:"session_token"`
	StartedAt            time.Time `json:"started_at"`
	ExpiresAt            time.Time `json:"expires_at"`
	IsSubmitted          bool      `json:"is_submitted"`
	IsExpired            bool      `json:"is_expired"`
	IsValid              bool      `json:"is_valid"`
	TimeRemainingSeconds int       `json:"time_remaining_seconds"`
	TestTitle            string    `json:"test_title,omitempty"`
}

// SessionStatusDTO is the lightweight shape polled by the client timer.
type SessionStatusDTO struct {
	IsValid              bool `json:"is_valid"`
	TimeRemainingSeconds int  `json:"time_remaining_seconds"`
	IsSubmitted          bool `json:"is_submitted"`
	IsExpired            bool `json:"is_expired"`
}

// SessionAdminDTO is the admin listing row used to extend individual sessions.
type SessionAdminDTO struct {
	ID             uuid.UUID `json:"id"`
	UserName       string    `json:"user_name"`
	UserRegion     string    `json:"user_region"`
	StartedAt      time.Time `json:"started_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	IsSubmitted    bool      `json:"is_submitted"`
	IsExpired      bool      `json:"is_expired"`
	ExtraMinutes   int       `json:"extra_minutes"`
	ExtensionsLeft int       `json:"extensions_left"`
}

// ExtendResponseDTO reports the outcome of a single-session extension.
type ExtendResponseDTO struct {
	NewExpiresAt   time.Time `json:"new_expires_at"`
	ExtraMinutes   int       `json:"extra_minutes"`
	ExtensionsLeft int       `json:"extensions_left"`
}

// ExtendAllResponseDTO reports a bulk extension over a test's live sessions.
type ExtendAllResponseDTO struct {
	Extended int `json:"extended"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}

// ClearSessionsResponseDTO reports an administrative session purge.
type ClearSessionsResponseDTO struct {
	SessionsDeleted int `json:"sessions_deleted"`
	ResultsDeleted  int `json:"results_deleted"`
}
