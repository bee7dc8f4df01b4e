package model

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser creates tests, extends sessions and reviews written answers.
type AdminUser struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FullName     string    `gorm:"size:255" json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
}
