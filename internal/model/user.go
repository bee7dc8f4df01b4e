package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a student registered through the Telegram bot.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TelegramID int64     `gorm:"uniqueIndex;not null" json:"telegram_id"`
	FullName   string    `gorm:"size:255;not null" json:"full_name"`
	Surname    string    `gorm:"size:255;not null" json:"surname"`
	Region     string    `gorm:"size:255;not null" json:"region"`
	CreatedAt  time.Time `json:"created_at"`

	Sessions []TestSession `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Results  []Result      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
