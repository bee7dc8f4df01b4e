package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserRegisterDTO registers a student coming from the Telegram bot.
type UserRegisterDTO struct {
	TelegramID int64  `json:"telegram_id" binding:"required"`
	FullName   string `json:"full_name" binding:"required,max=255"`
	Surname    string `json:"surname" binding:"required,max=255"`
	Region     string `json:"region" binding:"required,max=255"`
}

type UserResponseDTO struct {
	ID         uuid.UUID `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	FullName   string    `json:"full_name"`
	Surname    string    `json:"surname"`
	Region     string    `json:"region"`
	CreatedAt  time.Time `json:"created_at"`
}

// AdminLoginDTO authenticates an administrator.
type AdminLoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponseDTO struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
