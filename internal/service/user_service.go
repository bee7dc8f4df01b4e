package service

import (
	"errors"
	"fmt"

	"github.com/davrbek/examgate/internal/apperr"
	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/model"
	"github.com/davrbek/examgate/internal/repository"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// UserService registers students and looks them up. Registration is keyed on
// the Telegram account, so repeating it for a known account is a no-op that
// returns the existing record.
type UserService interface {
	Register(req dto.UserRegisterDTO) (*dto.UserResponseDTO, error)
	GetByID(id uuid.UUID) (*dto.UserResponseDTO, error)
	GetByTelegramID(telegramID int64) (*dto.UserResponseDTO, error)
	List(offset, limit int) ([]dto.UserResponseDTO, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Register(req dto.UserRegisterDTO) (*dto.UserResponseDTO, error) {
	existing, err := s.userRepo.FindByTelegramID(req.TelegramID)
	if err == nil {
		return toUserDTO(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	user := model.User{
		TelegramID: req.TelegramID,
		FullName:   req.FullName,
		Surname:    req.Surname,
		Region:     req.Region,
	}
	if err := s.userRepo.Create(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent registration of the same account; the first insert won.
			winner, ferr := s.userRepo.FindByTelegramID(req.TelegramID)
			if ferr != nil {
				return nil, fmt.Errorf("loading user after duplicate registration: %w", ferr)
			}
			return toUserDTO(winner), nil
		}
		log.Error().Err(err).Int64("telegramID", req.TelegramID).Msg("Failed to register user")
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return toUserDTO(&user), nil
}

func (s *userService) GetByID(id uuid.UUID) (*dto.UserResponseDTO, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return toUserDTO(user), nil
}

func (s *userService) GetByTelegramID(telegramID int64) (*dto.UserResponseDTO, error) {
	user, err := s.userRepo.FindByTelegramID(telegramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return toUserDTO(user), nil
}

func (s *userService) List(offset, limit int) ([]dto.UserResponseDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	users, err := s.userRepo.FindAll(offset, limit)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	out := make([]dto.UserResponseDTO, len(users))
	for i := range users {
		copier.Copy(&out[i], &users[i])
	}
	return out, nil
}

func toUserDTO(user *model.User) *dto.UserResponseDTO {
	var resp dto.UserResponseDTO
	copier.Copy(&resp, user)
	return &resp
}
