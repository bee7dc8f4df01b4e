package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/davrbek/examgate/config"
	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/model"
	"github.com/davrbek/examgate/internal/repository"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords so
// the response does not reveal which half failed.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrInvalidToken is returned for expired, malformed, or badly signed tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService authenticates administrators with signed bearer tokens.
type AuthService interface {
	Login(req dto.AdminLoginDTO) (*dto.TokenResponseDTO, error)
	VerifyToken(tokenString string) (*AdminClaims, error)
	EnsureBootstrapAdmin() error
}

// AdminClaims is the verified identity carried by an admin bearer token.
type AdminClaims struct {
	AdminID  uuid.UUID
	Username string
}

type authService struct {
	adminRepo repository.AdminRepository
	cfg       *config.Config
}

func NewAuthService(adminRepo repository.AdminRepository, cfg *config.Config) AuthService {
	return &authService{adminRepo: adminRepo, cfg: cfg}
}

func (s *authService) Login(req dto.AdminLoginDTO) (*dto.TokenResponseDTO, error) {
	admin, err := s.adminRepo.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("loading admin: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(time.Duration(s.cfg.Auth.TokenExpireMinutes) * time.Minute)
	claims := jwt.RegisteredClaims{
		Subject:   admin.ID.String(),
		ID:        admin.Username,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}
	return &dto.TokenResponseDTO{AccessToken: signed, TokenType: "bearer"}, nil
}

func (s *authService) VerifyToken(tokenString string) (*AdminClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Auth.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	adminID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &AdminClaims{AdminID: adminID, Username: claims.ID}, nil
}

// EnsureBootstrapAdmin creates the initial administrator account from config
// on first startup. An existing account with the configured username wins.
func (s *authService) EnsureBootstrapAdmin() error {
	username := s.cfg.Auth.BootstrapUsername
	if username == "" {
		log.Warn().Msg("No bootstrap admin configured, skipping")
		return nil
	}

	_, err := s.adminRepo.FindByUsername(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("checking bootstrap admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Auth.BootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing bootstrap password: %w", err)
	}
	admin := model.AdminUser{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Administrator",
	}
	if err := s.adminRepo.Create(&admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("creating bootstrap admin: %w", err)
	}
	log.Info().Str("username", username).Msg("Bootstrap admin account created")
	return nil
}
