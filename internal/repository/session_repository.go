package repository

import (
	"github.com/davrbek/examgate/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *model.TestSession) error
	FindByToken(token string) (*model.TestSession, error)
	// FindByTokenWithTest eager-loads the test so callers never trigger
	// per-field fetches while rendering the session descriptor.
	FindByTokenWithTest(token string) (*model.TestSession, error)
	FindByID(id uuid.UUID) (*model.TestSession, error)
	Update(session *model.TestSession) error
	// DeleteUnsubmitted clears an abandoned attempt so the student can retry.
	DeleteUnsubmitted(userID, testID uuid.UUID) error
	// HasSubmitted reports whether a submitted session exists for the pair;
	// unsubmitted leftovers do not count as an attempt.
	HasSubmitted(userID, testID uuid.UUID) (bool, error)
	ListByTest(testID uuid.UUID) ([]model.TestSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.TestSession) error {
	return r.db.Create(session).Error
}

func (r *sessionRepository) FindByToken(token string) (*model.TestSession, error) {
	var session model.TestSession
	if err := r.db.Where("session_token = ?", token).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindByTokenWithTest(token string) (*model.TestSession, error) {
	var session model.TestSession
	if err := r.db.Preload("Test").Where("session_token = ?", token).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindByID(id uuid.UUID) (*model.TestSession, error) {
	var session model.TestSession
	if err := r.db.First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Update(session *model.TestSession) error {
	return r.db.Save(session).Error
}

func (r *sessionRepository) DeleteUnsubmitted(userID, testID uuid.UUID) error {
	return r.db.
		Where("user_id = ? AND test_id = ? AND is_submitted = ?", userID, testID, false).
		Delete(&model.TestSession{}).Error
}

func (r *sessionRepository) HasSubmitted(userID, testID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.TestSession{}).
		Where("user_id = ? AND test_id = ? AND is_submitted = ?", userID, testID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *sessionRepository) ListByTest(testID uuid.UUID) ([]model.TestSession, error) {
	var sessions []model.TestSession
	err := r.db.Preload("User").
		Where("test_id = ?", testID).
		Order("started_at DESC").
		Find(&sessions).Error
	return sessions, err
}
