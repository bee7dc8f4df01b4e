package repository

import (
	"github.com/davrbek/examgate/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResultRepository interface {
	FindByID(id uuid.UUID) (*model.Result, error)
	FindByIDWithAnswers(id uuid.UUID) (*model.Result, error)
	FindBySessionID(sessionID uuid.UUID) (*model.Result, error)
	FindBySessionIDWithAnswers(sessionID uuid.UUID) (*model.Result, error)
	ListByUser(userID uuid.UUID) ([]model.Result, error)
	FindWrittenByID(id uuid.UUID) (*model.WrittenAnswer, error)
	// ListPendingWritten returns written answers awaiting manual review,
	// optionally restricted to one test.
	ListPendingWritten(testID *uuid.UUID) ([]model.WrittenAnswer, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) FindByID(id uuid.UUID) (*model.Result, error) {
	var result model.Result
	if err := r.db.First(&result, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepository) FindByIDWithAnswers(id uuid.UUID) (*model.Result, error) {
	var result model.Result
	err := r.db.
		Preload("MCQAnswers", func(db *gorm.DB) *gorm.DB {
			return db.Order("mcq_answers.question_number ASC")
		}).
		Preload("WrittenAnswers", func(db *gorm.DB) *gorm.DB {
			return db.Order("written_answers.question_number ASC")
		}).
		First(&result, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepository) FindBySessionID(sessionID uuid.UUID) (*model.Result, error) {
	var result model.Result
	if err := r.db.Where("session_id = ?", sessionID).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepository) FindBySessionIDWithAnswers(sessionID uuid.UUID) (*model.Result, error) {
	var result model.Result
	err := r.db.
		Preload("MCQAnswers", func(db *gorm.DB) *gorm.DB {
			return db.Order("mcq_answers.question_number ASC")
		}).
		Preload("WrittenAnswers", func(db *gorm.DB) *gorm.DB {
			return db.Order("written_answers.question_number ASC")
		}).
		Where("session_id = ?", sessionID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepository) ListByUser(userID uuid.UUID) ([]model.Result, error) {
	var results []model.Result
	err := r.db.Where("user_id = ?", userID).Order("submitted_at DESC").Find(&results).Error
	return results, err
}

func (r *resultRepository) FindWrittenByID(id uuid.UUID) (*model.WrittenAnswer, error) {
	var answer model.WrittenAnswer
	if err := r.db.First(&answer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *resultRepository) ListPendingWritten(testID *uuid.UUID) ([]model.WrittenAnswer, error) {
	var answers []model.WrittenAnswer
	query := r.db.Where("written_answers.reviewed_at IS NULL")
	if testID != nil {
		query = query.
			Joins("JOIN results ON results.id = written_answers.result_id").
			Where("results.test_id = ?", *testID)
	}
	err := query.Find(&answers).Error
	return answers, err
}
