package repository

import (
	"github.com/davrbek/examgate/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TestRepository interface {
	// Create persists the test and its answer key in one transaction. A test
	// must never exist without its key once sessions can be started.
	Create(test *model.Test) error
	FindByID(id uuid.UUID) (*model.Test, error)
	FindByIDs(ids []uuid.UUID) ([]model.Test, error)
	// FindByCode resolves an active test by its human-entered code.
	FindByCode(code string) (*model.Test, error)
	FindAll(offset, limit int) ([]model.Test, error)
	Update(test *model.Test) error
	FindAnswerKey(testID uuid.UUID) (*model.AnswerKey, error)
	UpdateAnswerKey(key *model.AnswerKey) error
	Delete(id uuid.UUID) error
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(test *model.Test) error {
	// GORM creates the associated AnswerKey in the same transaction when
	// test.AnswerKey is populated.
	return r.db.Create(test).Error
}

func (r *testRepository) FindByID(id uuid.UUID) (*model.Test, error) {
	var test model.Test
	if err := r.db.First(&test, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) FindByIDs(ids []uuid.UUID) ([]model.Test, error) {
	var tests []model.Test
	if len(ids) == 0 {
		return tests, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&tests).Error; err != nil {
		return nil, err
	}
	return tests, nil
}

func (r *testRepository) FindByCode(code string) (*model.Test, error) {
	var test model.Test
	if err := r.db.Where("test_code = ? AND is_active = ?", code, true).First(&test).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) FindAll(offset, limit int) ([]model.Test, error) {
	var tests []model.Test
	if err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tests).Error; err != nil {
		return nil, err
	}
	return tests, nil
}

func (r *testRepository) Update(test *model.Test) error {
	return r.db.Save(test).Error
}

func (r *testRepository) FindAnswerKey(testID uuid.UUID) (*model.AnswerKey, error) {
	var key model.AnswerKey
	if err := r.db.Where("test_id = ?", testID).First(&key).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *testRepository) UpdateAnswerKey(key *model.AnswerKey) error {
	return r.db.Save(key).Error
}

func (r *testRepository) Delete(id uuid.UUID) error {
	// Sessions, results and the answer key cascade at the database level.
	return r.db.Delete(&model.Test{}, "id = ?", id).Error
}
