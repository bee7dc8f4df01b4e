package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/davrbek/examgate/internal/apperr"
	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/model"
	"github.com/davrbek/examgate/internal/repository"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TestService manages examination definitions and their answer keys. A test
// and its key are created atomically; a test is never left without a key.
type TestService interface {
	Create(req dto.TestCreateDTO, adminID *uuid.UUID) (*dto.TestResponseDTO, error)
	Update(id uuid.UUID, req dto.TestUpdateDTO) (*dto.TestResponseDTO, error)
	Delete(id uuid.UUID) error
	List(offset, limit int) ([]dto.TestResponseDTO, error)
	GetWithKey(id uuid.UUID) (*dto.TestWithKeyDTO, error)
	GetByCode(code string) (*dto.TestResponseDTO, error)
}

type testService struct {
	testRepo repository.TestRepository
	db       *gorm.DB
}

func NewTestService(testRepo repository.TestRepository, db *gorm.DB) TestService {
	return &testService{testRepo: testRepo, db: db}
}

func mcqKeyToJSON(m map[string]string) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func writtenKeyToJSON(m map[string]map[string]string) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(m))
	for q, subs := range m {
		inner := make(map[string]interface{}, len(subs))
		for name, answer := range subs {
			inner[name] = answer
		}
		out[q] = inner
	}
	return out
}

func keyToDTO(key *model.AnswerKey) *dto.AnswerKeyDTO {
	out := &dto.AnswerKeyDTO{
		MCQAnswers:       make(map[string]string, len(key.MCQAnswers)),
		WrittenQuestions: make(map[string]map[string]string, len(key.WrittenQuestions)),
	}
	for q, v := range key.MCQAnswers {
		if s, ok := v.(string); ok {
			out.MCQAnswers[q] = s
		}
	}
	for q, v := range key.WrittenQuestions {
		subs, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		inner := make(map[string]string, len(subs))
		for name, raw := range subs {
			if s, ok := raw.(string); ok {
				inner[name] = s
			}
		}
		out.WrittenQuestions[q] = inner
	}
	return out
}

func (s *testService) Create(req dto.TestCreateDTO, adminID *uuid.UUID) (*dto.TestResponseDTO, error) {
	test := model.Test{
		TestCode:       strings.ToUpper(req.TestCode),
		Title:          req.Title,
		Description:    req.Description,
		CreatedByAdmin: adminID,
		IsActive:       true,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		AnswerKey: &model.AnswerKey{
			MCQAnswers:       mcqKeyToJSON(req.AnswerKey.MCQAnswers),
			WrittenQuestions: writtenKeyToJSON(req.AnswerKey.WrittenQuestions),
		},
	}

	if err := s.testRepo.Create(&test); err != nil {
		log.Error().Err(err).Str("testCode", test.TestCode).Msg("Failed to create test")
		return nil, fmt.Errorf("creating test: %w", err)
	}

	var resp dto.TestResponseDTO
	copier.Copy(&resp, &test)
	return &resp, nil
}

func (s *testService) Update(id uuid.UUID, req dto.TestUpdateDTO) (*dto.TestResponseDTO, error) {
	test, err := s.testRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("test")
		}
		return nil, fmt.Errorf("loading test: %w", err)
	}

	if req.TestCode != nil {
		test.TestCode = strings.ToUpper(*req.TestCode)
	}
	if req.Title != nil {
		test.Title = *req.Title
	}
	if req.Description != nil {
		test.Description = *req.Description
	}
	if req.IsActive != nil {
		test.IsActive = *req.IsActive
	}
	if req.StartTime != nil {
		test.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		test.EndTime = req.EndTime
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(test).Error; err != nil {
			return fmt.Errorf("saving test: %w", err)
		}
		if req.AnswerKey == nil {
			return nil
		}
		var key model.AnswerKey
		if err := tx.Where("test_id = ?", test.ID).First(&key).Error; err != nil {
			return fmt.Errorf("loading answer key: %w", err)
		}
		key.MCQAnswers = mcqKeyToJSON(req.AnswerKey.MCQAnswers)
		if req.AnswerKey.WrittenQuestions != nil {
			key.WrittenQuestions = writtenKeyToJSON(req.AnswerKey.WrittenQuestions)
		}
		return tx.Save(&key).Error
	})
	if err != nil {
		log.Error().Err(err).Str("testID", id.String()).Msg("Failed to update test")
		return nil, err
	}

	var resp dto.TestResponseDTO
	copier.Copy(&resp, test)
	return &resp, nil
}

func (s *testService) Delete(id uuid.UUID) error {
	if _, err := s.testRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("test")
		}
		return fmt.Errorf("loading test: %w", err)
	}
	if err := s.testRepo.Delete(id); err != nil {
		return fmt.Errorf("deleting test: %w", err)
	}
	return nil
}

func (s *testService) List(offset, limit int) ([]dto.TestResponseDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	tests, err := s.testRepo.FindAll(offset, limit)
	if err != nil {
		return nil, fmt.Errorf("listing tests: %w", err)
	}
	out := make([]dto.TestResponseDTO, len(tests))
	for i := range tests {
		copier.Copy(&out[i], &tests[i])
	}
	return out, nil
}

func (s *testService) GetWithKey(id uuid.UUID) (*dto.TestWithKeyDTO, error) {
	test, err := s.testRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("test")
		}
		return nil, fmt.Errorf("loading test: %w", err)
	}

	var resp dto.TestWithKeyDTO
	copier.Copy(&resp.TestResponseDTO, test)

	key, err := s.testRepo.FindAnswerKey(id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("loading answer key: %w", err)
		}
		// A keyless test is a data-integrity bug once sessions exist, but the
		// admin view still renders so it can be repaired.
		log.Error().Str("testID", id.String()).Msg("Test has no answer key")
		return &resp, nil
	}
	resp.AnswerKey = keyToDTO(key)
	return &resp, nil
}

func (s *testService) GetByCode(code string) (*dto.TestResponseDTO, error) {
	test, err := s.testRepo.FindByCode(strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("test")
		}
		return nil, fmt.Errorf("loading test by code: %w", err)
	}
	var resp dto.TestResponseDTO
	copier.Copy(&resp, test)
	return &resp, nil
}
