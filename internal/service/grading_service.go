package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/davrbek/examgate/internal/apperr"
	"github.com/davrbek/examgate/internal/clock"
	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/model"
	"github.com/davrbek/examgate/internal/repository"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// GradingService scores submissions: deterministic exact-match for MCQ items,
// normalized fuzzy matching for written sub-answers. Grading is all-or-nothing
// per submission and idempotent per session.
type GradingService interface {
	Submit(req dto.ResultSubmitDTO) (*dto.ResultResponseDTO, error)
	GetResult(id uuid.UUID) (*dto.ResultResponseDTO, error)
	ListUserResults(userID uuid.UUID) ([]dto.UserResultSummaryDTO, error)
}

type gradingService struct {
	sessionSvc SessionService
	testRepo   repository.TestRepository
	resultRepo repository.ResultRepository
	clk        clock.Clock
	db         *gorm.DB // one transaction per graded submission
}

func NewGradingService(
	sessionSvc SessionService,
	testRepo repository.TestRepository,
	resultRepo repository.ResultRepository,
	clk clock.Clock,
	db *gorm.DB,
) GradingService {
	return &gradingService{
		sessionSvc: sessionSvc,
		testRepo:   testRepo,
		resultRepo: resultRepo,
		clk:        clk,
		db:         db,
	}
}

// gradeMCQ marks each answer against the key: correct iff the student gave a
// non-null letter exactly equal to the key's (case-sensitive). The correct
// letter is snapshotted per row so later key edits never rewrite history.
func gradeMCQ(key *model.AnswerKey, answers []dto.MCQAnswerSubmitDTO) ([]model.MCQAnswer, int) {
	rows := make([]model.MCQAnswer, 0, len(answers))
	score := 0
	for _, a := range answers {
		correct, ok := key.CorrectChoice(a.QuestionNumber)
		if !ok {
			log.Warn().Int("questionNumber", a.QuestionNumber).Msg("MCQ answer for a question missing from the key, skipping")
			continue
		}
		isCorrect := a.Answer != nil && *a.Answer == correct
		if isCorrect {
			score++
		}
		rows = append(rows, model.MCQAnswer{
			QuestionNumber: a.QuestionNumber,
			StudentAnswer:  a.Answer,
			CorrectAnswer:  correct,
			IsCorrect:      isCorrect,
		})
	}
	return rows, score
}

// gradeWritten scores each written question as the count of correct sub-parts
// and serializes the raw sub-answers for later manual review. ReviewedAt is
// stamped now as the auto-review marker.
func gradeWritten(key *model.AnswerKey, answers []dto.WrittenAnswerSubmitDTO, now time.Time) ([]model.WrittenAnswer, int, error) {
	rows := make([]model.WrittenAnswer, 0, len(answers))
	total := 0
	for _, a := range answers {
		correctMap := key.WrittenKey(a.QuestionNumber)
		score := scoreSubParts(a.Answer, correctMap)
		total += score

		var serialized *string
		if a.Answer != nil {
			raw, err := json.Marshal(a.Answer)
			if err != nil {
				return nil, 0, fmt.Errorf("serializing written answer %d: %w", a.QuestionNumber, err)
			}
			s := string(raw)
			serialized = &s
		}
		reviewedAt := now
		rows = append(rows, model.WrittenAnswer{
			QuestionNumber: a.QuestionNumber,
			StudentAnswer:  serialized,
			Score:          score,
			ReviewedAt:     &reviewedAt,
		})
	}
	return rows, total, nil
}

func (s *gradingService) Submit(req dto.ResultSubmitDTO) (*dto.ResultResponseDTO, error) {
	session, err := s.sessionSvc.GetByToken(req.SessionToken)
	if err != nil {
		return nil, err
	}

	// Duplicate network retries must never double-score: a submitted session
	// returns its existing result unchanged.
	if session.IsSubmitted {
		return s.existingResult(session.ID)
	}

	// Expiry does not block submission. The client timer auto-submits exactly
	// at expiry and network delay must not lose the student's answers.

	key, err := s.testRepo.FindAnswerKey(session.TestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Str("testID", session.TestID.String()).Msg("Submit: test has sessions but no answer key")
			return nil, apperr.New(apperr.CodeAnswerKeyMissing, "answer key not found for this test")
		}
		return nil, fmt.Errorf("loading answer key: %w", err)
	}

	now := s.clk.Now()
	mcqRows, mcqScore := gradeMCQ(key, req.MCQAnswers)
	writtenRows, writtenScore, err := gradeWritten(key, req.WrittenAnswers, now)
	if err != nil {
		return nil, err
	}

	result := model.Result{
		UserID:       session.UserID,
		TestID:       session.TestID,
		SessionID:    session.ID,
		MCQScore:     mcqScore,
		WrittenScore: writtenScore,
		TotalScore:   mcqScore + writtenScore,
		SubmittedAt:  now,
	}

	// The result and every child row commit atomically: partial grading must
	// never be visible.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&result).Error; err != nil {
			return err
		}
		for i := range mcqRows {
			mcqRows[i].ResultID = result.ID
		}
		for i := range writtenRows {
			writtenRows[i].ResultID = result.ID
		}
		if len(mcqRows) > 0 {
			if err := tx.Create(&mcqRows).Error; err != nil {
				return err
			}
		}
		if len(writtenRows) > 0 {
			if err := tx.Create(&writtenRows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent submission won the race on the session's unique
			// result slot; hand back the winner's result.
			log.Warn().Str("sessionID", session.ID.String()).Msg("Submit: concurrent submission detected, returning existing result")
			return s.existingResult(session.ID)
		}
		log.Error().Err(err).Str("sessionID", session.ID.String()).Msg("Submit: grading transaction failed")
		return nil, fmt.Errorf("saving graded result: %w", err)
	}

	if err := s.sessionSvc.MarkSubmitted(session.ID); err != nil {
		// The result exists, so a retry will take the idempotent path; do not
		// discard the student's graded submission over this.
		log.Error().Err(err).Str("sessionID", session.ID.String()).Msg("Submit: failed to mark session submitted")
	}

	result.MCQAnswers = mcqRows
	result.WrittenAnswers = writtenRows
	return toResultDTO(&result), nil
}

func (s *gradingService) existingResult(sessionID uuid.UUID) (*dto.ResultResponseDTO, error) {
	existing, err := s.resultRepo.FindBySessionIDWithAnswers(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Str("sessionID", sessionID.String()).Msg("Submitted session has no result record")
			return nil, apperr.New(apperr.CodeInternal, "session submitted but result missing")
		}
		return nil, fmt.Errorf("loading existing result: %w", err)
	}
	return toResultDTO(existing), nil
}

func (s *gradingService) GetResult(id uuid.UUID) (*dto.ResultResponseDTO, error) {
	result, err := s.resultRepo.FindByIDWithAnswers(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("result")
		}
		return nil, fmt.Errorf("loading result: %w", err)
	}
	return toResultDTO(result), nil
}

func (s *gradingService) ListUserResults(userID uuid.UUID) ([]dto.UserResultSummaryDTO, error) {
	results, err := s.resultRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}

	// One batched test lookup instead of a query per result row.
	testIDs := make([]uuid.UUID, 0, len(results))
	seen := make(map[uuid.UUID]bool)
	for _, r := range results {
		if !seen[r.TestID] {
			seen[r.TestID] = true
			testIDs = append(testIDs, r.TestID)
		}
	}
	tests, err := s.testRepo.FindByIDs(testIDs)
	if err != nil {
		return nil, fmt.Errorf("loading tests for results: %w", err)
	}
	testByID := make(map[uuid.UUID]model.Test, len(tests))
	for _, t := range tests {
		testByID[t.ID] = t
	}

	summaries := make([]dto.UserResultSummaryDTO, 0, len(results))
	for _, r := range results {
		summary := dto.UserResultSummaryDTO{
			MCQScore:     r.MCQScore,
			WrittenScore: r.WrittenScore,
			TotalScore:   r.TotalScore,
			SubmittedAt:  r.SubmittedAt,
		}
		if t, ok := testByID[r.TestID]; ok {
			summary.TestTitle = t.Title
			summary.TestCode = t.TestCode
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func toResultDTO(result *model.Result) *dto.ResultResponseDTO {
	resp := &dto.ResultResponseDTO{
		ID:           result.ID,
		UserID:       result.UserID,
		TestID:       result.TestID,
		MCQScore:     result.MCQScore,
		WrittenScore: result.WrittenScore,
		TotalScore:   result.TotalScore,
		SubmittedAt:  result.SubmittedAt,
	}

	resp.MCQAnswers = make([]dto.MCQAnswerResponseDTO, len(result.MCQAnswers))
	for i := range result.MCQAnswers {
		copier.Copy(&resp.MCQAnswers[i], &result.MCQAnswers[i])
	}
	sort.SliceStable(resp.MCQAnswers, func(i, j int) bool {
		return resp.MCQAnswers[i].QuestionNumber < resp.MCQAnswers[j].QuestionNumber
	})

	resp.WrittenAnswers = make([]dto.WrittenAnswerResponseDTO, len(result.WrittenAnswers))
	for i := range result.WrittenAnswers {
		copier.Copy(&resp.WrittenAnswers[i], &result.WrittenAnswers[i])
	}
	sort.SliceStable(resp.WrittenAnswers, func(i, j int) bool {
		return resp.WrittenAnswers[i].QuestionNumber < resp.WrittenAnswers[j].QuestionNumber
	})

	return resp
}
