package service

import (
	"errors"
	"fmt"

	"github.com/davrbek/examgate/internal/apperr"
	"github.com/davrbek/examgate/internal/clock"
	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/model"
	"github.com/davrbek/examgate/internal/repository"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewService lets a reviewer override a written answer's score after
// automatic grading and keeps the parent result's aggregate consistent.
type ReviewService interface {
	GradeWritten(writtenAnswerID, reviewerID uuid.UUID, score int, comments *string) (*dto.WrittenAnswerResponseDTO, error)
	ListPending(testID *uuid.UUID) ([]dto.WrittenAnswerResponseDTO, error)
}

type reviewService struct {
	resultRepo repository.ResultRepository
	clk        clock.Clock
	db         *gorm.DB
}

func NewReviewService(resultRepo repository.ResultRepository, clk clock.Clock, db *gorm.DB) ReviewService {
	return &reviewService{resultRepo: resultRepo, clk: clk, db: db}
}

// sumWrittenScores recomputes the aggregate from every written answer of a
// result. A full recompute (not an incremental delta) keeps repeated and
// out-of-order reviews from drifting the total.
func sumWrittenScores(answers []model.WrittenAnswer) int {
	sum := 0
	for _, a := range answers {
		sum += a.Score
	}
	return sum
}

func (s *reviewService) GradeWritten(writtenAnswerID, reviewerID uuid.UUID, score int, comments *string) (*dto.WrittenAnswerResponseDTO, error) {
	var answer model.WrittenAnswer

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&answer, "id = ?", writtenAnswerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("written answer")
			}
			return fmt.Errorf("locking written answer: %w", err)
		}

		now := s.clk.Now()
		answer.Score = score
		answer.ReviewedAt = &now
		if err := tx.Save(&answer).Error; err != nil {
			return fmt.Errorf("saving written answer: %w", err)
		}

		review := model.WrittenReview{
			WrittenAnswerID: answer.ID,
			ReviewedByAdmin: reviewerID,
			ScoreAwarded:    score,
			Comments:        comments,
			ReviewedAt:      now,
		}
		if err := tx.Create(&review).Error; err != nil {
			return fmt.Errorf("recording review: %w", err)
		}

		var result model.Result
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&result, "id = ?", answer.ResultID).Error; err != nil {
			return fmt.Errorf("locking result: %w", err)
		}

		var siblings []model.WrittenAnswer
		if err := tx.Where("result_id = ?", result.ID).Find(&siblings).Error; err != nil {
			return fmt.Errorf("loading written answers for recompute: %w", err)
		}

		result.WrittenScore = sumWrittenScores(siblings)
		result.TotalScore = result.MCQScore + result.WrittenScore
		if err := tx.Save(&result).Error; err != nil {
			return fmt.Errorf("saving recomputed result: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("writtenAnswerID", writtenAnswerID.String()).
		Str("reviewerID", reviewerID.String()).
		Int("score", score).
		Msg("Written answer manually graded")

	var resp dto.WrittenAnswerResponseDTO
	copier.Copy(&resp, &answer)
	return &resp, nil
}

func (s *reviewService) ListPending(testID *uuid.UUID) ([]dto.WrittenAnswerResponseDTO, error) {
	answers, err := s.resultRepo.ListPendingWritten(testID)
	if err != nil {
		return nil, fmt.Errorf("listing pending written answers: %w", err)
	}
	out := make([]dto.WrittenAnswerResponseDTO, len(answers))
	for i := range answers {
		copier.Copy(&out[i], &answers[i])
	}
	return out, nil
}
