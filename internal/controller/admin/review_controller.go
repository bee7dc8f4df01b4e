package admin

import (
	"net/http"

	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// ListPendingWritten godoc
// @Summary (Admin) List written answers awaiting manual review
// @Tags Admin - Review
// @Produce json
// @Param test_id query string false "Restrict to one test"
// @Success 200 {array} dto.WrittenAnswerResponseDTO
// @Security BearerAuth
// @Router /admin/written-answers/pending [get]
func (c *ReviewController) ListPendingWritten(ctx *gin.Context) {
	var testID *uuid.UUID
	if raw := ctx.Query("test_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid test id"})
			return
		}
		testID = &id
	}

	resp, err := c.reviewService.ListPending(testID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GradeWritten godoc
// @Summary (Admin) Manually grade a written answer
// @Description Overrides the automatic score and recomputes the result's totals. Every review is recorded.
// @Tags Admin - Review
// @Accept json
// @Produce json
// @Param grade body dto.WrittenGradeDTO true "Written answer id and awarded score"
// @Success 200 {object} dto.WrittenAnswerResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Written answer not found"
// @Security BearerAuth
// @Router /admin/grade-written [post]
func (c *ReviewController) GradeWritten(ctx *gin.Context) {
	var req dto.WrittenGradeDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("GradeWritten: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	reviewerID, ok := adminIDFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "missing admin identity"})
		return
	}

	resp, err := c.reviewService.GradeWritten(req.WrittenAnswerID, reviewerID, *req.Score, req.Comments)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
