package user

import (
	"net/http"

	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ResultController struct {
	gradingService service.GradingService
}

func NewResultController(gradingService service.GradingService) *ResultController {
	return &ResultController{gradingService: gradingService}
}

// Submit godoc
// @Summary Submit a test for grading
// @Description Grades the full answer sheet and returns the result. Resubmitting a graded session returns the existing result unchanged. Expiry does not block submission.
// @Tags Results
// @Accept json
// @Produce json
// @Param submission body dto.ResultSubmitDTO true "Session token plus every answer"
// @Success 200 {object} dto.ResultResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid submission shape or missing answer key"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /results/submit [post]
func (c *ResultController) Submit(ctx *gin.Context) {
	var req dto.ResultSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Submit: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid submission", Details: []string{err.Error()}})
		return
	}

	resp, err := c.gradingService.Submit(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetResult godoc
// @Summary Get a graded result with per-question detail
// @Tags Results
// @Produce json
// @Param result_id path string true "Result id"
// @Success 200 {object} dto.ResultResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Result not found"
// @Router /results/{result_id} [get]
func (c *ResultController) GetResult(ctx *gin.Context) {
	resultID, err := uuid.Parse(ctx.Param("result_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid result id"})
		return
	}
	resp, err := c.gradingService.GetResult(resultID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListUserResults godoc
// @Summary List a student's results across tests
// @Tags Results
// @Produce json
// @Param user_id path string true "User id"
// @Success 200 {array} dto.UserResultSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid user id"
// @Router /results/user/{user_id} [get]
func (c *ResultController) ListUserResults(ctx *gin.Context) {
	userID, err := uuid.Parse(ctx.Param("user_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user id"})
		return
	}
	resp, err := c.gradingService.ListUserResults(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
