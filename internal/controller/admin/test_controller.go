package admin

import (
	"net/http"
	"strconv"

	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type TestController struct {
	testService service.TestService
}

func NewTestController(testService service.TestService) *TestController {
	return &TestController{testService: testService}
}

// CreateTest godoc
// @Summary (Admin) Create a test with its answer key
// @Description The test and its key are created in one step; a test never exists without a key.
// @Tags Admin - Tests
// @Accept json
// @Produce json
// @Param test_data body dto.TestCreateDTO true "Test definition including the answer key"
// @Success 201 {object} dto.TestResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /admin/tests [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	var req dto.TestCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateTest: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	var adminID *uuid.UUID
	if id, ok := adminIDFrom(ctx); ok {
		adminID = &id
	}

	resp, err := c.testService.Create(req, adminID)
	if err != nil {
		log.Error().Err(err).Str("testCode", req.TestCode).Msg("CreateTest: service error")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListTests godoc
// @Summary (Admin) List tests
// @Tags Admin - Tests
// @Produce json
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} dto.TestResponseDTO
// @Security BearerAuth
// @Router /admin/tests [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "100"))

	resp, err := c.testService.List(offset, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetTest godoc
// @Summary (Admin) Get a test including its answer key
// @Tags Admin - Tests
// @Produce json
// @Param test_id path string true "Test id"
// @Success 200 {object} dto.TestWithKeyDTO
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Security BearerAuth
// @Router /admin/tests/{test_id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	testID, err := uuid.Parse(ctx.Param("test_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid test id"})
		return
	}
	resp, err := c.testService.GetWithKey(testID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateTest godoc
// @Summary (Admin) Update a test, its schedule, or its answer key
// @Description Key edits affect future grading only; already graded results keep their snapshots.
// @Tags Admin - Tests
// @Accept json
// @Produce json
// @Param test_id path string true "Test id"
// @Param test_data body dto.TestUpdateDTO true "Fields to change"
// @Success 200 {object} dto.TestResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Security BearerAuth
// @Router /admin/tests/{test_id} [put]
func (c *TestController) UpdateTest(ctx *gin.Context) {
	testID, err := uuid.Parse(ctx.Param("test_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid test id"})
		return
	}
	var req dto.TestUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.testService.Update(testID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteTest godoc
// @Summary (Admin) Delete a test and everything attached to it
// @Tags Admin - Tests
// @Produce json
// @Param test_id path string true "Test id"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Security BearerAuth
// @Router /admin/tests/{test_id} [delete]
func (c *TestController) DeleteTest(ctx *gin.Context) {
	testID, err := uuid.Parse(ctx.Param("test_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid test id"})
		return
	}
	if err := c.testService.Delete(testID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
