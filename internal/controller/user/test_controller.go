package user

import (
	"net/http"

	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/service"
	"github.com/gin-gonic/gin"
)

type TestController struct {
	testService service.TestService
}

func NewTestController(testService service.TestService) *TestController {
	return &TestController{testService: testService}
}

// GetByCode godoc
// @Summary Look up an active test by its code
// @Description Resolves the short code a student types in. Inactive tests are invisible here. The answer key is never included.
// @Tags Tests
// @Produce json
// @Param test_code path string true "Test code"
// @Success 200 {object} dto.TestResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /tests/code/{test_code} [get]
func (c *TestController) GetByCode(ctx *gin.Context) {
	code := ctx.Param("test_code")
	if code == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Test code is required"})
		return
	}
	resp, err := c.testService.GetByCode(code)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
