package user

import (
	"net/http"

	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// Register godoc
// @Summary Register a student
// @Description Registers a student by Telegram account. Re-registering a known account returns the existing record.
// @Tags Users
// @Accept json
// @Produce json
// @Param user_data body dto.UserRegisterDTO true "Student registration data"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/register [post]
func (c *UserController) Register(ctx *gin.Context) {
	var req dto.UserRegisterDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Register: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.userService.Register(req)
	if err != nil {
		log.Error().Err(err).Int64("telegramID", req.TelegramID).Msg("Register: service error")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetByTelegramID godoc
// @Summary Look up a student by Telegram id
// @Tags Users
// @Produce json
// @Param telegram_id path int true "Telegram account id"
// @Success 200 {object} dto.UserResponseDTO
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/telegram/{telegram_id} [get]
func (c *UserController) GetByTelegramID(ctx *gin.Context) {
	var params struct {
		TelegramID int64 `uri:"telegram_id" binding:"required"`
	}
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Telegram id"})
		return
	}
	resp, err := c.userService.GetByTelegramID(params.TelegramID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
