package admin

import (
	"errors"
	"net/http"

	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login godoc
// @Summary (Admin) Obtain a bearer token
// @Tags Admin - Auth
// @Accept json
// @Produce json
// @Param credentials body dto.AdminLoginDTO true "Admin credentials"
// @Success 200 {object} dto.TokenResponseDTO
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.AdminLoginDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.authService.Login(req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid username or password"})
			return
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Login: service error")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
