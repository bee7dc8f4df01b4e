package user

import (
	"net/http"

	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type SessionController struct {
	sessionService service.SessionService
}

func NewSessionController(sessionService service.SessionService) *SessionController {
	return &SessionController{sessionService: sessionService}
}

// StartSession godoc
// @Summary Start a timed test session
// @Description Creates a session for a (user, test) pair. A prior unsubmitted session is replaced; a submitted one makes this a duplicate attempt.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session_data body dto.SessionCreateDTO true "User and test identifiers"
// @Success 201 {object} dto.SessionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Window closed, not started, or duplicate attempt"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /sessions/start [post]
func (c *SessionController) StartSession(ctx *gin.Context) {
	var req dto.SessionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("StartSession: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.sessionService.Create(req.UserID, req.TestID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetSession godoc
// @Summary Describe a session by its token
// @Description Returns the full session descriptor. Reading a session past its deadline marks it expired.
// @Tags Sessions
// @Produce json
// @Param token path string true "Session token"
// @Success 200 {object} dto.SessionResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{token} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	resp, err := c.sessionService.DescribeByToken(ctx.Param("token"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetStatus godoc
// @Summary Poll a session's validity and remaining time
// @Description Lightweight status for the client countdown timer.
// @Tags Sessions
// @Produce json
// @Param token path string true "Session token"
// @Success 200 {object} dto.SessionStatusDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{token}/status [get]
func (c *SessionController) GetStatus(ctx *gin.Context) {
	resp, err := c.sessionService.Status(ctx.Param("token"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
