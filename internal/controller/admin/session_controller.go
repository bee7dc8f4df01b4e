package admin

import (
	"net/http"

	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type SessionController struct {
	sessionService service.SessionService
}

func NewSessionController(sessionService service.SessionService) *SessionController {
	return &SessionController{sessionService: sessionService}
}

// ListSessions godoc
// @Summary (Admin) List every session of a test
// @Tags Admin - Sessions
// @Produce json
// @Param test_id path string true "Test id"
// @Success 200 {array} dto.SessionAdminDTO
// @Security BearerAuth
// @Router /admin/sessions/{test_id}/list [get]
func (c *SessionController) ListSessions(ctx *gin.Context) {
	testID, err := uuid.Parse(ctx.Param("test_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid test id"})
		return
	}
	resp, err := c.sessionService.ListForTest(testID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ExtendSession godoc
// @Summary (Admin) Extend one session by five minutes
// @Description Each session can be extended at most three times (fifteen minutes total).
// @Tags Admin - Sessions
// @Produce json
// @Param session_id path string true "Session id"
// @Success 200 {object} dto.ExtendResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Already submitted or extension limit reached"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Security BearerAuth
// @Router /admin/sessions/{session_id}/extend [post]
func (c *SessionController) ExtendSession(ctx *gin.Context) {
	sessionID, err := uuid.Parse(ctx.Param("session_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid session id"})
		return
	}
	resp, err := c.sessionService.Extend(sessionID, 0)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ExtendAllSessions godoc
// @Summary (Admin) Extend every live session of a test by five minutes
// @Description Submitted, expired, and capped sessions are skipped; the per-session limit still holds.
// @Tags Admin - Sessions
// @Produce json
// @Param test_id path string true "Test id"
// @Success 200 {object} dto.ExtendAllResponseDTO
// @Security BearerAuth
// @Router /admin/tests/{test_id}/extend-all [post]
func (c *SessionController) ExtendAllSessions(ctx *gin.Context) {
	testID, err := uuid.Parse(ctx.Param("test_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid test id"})
		return
	}
	resp, err := c.sessionService.ExtendAll(testID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ClearSessions godoc
// @Summary (Admin) Delete every session and result of a test
// @Description Resets the test so students can retake it. Graded results are revoked together with their sessions.
// @Tags Admin - Sessions
// @Produce json
// @Param test_id path string true "Test id"
// @Success 200 {object} dto.ClearSessionsResponseDTO
// @Security BearerAuth
// @Router /admin/sessions/{test_id} [delete]
func (c *SessionController) ClearSessions(ctx *gin.Context) {
	testID, err := uuid.Parse(ctx.Param("test_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid test id"})
		return
	}
	resp, err := c.sessionService.ClearForTest(testID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	log.Info().Str("testID", testID.String()).Msg("Admin cleared test sessions")
	ctx.JSON(http.StatusOK, resp)
}
