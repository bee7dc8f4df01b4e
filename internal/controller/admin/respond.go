package admin

import (
	"net/http"

	"github.com/davrbek/examgate/internal/apperr"
	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func respondError(ctx *gin.Context, err error) {
	code := apperr.CodeOf(err)
	switch {
	case code == apperr.CodeNotFound:
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Code: string(code), Message: err.Error()})
	case apperr.IsConflict(code):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: string(code), Message: err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: string(apperr.CodeInternal), Message: "internal server error"})
	}
}

// adminIDFrom returns the authenticated admin's id set by the auth middleware.
func adminIDFrom(ctx *gin.Context) (uuid.UUID, bool) {
	v, ok := ctx.Get(middleware.ContextAdminID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
