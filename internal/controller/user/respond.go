package user

import (
	"net/http"

	"github.com/davrbek/examgate/internal/apperr"
	"github.com/davrbek/examgate/internal/dto"
	"github.com/gin-gonic/gin"
)

// respondError maps tagged service errors onto HTTP statuses: not-found to
// 404, lifecycle conflicts to 400 with their reason code, the rest to 500.
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
