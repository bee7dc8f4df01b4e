package middleware

import (
	"net/http"
	"strings"

	"github.com/davrbek/examgate/internal/dto"
	"github.com/davrbek/examgate/internal/service"
	"github.com/gin-gonic/gin"
)

// ContextAdminID is the gin context key holding the authenticated admin's id.
const ContextAdminID = "admin_id"

// AdminAuth rejects requests without a valid admin bearer token and exposes
// the admin's id to handlers via the gin context.
func AdminAuth(authSvc service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "missing bearer token",
			})
			return
		}
		claims, err := authSvc.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "invalid or expired token",
			})
			return
		}
		c.Set(ContextAdminID, claims.AdminID)
		c.Next()
	}
}
