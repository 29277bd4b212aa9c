package middleware

import (
	"compliance-portal/internal/domain"
	"compliance-portal/internal/errors"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only for sessions holding role.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sess := CurrentSession(ctx)
		if sess == nil {
			ctx.Error(errors.Unauthorized("Not signed in", nil))
			ctx.Abort()
			return
		}
		if !sess.Is(role) {
			ctx.Error(errors.Forbidden("This page is only available to "+string(role)+" users", nil))
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
