package middleware

import (
	"context"

	"compliance-portal/internal/errors"

	"github.com/gin-gonic/gin"
)

type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit rejects requests once the client address exceeds its quota.
// A nil limiter disables the check.
func RateLimit(limiter Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		if !limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP()) {
			c.Error(errors.TooManyRequests("Too many attempts, try again later"))
			c.Abort()
			return
		}
		c.Next()
	}
}
