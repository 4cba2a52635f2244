package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"employee-directory/internal/apperr"
)

// Limiter decides whether a keyed request is within quota.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit rejects requests over quota, keyed by route and client IP. A nil
// limiter disables limiting.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		if !l.Allow(c.Request.Context(), c.FullPath()+":"+c.ClientIP()) {
			abort(c, apperr.ErrRateLimited)
			return
		}
		c.Next()
	}
}
