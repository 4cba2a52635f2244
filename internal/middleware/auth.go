package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"employee-directory/internal/apperr"
	"employee-directory/internal/models"
)

const identityKey = "identity"

// Authenticator resolves a bearer token to the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Identity, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate middleware validates the bearer token and sets the caller
// identity on the context. Failures are reported through apperr.Handler.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apperr.ErrUnauthorized)
			return
		}

		// Check if it's a Bearer token
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			abort(c, apperr.ErrUnauthorized)
			return
		}

		id, err := am.auth.Authenticate(c.Request.Context(), strings.TrimSpace(tokenString))
		if err != nil {
			abort(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// Identity returns the authenticated caller set by Authenticate.
func Identity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok && id.ID != ""
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
