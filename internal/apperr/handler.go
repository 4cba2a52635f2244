package apperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"employee-directory/internal/logging"
)

// Classify maps an error to its HTTP status and response body.
func Classify(err error) (int, gin.H) {
	var verr *ValidationError
	var berr *BadRequestError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, gin.H{"errors": verr.Fields}
	case errors.As(err, &berr):
		return http.StatusBadRequest, gin.H{"error": berr.Message}
	case errors.Is(err, ErrImageRequired):
		return http.StatusBadRequest, gin.H{"error": "Profile picture is required"}
	case errors.Is(err, ErrEmailTaken):
		return http.StatusBadRequest, gin.H{"error": "This email is already registered"}
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, gin.H{"error": "Invalid credentials"}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, gin.H{"error": "Unauthorized"}
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, gin.H{"error": "Employee not found"}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, gin.H{"error": "Too many requests, try again later"}
	case errors.Is(err, ErrUploadFailed):
		return http.StatusBadGateway, gin.H{"error": "Image upload failed"}
	default:
		return http.StatusInternalServerError, gin.H{"error": "Something went wrong"}
	}
}

// Handler formats the last error a handler attached with c.Error. Handlers
// must not write a response after attaching an error.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, body := Classify(err)
		if status >= http.StatusInternalServerError {
			logger(c).Error("request failed", "status", status, "err", err)
		} else {
			logger(c).Debug("request rejected", "status", status, "err", err)
		}
		c.AbortWithStatusJSON(status, body)
	}
}

// Recovery turns a handler panic into the generic 500 body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger(c).Error("panic recovered", "panic", recovered, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	})
}

func logger(c *gin.Context) *slog.Logger {
	return logging.FromContext(c.Request.Context())
}
