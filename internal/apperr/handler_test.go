package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   gin.H
	}{
		{"validation", Invalid("email", "Invalid email"), http.StatusBadRequest, gin.H{"errors": []FieldError{{Field: "email", Message: "Invalid email"}}}},
		{"bad request", BadRequest("invalid form data", errors.New("eof")), http.StatusBadRequest, gin.H{"error": "invalid form data"}},
		{"image required", ErrImageRequired, http.StatusBadRequest, gin.H{"error": "Profile picture is required"}},
		{"email taken", ErrEmailTaken, http.StatusBadRequest, gin.H{"error": "This email is already registered"}},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized, gin.H{"error": "Invalid credentials"}},
		{"wrapped unauthorized", fmt.Errorf("%w: token expired", ErrUnauthorized), http.StatusUnauthorized, gin.H{"error": "Unauthorized"}},
		{"not found", ErrNotFound, http.StatusNotFound, gin.H{"error": "Employee not found"}},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests, gin.H{"error": "Too many requests, try again later"}},
		{"upload failed", fmt.Errorf("%w: dial tcp", ErrUploadFailed), http.StatusBadGateway, gin.H{"error": "Image upload failed"}},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, gin.H{"error": "Something went wrong"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := Classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestHandlerDoesNotLeakInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Handler())
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("password_hash column missing"))
	})
	r.GET("/ok", func(c *gin.Context) {
		_ = c.Error(errors.New("ignored"))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Something went wrong"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRecoveryHidesPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), Handler())
	r.GET("/panic", func(c *gin.Context) {
		panic("nil map write in handler")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Something went wrong"}`, w.Body.String())
}
