package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"employee-directory/internal/models"
	"employee-directory/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates a new user account
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := bindJSON(c, &input); err != nil {
		_ = c.Error(err)
		return
	}
	resp, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login authenticates a user and returns a JWT token
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := bindJSON(c, &input); err != nil {
		_ = c.Error(err)
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the current user's account
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	user, err := h.auth.Me(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}
