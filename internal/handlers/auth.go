package handlers

import (
	"net/http"

	"github.com/codecritic/codecritic/internal/config"
	"github.com/codecritic/codecritic/internal/services"
	"github.com/codecritic/codecritic/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db, &cfg.JWT),
	}
}

// Signup registers a new account.
// POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	account, err := h.authService.Signup(&req)
	if err != nil {
		services.AuditWarning("auth", "signup", err.Error(), req.Email, c.ClientIP(), c.Request.UserAgent(), nil)
		response.Error(c, err)
		return
	}

	services.AuditInfo("auth", "signup", "account created", account.Email, c.ClientIP(), c.Request.UserAgent(), nil)
	c.JSON(http.StatusOK, gin.H{
		"message": "Signup successful!",
		"user_id": account.ID,
	})
}

// Login verifies credentials and issues a bearer token.
// POST /login (form-encoded: username, password)
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		response.BadRequest(c, "username and password are required")
		return
	}

	token, err := h.authService.Login(username, password)
	if err != nil {
		services.AuditWarning("auth", "login", "login failed", username, c.ClientIP(), c.Request.UserAgent(), nil)
		response.Error(c, err)
		return
	}

	services.AuditInfo("auth", "login", "login succeeded", username, c.ClientIP(), c.Request.UserAgent(), nil)
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}
