package middleware

import (
	"errors"
	"strings"

	"github.com/codecritic/codecritic/internal/models"
	"github.com/codecritic/codecritic/internal/utils"
	"github.com/codecritic/codecritic/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const ContextEmail = "email"

// AuthRequired checks for a valid bearer token and resolves it to a known
// account. Fails closed: any decode error, missing subject, or unknown
// subject yields 401.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		var account models.Account
		if err := db.Where("email = ?", claims.Subject).First(&account).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				response.ServerError(c, err.Error())
				c.Abort()
				return
			}
			response.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		c.Set(ContextEmail, account.Email)
		c.Next()
	}
}

// GetEmail gets the authenticated account email from context.
func GetEmail(c *gin.Context) string {
	if email, exists := c.Get(ContextEmail); exists {
		return email.(string)
	}
	return ""
}
