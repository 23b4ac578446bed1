package middleware

import (
	"strings"

	"github.com/Govind-619/Bookstore/config"
	"github.com/Govind-619/Bookstore/models"
	"github.com/Govind-619/Bookstore/utils"
	"github.com/gin-gonic/gin"
)

// ContextUserKey is the gin context key holding the authenticated models.User
const ContextUserKey = "user"

// bearerToken extracts the token from an "Authorization: Bearer" header
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader || token == "" {
		return "", false
	}
	return token, true
}

// authenticate resolves the token to an active user
func authenticate(tokenString string) (*models.User, *utils.AppError) {
	userID, err := utils.ValidateToken(tokenString)
	if err != nil {
		return nil, utils.UnauthorizedError("Please login for access", err)
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return nil, utils.UnauthorizedError("User not found", err)
	}
	if user.IsBlocked {
		return nil, utils.ForbiddenError("Account is blocked", nil)
	}
	return &user, nil
}

// AuthMiddleware requires a valid bearer token and stores the user in the context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("AuthMiddleware called")

		tokenString, ok := bearerToken(c)
		if !ok {
			utils.LogError("Missing or malformed Authorization header")
			utils.Unauthorized(c, "Please login for access")
			c.Abort()
			return
		}

		user, appErr := authenticate(tokenString)
		if appErr != nil {
			utils.LogError("Authentication failed: %v", appErr)
			utils.Error(c, appErr.Code, appErr.Message, nil)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, *user)
		utils.LogDebug("User %d authenticated successfully", user.ID)
		c.Next()
	}
}

// OptionalAuthMiddleware stores the user in the context when a valid token is
// sent and lets anonymous requests through untouched
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		user, appErr := authenticate(tokenString)
		if appErr != nil {
			utils.LogDebug("Ignoring invalid token on public route: %v", appErr)
			c.Next()
			return
		}
		c.Set(ContextUserKey, *user)
		c.Next()
	}
}

// AdminMiddleware rejects users without the admin flag. It must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("AdminMiddleware called")

		user, ok := CurrentUser(c)
		if !ok {
			utils.LogError("User not found in context")
			utils.Unauthorized(c, "Please login for access")
			c.Abort()
			return
		}

		if !user.IsAdmin {
			utils.LogError("Non-admin user attempted admin access: %d", user.ID)
			utils.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}

		utils.LogInfo("Admin access granted for user %d", user.ID)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, if any
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
