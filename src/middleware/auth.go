package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/trackline/tracking-api/src/logging"
	"github.com/trackline/tracking-api/src/services"
)

// Context keys set by AdminAuthMiddleware
const (
	AdminIDKey       = "admin_id"
	AdminUsernameKey = "username"
)

const (
	msgMissingBearer = "Unauthorized: Missing Bearer token"
	msgInvalidToken  = "Unauthorized: Invalid token"
)

// TokenVerifier validates admin session tokens
type TokenVerifier interface {
	Verify(token string) (*services.AdminClaims, error)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// AdminAuthMiddleware requires a valid admin bearer token.
// Rejected requests are aborted before any handler runs.
func AdminAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgMissingBearer})
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			logger := logging.ComponentLogger("auth", GetRequestID(c))
			logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("rejected admin token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgInvalidToken})
			return
		}

		c.Set(AdminIDKey, claims.UserID)
		c.Set(AdminUsernameKey, claims.Username)
		c.Next()
	}
}

// GetAdminID returns the authenticated admin's ID, or 0 outside AdminAuthMiddleware
func GetAdminID(c *gin.Context) int64 {
	return c.GetInt64(AdminIDKey)
}

// GetAdminUsername returns the authenticated admin's username
func GetAdminUsername(c *gin.Context) string {
	return c.GetString(AdminUsernameKey)
}
