// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/furniture-store/internal/pkg/auth"
)

const (
	userIDKey      = "user_id"
	tokenClaimsKey = "token_claims"
)

// AuthMiddleware creates JWT authentication middleware. Tokens revoked by
// logout are rejected.
func AuthMiddleware(jwtManager *auth.JWTManager, revocations auth.RevocationStore, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Please log in first")
			return
		}

		// Extract token from header
		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		if revocations != nil {
			revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// Fail closed
				logger.WithError(err).Error("Token revocation check failed")
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"success": false,
					"message": "Authentication temporarily unavailable",
				})
				return
			}
			if revoked {
				abortUnauthorized(c, "Token has been logged out")
				return
			}
		}

		// Store user information in context
		c.Set(userIDKey, claims.UserID)
		c.Set(tokenClaimsKey, claims)

		c.Next()
	}
}

// GetUserIDFromContext extracts user ID from gin context
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// GetClaimsFromContext returns the validated token claims
func GetClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	claims, exists := c.Get(tokenClaimsKey)
	if !exists {
		return nil, false
	}
	typed, ok := claims.(*auth.Claims)
	return typed, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}
