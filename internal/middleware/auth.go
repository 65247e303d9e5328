package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/emilythestrangee/blog-api/backend/internal/errors"
)

const userIDKey = "user_id"

// TokenVerifier resolves a bearer token to the caller's user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// caller id on the context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Abort()
			_ = c.Error(apperrors.UnauthorizedError("Authorization token required"))
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.Abort()
			_ = c.Error(apperrors.UnauthorizedError("Authorization token required"))
			return
		}

		userID, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			c.Abort()
			_ = c.Error(apperrors.UnauthorizedError("Request is not authorized"))
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated caller id set by AuthMiddleware.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDKey)
	return id, id != ""
}
