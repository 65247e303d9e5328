package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/emilythestrangee/blog-api/backend/internal/errors"
	"github.com/emilythestrangee/blog-api/backend/internal/metrics"
)

// Errors renders the last error attached with c.Error as a JSON error body,
// unless the handler already wrote a response.
func Errors(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		structuredErr := apperrors.AsStructuredError(c.Errors.Last().Err)
		m.HTTPError(string(structuredErr.Type))
		logError(c, structuredErr)

		c.JSON(structuredErr.HTTPStatus(), structuredErr.ToResponse())
	}
}

func logError(c *gin.Context, err *apperrors.Error) {
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"status", err.HTTPStatus(),
	}

	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	if userID, ok := UserID(c); ok {
		attrs = append(attrs, "user_id", userID)
	}

	ctx := c.Request.Context()
	switch err.Type {
	case apperrors.TypeInternal, apperrors.TypeStore:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.ErrorContext(ctx, "Request failed", attrs...)
	case apperrors.TypeConflict, apperrors.TypeRateLimited:
		slog.WarnContext(ctx, "Request rejected", attrs...)
	default:
		slog.InfoContext(ctx, "Request rejected", attrs...)
	}
}
