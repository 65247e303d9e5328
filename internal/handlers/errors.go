package handlers

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/blog-api/backend/internal/auth"
	"github.com/emilythestrangee/blog-api/backend/internal/blog"
	apperrors "github.com/emilythestrangee/blog-api/backend/internal/errors"
	"github.com/emilythestrangee/blog-api/backend/internal/store"
)

// mapError translates service errors into structured HTTP errors. Anything
// unrecognised is a persistence failure and is reported with its message.
func mapError(err error) *apperrors.Error {
	var validationErr *blog.ValidationError
	var structuredErr *apperrors.Error

	switch {
	case errors.As(err, &structuredErr):
		return structuredErr
	case errors.As(err, &validationErr):
		return apperrors.ValidationError(validationErr.Message, validationErr.EmptyFields...)
	case errors.Is(err, blog.ErrNotFound):
		return apperrors.NotFoundError("No such blog")
	case errors.Is(err, blog.ErrCommentNotFound):
		return apperrors.ValidationError("Comment not found")
	case errors.Is(err, blog.ErrAlreadyVoted):
		return apperrors.ValidationError(sentence(err.Error()))
	case errors.Is(err, blog.ErrForbidden):
		return apperrors.ForbiddenError(sentence(err.Error()))
	case errors.Is(err, store.ErrConflict):
		return apperrors.ConflictError("Blog was modified by another request, please retry", err)
	case errors.Is(err, auth.ErrEmailInUse), errors.Is(err, auth.ErrInvalidCredentials):
		return apperrors.ValidationError(sentence(err.Error()))
	default:
		return apperrors.StoreError(err)
	}
}

// fail attaches err to the context for the error middleware to render,
// tagged with the blog and comment ids from the route.
func fail(c *gin.Context, err error) {
	appErr := mapError(err)
	if id := c.Param("id"); id != "" {
		appErr = appErr.WithContext("post_id", id)
	}
	if id := c.Param("commentId"); id != "" {
		appErr = appErr.WithContext("comment_id", id)
	}
	_ = c.Error(appErr)
}

func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
