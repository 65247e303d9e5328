package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/blog-api/backend/internal/auth"
	"github.com/emilythestrangee/blog-api/backend/internal/blog"
	apperrors "github.com/emilythestrangee/blog-api/backend/internal/errors"
	"github.com/emilythestrangee/blog-api/backend/internal/models"
)

type UserHandler struct {
	users *auth.Service
	blogs *blog.Service
}

func NewUserHandler(users *auth.Service, blogs *blog.Service) *UserHandler {
	return &UserHandler{users: users, blogs: blogs}
}

// Signup registers a user and returns a token
func (h *UserHandler) Signup(c *gin.Context) {
	var input models.SignupRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(apperrors.ValidationError(bindingMessage(err)))
		return
	}

	resp, err := h.users.Signup(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Login exchanges credentials for a token
func (h *UserHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(apperrors.ValidationError("All fields must be filled"))
		return
	}

	resp, err := h.users.Login(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetUserBlogs returns the caller's own blogs, newest first
func (h *UserHandler) GetUserBlogs(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	posts, err := h.blogs.ListUserPosts(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}
