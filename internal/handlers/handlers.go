package handlers

import (
	"github.com/emilythestrangee/blog-api/backend/internal/auth"
	"github.com/emilythestrangee/blog-api/backend/internal/blog"
)

// Handler combines all handler types
type Handler struct {
	Blog *BlogHandler
	User *UserHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(blogs *blog.Service, users *auth.Service) *Handler {
	return &Handler{
		Blog: NewBlogHandler(blogs),
		User: NewUserHandler(users, blogs),
	}
}
