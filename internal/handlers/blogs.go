package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/blog-api/backend/internal/blog"
	apperrors "github.com/emilythestrangee/blog-api/backend/internal/errors"
	"github.com/emilythestrangee/blog-api/backend/internal/middleware"
	"github.com/emilythestrangee/blog-api/backend/internal/models"
)

type BlogHandler struct {
	blogs *blog.Service
}

func NewBlogHandler(blogs *blog.Service) *BlogHandler {
	return &BlogHandler{blogs: blogs}
}

// callerID returns the authenticated user or records a 401.
func callerID(c *gin.Context) (string, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		_ = c.Error(apperrors.UnauthorizedError("User not authenticated"))
	}
	return id, ok
}

// GetBlogs returns every blog ranked by relevancy score
func (h *BlogHandler) GetBlogs(c *gin.Context) {
	posts, err := h.blogs.ListPosts(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetBlog returns a single blog by ID
func (h *BlogHandler) GetBlog(c *gin.Context) {
	post, err := h.blogs.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *BlogHandler) CreateBlog(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	// An unreadable body is reported as missing fields.
	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		input = models.CreatePostRequest{}
	}

	post, err := h.blogs.CreatePost(c.Request.Context(), userID, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// UpdateBlog applies a partial update (owner only)
func (h *BlogHandler) UpdateBlog(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var input models.UpdatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(apperrors.ValidationError("Invalid request body"))
		return
	}

	post, err := h.blogs.UpdatePost(c.Request.Context(), c.Param("id"), userID, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeleteBlog deletes a blog (owner only). Its comments are not removed.
func (h *BlogHandler) DeleteBlog(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.blogs.DeletePost(c.Request.Context(), c.Param("id"), userID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}

func (h *BlogHandler) UpvoteBlog(c *gin.Context) {
	h.vote(c, h.blogs.Upvote)
}

func (h *BlogHandler) DownvoteBlog(c *gin.Context) {
	h.vote(c, h.blogs.Downvote)
}

func (h *BlogHandler) RemoveVote(c *gin.Context) {
	h.vote(c, h.blogs.RemoveVote)
}

type voteFunc func(ctx context.Context, postID, callerID string) (*models.Post, error)

func (h *BlogHandler) vote(c *gin.Context, op voteFunc) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	post, err := op(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// GetComments lists a blog's comments, oldest first
func (h *BlogHandler) GetComments(c *gin.Context) {
	comments, err := h.blogs.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *BlogHandler) AddComment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(apperrors.ValidationError("Invalid request body"))
		return
	}

	comment, err := h.blogs.AddComment(c.Request.Context(), c.Param("id"), userID, input.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment removes a comment (comment author only)
func (h *BlogHandler) DeleteComment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.blogs.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("commentId"), userID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
