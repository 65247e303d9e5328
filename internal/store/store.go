// Package store declares the persistence contracts the blog and auth services
// depend on. Implementations live in database (Postgres), mongostore and
// memstore.
package store

import (
	"context"
	"errors"

	"github.com/emilythestrangee/blog-api/backend/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("record was modified concurrently")
	ErrDuplicate = errors.New("duplicate key")
)

type Sort int

const (
	SortNewest Sort = iota
	SortOldest
)

// PostQuery filters ListPosts. A zero AuthorID matches every post.
type PostQuery struct {
	AuthorID string
	Sort     Sort
}

type PostStore interface {
	FindPost(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) error
	// SavePost writes the post only if its stored Version still equals
	// post.Version, and bumps Version on success. Otherwise ErrConflict.
	SavePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context, q PostQuery) ([]models.Post, error)
}

type CommentStore interface {
	FindComment(ctx context.Context, id string) (*models.Comment, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id string) error
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
}

type UserStore interface {
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	// CreateUser returns ErrDuplicate when the email or username is taken.
	CreateUser(ctx context.Context, user *models.User) error
}

type Store interface {
	PostStore
	CommentStore
	UserStore
	Health(ctx context.Context) map[string]string
	Close() error
}
