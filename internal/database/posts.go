package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emilythestrangee/blog-api/backend/internal/models"
	"github.com/emilythestrangee/blog-api/backend/internal/store"
)

// validID reports whether id can be a primary key in this store. Anything
// else is treated as an unknown record.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// newID returns a time-ordered UUID. ListPosts and ListComments break
// created_at ties on id, which keeps them in creation order.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (d *Database) FindPost(ctx context.Context, id string) (*models.Post, error) {
	if !validID(id) {
		return nil, store.ErrNotFound
	}

	var post models.Post
	if err := d.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	post.Normalize()
	return &post, nil
}

func (d *Database) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = newID()
	}
	post.Version = 0
	post.Normalize()

	if err := d.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (d *Database) SavePost(ctx context.Context, post *models.Post) error {
	post.Normalize()
	now := time.Now().UTC()

	res := d.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND version = ?", post.ID, post.Version).
		Updates(map[string]any{
			"title":        post.Title,
			"content":      post.Content,
			"upvotes":      post.Upvotes,
			"downvotes":    post.Downvotes,
			"upvoted_by":   post.UpvotedBy,
			"downvoted_by": post.DownvotedBy,
			"comment_ids":  post.CommentIDs,
			"version":      post.Version + 1,
			"updated_at":   now,
		})
	if res.Error != nil {
		return fmt.Errorf("save post: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := d.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", post.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("save post: %w", err)
		}
		if count == 0 {
			return store.ErrNotFound
		}
		return store.ErrConflict
	}

	post.Version++
	post.UpdatedAt = now
	return nil
}

func (d *Database) DeletePost(ctx context.Context, id string) error {
	if !validID(id) {
		return store.ErrNotFound
	}

	res := d.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (d *Database) ListPosts(ctx context.Context, q store.PostQuery) ([]models.Post, error) {
	tx := d.db.WithContext(ctx)
	if q.AuthorID != "" {
		tx = tx.Where("author_id = ?", q.AuthorID)
	}

	switch q.Sort {
	case store.SortOldest:
		tx = tx.Order("created_at asc").Order("id asc")
	default:
		tx = tx.Order("created_at desc").Order("id desc")
	}

	posts := []models.Post{}
	if err := tx.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	for i := range posts {
		posts[i].Normalize()
	}
	return posts, nil
}
