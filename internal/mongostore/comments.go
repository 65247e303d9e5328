package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/emilythestrangee/blog-api/backend/internal/models"
	"github.com/emilythestrangee/blog-api/backend/internal/store"
)

func (s *Store) FindComment(ctx context.Context, id string) (*models.Comment, error) {
	if !validID(id) {
		return nil, store.ErrNotFound
	}

	comment, err := findOne[models.Comment](ctx, s.comments, bson.M{"_id": id})
	if err != nil {
		if err == store.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return comment, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	now := time.Now().UTC()
	if comment.ID == "" {
		comment.ID = newID()
	}
	if comment.PostedOn.IsZero() {
		comment.PostedOn = now
	}
	comment.CreatedAt = now
	comment.UpdatedAt = now

	if _, err := s.comments.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	if !validID(id) {
		return store.ErrNotFound
	}

	res, err := s.comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	cursor, err := s.comments.Find(ctx,
		bson.M{"post_id": postID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
