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

func (s *Store) FindPost(ctx context.Context, id string) (*models.Post, error) {
	if !validID(id) {
		return nil, store.ErrNotFound
	}

	post, err := findOne[models.Post](ctx, s.posts, bson.M{"_id": id})
	if err != nil {
		if err == store.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	post.Normalize()
	return post, nil
}

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	if post.ID == "" {
		post.ID = newID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	post.Version = 0
	post.Normalize()

	if _, err := s.posts.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (s *Store) SavePost(ctx context.Context, post *models.Post) error {
	post.Normalize()
	now := time.Now().UTC()

	res, err := s.posts.UpdateOne(ctx,
		bson.M{"_id": post.ID, "version": post.Version},
		bson.M{"$set": bson.M{
			"title":        post.Title,
			"content":      post.Content,
			"upvotes":      post.Upvotes,
			"downvotes":    post.Downvotes,
			"upvoted_by":   post.UpvotedBy,
			"downvoted_by": post.DownvotedBy,
			"comment_ids":  post.CommentIDs,
			"version":      post.Version + 1,
			"updated_at":   now,
		}},
	)
	if err != nil {
		return fmt.Errorf("save post: %w", err)
	}

	if res.MatchedCount == 0 {
		n, err := s.posts.CountDocuments(ctx, bson.M{"_id": post.ID})
		if err != nil {
			return fmt.Errorf("save post: %w", err)
		}
		if n == 0 {
			return store.ErrNotFound
		}
		return store.ErrConflict
	}

	post.Version++
	post.UpdatedAt = now
	return nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	if !validID(id) {
		return store.ErrNotFound
	}

	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListPosts(ctx context.Context, q store.PostQuery) ([]models.Post, error) {
	filter := bson.M{}
	if q.AuthorID != "" {
		filter["author_id"] = q.AuthorID
	}

	dir := -1
	if q.Sort == store.SortOldest {
		dir = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: dir}, {Key: "_id", Value: dir}})

	cursor, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	for i := range posts {
		posts[i].Normalize()
	}
	return posts, nil
}
