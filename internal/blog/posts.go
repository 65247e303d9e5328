package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/emilythestrangee/blog-api/backend/internal/models"
	"github.com/emilythestrangee/blog-api/backend/internal/store"
)

func (s *Service) CreatePost(ctx context.Context, authorID string, req models.CreatePostRequest) (*models.Post, error) {
	if err := requireFields(
		[2]string{"title", req.Title},
		[2]string{"content", req.Content},
	); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:     req.Title,
		Content:   req.Content,
		AuthorID:  authorID,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *Service) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	return s.loadPost(ctx, postID)
}

// ListPosts returns every post ranked by relevancy score.
func (s *Service) ListPosts(ctx context.Context) ([]models.ScoredPost, error) {
	posts, err := s.posts.ListPosts(ctx, store.PostQuery{Sort: store.SortNewest})
	if err != nil {
		return nil, err
	}
	return Rank(posts, s.clock.Now()), nil
}

// ListUserPosts returns the author's posts, newest first.
func (s *Service) ListUserPosts(ctx context.Context, authorID string) ([]models.Post, error) {
	return s.posts.ListPosts(ctx, store.PostQuery{AuthorID: authorID, Sort: store.SortNewest})
}

// UpdatePost merges the supplied fields into a post owned by callerID.
func (s *Service) UpdatePost(ctx context.Context, postID, callerID string, req models.UpdatePostRequest) (*models.Post, error) {
	return s.mutatePost(ctx, postID, func(p *models.Post) error {
		if p.AuthorID != callerID {
			return forbiddenError{action: "update this blog"}
		}
		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.Content != nil {
			p.Content = *req.Content
		}
		return nil
	})
}

// DeletePost removes a post owned by callerID. Its comments are left in place.
func (s *Service) DeletePost(ctx context.Context, postID, callerID string) error {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != callerID {
		return forbiddenError{action: "delete this blog"}
	}

	if err := s.posts.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
