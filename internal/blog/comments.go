package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/emilythestrangee/blog-api/backend/internal/models"
	"github.com/emilythestrangee/blog-api/backend/internal/store"
)

// AddComment creates a comment and appends its id to the post.
func (s *Service) AddComment(ctx context.Context, postID, authorID, text string) (*models.Comment, error) {
	if _, err := s.loadPost(ctx, postID); err != nil {
		s.metrics.Comment("add", err)
		return nil, err
	}
	if err := requireFields([2]string{"text", text}); err != nil {
		s.metrics.Comment("add", err)
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
		PostedOn: s.clock.Now().UTC(),
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		s.metrics.Comment("add", err)
		return nil, fmt.Errorf("create comment: %w", err)
	}

	_, err := s.mutatePost(ctx, postID, func(p *models.Post) error {
		p.CommentIDs = append(p.CommentIDs, comment.ID)
		return nil
	})
	s.metrics.Comment("add", err)
	if err != nil {
		s.discardComment(ctx, comment.ID)
		return nil, err
	}
	return comment, nil
}

// discardComment removes a comment that could not be linked to its post.
func (s *Service) discardComment(ctx context.Context, commentID string) {
	if err := s.comments.DeleteComment(context.WithoutCancel(ctx), commentID); err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.ErrorContext(ctx, "Failed to discard unlinked comment", "comment_id", commentID, "error", err)
	}
}

// DeleteComment detaches the comment from its post before deleting it, so a
// failure between the two steps leaves an orphan comment rather than a
// dangling reference.
func (s *Service) DeleteComment(ctx context.Context, postID, commentID, callerID string) error {
	err := s.deleteComment(ctx, postID, commentID, callerID)
	s.metrics.Comment("delete", err)
	return err
}

func (s *Service) deleteComment(ctx context.Context, postID, commentID, callerID string) error {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return err
	}

	comment, err := s.comments.FindComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.PostID != postID {
		return ErrCommentNotFound
	}

	if comment.AuthorID != callerID {
		return forbiddenError{action: "delete this comment"}
	}

	if _, err := s.mutatePost(ctx, postID, func(p *models.Post) error {
		p.CommentIDs = slices.DeleteFunc(p.CommentIDs, func(id string) bool { return id == commentID })
		return nil
	}); err != nil {
		return err
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *Service) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListComments(ctx, postID)
}
