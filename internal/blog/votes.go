package blog

import (
	"context"
	"slices"

	"github.com/lib/pq"

	"github.com/emilythestrangee/blog-api/backend/internal/models"
)

// Upvote moves callerID into the upvote set. Downvotes is decremented
// (floored at zero) whether or not the caller had downvoted before.
func (s *Service) Upvote(ctx context.Context, postID, callerID string) (*models.Post, error) {
	post, err := s.mutatePost(ctx, postID, func(p *models.Post) error {
		if p.HasUpvoted(callerID) {
			return errAlreadyUpvoted
		}
		p.DownvotedBy = without(p.DownvotedBy, callerID)
		p.UpvotedBy = append(p.UpvotedBy, callerID)
		p.Upvotes++
		p.Downvotes = decrement(p.Downvotes)
		return nil
	})
	s.metrics.Vote("upvote", err)
	return post, err
}

// Downvote is the mirror image of Upvote.
func (s *Service) Downvote(ctx context.Context, postID, callerID string) (*models.Post, error) {
	post, err := s.mutatePost(ctx, postID, func(p *models.Post) error {
		if p.HasDownvoted(callerID) {
			return errAlreadyDownvoted
		}
		p.UpvotedBy = without(p.UpvotedBy, callerID)
		p.DownvotedBy = append(p.DownvotedBy, callerID)
		p.Downvotes++
		p.Upvotes = decrement(p.Upvotes)
		return nil
	})
	s.metrics.Vote("downvote", err)
	return post, err
}

// RemoveVote clears whatever vote callerID holds. It is a no-op for a caller
// who has not voted.
func (s *Service) RemoveVote(ctx context.Context, postID, callerID string) (*models.Post, error) {
	post, err := s.mutatePost(ctx, postID, func(p *models.Post) error {
		if p.HasUpvoted(callerID) {
			p.UpvotedBy = without(p.UpvotedBy, callerID)
			p.Upvotes = decrement(p.Upvotes)
		}
		if p.HasDownvoted(callerID) {
			p.DownvotedBy = without(p.DownvotedBy, callerID)
			p.Downvotes = decrement(p.Downvotes)
		}
		return nil
	})
	s.metrics.Vote("remove", err)
	return post, err
}

func decrement(n int) int {
	return max(0, n-1)
}

func without(set pq.StringArray, id string) pq.StringArray {
	return slices.DeleteFunc(set, func(v string) bool { return v == id })
}
