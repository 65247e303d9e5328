package blog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"

	"github.com/emilythestrangee/blog-api/backend/internal/metrics"
	"github.com/emilythestrangee/blog-api/backend/internal/models"
	"github.com/emilythestrangee/blog-api/backend/internal/store"
)

const defaultRetryAttempts = 5

type Config struct {
	Clock   clockwork.Clock
	Metrics *metrics.Metrics
	// RetryAttempts bounds how many times a mutation is attempted when the
	// store reports a concurrent modification.
	RetryAttempts int
	// RetryInterval is the first backoff interval between attempts.
	RetryInterval time.Duration
}

type Service struct {
	posts         store.PostStore
	comments      store.CommentStore
	clock         clockwork.Clock
	metrics       *metrics.Metrics
	retryAttempts int
	retryInterval time.Duration
}

func NewService(posts store.PostStore, comments store.CommentStore, cfg Config) *Service {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = defaultRetryAttempts
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 10 * time.Millisecond
	}

	return &Service{
		posts:         posts,
		comments:      comments,
		clock:         cfg.Clock,
		metrics:       cfg.Metrics,
		retryAttempts: cfg.RetryAttempts,
		retryInterval: cfg.RetryInterval,
	}
}

// mutatePost loads the post, applies fn and saves the result. A stale write
// restarts from the load. Errors returned by fn abort without saving.
func (s *Service) mutatePost(ctx context.Context, postID string, fn func(*models.Post) error) (*models.Post, error) {
	var updated *models.Post

	op := func() error {
		post, err := s.loadPost(ctx, postID)
		if err != nil {
			return backoff.Permanent(err)
		}

		if err := fn(post); err != nil {
			return backoff.Permanent(err)
		}

		if err := s.posts.SavePost(ctx, post); err != nil {
			switch {
			case errors.Is(err, store.ErrConflict):
				s.metrics.VoteConflict()
				return err
			case errors.Is(err, store.ErrNotFound):
				return backoff.Permanent(ErrNotFound)
			default:
				return backoff.Permanent(err)
			}
		}

		updated = post
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryInterval
	b.MaxInterval = 20 * s.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.retryAttempts-1)), ctx)

	notify := func(err error, wait time.Duration) {
		slog.DebugContext(ctx, "Retrying post update", "post_id", postID, "error", err, "backoff", wait)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) loadPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.posts.FindPost(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}
