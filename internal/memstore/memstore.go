// Package memstore is a process-local implementation of store.Store. It keeps
// the same optimistic-version semantics as the database-backed stores and is
// used by unit tests and by STORE_DRIVER=memory.
package memstore

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/emilythestrangee/blog-api/backend/internal/models"
	"github.com/emilythestrangee/blog-api/backend/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	clock    clockwork.Clock
	posts    map[string]*models.Post
	comments map[string]*models.Comment
	users    map[string]*models.User
}

var _ store.Store = (*Store)(nil)

func New(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		clock:    clock,
		posts:    make(map[string]*models.Post),
		comments: make(map[string]*models.Comment),
		users:    make(map[string]*models.User),
	}
}

// newID returns a time-ordered UUID, so ids created at the same instant
// still sort in creation order.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *Store) FindPost(_ context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *Store) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	if post.ID == "" {
		post.ID = newID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	post.Version = 0
	post.Normalize()
	s.posts[post.ID] = post.Clone()
	return nil
}

func (s *Store) SavePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.posts[post.ID]
	if !ok {
		return store.ErrNotFound
	}
	if current.Version != post.Version {
		return store.ErrConflict
	}
	post.Version++
	post.UpdatedAt = s.clock.Now().UTC()
	post.Normalize()
	s.posts[post.ID] = post.Clone()
	return nil
}

func (s *Store) DeletePost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *Store) ListPosts(_ context.Context, q store.PostQuery) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if q.AuthorID != "" && p.AuthorID != q.AuthorID {
			continue
		}
		posts = append(posts, *p.Clone())
	}

	slices.SortStableFunc(posts, func(a, b models.Post) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if q.Sort == store.SortNewest {
			return -c
		}
		return c
	})
	return posts, nil
}

func (s *Store) FindComment(_ context.Context, id string) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	if comment.ID == "" {
		comment.ID = newID()
	}
	if comment.PostedOn.IsZero() {
		comment.PostedOn = now
	}
	comment.CreatedAt = now
	comment.UpdatedAt = now
	cp := *comment
	s.comments[comment.ID] = &cp
	return nil
}

func (s *Store) DeleteComment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *Store) ListComments(_ context.Context, postID string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := []models.Comment{}
	for _, c := range s.comments {
		if c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	slices.SortStableFunc(comments, func(a, b models.Comment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return comments, nil
}

func (s *Store) FindUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return store.ErrDuplicate
		}
	}

	now := s.clock.Now().UTC()
	if user.ID == "" {
		user.ID = newID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// Counts reports the number of stored posts and comments.
func (s *Store) Counts() (posts, comments int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts), len(s.comments)
}

func (s *Store) Health(context.Context) map[string]string {
	posts, comments := s.Counts()
	return map[string]string{
		"status":   "up",
		"driver":   "memory",
		"posts":    strconv.Itoa(posts),
		"comments": strconv.Itoa(comments),
		"checked":  s.clock.Now().UTC().Format(time.RFC3339),
	}
}

func (s *Store) Close() error { return nil }
