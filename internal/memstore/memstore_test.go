package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/blog-api/backend/internal/models"
	"github.com/emilythestrangee/blog-api/backend/internal/store/storetest"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, New(nil))
}

func TestFindPost_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	post := &models.Post{Title: "t", Content: "c", AuthorID: "a"}
	require.NoError(t, s.CreatePost(ctx, post))

	got, err := s.FindPost(ctx, post.ID)
	require.NoError(t, err)
	got.UpvotedBy = append(got.UpvotedBy, "intruder")
	got.Upvotes = 99

	again, err := s.FindPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, again.UpvotedBy)
	assert.Zero(t, again.Upvotes)
}

func TestCreatePost_UsesClock(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s := New(clockwork.NewFakeClockAt(now))

	post := &models.Post{Title: "t", Content: "c", AuthorID: "a"}
	require.NoError(t, s.CreatePost(context.Background(), post))

	assert.Equal(t, now, post.CreatedAt)
	assert.Equal(t, now, post.UpdatedAt)
}

func TestHealth_ReportsCounts(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	post := &models.Post{Title: "t", Content: "c", AuthorID: "a"}
	require.NoError(t, s.CreatePost(ctx, post))
	require.NoError(t, s.CreateComment(ctx, &models.Comment{PostID: post.ID, AuthorID: "b", Text: "hi"}))

	stats := s.Health(ctx)
	assert.Equal(t, "up", stats["status"])
	assert.Equal(t, "1", stats["posts"])
	assert.Equal(t, "1", stats["comments"])
}
