// Package storetest holds behavioural tests shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/blog-api/backend/internal/models"
	"github.com/emilythestrangee/blog-api/backend/internal/store"
)

// Run exercises st against the store.Store contract. Tests scope their data
// by fresh author ids and emails, so st may be shared between calls.
func Run(t *testing.T, st store.Store) {
	t.Run("Posts", func(t *testing.T) { testPosts(t, st) })
	t.Run("OptimisticSave", func(t *testing.T) { testOptimisticSave(t, st) })
	t.Run("ListPosts", func(t *testing.T) { testListPosts(t, st) })
	t.Run("ListPostsSameInstant", func(t *testing.T) { testListPostsSameInstant(t, st) })
	t.Run("Comments", func(t *testing.T) { testComments(t, st) })
	t.Run("ListCommentsSameInstant", func(t *testing.T) { testListCommentsSameInstant(t, st) })
	t.Run("Users", func(t *testing.T) { testUsers(t, st) })
	t.Run("Health", func(t *testing.T) {
		assert.Equal(t, "up", st.Health(context.Background())["status"])
	})
}

func newPost(author string) *models.Post {
	return &models.Post{Title: "title", Content: "content", AuthorID: author}
}

func testPosts(t *testing.T, st store.Store) {
	ctx := context.Background()
	author := uuid.NewString()

	post := newPost(author)
	require.NoError(t, st.CreatePost(ctx, post))
	require.NotEmpty(t, post.ID)

	got, err := st.FindPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "title", got.Title)
	assert.Equal(t, author, got.AuthorID)
	assert.Zero(t, got.Upvotes)
	assert.NotNil(t, got.UpvotedBy)
	assert.NotNil(t, got.DownvotedBy)
	assert.NotNil(t, got.CommentIDs)

	require.NoError(t, st.DeletePost(ctx, post.ID))

	_, err = st.FindPost(ctx, post.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, st.DeletePost(ctx, post.ID), store.ErrNotFound)

	_, err = st.FindPost(ctx, "not-an-id")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testOptimisticSave(t *testing.T, st store.Store) {
	ctx := context.Background()
	voter := uuid.NewString()

	post := newPost(uuid.NewString())
	require.NoError(t, st.CreatePost(ctx, post))

	first, err := st.FindPost(ctx, post.ID)
	require.NoError(t, err)
	second, err := st.FindPost(ctx, post.ID)
	require.NoError(t, err)

	first.Upvotes = 1
	first.UpvotedBy = append(first.UpvotedBy, voter)
	first.CommentIDs = append(first.CommentIDs, "c1")
	require.NoError(t, st.SavePost(ctx, first))
	assert.Equal(t, second.Version+1, first.Version)

	second.Title = "stale"
	assert.ErrorIs(t, st.SavePost(ctx, second), store.ErrConflict)

	got, err := st.FindPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "title", got.Title)
	assert.Equal(t, 1, got.Upvotes)
	assert.Equal(t, []string{voter}, []string(got.UpvotedBy))
	assert.Equal(t, []string{"c1"}, []string(got.CommentIDs))

	require.NoError(t, st.DeletePost(ctx, post.ID))
	assert.ErrorIs(t, st.SavePost(ctx, got), store.ErrNotFound)
}

func testListPosts(t *testing.T, st store.Store) {
	ctx := context.Background()
	author := uuid.NewString()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := range 3 {
		p := newPost(author)
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, st.CreatePost(ctx, p))
		ids = append(ids, p.ID)
	}
	require.NoError(t, st.CreatePost(ctx, newPost(uuid.NewString())))

	newest, err := st.ListPosts(ctx, store.PostQuery{AuthorID: author, Sort: store.SortNewest})
	require.NoError(t, err)
	require.Len(t, newest, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, postIDs(newest))

	oldest, err := st.ListPosts(ctx, store.PostQuery{AuthorID: author, Sort: store.SortOldest})
	require.NoError(t, err)
	assert.Equal(t, ids, postIDs(oldest))

	none, err := st.ListPosts(ctx, store.PostQuery{AuthorID: uuid.NewString()})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testListPostsSameInstant(t *testing.T, st store.Store) {
	ctx := context.Background()
	author := uuid.NewString()
	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for range 4 {
		p := newPost(author)
		p.CreatedAt = at
		require.NoError(t, st.CreatePost(ctx, p))
		ids = append(ids, p.ID)
	}

	oldest, err := st.ListPosts(ctx, store.PostQuery{AuthorID: author, Sort: store.SortOldest})
	require.NoError(t, err)
	assert.Equal(t, ids, postIDs(oldest))

	newest, err := st.ListPosts(ctx, store.PostQuery{AuthorID: author, Sort: store.SortNewest})
	require.NoError(t, err)
	assert.Equal(t, []string{ids[3], ids[2], ids[1], ids[0]}, postIDs(newest))
}

func testListCommentsSameInstant(t *testing.T, st store.Store) {
	ctx := context.Background()

	post := newPost(uuid.NewString())
	require.NoError(t, st.CreatePost(ctx, post))

	var ids []string
	for range 4 {
		c := &models.Comment{PostID: post.ID, AuthorID: uuid.NewString(), Text: "same"}
		require.NoError(t, st.CreateComment(ctx, c))
		ids = append(ids, c.ID)
	}

	list, err := st.ListComments(ctx, post.ID)
	require.NoError(t, err)
	got := make([]string, len(list))
	for i, c := range list {
		got[i] = c.ID
	}
	assert.Equal(t, ids, got)
}

func testComments(t *testing.T, st store.Store) {
	ctx := context.Background()

	post := newPost(uuid.NewString())
	require.NoError(t, st.CreatePost(ctx, post))

	comment := &models.Comment{PostID: post.ID, AuthorID: uuid.NewString(), Text: "nice"}
	require.NoError(t, st.CreateComment(ctx, comment))
	require.NotEmpty(t, comment.ID)
	assert.False(t, comment.PostedOn.IsZero())

	got, err := st.FindComment(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "nice", got.Text)
	assert.Equal(t, post.ID, got.PostID)

	list, err := st.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, comment.ID, list[0].ID)

	require.NoError(t, st.DeleteComment(ctx, comment.ID))
	_, err = st.FindComment(ctx, comment.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, st.DeleteComment(ctx, comment.ID), store.ErrNotFound)

	_, err = st.FindComment(ctx, "not-an-id")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testUsers(t *testing.T, st store.Store) {
	ctx := context.Background()
	name := "u" + uuid.NewString()[:8]

	user := &models.User{Username: name, Email: name + "@example.com", Password: "hash"}
	require.NoError(t, st.CreateUser(ctx, user))
	require.NotEmpty(t, user.ID)

	byEmail, err := st.FindUserByEmail(ctx, name+"@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := st.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, name, byID.Username)

	dup := &models.User{Username: name + "x", Email: name + "@example.com", Password: "hash"}
	assert.ErrorIs(t, st.CreateUser(ctx, dup), store.ErrDuplicate)

	_, err = st.FindUserByEmail(ctx, "nobody-"+name+"@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.FindUserByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func postIDs(posts []models.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
