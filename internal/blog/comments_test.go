package blog

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/blog-api/backend/internal/memstore"
	"github.com/emilythestrangee/blog-api/backend/internal/models"
	"github.com/emilythestrangee/blog-api/backend/internal/store"
)

// vanishingStore deletes the post just before saving it, as a concurrent
// DeletePost would.
type vanishingStore struct {
	store.PostStore
}

func (v vanishingStore) SavePost(ctx context.Context, post *models.Post) error {
	if err := v.PostStore.DeletePost(ctx, post.ID); err != nil {
		return err
	}
	return v.PostStore.SavePost(ctx, post)
}

func TestAddComment_LinksToPost(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	post := createPost(t, svc, "alice")

	c1, err := svc.AddComment(ctx, post.ID, "bob", "first")
	require.NoError(t, err)
	c2, err := svc.AddComment(ctx, post.ID, "carol", "second")
	require.NoError(t, err)

	assert.Equal(t, post.ID, c1.PostID)
	assert.Equal(t, "bob", c1.AuthorID)
	assert.Equal(t, epoch, c1.PostedOn)

	stored, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{c1.ID, c2.ID}, []string(stored.CommentIDs))

	comments, err := svc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestAddComment_UnknownPost(t *testing.T) {
	svc, st, _ := newTestService(t)

	_, err := svc.AddComment(context.Background(), "missing", "bob", "hello")
	assert.ErrorIs(t, err, ErrNotFound)

	_, comments := st.Counts()
	assert.Zero(t, comments)
}

func TestAddComment_EmptyText(t *testing.T) {
	svc, st, _ := newTestService(t)
	post := createPost(t, svc, "alice")

	_, err := svc.AddComment(context.Background(), post.ID, "bob", "   ")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"text"}, verr.EmptyFields)

	_, comments := st.Counts()
	assert.Zero(t, comments)
}

func TestDeleteComment_ByAuthor(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	post := createPost(t, svc, "alice")
	keep, err := svc.AddComment(ctx, post.ID, "carol", "keep")
	require.NoError(t, err)
	drop, err := svc.AddComment(ctx, post.ID, "bob", "drop")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteComment(ctx, post.ID, drop.ID, "bob"))

	stored, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, []string(stored.CommentIDs))

	_, err = st.FindComment(ctx, drop.ID)
	assert.Error(t, err)
}

func TestDeleteComment_NotAuthor(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	post := createPost(t, svc, "alice")
	comment, err := svc.AddComment(ctx, post.ID, "bob", "mine")
	require.NoError(t, err)

	err = svc.DeleteComment(ctx, post.ID, comment.ID, "mallory")
	assert.ErrorIs(t, err, ErrForbidden)

	stored, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{comment.ID}, []string(stored.CommentIDs))

	found, err := st.FindComment(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", found.Text)
}

func TestDeleteComment_Missing(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	post := createPost(t, svc, "alice")

	err := svc.DeleteComment(ctx, post.ID, "missing", "bob")
	assert.ErrorIs(t, err, ErrCommentNotFound)

	err = svc.DeleteComment(ctx, "missing", "missing", "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddComment_LinkConflictDiscardsComment(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	st := memstore.New(clock)
	cs := &conflictingStore{PostStore: st, conflicts: 100}
	svc := NewService(cs, st, Config{Clock: clock, RetryAttempts: 3, RetryInterval: time.Millisecond})
	ctx := context.Background()
	post := createPost(t, svc, "alice")

	_, err := svc.AddComment(ctx, post.ID, "bob", "hello")
	assert.ErrorIs(t, err, store.ErrConflict)

	_, comments := st.Counts()
	assert.Zero(t, comments)

	listed, err := svc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	stored, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.CommentIDs)
}

func TestAddComment_PostDeletedWhileLinking(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	st := memstore.New(clock)
	svc := NewService(vanishingStore{PostStore: st}, st, Config{Clock: clock, RetryInterval: time.Millisecond})
	post := createPost(t, svc, "alice")

	_, err := svc.AddComment(context.Background(), post.ID, "bob", "hello")
	assert.ErrorIs(t, err, ErrNotFound)

	_, comments := st.Counts()
	assert.Zero(t, comments)
}

func TestDeleteComment_WrongPost(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	postA := createPost(t, svc, "alice")
	postB := createPost(t, svc, "alice")
	comment, err := svc.AddComment(ctx, postA.ID, "bob", "on A")
	require.NoError(t, err)

	err = svc.DeleteComment(ctx, postB.ID, comment.ID, "bob")
	assert.ErrorIs(t, err, ErrCommentNotFound)

	storedA, err := svc.GetPost(ctx, postA.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{comment.ID}, []string(storedA.CommentIDs))

	_, err = st.FindComment(ctx, comment.ID)
	require.NoError(t, err)
}

func TestListComments_SameInstantKeepsCreationOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	post := createPost(t, svc, "alice")

	var want []string
	for _, text := range []string{"one", "two", "three", "four", "five"} {
		c, err := svc.AddComment(ctx, post.ID, "bob", text)
		require.NoError(t, err)
		want = append(want, c.ID)
	}

	for range 5 {
		listed, err := svc.ListComments(ctx, post.ID)
		require.NoError(t, err)
		got := make([]string, len(listed))
		for i, c := range listed {
			got[i] = c.ID
		}
		assert.Equal(t, want, got)
	}
}
