package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/blog-api/backend/internal/config"
	"github.com/emilythestrangee/blog-api/backend/internal/memstore"
	"github.com/emilythestrangee/blog-api/backend/internal/models"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	clock  *clockwork.FakeClock
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AppEnv:            "development",
		StoreDriver:       config.DriverMemory,
		JWTSecret:         "test-secret",
		TokenTTL:          time.Hour,
		CORSOrigins:       "*",
		RateLimitRPS:      1000,
		RateLimitBurst:    1000,
		VoteRetryAttempts: 3,
	}
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	srv := New(cfg, memstore.New(clock), clock)

	return &testAPI{t: t, router: srv.RegisterRoutes(), clock: clock}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *testAPI) signup(username string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/user/signup", "", gin.H{
		"email":    username + "@example.com",
		"password": "correct-horse",
		"username": username,
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[models.AuthResponse](a.t, rec).Token
}

func (a *testAPI) createBlog(token, title string) models.Post {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/blogs/", token, gin.H{"title": title, "content": "body"})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[models.Post](a.t, rec)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "up", decode[map[string]string](t, rec)["status"])
}

func TestBlogs_RequireAuth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/blogs/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authorization token required"}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/blogs/", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Request is not authorized"}`, rec.Body.String())
}

func TestSignupAndLogin(t *testing.T) {
	api := newTestAPI(t)
	api.signup("alice")

	rec := api.do(http.MethodPost, "/api/user/login", "", gin.H{"email": "alice@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[models.AuthResponse](t, rec)
	assert.Equal(t, "alice", resp.Username)
	assert.NotEmpty(t, resp.Token)

	rec = api.do(http.MethodPost, "/api/user/login", "", gin.H{"email": "alice@example.com", "password": "wrong-horse"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/api/user/signup", "", gin.H{"email": "alice@example.com", "password": "correct-horse", "username": "alice2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/api/user/signup", "", gin.H{"email": "bob@example.com", "password": "short", "username": "bob"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Password not strong enough"}`, rec.Body.String())
}

func TestCreateBlog_MissingFields(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("alice")

	rec := api.do(http.MethodPost, "/api/blogs/", token, gin.H{"title": "only a title"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Please fill in all the fields","empty_fields":["content"]}`, rec.Body.String())
}

func TestCreateBlog_UnreadableBody(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("alice")
	want := `{"error":"Please fill in all the fields","empty_fields":["title","content"]}`

	rec := api.do(http.MethodPost, "/api/blogs/", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, want, rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/blogs/", strings.NewReader("title=x"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, want, rec.Body.String())
}

func TestBlogs_WithoutTrailingSlash(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("alice")

	rec := api.do(http.MethodPost, "/api/blogs", token, gin.H{"title": "t", "content": "c"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[models.Post](t, rec)

	rec = api.do(http.MethodGet, "/api/blogs", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]models.ScoredPost](t, rec)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestGetBlog_Unknown(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("alice")

	rec := api.do(http.MethodGet, "/api/blogs/not-an-id", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"No such blog"}`, rec.Body.String())
}

func TestVoting(t *testing.T) {
	api := newTestAPI(t)
	alice := api.signup("alice")
	bob := api.signup("bob")
	post := api.createBlog(alice, "Hello")

	rec := api.do(http.MethodPost, "/api/blogs/"+post.ID+"/upvote", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	upvoted := decode[models.Post](t, rec)
	assert.Equal(t, 1, upvoted.Upvotes)
	assert.Len(t, upvoted.UpvotedBy, 1)

	rec = api.do(http.MethodPost, "/api/blogs/"+post.ID+"/upvote", bob, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"You have already upvoted this blog"}`, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/blogs/"+post.ID+"/downvote", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	downvoted := decode[models.Post](t, rec)
	assert.Equal(t, 0, downvoted.Upvotes)
	assert.Equal(t, 1, downvoted.Downvotes)
	assert.Empty(t, downvoted.UpvotedBy)
	assert.Len(t, downvoted.DownvotedBy, 1)

	for range 2 {
		rec = api.do(http.MethodPost, "/api/blogs/"+post.ID+"/remove-vote", bob, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		cleared := decode[models.Post](t, rec)
		assert.Equal(t, 0, cleared.Downvotes)
		assert.Empty(t, cleared.DownvotedBy)
	}

	rec = api.do(http.MethodPost, "/api/blogs/missing/upvote", bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBlogs_RankedByRelevancy(t *testing.T) {
	api := newTestAPI(t)
	alice := api.signup("alice")

	old := api.createBlog(alice, "old")
	api.clock.Advance(48 * time.Hour)
	fresh := api.createBlog(alice, "fresh")

	rec := api.do(http.MethodGet, "/api/blogs/", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ranked := decode[[]models.ScoredPost](t, rec)

	require.Len(t, ranked, 2)
	assert.Equal(t, fresh.ID, ranked[0].ID)
	assert.InDelta(t, 0.0, ranked[0].RelevancyScore, 1e-9)
	assert.Equal(t, old.ID, ranked[1].ID)
	assert.InDelta(t, -2.0, ranked[1].RelevancyScore, 1e-9)
}

func TestUpdateAndDeleteBlog_Ownership(t *testing.T) {
	api := newTestAPI(t)
	alice := api.signup("alice")
	bob := api.signup("bob")
	post := api.createBlog(alice, "Hello")

	rec := api.do(http.MethodPatch, "/api/blogs/"+post.ID, bob, gin.H{"title": "pwned"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"You are not authorized to update this blog"}`, rec.Body.String())

	rec = api.do(http.MethodPatch, "/api/blogs/"+post.ID, alice, gin.H{"title": "Hello again"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.Post](t, rec)
	assert.Equal(t, "Hello again", updated.Title)
	assert.Equal(t, "body", updated.Content)

	rec = api.do(http.MethodDelete, "/api/blogs/"+post.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodDelete, "/api/blogs/"+post.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Blog deleted successfully"}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/blogs/"+post.ID, alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComments(t *testing.T) {
	api := newTestAPI(t)
	alice := api.signup("alice")
	bob := api.signup("bob")
	post := api.createBlog(alice, "Hello")

	rec := api.do(http.MethodPost, "/api/blogs/"+post.ID+"/comments", bob, gin.H{"text": "first!"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	comment := decode[models.Comment](t, rec)
	assert.Equal(t, post.ID, comment.PostID)

	rec = api.do(http.MethodGet, "/api/blogs/"+post.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{comment.ID}, []string(decode[models.Post](t, rec).CommentIDs))

	rec = api.do(http.MethodGet, "/api/blogs/"+post.ID+"/comments", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Comment](t, rec), 1)

	rec = api.do(http.MethodDelete, "/api/blogs/"+post.ID+"/comments/"+comment.ID, alice, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"You are not authorized to delete this comment"}`, rec.Body.String())

	rec = api.do(http.MethodDelete, "/api/blogs/"+post.ID+"/comments/"+comment.ID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodDelete, "/api/blogs/"+post.ID+"/comments/"+comment.ID, bob, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Comment not found"}`, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/blogs/missing/comments", bob, gin.H{"text": "hello?"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserBlogs(t *testing.T) {
	api := newTestAPI(t)
	alice := api.signup("alice")
	bob := api.signup("bob")
	api.createBlog(alice, "a1")
	api.createBlog(bob, "b1")

	rec := api.do(http.MethodGet, "/api/user/blogs", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	posts := decode[[]models.Post](t, rec)
	require.Len(t, posts, 1)
	assert.Equal(t, "a1", posts[0].Title)
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	alice := api.signup("alice")
	post := api.createBlog(alice, "Hello")
	api.do(http.MethodPost, "/api/blogs/"+post.ID+"/upvote", alice, nil)

	rec := api.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `blog_votes_total{op="upvote",result="ok"} 1`)
}
