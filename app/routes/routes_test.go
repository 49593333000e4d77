package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quill/app/auth"
	"quill/app/models"
	"quill/app/repositories"
	"quill/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func setupTestRouter(t *testing.T) (*mux.Router, *auth.Tokens) {
	t.Helper()
	log := zap.NewNop()

	db, err := repositories.Open(repositories.Options{InMemory: true, Logger: log})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	tokens, err := auth.NewTokens(auth.Config{Secret: []byte("test-secret"), TTL: time.Hour})
	require.NoError(t, err)
	passwords, err := auth.NewPasswords(bcrypt.MinCost)
	require.NoError(t, err)

	return SetupRoutes(db, tokens, passwords, log), tokens
}

func request(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := request(t, router, "GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := request(t, router, "GET", "/api/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	router, _ := setupTestRouter(t)

	routes := []struct {
		method string
		path   string
	}{
		{"GET", "/api/auth/user"},
		{"PATCH", "/api/auth/user"},
		{"PATCH", "/api/auth/change-password"},
		{"POST", "/api/posts/create"},
		{"PATCH", "/api/posts/000000000000000000000000"},
		{"DELETE", "/api/posts/000000000000000000000000"},
		{"PATCH", "/api/posts/000000000000000000000000/like"},
		{"POST", "/api/posts/000000000000000000000000/comment"},
		{"PATCH", "/api/posts/000000000000000000000000/comment/000000000000000000000000"},
		{"DELETE", "/api/posts/000000000000000000000000/comment/000000000000000000000000"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := request(t, router, rt.method, rt.path, "", "{}")
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			w = request(t, router, rt.method, rt.path, "not-a-token", "{}")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestBlogScenario(t *testing.T) {
	router, tokens := setupTestRouter(t)

	// alice registers and gets a token for her own id
	w := request(t, router, "POST", "/api/auth/register", "",
		`{"userName":"alice1","password":"abc123","name":"Alice"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var alice services.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alice))
	id, err := tokens.Verify(alice.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.User.ID, id.UserID)

	// registering the same name again conflicts
	w = request(t, router, "POST", "/api/auth/register", "",
		`{"userName":"alice1","password":"abc123","name":"Alice"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = request(t, router, "POST", "/api/auth/register", "",
		`{"userName":"bob1","password":"abc123","name":"Bob"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var bob services.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bob))

	// alice posts
	w = request(t, router, "POST", "/api/posts/create", alice.Token, `{"title":"hi","content":"world"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, alice.User.ID, post.Author)
	postPath := "/api/posts/" + post.ID.Hex()

	// bob likes, then unlikes
	w = request(t, router, "PATCH", postPath+"/like", bob.Token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var likes []models.Like
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &likes))
	require.Len(t, likes, 1)
	assert.Equal(t, bob.User.ID, likes[0].User)

	w = request(t, router, "PATCH", postPath+"/like", bob.Token, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &likes))
	assert.Len(t, likes, 0)

	// bob cannot edit or delete alice's post
	w = request(t, router, "PATCH", postPath, bob.Token, `{"title":"pwned"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = request(t, router, "DELETE", postPath, bob.Token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(t, router, "GET", postPath, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, "hi", post.Title)

	// bob comments
	w = request(t, router, "POST", postPath+"/comment", bob.Token, `{"content":"nice"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// the feed joins author and counts
	w = request(t, router, "GET", "/api/posts?page=1&itemsPerPage=10", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var feed models.Feed
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "alice1", feed.Posts[0].Author.UserName)
	assert.Equal(t, 1, feed.Posts[0].TotalComments)
	assert.Empty(t, feed.Posts[0].Likes)
	assert.Equal(t, models.Pagination{CurrentPage: 1, TotalPages: 1, TotalPosts: 1}, feed.Pagination)

	// alice deletes her post
	w = request(t, router, "DELETE", postPath, alice.Token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = request(t, router, "GET", postPath, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(t, router, "GET", "/api/posts/user/"+alice.User.ID.Hex(), "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestFeedPaginationOverHTTP(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := request(t, router, "POST", "/api/auth/register", "",
		`{"userName":"alice1","password":"abc123","name":"Alice"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var alice services.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alice))

	for i := 0; i < 12; i++ {
		w = request(t, router, "POST", "/api/posts/create", alice.Token, `{"title":"post","content":"content"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = request(t, router, "GET", "/api/posts?page=2&itemsPerPage=5", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var feed models.Feed
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	assert.Len(t, feed.Posts, 5)
	assert.Equal(t, models.Pagination{CurrentPage: 2, TotalPages: 3, TotalPosts: 12, HasNext: true, HasPrev: true}, feed.Pagination)

	w = request(t, router, "GET", "/api/posts?page=3&pageSize=5", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	assert.Len(t, feed.Posts, 2)
	assert.False(t, feed.Pagination.HasNext)
	assert.True(t, feed.Pagination.HasPrev)

	// oversized values are capped instead of overflowing
	w = request(t, router, "GET", "/api/posts?page=1&itemsPerPage=9223372036854775807", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	feed = models.Feed{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	assert.Len(t, feed.Posts, 12)
	assert.Equal(t, models.Pagination{CurrentPage: 1, TotalPages: 1, TotalPosts: 12}, feed.Pagination)

	w = request(t, router, "GET", "/api/posts?page=9223372036854775807&itemsPerPage=10", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	feed = models.Feed{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	assert.Empty(t, feed.Posts)
	assert.Equal(t, 2, feed.Pagination.TotalPages)
	assert.False(t, feed.Pagination.HasNext)
}
