package repositories

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"quill/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zaptest"
)

func newTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := Open(Options{InMemory: true, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestMarshalEntity(t *testing.T) {
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		Title:     "Test Post",
		Content:   "Test Content",
		Author:    primitive.NewObjectID(),
		CreatedAt: models.Now(),
	}
	post.Normalize()

	data, err := marshalEntity(post)
	require.NoError(t, err)

	var decoded models.Post
	require.NoError(t, unmarshalEntity(data, &decoded))
	assert.Equal(t, post.ID, decoded.ID)
	assert.Equal(t, post.Author, decoded.Author)
	assert.True(t, post.CreatedAt.Equal(decoded.CreatedAt))

	assert.Error(t, unmarshalEntity([]byte("invalid"), &decoded))
}

func TestGetEntity(t *testing.T) {
	db := newTestDB(t)

	err := db.View(func(txn *badger.Txn) error {
		var user models.User
		return getEntity(txn, userKey(primitive.NewObjectID()), &user)
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePassesThroughErrors(t *testing.T) {
	db := newTestDB(t)
	sentinel := errors.New("boom")

	calls := 0
	err := update(context.Background(), db, func(txn *badger.Txn) error {
		calls++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestUpdateHonorsContext(t *testing.T) {
	db := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := update(ctx, db, func(txn *badger.Txn) error {
		t.Fatal("transaction must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := &models.Post{ID: primitive.NewObjectID(), CreatedAt: base}
	newer := &models.Post{ID: primitive.NewObjectID(), CreatedAt: base.Add(time.Minute)}
	tieA := &models.Post{ID: primitive.NewObjectID(), CreatedAt: base}

	posts := []*models.Post{older, newer, tieA}
	SortNewestFirst(posts)

	assert.Equal(t, newer, posts[0])
	// Equal timestamps fall back to the later ID first.
	assert.Equal(t, tieA, posts[1])
	assert.Equal(t, older, posts[2])
}

func TestBackupRestore(t *testing.T) {
	ctx := context.Background()
	src := newTestDB(t)
	users := NewBadgerUserRepository(src)
	user := &models.User{Name: "Alice", UserName: "alice1", Password: "hash"}
	require.NoError(t, users.Create(ctx, user))

	var buf bytes.Buffer
	_, err := Backup(src, &buf)
	require.NoError(t, err)

	dst := newTestDB(t)
	empty, err := IsEmpty(dst)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, Restore(dst, &buf))

	restored, err := NewBadgerUserRepository(dst).GetByUserName(ctx, "alice1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, restored.ID)

	empty, err = IsEmpty(dst)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestOpenRequiresDir(t *testing.T) {
	_, err := Open(Options{})
	assert.Error(t, err)
}
