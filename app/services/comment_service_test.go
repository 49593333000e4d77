package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCommentService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice1")
	bob := env.register(t, "bob1")

	post, err := env.post.CreatePost(ctx, alice.ID, "hi", "world")
	require.NoError(t, err)

	var commentID primitive.ObjectID

	t.Run("add comment", func(t *testing.T) {
		comments, err := env.comment.AddComment(ctx, post.ID, bob.ID, "nice post")
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, bob.ID, comments[0].User)
		assert.False(t, comments[0].CommentedAt.IsZero())
		commentID = comments[0].ID
	})

	t.Run("add invalid comment", func(t *testing.T) {
		_, err := env.comment.AddComment(ctx, post.ID, bob.ID, "")
		assert.ErrorIs(t, err, ErrValidation)

		_, err = env.comment.AddComment(ctx, post.ID, bob.ID, strings.Repeat("a", 1001))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("add to missing post", func(t *testing.T) {
		_, err := env.comment.AddComment(ctx, primitive.NewObjectID(), bob.ID, "hello")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list comments", func(t *testing.T) {
		views, err := env.comment.ListComments(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, views, 1)
		require.NotNil(t, views[0].User)
		assert.Equal(t, "bob1", views[0].User.UserName)
		assert.Equal(t, "nice post", views[0].Content)
	})

	t.Run("edit by non-author is forbidden", func(t *testing.T) {
		_, err := env.comment.EditComment(ctx, post.ID, commentID, alice.ID, "changed")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("edit by author", func(t *testing.T) {
		comments, err := env.comment.EditComment(ctx, post.ID, commentID, bob.ID, "great post")
		require.NoError(t, err)
		assert.Equal(t, "great post", comments[0].Content)
	})

	t.Run("edit missing comment", func(t *testing.T) {
		_, err := env.comment.EditComment(ctx, post.ID, primitive.NewObjectID(), bob.ID, "x")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "comment")
	})

	t.Run("delete by non-author is forbidden", func(t *testing.T) {
		err := env.comment.DeleteComment(ctx, post.ID, commentID, alice.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("delete by author", func(t *testing.T) {
		require.NoError(t, env.comment.DeleteComment(ctx, post.ID, commentID, bob.ID))

		views, err := env.comment.ListComments(ctx, post.ID)
		require.NoError(t, err)
		assert.Empty(t, views)

		err = env.comment.DeleteComment(ctx, post.ID, commentID, bob.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
