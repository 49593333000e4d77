package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func newTestTokens(t *testing.T, ttl time.Duration) *Tokens {
	t.Helper()
	tokens, err := NewTokens(Config{Secret: []byte("test-secret"), TTL: ttl})
	require.NoError(t, err)
	return tokens
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := newTestTokens(t, time.Hour)
	userID := primitive.NewObjectID()

	token, err := tokens.Issue(userID, true)
	require.NoError(t, err)

	id, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, id.UserID)
	assert.True(t, id.IsAdmin)
}

func TestTokensWithoutExpiry(t *testing.T) {
	tokens := newTestTokens(t, 0)
	userID := primitive.NewObjectID()

	token, err := tokens.Issue(userID, false)
	require.NoError(t, err)

	tokens.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }
	id, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, id.UserID)
}

func TestTokensRejected(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("garbage", func(t *testing.T) {
		_, err := newTestTokens(t, time.Hour).Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewTokens(Config{Secret: []byte("another-secret"), TTL: time.Hour})
		require.NoError(t, err)
		token, err := other.Issue(userID, false)
		require.NoError(t, err)

		_, err = newTestTokens(t, time.Hour).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("alg none", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"userId": userID.Hex(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = newTestTokens(t, time.Hour).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		tokens := newTestTokens(t, time.Minute)
		tokens.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := tokens.Issue(userID, false)
		require.NoError(t, err)

		tokens.now = time.Now
		_, err = tokens.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("bad user id claim", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": "nope",
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = newTestTokens(t, time.Hour).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewTokensConfig(t *testing.T) {
	_, err := NewTokens(Config{})
	assert.Error(t, err)

	_, err = NewTokens(Config{Secret: []byte("x"), TTL: -time.Second})
	assert.Error(t, err)

	secret, err := GenerateSecret()
	require.NoError(t, err)
	assert.Len(t, secret, 32)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	want := Identity{UserID: primitive.NewObjectID()}
	got, ok := IdentityFromContext(WithIdentity(context.Background(), want))
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestPasswords(t *testing.T) {
	passwords, err := NewPasswords(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := passwords.Hash("abc123")
	require.NoError(t, err)
	assert.NotEqual(t, "abc123", hash)

	assert.True(t, passwords.Compare(hash, "abc123"))
	assert.False(t, passwords.Compare(hash, "abc124"))
	assert.False(t, passwords.CompareDummy("abc123"))

	_, err = NewPasswords(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}
