package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Config holds the signing parameters. A zero TTL issues tokens without an
// expiry claim.
type Config struct {
	Secret []byte
	TTL    time.Duration
}

// Identity is the authenticated caller derived from a verified token.
type Identity struct {
	UserID  primitive.ObjectID
	IsAdmin bool
}

type claims struct {
	UserID  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a token issuer for cfg. The secret is copied.
func NewTokens(cfg Config) (*Tokens, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("token ttl must not be negative, got %s", cfg.TTL)
	}

	return &Tokens{
		secret: append([]byte(nil), cfg.Secret...),
		ttl:    cfg.TTL,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the given user.
func (t *Tokens) Issue(userID primitive.ObjectID, isAdmin bool) (string, error) {
	now := t.now()
	c := claims{
		UserID:  userID.Hex(),
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's algorithm, signature, expiry and claims.
func (t *Tokens) Verify(token string) (Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := primitive.ObjectIDFromHex(c.UserID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: bad userId claim", ErrInvalidToken)
	}

	return Identity{UserID: id, IsAdmin: c.IsAdmin}, nil
}

// GenerateSecret returns 32 random bytes suitable as an HS256 key.
func GenerateSecret() ([]byte, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate token secret: %w", err)
	}
	return secret, nil
}
