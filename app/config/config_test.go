package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "data/badger", cfg.DataDir)
	assert.False(t, cfg.InMemory)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 5*time.Second, cfg.ReadHeaderTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Output)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"QUILL_ADDR":       "127.0.0.1:9000",
		"QUILL_IN_MEMORY":  "true",
		"QUILL_JWT_SECRET": "s3cret",
		"QUILL_TOKEN_TTL":  "0",
		"QUILL_LOG_LEVEL":  "debug",
		"QUILL_LOG_FORMAT": "json",
		"ADDR":             "ignored:1",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.True(t, cfg.InMemory)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, time.Duration(0), cfg.TokenTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bcrypt cost too low", map[string]string{"QUILL_BCRYPT_COST": "1"}},
		{"bcrypt cost too high", map[string]string{"QUILL_BCRYPT_COST": "99"}},
		{"negative ttl", map[string]string{"QUILL_TOKEN_TTL": "-1h"}},
		{"bad duration", map[string]string{"QUILL_TOKEN_TTL": "soon"}},
		{"bad log format", map[string]string{"QUILL_LOG_FORMAT": "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.env)
			assert.Error(t, err)
		})
	}
}
