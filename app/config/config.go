package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"quill/app/logging"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// Prefix is prepended to every environment variable name.
const Prefix = "QUILL_"

// Config holds the process configuration.
type Config struct {
	Addr              string        `env:"ADDR" envDefault:":8080"`
	DataDir           string        `env:"DATA_DIR" envDefault:"data/badger"`
	InMemory          bool          `env:"IN_MEMORY" envDefault:"false"`
	JWTSecret         string        `env:"JWT_SECRET"`
	TokenTTL          time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	BcryptCost        int           `env:"BCRYPT_COST" envDefault:"10"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Log logging.Config `envPrefix:"LOG_"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return Parse(environ())
}

// Parse reads the configuration from the given variables.
func Parse(environment map[string]string) (Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      Prefix,
		Environment: environment,
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the parser cannot.
func (c Config) Validate() error {
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%sBCRYPT_COST must be between %d and %d, got %d", Prefix, bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("%sTOKEN_TTL must not be negative", Prefix)
	}
	if !c.InMemory && c.DataDir == "" {
		return fmt.Errorf("%sDATA_DIR is required unless %sIN_MEMORY is set", Prefix, Prefix)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("%sLOG_FORMAT must be json or console, got %q", Prefix, c.Log.Format)
	}
	return nil
}

func environ() map[string]string {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars
}
