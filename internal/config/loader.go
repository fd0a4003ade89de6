package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RADAR_"

// FileEnv names the variable holding an optional YAML config path.
const FileEnv = EnvPrefix + "CONFIG"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) named by path, or by RADAR_CONFIG when path is empty
//  3. env (prefix RADAR_)
func Load(_ context.Context, path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(FileEnv)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// RADAR_GITHUB_TOKEN -> github_token; underscores stay to match the flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Storage != StorageMemory && c.Storage != StoragePostgres:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalidConfig, c.Storage)
	case c.Storage == StoragePostgres && c.DatabaseURL == "":
		return fmt.Errorf("%w: database_url is required for postgres storage", ErrInvalidConfig)
	case c.CJKThreshold <= 0 || c.CJKThreshold >= 1:
		return fmt.Errorf("%w: cjk_threshold must lie in (0,1), got %v", ErrInvalidConfig, c.CJKThreshold)
	case c.CollectWorkers < 1 || c.PersistWorkers < 1:
		return fmt.Errorf("%w: collect_workers and persist_workers must be positive", ErrInvalidConfig)
	case c.DefaultMaxResults < 1:
		return fmt.Errorf("%w: default_max_results must be positive", ErrInvalidConfig)
	}
	return nil
}
