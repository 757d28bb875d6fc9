package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/quaverlabs/quaver/pkg/pattern"
	"github.com/quaverlabs/quaver/pkg/pipeline"
	"github.com/quaverlabs/quaver/pkg/seq"
)

// Config holds user-level defaults, loaded from the XDG config directory
// (~/.config/quaver/config.toml). Every field has a built-in default so a
// missing file is not an error.
type Config struct {
	// RestSymbol is the literal used for rests in patterns.
	RestSymbol string `toml:"rest_symbol"`

	// MaxDepth caps pattern nesting depth.
	MaxDepth int `toml:"max_depth"`

	// Seed is the random seed for scramble and sparse.
	Seed uint64 `toml:"seed"`

	// CacheDir overrides the XDG cache directory.
	CacheDir string `toml:"cache_dir"`

	// Serve holds HTTP server defaults.
	Serve ServeConfig `toml:"serve"`
}

// ServeConfig holds defaults for the serve command.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`

	// RedisAddr switches the server cache to Redis when set.
	RedisAddr string `toml:"redis_addr"`

	// Scope prefixes every cache key, isolating this deployment's entries
	// when several instances share one Redis.
	Scope string `toml:"scope"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		RestSymbol: seq.DefaultRestSymbol,
		MaxDepth:   pattern.DefaultMaxDepth,
		Seed:       pipeline.DefaultSeed,
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

// LoadConfig reads the config file if present and overlays it on the
// defaults. A missing file yields the defaults; a malformed file is an
// error so typos do not silently fall back.
func LoadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Re-apply defaults for fields the file cleared.
	if cfg.RestSymbol == "" {
		cfg.RestSymbol = seq.DefaultRestSymbol
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = pattern.DefaultMaxDepth
	}
	if cfg.Seed == 0 {
		cfg.Seed = pipeline.DefaultSeed
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = ":8080"
	}
	return cfg, nil
}

// CacheDirOrDefault returns the configured cache directory, falling back to
// the XDG cache path.
func (c *Config) CacheDirOrDefault() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	return cacheDir()
}

// configPath returns the config file path using XDG standard
// (~/.config/quaver/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
