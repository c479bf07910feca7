// Package config loads the careertree configuration file and applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/abhisek/careertree/internal/llm"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = llm.EnvPrefix

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	User     UserConfig     `toml:"user"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Progress ProgressConfig `toml:"progress"`
	LLM      llm.Config     `toml:"llm"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type DatabaseConfig struct {
	// Path of the SQLite file. Empty means the XDG data directory.
	Path string `toml:"path"`
}

type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text, json
}

type UserConfig struct {
	// ID is the user the CLI and TUI act for.
	ID string `toml:"id"`
}

type CatalogConfig struct {
	// Path of a YAML or JSON catalog replacing the built-in one.
	Path string `toml:"path"`
}

type ProgressConfig struct {
	// AllowLockedCompletion lets users complete nodes whose
	// prerequisites are not all completed.
	AllowLockedCompletion bool `toml:"allow_locked_completion"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		User: UserConfig{
			ID: "local",
		},
		LLM: llm.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/careertree/config.toml, falling
// back to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "careertree", "config.toml")
}

// Load reads the TOML file at path over the defaults. A missing file
// yields the defaults. Unknown keys are an error so typos do not pass
// silently. Environment overrides are not applied; see ApplyEnv.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parsing config: unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// ApplyEnv overrides fields from CAREERTREE_* environment variables,
// including the LLM settings.
func (c *Config) ApplyEnv() error {
	for _, o := range []struct {
		name string
		dst  *string
	}{
		{"ADDR", &c.Server.Addr},
		{"DB", &c.Database.Path},
		{"LOG_LEVEL", &c.Log.Level},
		{"LOG_FORMAT", &c.Log.Format},
		{"USER", &c.User.ID},
		{"CATALOG", &c.Catalog.Path},
	} {
		if v := os.Getenv(EnvPrefix + o.name); v != "" {
			*o.dst = v
		}
	}
	if v := os.Getenv(EnvPrefix + "ALLOW_LOCKED_COMPLETION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sALLOW_LOCKED_COMPLETION: %w", EnvPrefix, err)
		}
		c.Progress.AllowLockedCompletion = b
	}
	c.LLM.ApplyEnv()
	return nil
}

// Validate checks values that cannot be used as given. A missing API key
// is not an error here; it only matters when personalizing.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if strings.TrimSpace(c.User.ID) == "" {
		errs = append(errs, errors.New("user.id must not be empty"))
	}
	if providers := llm.ProviderNames(); !slices.Contains(providers, c.LLM.Provider) {
		errs = append(errs, fmt.Errorf("llm.provider must be one of %s, got %q", strings.Join(providers, ", "), c.LLM.Provider))
	}
	if c.LLM.Timeout < 0 {
		errs = append(errs, errors.New("llm.timeout must not be negative"))
	}
	return errors.Join(errs...)
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// NewLogger builds the process logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := l.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
