// Package config loads server configuration with koanf.
//
// LAYERING (lowest to highest priority):
//  1. struct defaults (structs provider)
//  2. optional YAML config file (file provider)
//  3. environment variables with the PREWORK_ prefix (env provider)
//
// A .env file, when present, is folded into the process environment by
// main before Load runs, so local development needs nothing beyond a
// .env next to the binary — the same workflow the workshop's earlier
// Node incarnation used.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where a config file is searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "PREWORK_CONFIG_PATH"

// envPrefix namespaces our environment variables, e.g.
// PREWORK_NOTION_API_KEY → notion.api_key.
const envPrefix = "PREWORK_"

// Config is the full server configuration.
type Config struct {
	Port     int    `koanf:"port"`
	LogLevel string `koanf:"log_level"`

	Notion NotionConfig `koanf:"notion"`
	GitHub GitHubConfig `koanf:"github"`

	// BasicAuth is optional; the middleware is enabled only when both
	// username and password are configured.
	BasicAuth BasicAuthConfig `koanf:"basic_auth"`
}

// NotionConfig identifies the backend workspace: one integration key and
// one database per entity.
type NotionConfig struct {
	APIKey                string `koanf:"api_key"`
	BaseURL               string `koanf:"base_url"`
	UserDatabaseID        string `koanf:"user_database_id"`
	ProgressDatabaseID    string `koanf:"progress_database_id"`
	TransactionDatabaseID string `koanf:"transaction_database_id"`
}

type GitHubConfig struct {
	BaseURL string `koanf:"base_url"`
	Token   string `koanf:"token"` // optional, lifts the anonymous rate limit
}

type BasicAuthConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// Enabled reports whether basic auth should guard the API.
func (b BasicAuthConfig) Enabled() bool {
	return b.Username != "" && b.Password != ""
}

// SlogLevel maps the configured level name to slog; unknown names fall
// back to info rather than failing startup.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultConfig() *Config {
	return &Config{
		Port:     3000,
		LogLevel: "info",
		Notion: NotionConfig{
			BaseURL: "", // empty → the client's production default
		},
		GitHub: GitHubConfig{
			BaseURL: "https://api.github.com",
		},
	}
}

// Load assembles the configuration and validates the required fields.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// PREWORK_NOTION_USER_DATABASE_ID → notion.user_database_id.
	// Only the first underscore becomes a section separator; the rest
	// stay underscores so multi-word keys round-trip.
	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envToKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	// Section names are single words (notion, github, basic_auth), so
	// map the known section prefixes explicitly rather than guessing at
	// underscore boundaries.
	for _, section := range []string{"notion", "github", "basic_auth"} {
		if strings.HasPrefix(s, section+"_") {
			return section + "." + strings.TrimPrefix(s, section+"_")
		}
	}
	return s
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (c *Config) validate() error {
	if c.Notion.APIKey == "" {
		return fmt.Errorf("notion.api_key is required (PREWORK_NOTION_API_KEY)")
	}
	if c.Notion.UserDatabaseID == "" {
		return fmt.Errorf("notion.user_database_id is required (PREWORK_NOTION_USER_DATABASE_ID)")
	}
	if c.Notion.ProgressDatabaseID == "" {
		return fmt.Errorf("notion.progress_database_id is required (PREWORK_NOTION_PROGRESS_DATABASE_ID)")
	}
	if c.Notion.TransactionDatabaseID == "" {
		return fmt.Errorf("notion.transaction_database_id is required (PREWORK_NOTION_TRANSACTION_DATABASE_ID)")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}
	return nil
}
