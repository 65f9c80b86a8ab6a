// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package config

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// EnvPrefix is prepended to every environment override, e.g.
// GLOSSARY_STORAGE_PATH for storage.path.
const EnvPrefix = "GLOSSARY"

// Config is the top-level glossary configuration.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Glossary GlossaryConfig `mapstructure:"glossary"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// StorageConfig selects the storage backend and its database file.
type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=sqlite"`
	Path    string `mapstructure:"path" validate:"required"`
}

// GlossaryConfig controls command behaviour and default definitions.
type GlossaryConfig struct {
	// FixturesPath is a YAML or JSON map of term to definition merged into
	// the store at startup. A missing file is skipped.
	FixturesPath    string `mapstructure:"fixtures_path"`
	WatchFixtures   bool   `mapstructure:"watch_fixtures"`
	SlackURL        string `mapstructure:"slack_url" validate:"omitempty,url"`
	SuggestionLimit int    `mapstructure:"suggestion_limit" validate:"gte=1"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Listen      string          `mapstructure:"listen" validate:"hostname_port"`
	CORSOrigins []string        `mapstructure:"cors_origins" validate:"dive,url"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig sets the per-IP request budget. A zero rate disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	Burst             int     `mapstructure:"burst" validate:"gte=0"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// SlogLevel maps Level onto a slog.Level, defaulting to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", "glossary.db")
	v.SetDefault("glossary.fixtures_path", "")
	v.SetDefault("glossary.watch_fixtures", false)
	v.SetDefault("glossary.slack_url", "")
	v.SetDefault("glossary.suggestion_limit", 10)
	v.SetDefault("server.listen", "127.0.0.1:18790")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.rate_limit.requests_per_second", 0)
	v.SetDefault("server.rate_limit.burst", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// SetupEnv enables GLOSSARY_-prefixed environment overrides on v.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides (prefix GLOSSARY_).
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, glossaryerr.Errorf(glossaryerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, glossaryerr.Errorf(glossaryerr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, glossaryerr.Errorf(glossaryerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}
