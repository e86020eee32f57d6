// Package config loads process settings from the environment.
//
// Settings resolve in layers, higher overriding lower:
//
//	command line flags      (applied by the caller)
//	HOOKWIRE_* variables
//	built-in defaults
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Log output formats.
const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Errors returned by configuration validation.
var (
	// ErrInvalidLevel indicates an unknown log level.
	ErrInvalidLevel = errors.New("invalid log level")

	// ErrInvalidFormat indicates an unknown log format.
	ErrInvalidFormat = errors.New("invalid log format")
)

// Config holds the process settings.
type Config struct {
	// LogLevel is a zerolog level name.
	LogLevel string `env:"HOOKWIRE_LOG_LEVEL" envDefault:"info"`

	// LogFormat is auto, console or json. Auto picks console output when
	// stderr is a terminal.
	LogFormat string `env:"HOOKWIRE_LOG_FORMAT" envDefault:"auto"`

	// Manifest is the path of the hook manifest.
	Manifest string `env:"HOOKWIRE_MANIFEST" envDefault:"hooks.toml"`

	// ScriptTimeout bounds each Lua script run while building.
	ScriptTimeout time.Duration `env:"HOOKWIRE_SCRIPT_TIMEOUT" envDefault:"5s"`
}

// Load reads and validates the configuration from the process environment.
func Load() (Config, error) {
	c, err := ParseEnv()
	if err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

// ParseEnv reads the process environment without validating it, so callers
// can overlay flags before calling Validate.
func ParseEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// LoadFrom reads the configuration from environ instead of the process
// environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, c.Validate()
}

// Validate checks the level and format names.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case FormatAuto, FormatConsole, FormatJSON:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.LogFormat)
	}
}

// Level returns the parsed log level.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.NoLevel, fmt.Errorf("%w: %q", ErrInvalidLevel, c.LogLevel)
	}
	return lvl, nil
}
