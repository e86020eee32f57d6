package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadFrom_Defaults(t *testing.T) {
	c, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.LogLevel != "info" {
		t.Errorf("expected info, got %q", c.LogLevel)
	}
	if c.LogFormat != FormatAuto {
		t.Errorf("expected auto, got %q", c.LogFormat)
	}
	if c.Manifest != "hooks.toml" {
		t.Errorf("expected hooks.toml, got %q", c.Manifest)
	}
	if c.ScriptTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %v", c.ScriptTimeout)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	c, err := LoadFrom(map[string]string{
		"HOOKWIRE_LOG_LEVEL":      "debug",
		"HOOKWIRE_LOG_FORMAT":     "json",
		"HOOKWIRE_MANIFEST":       "/etc/hooks.toml",
		"HOOKWIRE_SCRIPT_TIMEOUT": "250ms",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	lvl, err := c.Level()
	if err != nil || lvl != zerolog.DebugLevel {
		t.Errorf("expected debug, got %v (%v)", lvl, err)
	}
	if c.LogFormat != FormatJSON {
		t.Errorf("expected json, got %q", c.LogFormat)
	}
	if c.Manifest != "/etc/hooks.toml" {
		t.Errorf("expected /etc/hooks.toml, got %q", c.Manifest)
	}
	if c.ScriptTimeout != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", c.ScriptTimeout)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    error
	}{
		{"level", map[string]string{"HOOKWIRE_LOG_LEVEL": "loud"}, ErrInvalidLevel},
		{"format", map[string]string{"HOOKWIRE_LOG_FORMAT": "xml"}, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFrom(tt.environ); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFrom_ParseError(t *testing.T) {
	_, err := LoadFrom(map[string]string{"HOOKWIRE_SCRIPT_TIMEOUT": "soon"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Errorf("expected parse env prefix, got %v", err)
	}
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("HOOKWIRE_MANIFEST", "from-env.toml")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Manifest != "from-env.toml" {
		t.Errorf("expected from-env.toml, got %q", c.Manifest)
	}
}

func TestParseEnv_DoesNotValidate(t *testing.T) {
	t.Setenv("HOOKWIRE_LOG_LEVEL", "loud")

	c, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.LogLevel != "loud" {
		t.Errorf("expected loud, got %q", c.LogLevel)
	}
	if err := c.Validate(); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("expected ErrInvalidLevel from Validate, got %v", err)
	}
	if _, err := Load(); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("expected ErrInvalidLevel from Load, got %v", err)
	}
}
