package manifest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/hookwire/internal/hook"
	hooklua "github.com/dshills/hookwire/internal/hook/lua"
)

// Runtime is a hook table built from a manifest together with the Lua state
// its scripts registered handlers in.
type Runtime struct {
	Manifest *Manifest
	Table    *hook.Table
	State    *hooklua.State
}

// Close releases the Lua state.
func (r *Runtime) Close() error {
	return r.State.Close()
}

// Option configures Build.
type Option func(*buildConfig)

type buildConfig struct {
	logger        zerolog.Logger
	scriptTimeout time.Duration
}

// WithLogger sets the logger passed to the table and the Lua state.
func WithLogger(l zerolog.Logger) Option {
	return func(c *buildConfig) {
		c.logger = l
	}
}

// WithScriptTimeout bounds the run of each script.
func WithScriptTimeout(d time.Duration) Option {
	return func(c *buildConfig) {
		c.scriptTimeout = d
	}
}

// Build loads the manifest at path, registers its bindings from catalog and
// runs its scripts with the hooks module installed.
func Build(ctx context.Context, path string, catalog map[string]hook.Handler, opts ...Option) (*Runtime, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	return BuildFrom(ctx, m, catalog, opts...)
}

// BuildFrom is Build for an already parsed manifest.
func BuildFrom(ctx context.Context, m *Manifest, catalog map[string]hook.Handler, opts ...Option) (*Runtime, error) {
	c := buildConfig{
		logger:        zerolog.Nop(),
		scriptTimeout: hooklua.DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(&c)
	}

	raw, err := m.Plain(catalog)
	if err != nil {
		return nil, err
	}

	table, err := hook.BuildPreinitialized(raw, hook.WithLogger(c.logger))
	if err != nil {
		return nil, err
	}

	state, err := hooklua.NewState(
		hooklua.WithLogger(c.logger),
		hooklua.WithExecutionTimeout(c.scriptTimeout),
	)
	if err != nil {
		return nil, err
	}
	hooklua.Install(state, table)

	for _, script := range m.ScriptPaths() {
		if err := state.DoFile(ctx, script); err != nil {
			state.Close()
			return nil, fmt.Errorf("running script %s: %w", script, err)
		}
		c.logger.Debug().Str("script", script).Msg("script loaded")
	}

	c.logger.Debug().
		Int("bindings", len(m.Bindings)).
		Int("scripts", len(m.Scripts)).
		Msg("manifest built")

	return &Runtime{Manifest: m, Table: table, State: state}, nil
}
