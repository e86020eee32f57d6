// Package manifest loads hook bindings and Lua scripts from TOML files.
//
// A manifest lists the scripts to run and binds named handlers from a
// catalog to hooks:
//
//	scripts = ["plugins/title.lua"]
//
//	[[bind]]
//	hook = "the_title"
//	handler = "trim"
//	priority = 5
//	accepted_args = 1
//
// Priority defaults to 10 and accepted_args to 1. Script paths are relative
// to the manifest file.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/hookwire/internal/hook"
)

// Manifest is a parsed manifest file.
type Manifest struct {
	// Path is the file the manifest was loaded from, empty when parsed
	// from memory.
	Path string

	// Scripts are the Lua files to run, in order.
	Scripts []string

	// Bindings attach catalog handlers to hooks, in file order.
	Bindings []Binding
}

// Binding attaches a catalog handler to a hook.
type Binding struct {
	Hook         string
	Handler      string
	Priority     int
	AcceptedArgs int
}

// file is the on-disk layout.
type file struct {
	Scripts []string      `toml:"scripts"`
	Bind    []bindingFile `toml:"bind"`
}

type bindingFile struct {
	Hook         string `toml:"hook"`
	Handler      string `toml:"handler"`
	Priority     *int   `toml:"priority"`
	AcceptedArgs *int   `toml:"accepted_args"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	m, err := parse(path, data)
	if err != nil {
		return nil, err
	}
	m.Path = path
	return m, nil
}

// Parse parses manifest data held in memory.
func Parse(data []byte) (*Manifest, error) {
	return parse("<memory>", data)
}

func parse(source string, data []byte) (*Manifest, error) {
	var f file
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, newParseError(source, err)
	}

	m := &Manifest{
		Scripts:  f.Scripts,
		Bindings: make([]Binding, 0, len(f.Bind)),
	}

	for i, b := range f.Bind {
		if b.Hook == "" {
			return nil, fmt.Errorf("%s: bind[%d]: %w", source, i, ErrMissingHook)
		}
		if b.Handler == "" {
			return nil, fmt.Errorf("%s: bind[%d]: %w", source, i, ErrMissingHandler)
		}

		binding := Binding{
			Hook:         b.Hook,
			Handler:      b.Handler,
			Priority:     hook.DefaultPriority,
			AcceptedArgs: hook.DefaultAcceptedArgs,
		}
		if b.Priority != nil {
			binding.Priority = *b.Priority
		}
		if b.AcceptedArgs != nil {
			if *b.AcceptedArgs < 0 {
				return nil, fmt.Errorf("%s: bind[%d]: %w: %d", source, i, hook.ErrInvalidArgCount, *b.AcceptedArgs)
			}
			binding.AcceptedArgs = *b.AcceptedArgs
		}
		m.Bindings = append(m.Bindings, binding)
	}

	return m, nil
}

// newParseError converts a go-toml error, keeping its position when known.
func newParseError(source string, err error) *ParseError {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var decodeErr *toml.DecodeError
	var strictErr *toml.StrictMissingError
	switch {
	case errors.As(err, &decodeErr):
		pe.Line, pe.Column = decodeErr.Position()
	case errors.As(err, &strictErr) && len(strictErr.Errors) > 0:
		pe.Line, pe.Column = strictErr.Errors[0].Position()
	}
	return pe
}

// ScriptPaths returns the script paths resolved against the manifest's
// directory.
func (m *Manifest) ScriptPaths() []string {
	base := filepath.Dir(m.Path)
	paths := make([]string, 0, len(m.Scripts))
	for _, s := range m.Scripts {
		if !filepath.IsAbs(s) && m.Path != "" {
			s = filepath.Join(base, s)
		}
		paths = append(paths, s)
	}
	return paths
}

// Hooks returns the names of the hooks the manifest binds, sorted.
func (m *Manifest) Hooks() []string {
	var names []string
	for _, b := range m.Bindings {
		if !slices.Contains(names, b.Hook) {
			names = append(names, b.Hook)
		}
	}
	slices.Sort(names)
	return names
}

// Plain resolves the bindings against catalog and returns them in the form
// accepted by hook.BuildPreinitialized.
func (m *Manifest) Plain(catalog map[string]hook.Handler) (map[string]any, error) {
	groups := make(map[string]hook.PlainHooks)

	for _, b := range m.Bindings {
		h, ok := catalog[b.Handler]
		if !ok {
			return nil, fmt.Errorf("%w: %q (hook %q)", ErrUnknownHandler, b.Handler, b.Hook)
		}

		g, ok := groups[b.Hook]
		if !ok {
			g = make(hook.PlainHooks)
			groups[b.Hook] = g
		}
		g[b.Priority] = append(g[b.Priority], hook.PlainCallback{Handler: h, AcceptedArgs: b.AcceptedArgs})
	}

	raw := make(map[string]any, len(groups))
	for name, g := range groups {
		raw[name] = g
	}
	return raw, nil
}
