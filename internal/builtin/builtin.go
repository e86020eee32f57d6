// Package builtin provides the named handlers manifests can bind to hooks.
package builtin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/hookwire/internal/hook"
)

// ErrNotString is returned when a text filter receives a non-string value.
var ErrNotString = errors.New("value is not a string")

// Catalog returns the builtin handlers keyed by name. The log handler writes
// to logger.
func Catalog(logger zerolog.Logger) map[string]hook.Handler {
	return map[string]hook.Handler{
		"trim":   textFilter("trim", strings.TrimSpace),
		"upper":  textFilter("upper", cases.Upper(language.Und).String),
		"lower":  textFilter("lower", cases.Lower(language.Und).String),
		"title":  textFilter("title", cases.Title(language.Und).String),
		"suffix": hook.Named("suffix", suffix),
		"log":    logAction(logger),
	}
}

// Names returns the catalog names in a stable order.
func Names() []string {
	return []string{"log", "lower", "suffix", "title", "trim", "upper"}
}

func textFilter(name string, fn func(string) string) *hook.NamedHandler {
	return hook.Named(name, func(args ...any) (any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("%s: %w: no value", name, ErrNotString)
		}
		s, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%s: %w: got %T", name, ErrNotString, args[0])
		}
		return fn(s), nil
	})
}

// suffix appends the second argument to the value. Bind it with
// accepted_args = 2.
func suffix(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("suffix: %w: no value", ErrNotString)
	}
	s, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("suffix: %w: got %T", ErrNotString, args[0])
	}
	if len(args) < 2 {
		return s, nil
	}
	return s + fmt.Sprint(args[1]), nil
}

func logAction(logger zerolog.Logger) *hook.NamedHandler {
	return hook.Named("log", func(args ...any) (any, error) {
		logger.Info().Interface("args", args).Msg("hook fired")
		if len(args) > 0 {
			return args[0], nil
		}
		return nil, nil
	})
}
