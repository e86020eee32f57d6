package manifest

import (
	"errors"
	"fmt"
)

// Errors for manifest validation.
var (
	// ErrMissingHook is returned for a binding without a hook name.
	ErrMissingHook = errors.New("binding has no hook")

	// ErrMissingHandler is returned for a binding without a handler name.
	ErrMissingHandler = errors.New("binding has no handler")

	// ErrUnknownHandler is returned when a binding names a handler the
	// catalog does not provide.
	ErrUnknownHandler = errors.New("unknown handler")
)

// ParseError represents an error while parsing a manifest file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
