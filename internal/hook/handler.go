package hook

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

// Handler is the interface for hook callbacks.
type Handler interface {
	// Call invokes the handler with the already truncated argument list.
	// In filter mode the returned value replaces the value being filtered.
	Call(args []any) (any, error)
}

// Keyed is implemented by handlers that carry their own identity.
// An empty key means the handler has no stable identity.
type Keyed interface {
	HandlerKey() string
}

// Func adapts a free function to the Handler interface.
//
// Its identity is the function's fully qualified symbol name, so two Func
// values built from the same function literal share an identity even when
// they capture different variables. Use Closure for those. Method values
// (obj.M) have no identity as a Func because every receiver would share one;
// use Method for them.
type Func func(args ...any) (any, error)

// Call implements the Handler interface.
func (f Func) Call(args []any) (any, error) {
	return f(args...)
}

// HandlerKey implements Keyed.
func (f Func) HandlerKey() string {
	if f == nil {
		return ""
	}
	fn := runtime.FuncForPC(reflect.ValueOf(f).Pointer())
	if fn == nil || strings.HasSuffix(fn.Name(), "-fm") {
		return ""
	}
	return fn.Name()
}

// NamedHandler is a function registered under an explicit string identity.
type NamedHandler struct {
	Key string
	Fn  Func
}

// Named creates a handler identified by key.
func Named(key string, fn Func) *NamedHandler {
	return &NamedHandler{Key: key, Fn: fn}
}

// Call implements the Handler interface.
func (h *NamedHandler) Call(args []any) (any, error) {
	return h.Fn(args...)
}

// HandlerKey implements Keyed.
func (h *NamedHandler) HandlerKey() string {
	if h == nil || h.Fn == nil {
		return ""
	}
	return h.Key
}

// ClosureHandler is an anonymous function with a generated identity.
type ClosureHandler struct {
	id string
	fn Func
}

// Closure wraps fn with a fresh UUID identity. Keep the returned handler to
// remove it later; wrapping the same function again yields a new identity.
func Closure(fn Func) *ClosureHandler {
	return &ClosureHandler{id: uuid.NewString(), fn: fn}
}

// Call implements the Handler interface.
func (h *ClosureHandler) Call(args []any) (any, error) {
	return h.fn(args...)
}

// HandlerKey implements Keyed.
func (h *ClosureHandler) HandlerKey() string {
	if h == nil || h.fn == nil {
		return ""
	}
	return "closure:" + h.id
}

// MethodHandler is a method bound to a receiver.
type MethodHandler struct {
	recv any
	name string
	fn   Func
}

// Method binds the named method of recv. The method must have one of the
// signatures func(...any) (any, error), func(...any) any or func(...any).
//
// The identity is derived from the receiver's address, so recv should be a
// pointer; a value receiver yields a handler that cannot be registered.
func Method(recv any, name string) (*MethodHandler, error) {
	if recv == nil {
		return nil, ErrNilHandler
	}

	m := reflect.ValueOf(recv).MethodByName(name)
	if !m.IsValid() {
		return nil, fmt.Errorf("%T has no method %q", recv, name)
	}

	var fn Func
	switch f := m.Interface().(type) {
	case func(...any) (any, error):
		fn = f
	case func(...any) any:
		fn = func(args ...any) (any, error) { return f(args...), nil }
	case func(...any):
		fn = func(args ...any) (any, error) {
			f(args...)
			return nil, nil
		}
	default:
		return nil, fmt.Errorf("method %T.%s has unsupported signature %s", recv, name, m.Type())
	}

	return &MethodHandler{recv: recv, name: name, fn: fn}, nil
}

// Call implements the Handler interface.
func (h *MethodHandler) Call(args []any) (any, error) {
	return h.fn(args...)
}

// HandlerKey implements Keyed.
func (h *MethodHandler) HandlerKey() string {
	if h == nil {
		return ""
	}
	rv := reflect.ValueOf(h.recv)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ""
	}
	return fmt.Sprintf("%x::%s", rv.Pointer(), h.name)
}

// HandlerID derives the identity used to locate a handler within a priority
// level. It returns ErrInvalidIdentity when none can be derived.
func HandlerID(h Handler) (string, error) {
	if h == nil {
		return "", ErrInvalidIdentity
	}

	if k, ok := h.(Keyed); ok {
		key := k.HandlerKey()
		if key == "" {
			return "", fmt.Errorf("%w: %T", ErrInvalidIdentity, h)
		}
		return key, nil
	}

	// Reference-shaped handlers are identified by address.
	rv := reflect.ValueOf(h)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
		if rv.IsNil() {
			return "", ErrInvalidIdentity
		}
		return fmt.Sprintf("%T@%x", h, rv.Pointer()), nil
	}

	return "", fmt.Errorf("%w: %T", ErrInvalidIdentity, h)
}
