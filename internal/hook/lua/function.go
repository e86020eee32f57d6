package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Function is a hook handler backed by a Lua function.
//
// Two Functions wrapping the same Lua function value share an identity, so
// a script can remove a handler by passing the function it registered.
type Function struct {
	state *State
	fn    *lua.LFunction
}

// NewFunction wraps fn for registration on a hook.
func NewFunction(s *State, fn *lua.LFunction) *Function {
	return &Function{state: s, fn: fn}
}

// Call implements hook.Handler. The first Lua result is the handler result.
func (f *Function) Call(args []any) (any, error) {
	if f.state.closed {
		return nil, ErrStateClosed
	}

	L := f.state.L
	L.Push(f.fn)
	for _, arg := range args {
		L.Push(f.state.bridge.ToLuaValue(arg))
	}

	if err := L.PCall(len(args), 1, nil); err != nil {
		return nil, fmt.Errorf("lua handler: %w", err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	return f.state.bridge.ToGoValue(ret), nil
}

// HandlerKey implements hook.Keyed.
func (f *Function) HandlerKey() string {
	if f == nil || f.fn == nil {
		return ""
	}
	return fmt.Sprintf("lua:%p", f.fn)
}

// LFunction returns the wrapped Lua function.
func (f *Function) LFunction() *lua.LFunction {
	return f.fn
}
