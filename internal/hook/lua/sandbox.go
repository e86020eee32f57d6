package lua

import (
	"strings"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState

	logger zerolog.Logger

	// modules lists what require may load.
	modules map[string]bool
}

// NewSandbox creates a new sandbox for the Lua state. Script output from
// print is sent to logger.
func NewSandbox(L *lua.LState, logger zerolog.Logger) *Sandbox {
	return &Sandbox{
		L:      L,
		logger: logger,
		modules: map[string]bool{
			"string": true,
			"table":  true,
			"math":   true,
		},
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	dangerousFuncs := []string{
		"dofile",
		"loadfile",
		"load",
		"loadstring",
	}
	for _, name := range dangerousFuncs {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installPrint()
	s.installRequire()
}

// Allow lets require load the named module.
func (s *Sandbox) Allow(module string) {
	s.modules[module] = true
}

// Allowed reports whether require may load the named module.
func (s *Sandbox) Allowed(module string) bool {
	return s.modules[module]
}

// installPrint routes print to the logger.
func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		s.logger.Info().Str("source", "lua").Msg(strings.Join(parts, "\t"))
		return 0
	}))
}

// installRequire clears the module search paths and replaces require with a
// version that only loads allowed modules.
func (s *Sandbox) installRequire() {
	if pkgTable, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		s.L.SetField(pkgTable, "path", lua.LString(""))
		s.L.SetField(pkgTable, "cpath", lua.LString(""))
	}

	originalRequire := s.L.GetGlobal("require")
	if originalRequire == lua.LNil {
		return
	}

	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)
		if !s.modules[modName] {
			L.RaiseError("module %q is not available", modName)
			return 0
		}

		L.Push(originalRequire)
		L.Push(lua.LString(modName))
		L.Call(1, 1)
		return 1
	}))
}
