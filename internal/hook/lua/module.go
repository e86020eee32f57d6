package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/hookwire/internal/hook"
)

// ModuleName is the global and require name of the hooks module.
const ModuleName = "hooks"

// module binds a hook table to a Lua state.
type module struct {
	state *State
	table *hook.Table
}

// Install exposes t to scripts running in s as the hooks module, both as a
// global and through require("hooks").
//
//	hooks.add_filter("the_title", function(title) return title .. "!" end, 20)
//	local title = hooks.apply_filters("the_title", "Hello")
func Install(s *State, t *hook.Table) {
	m := &module{state: s, table: t}

	mod := s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"add_filter":         m.addFilter,
		"add_action":         m.addFilter,
		"remove_filter":      m.removeFilter,
		"remove_action":      m.removeFilter,
		"remove_all_filters": m.removeAllFilters,
		"has_filter":         m.hasFilter,
		"apply_filters":      m.applyFilters,
		"do_action":          m.doAction,
		"current_filter":     m.currentFilter,
		"current_priority":   m.currentPriority,
		"doing_filter":       m.doingFilter,
		"did_action":         m.didAction,
		"did_filter":         m.didFilter,
	})

	s.PreloadModule(ModuleName, func(L *lua.LState) int {
		L.Push(mod)
		return 1
	})
	s.SetGlobal(ModuleName, mod)
}

// addFilter is hooks.add_filter(name, fn [, priority [, accepted_args]]).
func (m *module) addFilter(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	priority := L.OptInt(3, hook.DefaultPriority)
	acceptedArgs := L.OptInt(4, hook.DefaultAcceptedArgs)

	if err := m.table.AddFilter(name, NewFunction(m.state, fn), priority, acceptedArgs); err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}

	m.state.logger.Debug().Str("hook", name).Int("priority", priority).Msg("lua handler added")
	L.Push(lua.LTrue)
	return 1
}

// removeFilter is hooks.remove_filter(name, fn [, priority]).
func (m *module) removeFilter(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	priority := L.OptInt(3, hook.DefaultPriority)

	L.Push(lua.LBool(m.table.RemoveFilter(name, NewFunction(m.state, fn), priority)))
	return 1
}

// removeAllFilters is hooks.remove_all_filters(name [, priority]).
func (m *module) removeAllFilters(L *lua.LState) int {
	name := L.CheckString(1)
	if L.GetTop() >= 2 && L.Get(2) != lua.LNil {
		m.table.ClearPriority(name, L.CheckInt(2))
	} else {
		m.table.Clear(name)
	}

	L.Push(lua.LTrue)
	return 1
}

// hasFilter is hooks.has_filter(name [, fn]). With fn it returns the
// priority fn is registered at, or false.
func (m *module) hasFilter(L *lua.LState) int {
	name := L.CheckString(1)

	if L.GetTop() < 2 || L.Get(2) == lua.LNil {
		_, ok := m.table.Has(name, nil)
		L.Push(lua.LBool(ok))
		return 1
	}

	priority, ok := m.table.Has(name, NewFunction(m.state, L.CheckFunction(2)))
	if !ok {
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LNumber(priority))
	return 1
}

// applyFilters is hooks.apply_filters(name, value, ...).
func (m *module) applyFilters(L *lua.LState) int {
	name := L.CheckString(1)
	b := m.state.bridge

	out, err := m.table.ApplyFilters(name, b.ToGoValue(L.Get(2)), b.Args(L, 3)...)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}

	L.Push(b.ToLuaValue(out))
	return 1
}

// doAction is hooks.do_action(name, ...).
func (m *module) doAction(L *lua.LState) int {
	name := L.CheckString(1)

	if err := m.table.DoAction(name, m.state.bridge.Args(L, 2)...); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (m *module) currentFilter(L *lua.LState) int {
	name := m.table.CurrentFilter()
	if name == "" {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(name))
	return 1
}

// currentPriority is hooks.current_priority([name]). The name defaults to
// the current filter.
func (m *module) currentPriority(L *lua.LState) int {
	name := L.OptString(1, m.table.CurrentFilter())

	priority, ok := m.table.CurrentPriority(name)
	if !ok {
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LNumber(priority))
	return 1
}

func (m *module) doingFilter(L *lua.LState) int {
	L.Push(lua.LBool(m.table.DoingFilter(L.OptString(1, ""))))
	return 1
}

func (m *module) didAction(L *lua.LState) int {
	L.Push(lua.LNumber(m.table.DidAction(L.CheckString(1))))
	return 1
}

func (m *module) didFilter(L *lua.LState) int {
	L.Push(lua.LNumber(m.table.DidFilter(L.CheckString(1))))
	return 1
}
