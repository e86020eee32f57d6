// Package lua runs hook scripts written in Lua.
//
// This package wraps the gopher-lua library to provide:
//   - Sandboxed Lua state management
//   - Go-Lua type conversion bridge
//   - Lua functions as hook handlers
//   - The hooks module exposing a hook.Table to scripts
//
// # State
//
// The State type manages a Lua runtime with sandboxing:
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(2 * time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer state.Close()
//
//	lua.Install(state, table)
//	if err := state.DoFile(ctx, "plugins/title.lua"); err != nil {
//	    log.Fatal(err)
//	}
//
// A State is confined to one goroutine. Handlers registered by a script run
// on the same LState whenever the hook fires, including from inside another
// Lua handler.
//
// # Sandbox
//
// The Sandbox restricts Lua code execution by:
//   - Leaving io, os and debug closed
//   - Removing dofile, loadfile and load
//   - Limiting require to string, table, math and preloaded modules
//   - Sending print output to the logger
//
// # Scripts
//
// Inside a script the hooks module mirrors the Table API:
//
//	local function shout(title)
//	    return string.upper(title)
//	end
//
//	hooks.add_filter("the_title", shout, 20)
//	hooks.remove_filter("the_title", shout, 20)
package lua
