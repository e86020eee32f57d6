package lua

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	glua "github.com/yuin/gopher-lua"
)

func newTestState(t *testing.T, opts ...StateOption) *State {
	t.Helper()
	state, err := NewState(opts...)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	t.Cleanup(func() { state.Close() })
	return state
}

func TestNewState(t *testing.T) {
	state := newTestState(t)

	if state.IsClosed() {
		t.Error("NewState() returned closed state")
	}
	if state.LuaState() == nil {
		t.Error("NewState() LuaState() is nil")
	}
	if state.Bridge() == nil {
		t.Error("NewState() Bridge() is nil")
	}
}

func TestStateDoString(t *testing.T) {
	state := newTestState(t)

	if err := state.DoString(context.Background(), `x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	if v := state.LuaState().GetGlobal("x"); v != glua.LNumber(2) {
		t.Errorf("x = %v, want 2", v)
	}
}

func TestStateDoStringSyntaxError(t *testing.T) {
	state := newTestState(t)

	if err := state.DoString(context.Background(), `invalid lua code !!!`); err == nil {
		t.Error("DoString() with invalid code should return error")
	}
}

func TestStateDoStringTimeout(t *testing.T) {
	state := newTestState(t, WithExecutionTimeout(50*time.Millisecond))

	start := time.Now()
	err := state.DoString(context.Background(), `while true do end`)
	if err == nil {
		t.Fatal("DoString() with endless loop should return error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("DoString() took %v, want it cut off near the timeout", elapsed)
	}

	// The state stays usable after a timeout.
	if err := state.DoString(context.Background(), `y = 3`); err != nil {
		t.Errorf("DoString() after timeout error = %v", err)
	}
}

func TestStateDoStringCancelled(t *testing.T) {
	state := newTestState(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := state.DoString(ctx, `while true do end`); err == nil {
		t.Error("DoString() with cancelled context should return error")
	}
}

func TestStateClose(t *testing.T) {
	state, err := NewState()
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}

	if err := state.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !state.IsClosed() {
		t.Error("Close() did not close state")
	}
	if err := state.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if err := state.DoString(context.Background(), `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() after Close error = %v, want ErrStateClosed", err)
	}
	if err := state.DoFile(context.Background(), "x.lua"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoFile() after Close error = %v, want ErrStateClosed", err)
	}
}

func TestSandboxRemovesDangerousGlobals(t *testing.T) {
	state := newTestState(t)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "io", "os", "debug"} {
		if v := state.LuaState().GetGlobal(name); v != glua.LNil {
			t.Errorf("%s should be unavailable, got %T", name, v)
		}
	}
}

func TestSandboxRequire(t *testing.T) {
	state := newTestState(t)

	if err := state.DoString(context.Background(), `require("os")`); err == nil {
		t.Error("require(os) should fail")
	}
	if err := state.DoString(context.Background(), `require("plugins.evil")`); err == nil {
		t.Error("require of a file module should fail")
	}

	if state.Sandbox().Allowed("extra") {
		t.Error("extra should not be allowed before preload")
	}
	state.PreloadModule("extra", func(L *glua.LState) int {
		mod := L.NewTable()
		mod.RawSetString("answer", glua.LNumber(42))
		L.Push(mod)
		return 1
	})
	if err := state.DoString(context.Background(), `answer = require("extra").answer`); err != nil {
		t.Fatalf("require(extra) error = %v", err)
	}
	if v := state.LuaState().GetGlobal("answer"); v != glua.LNumber(42) {
		t.Errorf("answer = %v, want 42", v)
	}
}

func TestSandboxPrintLogs(t *testing.T) {
	var buf bytes.Buffer
	state := newTestState(t, WithLogger(zerolog.New(&buf)))

	if err := state.DoString(context.Background(), `print("hello", 42)`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `hello\t42`) {
		t.Errorf("log output = %q, want the printed line", out)
	}
	if !strings.Contains(out, `"source":"lua"`) {
		t.Errorf("log output = %q, want source field", out)
	}
}
