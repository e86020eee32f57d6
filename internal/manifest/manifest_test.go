package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/dshills/hookwire/internal/hook"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func testCatalog() map[string]hook.Handler {
	suffix := func(s string) hook.Func {
		return func(args ...any) (any, error) {
			return args[0].(string) + s, nil
		}
	}
	return map[string]hook.Handler{
		"bang":     hook.Named("bang", suffix("!")),
		"question": hook.Named("question", suffix("?")),
	}
}

func TestParse_Defaults(t *testing.T) {
	m, err := Parse([]byte(`
scripts = ["a.lua", "b.lua"]

[[bind]]
hook = "the_title"
handler = "bang"

[[bind]]
hook = "the_title"
handler = "question"
priority = 5
accepted_args = 2
`))
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}

	if !slices.Equal(m.Scripts, []string{"a.lua", "b.lua"}) {
		t.Errorf("Scripts = %v, want [a.lua b.lua]", m.Scripts)
	}

	want := []Binding{
		{Hook: "the_title", Handler: "bang", Priority: 10, AcceptedArgs: 1},
		{Hook: "the_title", Handler: "question", Priority: 5, AcceptedArgs: 2},
	}
	if !slices.Equal(m.Bindings, want) {
		t.Errorf("Bindings = %+v, want %+v", m.Bindings, want)
	}
}

func TestParse_Empty(t *testing.T) {
	m, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if len(m.Scripts) != 0 || len(m.Bindings) != 0 {
		t.Errorf("expected empty manifest, got %+v", m)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"missing hook", "[[bind]]\nhandler = \"bang\"\n", ErrMissingHook},
		{"missing handler", "[[bind]]\nhook = \"t\"\n", ErrMissingHandler},
		{"negative args", "[[bind]]\nhook = \"t\"\nhandler = \"bang\"\naccepted_args = -1\n", hook.ErrInvalidArgCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("Parse error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse([]byte("scripts = [\n\n[[bind]\n"))

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Parse error = %v, want *ParseError", err)
	}
	if pe.Line == 0 {
		t.Errorf("ParseError.Line = 0, want a position")
	}
	if !strings.Contains(pe.Error(), "<memory>") {
		t.Errorf("ParseError = %q, want the source", pe.Error())
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("[[bind]]\nhook = \"t\"\nhandler = \"bang\"\nweight = 3\n"))

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Parse error = %v, want *ParseError", err)
	}
	if pe.Line != 4 {
		t.Errorf("ParseError.Line = %d, want 4", pe.Line)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hooks.toml", `scripts = ["plugins/title.lua", "/abs/other.lua"]`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if m.Path != path {
		t.Errorf("Path = %q, want %q", m.Path, path)
	}

	want := []string{filepath.Join(dir, "plugins", "title.lua"), "/abs/other.lua"}
	if got := m.ScriptPaths(); !slices.Equal(got, want) {
		t.Errorf("ScriptPaths = %v, want %v", got, want)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load error = %v, want not exist", err)
	}
}

func TestManifest_Hooks(t *testing.T) {
	m := &Manifest{Bindings: []Binding{
		{Hook: "z", Handler: "bang"},
		{Hook: "a", Handler: "bang"},
		{Hook: "z", Handler: "question"},
	}}

	if got := m.Hooks(); !slices.Equal(got, []string{"a", "z"}) {
		t.Errorf("Hooks = %v, want [a z]", got)
	}
}

func TestManifest_Plain(t *testing.T) {
	m := &Manifest{Bindings: []Binding{
		{Hook: "t", Handler: "bang", Priority: 10, AcceptedArgs: 1},
		{Hook: "t", Handler: "question", Priority: 5, AcceptedArgs: 1},
	}}

	raw, err := m.Plain(testCatalog())
	if err != nil {
		t.Fatalf("Plain error = %v", err)
	}

	table, err := hook.BuildPreinitialized(raw)
	if err != nil {
		t.Fatalf("BuildPreinitialized error = %v", err)
	}

	got, err := table.ApplyFilters("t", "x")
	if err != nil {
		t.Fatalf("ApplyFilters error = %v", err)
	}
	if got != "x?!" {
		t.Errorf("ApplyFilters = %v, want x?!", got)
	}
}

func TestManifest_PlainUnknownHandler(t *testing.T) {
	m := &Manifest{Bindings: []Binding{{Hook: "t", Handler: "nope", Priority: 10, AcceptedArgs: 1}}}

	if _, err := m.Plain(testCatalog()); !errors.Is(err, ErrUnknownHandler) {
		t.Errorf("Plain error = %v, want ErrUnknownHandler", err)
	}
}
