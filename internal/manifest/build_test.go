package manifest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plugins/title.lua", `
		hooks.add_filter("the_title", function(title)
			return "[" .. title .. "]"
		end, 20)
	`)
	path := writeFile(t, dir, "hooks.toml", `
scripts = ["plugins/title.lua"]

[[bind]]
hook = "the_title"
handler = "bang"
priority = 5
`)

	rt, err := Build(context.Background(), path, testCatalog())
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}
	defer rt.Close()

	got, err := rt.Table.ApplyFilters("the_title", "Hello")
	if err != nil {
		t.Fatalf("ApplyFilters error = %v", err)
	}
	if got != "[Hello!]" {
		t.Errorf("ApplyFilters = %v, want [Hello!]", got)
	}

	if rt.Manifest.Path != path {
		t.Errorf("Manifest.Path = %q, want %q", rt.Manifest.Path, path)
	}
}

func TestBuild_UnknownHandler(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hooks.toml", "[[bind]]\nhook = \"t\"\nhandler = \"missing\"\n")

	if _, err := Build(context.Background(), path, testCatalog()); !errors.Is(err, ErrUnknownHandler) {
		t.Errorf("Build error = %v, want ErrUnknownHandler", err)
	}
}

func TestBuild_ScriptError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.lua", `error("broken plugin")`)
	path := writeFile(t, dir, "hooks.toml", `scripts = ["bad.lua"]`)

	_, err := Build(context.Background(), path, testCatalog())
	if err == nil {
		t.Fatal("Build should fail when a script fails")
	}
	if !strings.Contains(err.Error(), "bad.lua") {
		t.Errorf("Build error = %v, want the script path", err)
	}
}

func TestBuild_ScriptTimeout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "spin.lua", `while true do end`)
	path := writeFile(t, dir, "hooks.toml", `scripts = ["spin.lua"]`)

	_, err := Build(context.Background(), path, testCatalog(), WithScriptTimeout(50*time.Millisecond))
	if err == nil {
		t.Fatal("Build should fail when a script runs past its timeout")
	}
}
