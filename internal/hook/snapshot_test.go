package hook

import (
	"errors"
	"testing"
)

func TestBuildPreinitialized_KeepsRegistry(t *testing.T) {
	r := NewRegistry("title")
	mustAdd(t, r, appender("!"), 10, 1)

	table, err := BuildPreinitialized(map[string]any{"title": r})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	got, ok := table.Get("title")
	if !ok || got != r {
		t.Error("expected the registry to be used as-is")
	}
}

func TestBuildPreinitialized_ReplaysPlainData(t *testing.T) {
	raw := map[string]any{
		"title": PlainHooks{
			20: {{Handler: appender("c"), AcceptedArgs: 1}},
			5:  {{Handler: appender("a"), AcceptedArgs: 1}, {Handler: appender("b"), AcceptedArgs: 1}},
		},
		"body": map[int][]PlainCallback{
			10: {{Handler: appender("x"), AcceptedArgs: 1}},
		},
	}

	table, err := BuildPreinitialized(raw)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	result, err := table.ApplyFilters("title", "")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result != "abc" {
		t.Errorf("expected abc, got %v", result)
	}

	result, _ = table.ApplyFilters("body", "")
	if result != "x" {
		t.Errorf("expected x, got %v", result)
	}
}

func TestBuildPreinitialized_Invalid(t *testing.T) {
	var nilRegistry *Registry

	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"nil registry", map[string]any{"a": nilRegistry}},
		{"unsupported value", map[string]any{"a": "not hooks"}},
		{"nil handler", map[string]any{"a": PlainHooks{10: {{Handler: nil, AcceptedArgs: 1}}}}},
		{"negative args", map[string]any{"a": PlainHooks{10: {{Handler: appender("x"), AcceptedArgs: -1}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildPreinitialized(tt.raw); !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("expected ErrInvalidSnapshot, got %v", err)
			}
		})
	}
}

func TestTable_Export(t *testing.T) {
	table := NewTable()
	_ = table.AddFilter("title", appender("b"), 10, 2)
	_ = table.AddFilter("title", appender("a"), 5, 1)

	exported := table.Export()

	groups, ok := exported["title"]
	if !ok {
		t.Fatal("expected title exported")
	}
	if len(groups) != 2 || len(groups[5]) != 1 || len(groups[10]) != 1 {
		t.Fatalf("expected one callback at 5 and 10, got %v", groups)
	}
	if groups[10][0].AcceptedArgs != 2 {
		t.Errorf("expected accepted args 2, got %d", groups[10][0].AcceptedArgs)
	}

	raw := make(map[string]any, len(exported))
	for name, g := range exported {
		raw[name] = g
	}
	rebuilt, err := BuildPreinitialized(raw)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	result, err := rebuilt.ApplyFilters("title", "")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result != "ab" {
		t.Errorf("expected ab, got %v", result)
	}
}
