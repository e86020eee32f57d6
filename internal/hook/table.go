package hook

import (
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// Table maps hook names to registries and tracks which hooks are running.
//
// A Table is meant to be created once at startup and passed to whatever
// registers or fires hooks. Its name map and counters are guarded by a lock
// that is never held while a handler runs; the registries themselves follow
// the single-goroutine rule of Registry.
type Table struct {
	mu    sync.RWMutex
	hooks map[string]*Registry

	// current is the stack of hook names being fired.
	current []string

	actions map[string]int
	filters map[string]int

	opts   []Option
	logger zerolog.Logger
}

// NewTable creates an empty table. The options are also applied to every
// registry the table creates.
func NewTable(opts ...Option) *Table {
	c := buildConfig(opts)
	return &Table{
		hooks:   make(map[string]*Registry),
		actions: make(map[string]int),
		filters: make(map[string]int),
		opts:    opts,
		logger:  c.logger,
	}
}

// Get returns the registry for name.
func (t *Table) Get(name string) (*Registry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	r, ok := t.hooks[name]
	return r, ok
}

// GetOrCreate returns the registry for name, creating an empty one if needed.
func (t *Table) GetOrCreate(name string) *Registry {
	t.mu.Lock()
	defer t.mu.Unlock()

	if r, ok := t.hooks[name]; ok {
		return r
	}

	r := NewRegistry(name, t.opts...)
	t.hooks[name] = r
	t.logger.Debug().Str("hook", name).Msg("registry created")
	return r
}

// set stores an existing registry under name.
func (t *Table) set(name string, r *Registry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.hooks[name] = r
}

// Names returns the names of all hooks in sorted order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.hooks))
	for name := range t.hooks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AddFilter registers h on the named hook.
func (t *Table) AddFilter(name string, h Handler, priority, acceptedArgs int) error {
	return t.GetOrCreate(name).Add(h, priority, acceptedArgs)
}

// AddAction registers h on the named hook. Actions and filters share one
// namespace; the difference is only in how the hook is fired.
func (t *Table) AddAction(name string, h Handler, priority, acceptedArgs int) error {
	return t.AddFilter(name, h, priority, acceptedArgs)
}

// RemoveFilter unregisters h from the named hook at priority.
func (t *Table) RemoveFilter(name string, h Handler, priority int) bool {
	r, ok := t.Get(name)
	if !ok {
		return false
	}
	return r.Remove(h, priority)
}

// RemoveAction unregisters h from the named hook at priority.
func (t *Table) RemoveAction(name string, h Handler, priority int) bool {
	return t.RemoveFilter(name, h, priority)
}

// Has returns the lowest priority h is registered at on the named hook.
// With a nil handler it reports whether the hook has any handler at all.
func (t *Table) Has(name string, h Handler) (int, bool) {
	r, ok := t.Get(name)
	if !ok {
		return 0, false
	}
	if h == nil {
		return 0, r.HasCallbacks()
	}
	return r.Has(h)
}

// HasAt reports whether h is registered on the named hook at priority.
func (t *Table) HasAt(name string, h Handler, priority int) bool {
	r, ok := t.Get(name)
	if !ok {
		return false
	}
	return r.HasAt(h, priority)
}

// Clear removes every handler from the named hook.
func (t *Table) Clear(name string) {
	if r, ok := t.Get(name); ok {
		r.Clear()
	}
}

// ClearPriority removes the handlers of the named hook at priority.
func (t *Table) ClearPriority(name string, priority int) {
	if r, ok := t.Get(name); ok {
		r.ClearPriority(priority)
	}
}

// ApplyFilters filters value through the named hook. args are passed to
// handlers after the value.
func (t *Table) ApplyFilters(name string, value any, args ...any) (any, error) {
	t.count(t.filters, name)

	all, hasAll := t.Get(AllHook)
	if hasAll {
		t.pushCurrent(name)
		defer t.popCurrent()

		if err := all.DoAll(append([]any{name, value}, args...)); err != nil {
			return nil, err
		}
	}

	r, ok := t.Get(name)
	if !ok {
		return value, nil
	}

	if !hasAll {
		t.pushCurrent(name)
		defer t.popCurrent()
	}

	return r.ApplyFilters(value, append([]any{value}, args...))
}

// DoAction fires the named hook as an action. With no args, handlers that
// accept an argument receive a single empty string.
func (t *Table) DoAction(name string, args ...any) error {
	t.count(t.actions, name)

	all, hasAll := t.Get(AllHook)
	if hasAll {
		t.pushCurrent(name)
		defer t.popCurrent()

		if err := all.DoAll(append([]any{name}, args...)); err != nil {
			return err
		}
	}

	r, ok := t.Get(name)
	if !ok {
		return nil
	}

	if !hasAll {
		t.pushCurrent(name)
		defer t.popCurrent()
	}

	if len(args) == 0 {
		args = []any{""}
	}
	return r.DoAction(args)
}

// CurrentPriority returns the priority the named hook is currently running.
func (t *Table) CurrentPriority(name string) (int, bool) {
	r, ok := t.Get(name)
	if !ok {
		return 0, false
	}
	return r.CurrentPriority()
}

// CurrentFilter returns the name of the innermost hook being fired, or ""
// when none is.
func (t *Table) CurrentFilter() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.current) == 0 {
		return ""
	}
	return t.current[len(t.current)-1]
}

// DoingFilter reports whether the named hook is being fired anywhere on the
// stack. An empty name reports whether any hook is.
func (t *Table) DoingFilter(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if name == "" {
		return len(t.current) > 0
	}
	return slices.Contains(t.current, name)
}

// DoingAction is DoingFilter for actions.
func (t *Table) DoingAction(name string) bool {
	return t.DoingFilter(name)
}

// DidAction returns how many times the named action has been fired.
func (t *Table) DidAction(name string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.actions[name]
}

// DidFilter returns how many times the named filter has been applied.
func (t *Table) DidFilter(name string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.filters[name]
}

func (t *Table) count(counters map[string]int, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	counters[name]++
}

func (t *Table) pushCurrent(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current = append(t.current, name)
}

func (t *Table) popCurrent() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.current) > 0 {
		t.current = t.current[:len(t.current)-1]
	}
}
