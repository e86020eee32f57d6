package hook

import (
	"fmt"
	"slices"
)

// BuildPreinitialized builds a Table from hook state captured before the
// table existed.
//
// Each value of raw is either a *Registry, which is used as-is, or plain
// callback data (PlainHooks or map[int][]PlainCallback), which is replayed
// through Registry.Add in ascending priority order.
func BuildPreinitialized(raw map[string]any, opts ...Option) (*Table, error) {
	t := NewTable(opts...)

	for name, value := range raw {
		switch v := value.(type) {
		case *Registry:
			if v == nil {
				return nil, fmt.Errorf("%w: hook %q: nil registry", ErrInvalidSnapshot, name)
			}
			t.set(name, v)

		case PlainHooks:
			if err := t.replay(name, v); err != nil {
				return nil, err
			}

		case map[int][]PlainCallback:
			if err := t.replay(name, PlainHooks(v)); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("%w: hook %q: unsupported value %T", ErrInvalidSnapshot, name, value)
		}
	}

	return t, nil
}

// replay registers plain callbacks on the named hook.
func (t *Table) replay(name string, groups PlainHooks) error {
	r := t.GetOrCreate(name)

	priorities := make([]int, 0, len(groups))
	for p := range groups {
		priorities = append(priorities, p)
	}
	slices.Sort(priorities)

	for _, p := range priorities {
		for _, cb := range groups[p] {
			if err := r.Add(cb.Handler, p, cb.AcceptedArgs); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
			}
		}
	}
	return nil
}

// Export returns the plain form of every hook in the table. Feeding the
// result to BuildPreinitialized yields an equivalent table.
func (t *Table) Export() map[string]PlainHooks {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]PlainHooks, len(t.hooks))
	for name, r := range t.hooks {
		groups := make(PlainHooks, len(r.priorities))
		for _, lvl := range r.Levels() {
			cbs := make([]PlainCallback, 0, len(lvl.Callbacks))
			for _, cb := range lvl.Callbacks {
				cbs = append(cbs, PlainCallback{Handler: cb.Handler, AcceptedArgs: cb.AcceptedArgs})
			}
			groups[lvl.Priority] = cbs
		}
		result[name] = groups
	}
	return result
}
