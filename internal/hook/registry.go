package hook

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
)

// Registry is the callback table and dispatch engine of a single hook.
// It is not safe for concurrent use.
type Registry struct {
	name   string
	levels map[int]*level

	// priorities holds the keys of levels in ascending order.
	priorities []int

	// frames is the stack of in-flight passes, indexed by nesting depth.
	frames []*frame

	// doingAction makes every pass on this hook behave as an action until
	// the outermost pass returns.
	doingAction bool

	logger zerolog.Logger
}

// NewRegistry creates an empty registry for the named hook.
func NewRegistry(name string, opts ...Option) *Registry {
	c := buildConfig(opts)
	return &Registry{
		name:   name,
		levels: make(map[int]*level),
		logger: c.logger,
	}
}

// Name returns the hook name.
func (r *Registry) Name() string {
	return r.name
}

// Add registers h at priority, passing it at most acceptedArgs arguments.
// Registering the same handler again at the same priority replaces the entry
// in place.
func (r *Registry) Add(h Handler, priority, acceptedArgs int) error {
	if h == nil {
		return ErrNilHandler
	}
	if acceptedArgs < 0 {
		return fmt.Errorf("hook %q: %w: %d", r.name, ErrInvalidArgCount, acceptedArgs)
	}

	id, err := HandlerID(h)
	if err != nil {
		return fmt.Errorf("hook %q: %w", r.name, err)
	}

	lvl, existed := r.levels[priority]
	if !existed {
		lvl = newLevel()
		r.levels[priority] = lvl
		i, _ := slices.BinarySearch(r.priorities, priority)
		r.priorities = slices.Insert(r.priorities, i, priority)
		r.logger.Debug().Str("hook", r.name).Int("priority", priority).Msg("level created")
	}
	lvl.put(Callback{ID: id, Handler: h, AcceptedArgs: acceptedArgs})

	if len(r.frames) > 0 {
		r.repair(priority, !existed)
	}
	return nil
}

// Remove unregisters h from priority and reports whether it was registered.
func (r *Registry) Remove(h Handler, priority int) bool {
	id, err := HandlerID(h)
	if err != nil {
		return false
	}

	lvl, ok := r.levels[priority]
	if !ok || !lvl.remove(id) {
		return false
	}

	if lvl.len() == 0 {
		r.dropLevel(priority)
		if len(r.frames) > 0 {
			r.repair(0, false)
		}
	}
	return true
}

// dropLevel removes an empty priority level.
func (r *Registry) dropLevel(priority int) {
	delete(r.levels, priority)
	if i, found := slices.BinarySearch(r.priorities, priority); found {
		r.priorities = slices.Delete(r.priorities, i, i+1)
	}
	r.logger.Debug().Str("hook", r.name).Int("priority", priority).Msg("level removed")
}

// Has returns the lowest priority h is registered at.
func (r *Registry) Has(h Handler) (int, bool) {
	id, err := HandlerID(h)
	if err != nil {
		return 0, false
	}

	for _, p := range r.priorities {
		if r.levels[p].has(id) {
			return p, true
		}
	}
	return 0, false
}

// HasAt reports whether h is registered at exactly priority.
func (r *Registry) HasAt(h Handler, priority int) bool {
	id, err := HandlerID(h)
	if err != nil {
		return false
	}

	lvl, ok := r.levels[priority]
	return ok && lvl.has(id)
}

// HasCallbacks reports whether any handler is registered.
func (r *Registry) HasCallbacks() bool {
	for _, lvl := range r.levels {
		if lvl.len() > 0 {
			return true
		}
	}
	return false
}

// Clear removes every handler.
func (r *Registry) Clear() {
	if len(r.levels) == 0 {
		return
	}

	r.levels = make(map[int]*level)
	r.priorities = nil
	r.logger.Debug().Str("hook", r.name).Msg("cleared")

	if len(r.frames) > 0 {
		r.repair(0, false)
	}
}

// ClearPriority removes every handler registered at priority.
func (r *Registry) ClearPriority(priority int) {
	if len(r.levels) == 0 {
		return
	}

	if _, ok := r.levels[priority]; ok {
		r.dropLevel(priority)
	}

	if len(r.frames) > 0 {
		r.repair(0, false)
	}
}

// ApplyFilters runs every handler in priority order, threading value through
// them, and returns the final value.
//
// args is the full argument list; its first element is replaced by the
// running value before each call. Each handler receives no arguments when it
// accepts zero, all of them when it accepts at least len(args), and the first
// AcceptedArgs otherwise.
func (r *Registry) ApplyFilters(value any, args []any) (any, error) {
	if len(r.levels) == 0 {
		return value, nil
	}

	f := r.push(true)
	defer r.pop()

	numArgs := len(args)
	args = slices.Clone(args)

	for p, ok := f.at(); ok; p, ok = f.advance() {
		f.current = p

		lvl, exists := r.levels[p]
		if !exists {
			continue
		}

		for _, cb := range slices.Clone(lvl.entries) {
			if !r.doingAction {
				if len(args) == 0 {
					args = append(args, value)
				} else {
					args[0] = value
				}
			}

			out, err := cb.Handler.Call(truncate(args, cb.AcceptedArgs, numArgs))
			if err != nil {
				return nil, &HandlerError{Hook: r.name, Priority: p, HandlerID: cb.ID, Err: err}
			}
			value = out
		}
	}

	return value, nil
}

// truncate returns the arguments a handler accepting n of them receives.
func truncate(args []any, n, numArgs int) []any {
	switch {
	case n == 0:
		return nil
	case n >= numArgs:
		return slices.Clone(args)
	default:
		return slices.Clone(args[:n])
	}
}

// DoAction runs every handler in priority order for its side effects.
// Handlers receive args unchanged by earlier results.
func (r *Registry) DoAction(args []any) error {
	r.doingAction = true
	defer func() {
		// Recursive calls to this action are not finished until the
		// outermost one returns.
		if len(r.frames) == 0 {
			r.doingAction = false
		}
	}()

	_, err := r.ApplyFilters("", args)
	return err
}

// DoAll calls every handler with the identical argument list, ignoring
// accepted argument counts. It backs the hook that fires on every hook.
func (r *Registry) DoAll(args []any) error {
	if len(r.levels) == 0 {
		return nil
	}

	f := r.push(false)
	defer r.pop()

	for p, ok := f.at(); ok; p, ok = f.advance() {
		lvl, exists := r.levels[p]
		if !exists {
			continue
		}

		for _, cb := range slices.Clone(lvl.entries) {
			if _, err := cb.Handler.Call(slices.Clone(args)); err != nil {
				return &HandlerError{Hook: r.name, Priority: p, HandlerID: cb.ID, Err: err}
			}
		}
	}
	return nil
}

// CurrentPriority returns the priority the innermost running pass is at.
func (r *Registry) CurrentPriority() (int, bool) {
	if len(r.frames) == 0 {
		return 0, false
	}
	return r.frames[len(r.frames)-1].at()
}

// Nesting returns the number of passes currently running.
func (r *Registry) Nesting() int {
	return len(r.frames)
}

// DoingAction reports whether an action pass is running on this hook.
func (r *Registry) DoingAction() bool {
	return r.doingAction
}

// Priorities returns the registered priorities in ascending order.
func (r *Registry) Priorities() []int {
	return slices.Clone(r.priorities)
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	n := 0
	for _, lvl := range r.levels {
		n += lvl.len()
	}
	return n
}

// Levels returns a copy of the callback table in execution order.
func (r *Registry) Levels() []Level {
	if len(r.priorities) == 0 {
		return nil
	}

	result := make([]Level, 0, len(r.priorities))
	for _, p := range r.priorities {
		result = append(result, Level{
			Priority:  p,
			Callbacks: slices.Clone(r.levels[p].entries),
		})
	}
	return result
}

func (r *Registry) push(tracked bool) *frame {
	f := newFrame(r.priorities, tracked)
	r.frames = append(r.frames, f)
	return f
}

func (r *Registry) pop() {
	n := len(r.frames) - 1
	r.frames[n] = nil
	r.frames = r.frames[:n]
}
