package hook

import "slices"

// Defaults used by callers that do not pick a priority or argument count.
const (
	// DefaultPriority is the priority handlers usually register at.
	DefaultPriority = 10

	// DefaultAcceptedArgs passes only the filtered value (or first action arg).
	DefaultAcceptedArgs = 1
)

// AllHook is the name of the hook fired before every other hook on a Table.
const AllHook = "all"

// Callback is a registered handler entry.
type Callback struct {
	// ID is the handler identity within its priority level.
	ID string

	// Handler is the callable.
	Handler Handler

	// AcceptedArgs is the maximum number of arguments passed to Handler.
	AcceptedArgs int
}

// Level is a read-only view of one priority level.
type Level struct {
	Priority  int
	Callbacks []Callback
}

// PlainCallback is the plain form of a callback used to rebuild tables.
type PlainCallback struct {
	Handler      Handler
	AcceptedArgs int
}

// PlainHooks maps priority to the ordered callbacks registered at it.
type PlainHooks map[int][]PlainCallback

// level holds the callbacks of one priority in registration order.
type level struct {
	entries []Callback
	index   map[string]int
}

func newLevel() *level {
	return &level{index: make(map[string]int)}
}

// put inserts cb or overwrites the entry with the same ID in place.
func (l *level) put(cb Callback) {
	if i, ok := l.index[cb.ID]; ok {
		l.entries[i] = cb
		return
	}
	l.index[cb.ID] = len(l.entries)
	l.entries = append(l.entries, cb)
}

// remove deletes the entry with the given ID.
func (l *level) remove(id string) bool {
	i, ok := l.index[id]
	if !ok {
		return false
	}

	l.entries = slices.Delete(l.entries, i, i+1)
	delete(l.index, id)
	for j := i; j < len(l.entries); j++ {
		l.index[l.entries[j].ID] = j
	}
	return true
}

func (l *level) has(id string) bool {
	_, ok := l.index[id]
	return ok
}

func (l *level) len() int {
	return len(l.entries)
}
