// Package hook provides the filter/action dispatch core for plugins.
//
// A hook is a named extension point. Handlers are attached to a hook with a
// priority (lower runs earlier) and an accepted argument count, and the hook
// is later invoked either as a filter, where a value is threaded through every
// handler, or as an action, where handler results are discarded.
//
// The main components are:
//   - Registry: the callback table of a single hook and its dispatch engine
//   - Table: hook name to Registry mapping plus process-level bookkeeping
//   - Handler: the callable abstraction, with Func, Method, Closure and Named
//     variants that each derive a stable identity
//
// # Re-entrancy
//
// Handlers may register, remove or invoke handlers on any hook, including the
// hook currently running, from inside their own execution. Every invocation
// pushes an iteration frame holding a snapshot of the priority levels and a
// cursor into it. When the priority set changes while frames are active, each
// frame's cursor is repaired so iteration continues at the same logical
// position:
//
//   - levels added after the cursor run in the same pass
//   - levels added before the cursor wait for the next invocation
//   - levels removed after the cursor are skipped
//   - handlers added at the level being run only run on a later invocation
//
// Within a level, the handlers run are the ones present when the pass reached
// that level.
//
// Edge cases of the repair are observable. When the level being run is
// emptied and no lower level remains, the emptied level stays at the front of
// the snapshot and the pass continues with the next level. When a lower level
// does remain, the cursor is realigned onto the first level above the emptied
// one, which the pass then treats as visited; re-adding a handler at the
// emptied priority during the same pass moves the cursor back onto it.
//
// # Concurrency
//
// Registry is not safe for concurrent use; it is designed for a single
// goroutine with cooperative re-entrancy, and taking a lock around dispatch
// would deadlock as soon as a handler re-entered. Table guards only its name
// map and counters.
//
// Example usage:
//
//	table := hook.NewTable()
//	_ = table.AddFilter("the_title", hook.Named("trim", trim), 10, 1)
//	title, err := table.ApplyFilters("the_title", "  Hello  ")
package hook
