package core

import "context"

// Action is an invocable unit with a lifecycle. LeafAction wraps a
// single callable; ChainedAction and ActionGroup compose children; a
// menu's SubmenuAction wraps another Menu's Run method. Every variant
// is itself callable with the same Invoke signature, so compositions
// nest uniformly.
type Action interface {
	// Name returns the action's identifying name, used in log lines,
	// metrics labels, and Context.Name.
	Name() string

	// Hooks returns the action's own HookManager.
	Hooks() *HookManager

	// Invoke runs the action's lifecycle once and returns its result
	// or error.
	Invoke(ctx context.Context, args ...any) (any, error)
}
