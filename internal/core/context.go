// Package core defines the types shared by every layer of the
// action-menu engine: the hook Phase enum, the per-invocation Context,
// the HookManager, and the Action contract that LeafAction,
// ChainedAction, ActionGroup, and SubmenuAction all implement.
//
// Context.Option is typed as `any` (rather than *option.Option) so that
// this package does not import the option package, which in turn
// depends on core. Callers that need the concrete Option type assert
// it themselves; unknown callers should just ignore the field.
package core

import "time"

// Phase identifies one of the four lifecycle phases a HookManager
// triggers hooks for.
type Phase string

const (
	PhaseBefore     Phase = "before"
	PhaseAfter      Phase = "after"
	PhaseOnError    Phase = "on_error"
	PhaseOnTeardown Phase = "on_teardown"
)

// allPhases lists every recognized phase, used to build a fresh
// HookManager and to validate phase names.
var allPhases = [...]Phase{PhaseBefore, PhaseAfter, PhaseOnError, PhaseOnTeardown}

// Context is the mutable record threaded through one invocation's
// lifecycle. A nil Err after an on_error trigger signals recovery: the
// caller should treat the invocation as successful and return Result.
type Context struct {
	Name     string
	Args     []any
	Kwargs   map[string]any
	Result   any
	Err      error
	Duration time.Duration

	// Action is the invoked Action, if any.
	Action Action

	// Option holds a *option.Option back-reference when the
	// invocation was driven through an Option. Left untyped to avoid
	// an import cycle; see the package doc comment.
	Option any

	// Extra carries additional keys hooks may set or read. Unknown
	// keys here must be ignored by consumers.
	Extra map[string]any
}

// Recovered reports whether the context currently holds no error,
// i.e. either the body succeeded or a recovery hook cleared Err.
func (c *Context) Recovered() bool {
	return c.Err == nil
}
