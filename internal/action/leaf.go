package action

import (
	"context"
	"log/slog"

	"go.actionmenu.dev/internal/core"
)

// LeafAction wraps a single callable. Rollback, when set, is not run
// by LeafAction itself — it is invoked by an enclosing ChainedAction
// when a later sibling fails.
type LeafAction struct {
	base
	fn       Fn
	rollback Fn
}

// NewLeafAction builds a LeafAction named name around fn. hooks may be
// nil, in which case a fresh HookManager is created.
func NewLeafAction(name string, fn Fn, hooks *core.HookManager, logger *slog.Logger) *LeafAction {
	return &LeafAction{base: newBase(name, hooks, logger), fn: fn}
}

// WithRollback attaches a compensating callable, invoked by an
// enclosing ChainedAction on failure of a later step.
func (l *LeafAction) WithRollback(rollback Fn) *LeafAction {
	l.rollback = rollback
	return l
}

// HasRollback reports whether a rollback callable was attached.
func (l *LeafAction) HasRollback() bool {
	return l.rollback != nil
}

// Rollback runs the attached rollback callable.
func (l *LeafAction) Rollback(ctx context.Context, args ...any) error {
	if l.rollback == nil {
		return nil
	}
	_, err := l.rollback(ctx, args...)
	return err
}

// Awaiter is satisfied by a callable's return value when the
// underlying work is asynchronous (e.g. it kicked off a goroutine and
// handed back a future). Invoke blocks on Await() to completion rather
// than treating the Awaiter itself as the result, giving synchronous
// and asynchronous callables a uniform return value.
type Awaiter interface {
	Await() (any, error)
}

// Invoke runs fn through the standard lifecycle. If fn returns an
// Awaiter, Invoke blocks on it to completion before the result is
// captured into the context: a synchronous caller blocks on the same
// channel an async caller would merely receive from, since Go has a
// single runtime scheduler regardless of caller context.
func (l *LeafAction) Invoke(ctx context.Context, args ...any) (any, error) {
	body := func(ctx context.Context, args ...any) (any, error) {
		result, err := l.fn(ctx, args...)
		if err != nil {
			return nil, err
		}
		if aw, ok := result.(Awaiter); ok {
			return aw.Await()
		}
		return result, nil
	}
	return l.invoke(ctx, l, args, body)
}

// InvokeBody runs fn (through the async bridge) without triggering
// any of the leaf's own hooks. Used by a RetryHandler on_error hook to
// re-invoke the failed target directly, bypassing its own before
// phase on retry.
func (l *LeafAction) InvokeBody(ctx context.Context, args ...any) (any, error) {
	result, err := l.fn(ctx, args...)
	if err != nil {
		return nil, err
	}
	if aw, ok := result.(Awaiter); ok {
		return aw.Await()
	}
	return result, nil
}

// DryRun prints what this leaf would do, without invoking fn or firing
// any hook.
func (l *LeafAction) DryRun(out func(string)) {
	out("[DRY RUN] Would run: " + l.name)
}
