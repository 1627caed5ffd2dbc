// Package action implements the Action hierarchy: LeafAction (wraps a
// single callable), ChainedAction (sequential composite with
// rollback), and ActionGroup (parallel composite with per-child error
// isolation). All three satisfy core.Action.
package action

import (
	"context"
	"log/slog"
	"time"

	"go.actionmenu.dev/internal/core"
	"go.actionmenu.dev/internal/metrics"
)

// Fn is the signature every LeafAction callable and ChainedAction/
// ActionGroup body conforms to.
type Fn func(ctx context.Context, args ...any) (any, error)

// base implements the timing and hook plumbing shared by every Action
// variant. Concrete types embed it and supply their own body.
type base struct {
	name  string
	hooks *core.HookManager
	log   *slog.Logger
}

func newBase(name string, hooks *core.HookManager, logger *slog.Logger) base {
	if logger == nil {
		logger = slog.Default()
	}
	if hooks == nil {
		hooks = core.NewHookManager(logger)
	}
	return base{name: name, hooks: hooks, log: logger}
}

func (b *base) Name() string             { return b.name }
func (b *base) Hooks() *core.HookManager { return b.hooks }

// invoke runs the four-phase lifecycle (before, body, on_error/after,
// on_teardown) around body, against the owning Action self (so
// ctx.Action is populated correctly by composites wrapping base).
func (b *base) invoke(ctx context.Context, self core.Action, args []any, body Fn) (any, error) {
	start := time.Now()
	hctx := &core.Context{
		Name:   b.name,
		Args:   args,
		Kwargs: map[string]any{},
		Action: self,
	}

	outcome := "success"
	defer func() {
		metrics.ActionDuration.WithLabelValues(b.name, outcome).Observe(hctx.Duration.Seconds())
		metrics.ActionInvocations.WithLabelValues(b.name, outcome).Inc()
		_ = b.hooks.Trigger(core.PhaseOnTeardown, hctx)
	}()

	if err := b.hooks.Trigger(core.PhaseBefore, hctx); err != nil {
		// before/on_teardown hooks never propagate per spec; Trigger
		// only returns an error here for ErrUnknownPhase, which is a
		// programming error in the engine itself.
		hctx.Duration = time.Since(start)
		return nil, err
	}

	if hctx.Err != nil {
		// A before hook (e.g. a CircuitBreaker guard) rejected this
		// invocation by setting ctx.Err without itself raising; the
		// body never runs, and the rejection is routed through
		// on_error exactly as a body failure would be.
		hctx.Duration = time.Since(start)
		result, err, o := b.runErrorPath(hctx)
		outcome = o
		return result, err
	}

	result, err := body(ctx, args...)
	hctx.Duration = time.Since(start)

	if err != nil {
		hctx.Err = err
		result, err, o := b.runErrorPath(hctx)
		outcome = o
		return result, err
	}

	hctx.Result = result
	if err := b.hooks.Trigger(core.PhaseAfter, hctx); err != nil {
		return nil, err
	}
	return hctx.Result, nil
}

// runErrorPath triggers on_error against hctx (whose Err is already
// set, either by the body or by a before hook) and, on recovery, the
// after phase. It returns the result, the error to surface (nil on
// recovery), and the outcome label for metrics.
func (b *base) runErrorPath(hctx *core.Context) (any, error, string) {
	if hookErr := b.hooks.Trigger(core.PhaseOnError, hctx); hookErr != nil {
		return nil, hookErr, "failed"
	}
	if hctx.Recovered() {
		b.log.Info("recovery hook handled error", "action", b.name)
		if err := b.hooks.Trigger(core.PhaseAfter, hctx); err != nil {
			return nil, err, "failed"
		}
		return hctx.Result, nil, "recovered"
	}
	return nil, hctx.Err, "failed"
}
