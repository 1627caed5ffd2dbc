// Package option implements the selectable menu entry: a key,
// description, and UI metadata wrapped around an Action (or a raw
// callable, collapsed into a synthetic action.LeafAction at
// construction so the rest of the engine only ever deals with
// core.Action).
package option

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.actionmenu.dev/internal/action"
	"go.actionmenu.dev/internal/core"
	amerrors "go.actionmenu.dev/internal/errors"
	"go.actionmenu.dev/internal/metrics"
)

// Spinner carries UI-only spinner parameters. The core engine treats
// every field as opaque and passes it through to the display adapter
// unexamined.
type Spinner struct {
	Enabled bool
	Message string
	Style   string
}

// Callable is a raw function an Option may wrap directly, collapsed
// into a LeafAction at construction.
type Callable func(ctx context.Context, args ...any) (any, error)

// Option is a selectable menu entry: a key, description, confirmation
// prompt, spinner parameters, its own HookManager, and the action it
// delegates to.
type Option struct {
	Key             string
	Description     string
	Confirm         bool
	ConfirmMessage  string
	Spinner         Spinner

	action core.Action
	hooks  *core.HookManager
	log    *slog.Logger

	mu     sync.Mutex
	result any
}

// New builds an Option around act, which must be a core.Action, a
// Callable, or a plain func with Callable's signature (the last two
// are wrapped into a synthetic action.LeafAction). Any other type
// returns ErrInvalidAction.
func New(key, description string, act any, hooks *core.HookManager, logger *slog.Logger) (*Option, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if hooks == nil {
		hooks = core.NewHookManager(logger)
	}

	wrapped, err := wrapAction(description, act, logger)
	if err != nil {
		return nil, err
	}

	return &Option{
		Key:            key,
		Description:    description,
		ConfirmMessage: "Are you sure?",
		action:         wrapped,
		hooks:          hooks,
		log:            logger,
	}, nil
}

func wrapAction(name string, act any, logger *slog.Logger) (core.Action, error) {
	switch v := act.(type) {
	case core.Action:
		return v, nil
	case Callable:
		return action.NewLeafAction(name, action.Fn(v), nil, logger), nil
	case func(context.Context, ...any) (any, error):
		return action.NewLeafAction(name, action.Fn(v), nil, logger), nil
	default:
		return nil, fmt.Errorf("%w: %T", amerrors.ErrInvalidAction, act)
	}
}

// Action returns the wrapped action.
func (o *Option) Action() core.Action { return o.action }

// Hooks returns the Option's own HookManager.
func (o *Option) Hooks() *core.HookManager { return o.hooks }

// Result returns the cached result of the most recent invocation.
func (o *Option) Result() any {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

func (o *Option) setResult(result any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.result = result
}

// Invoke runs the Option's own four-phase lifecycle (before/after/
// on_error/on_teardown on the Option's HookManager, with its own
// timer) and delegates the body to the wrapped action. The result is
// cached for later retrieval via Result.
func (o *Option) Invoke(ctx context.Context, args ...any) (any, error) {
	start := time.Now()
	hctx := &core.Context{
		Name:   o.Description,
		Args:   args,
		Kwargs: map[string]any{},
		Option: o,
	}

	outcome := "success"
	defer func() {
		metrics.ActionDuration.WithLabelValues("option:"+o.Key, outcome).Observe(hctx.Duration.Seconds())
		metrics.ActionInvocations.WithLabelValues("option:"+o.Key, outcome).Inc()
		_ = o.hooks.Trigger(core.PhaseOnTeardown, hctx)
	}()

	if err := o.hooks.Trigger(core.PhaseBefore, hctx); err != nil {
		hctx.Duration = time.Since(start)
		return nil, err
	}

	if hctx.Err != nil {
		// A before hook rejected this invocation by setting ctx.Err
		// without itself raising; the wrapped action never runs.
		hctx.Duration = time.Since(start)
		result, err, o2 := o.runErrorPath(hctx)
		outcome = o2
		return result, err
	}

	result, err := o.action.Invoke(ctx, args...)
	hctx.Duration = time.Since(start)

	if err != nil {
		hctx.Err = err
		result, err, o2 := o.runErrorPath(hctx)
		outcome = o2
		return result, err
	}

	hctx.Result = result
	o.setResult(result)
	if err := o.hooks.Trigger(core.PhaseAfter, hctx); err != nil {
		return nil, err
	}
	return o.Result(), nil
}

// runErrorPath triggers on_error against hctx (whose Err is already
// set, either by the wrapped action or by a before hook) and, on
// recovery, the after phase. It returns the result, the error to
// surface (nil on recovery), and the outcome label for metrics.
func (o *Option) runErrorPath(hctx *core.Context) (any, error, string) {
	if hookErr := o.hooks.Trigger(core.PhaseOnError, hctx); hookErr != nil {
		return nil, hookErr, "failed"
	}
	if hctx.Recovered() {
		o.log.Info("recovery hook handled error", "option", o.Key)
		o.setResult(hctx.Result)
		if err := o.hooks.Trigger(core.PhaseAfter, hctx); err != nil {
			return nil, err, "failed"
		}
		return o.Result(), nil, "recovered"
	}
	return nil, hctx.Err, "failed"
}

// InvokeBody runs the wrapped action directly, without triggering the
// Option's own hooks. Used by a RetryHandler on_error hook to
// re-invoke the failed target, bypassing the Option's own before
// phase on retry. The wrapped action's own lifecycle still runs in
// full.
func (o *Option) InvokeBody(ctx context.Context, args ...any) (any, error) {
	result, err := o.action.Invoke(ctx, args...)
	if err == nil {
		o.setResult(result)
	}
	return result, err
}

// DryRun prints the description and, for composite actions, recurses
// into children without invoking any callable or firing any hook.
func (o *Option) DryRun(out func(string)) {
	out(fmt.Sprintf("[DRY RUN] Option '%s' would run: %s", o.Key, o.Description))
	if dr, ok := o.action.(interface{ DryRun(func(string)) }); ok {
		dr.DryRun(out)
	}
}
