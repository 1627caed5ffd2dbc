package action

import (
	"context"
	"log/slog"
	"sync"

	"go.actionmenu.dev/internal/core"
	amerrors "go.actionmenu.dev/internal/errors"
	"go.actionmenu.dev/internal/metrics"
)

// ActionGroup runs its children concurrently and waits for every one
// to settle, collecting successes and failures independently. A
// child's failure never cancels its siblings: a sync.WaitGroup fans
// out over a fixed slice of work, with a mutex-guarded result
// collector.
type ActionGroup struct {
	base
	actions []core.Action

	mu      sync.Mutex
	results []ChildResult
	errs    []amerrors.ChildFailure
}

// ChildResult is one successful child outcome.
type ChildResult struct {
	Name   string
	Result any
}

// NewActionGroup builds an ActionGroup named name over actions, run in
// parallel.
func NewActionGroup(name string, actions []core.Action, hooks *core.HookManager, logger *slog.Logger) *ActionGroup {
	return &ActionGroup{base: newBase(name, hooks, logger), actions: actions}
}

// Results returns the successful (name, result) pairs collected by the
// most recent invocation.
func (g *ActionGroup) Results() []ChildResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ChildResult, len(g.results))
	copy(out, g.results)
	return out
}

// Errors returns the failing (name, error) pairs collected by the most
// recent invocation.
func (g *ActionGroup) Errors() []amerrors.ChildFailure {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]amerrors.ChildFailure, len(g.errs))
	copy(out, g.errs)
	return out
}

// Invoke runs every child concurrently through the standard lifecycle.
func (g *ActionGroup) Invoke(ctx context.Context, args ...any) (any, error) {
	return g.invoke(ctx, g, args, g.run)
}

func (g *ActionGroup) run(ctx context.Context, args ...any) (any, error) {
	g.mu.Lock()
	g.results = g.results[:0]
	g.errs = g.errs[:0]
	g.mu.Unlock()

	var wg sync.WaitGroup
	metrics.GroupChildrenInflight.WithLabelValues(g.name).Set(float64(len(g.actions)))
	defer metrics.GroupChildrenInflight.WithLabelValues(g.name).Set(0)

	for _, child := range g.actions {
		wg.Add(1)
		go func(child core.Action) {
			defer wg.Done()
			result, err := child.Invoke(ctx, args...)
			metrics.GroupChildrenInflight.WithLabelValues(g.name).Dec()
			g.mu.Lock()
			defer g.mu.Unlock()
			if err != nil {
				g.errs = append(g.errs, amerrors.ChildFailure{Name: child.Name(), Err: err})
				return
			}
			g.results = append(g.results, ChildResult{Name: child.Name(), Result: result})
		}(child)
	}
	wg.Wait()

	if len(g.errs) > 0 {
		failures := make([]amerrors.ChildFailure, len(g.errs))
		copy(failures, g.errs)
		return nil, &amerrors.AggregateError{Failures: failures}
	}
	return nil, nil
}

// InvokeBody runs the group's children without triggering the group's
// own hooks. See LeafAction.InvokeBody.
func (g *ActionGroup) InvokeBody(ctx context.Context, args ...any) (any, error) {
	return g.run(ctx, args...)
}

// DryRun recurses into every child without invoking any callable or
// firing any hook.
func (g *ActionGroup) DryRun(out func(string)) {
	out("[DRY RUN] ActionGroup '" + g.name + "' (parallel execution):")
	for _, child := range g.actions {
		if dr, ok := child.(interface{ DryRun(func(string)) }); ok {
			dr.DryRun(out)
		}
	}
}
