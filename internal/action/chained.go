package action

import (
	"context"
	"log/slog"

	"go.actionmenu.dev/internal/core"
	"go.actionmenu.dev/internal/metrics"
)

// ChainedAction runs a sequence of children, one at a time. On a
// child's failure it rolls back every completed sibling (in reverse
// order) that is a *LeafAction with a rollback attached, then
// re-raises the original failure.
type ChainedAction struct {
	base
	actions []core.Action
}

// NewChainedAction builds a ChainedAction named name over actions, run
// in order.
func NewChainedAction(name string, actions []core.Action, hooks *core.HookManager, logger *slog.Logger) *ChainedAction {
	return &ChainedAction{base: newBase(name, hooks, logger), actions: actions}
}

// Invoke runs every child in sequence through the standard lifecycle.
// An empty chain succeeds immediately with a nil result.
func (c *ChainedAction) Invoke(ctx context.Context, args ...any) (any, error) {
	return c.invoke(ctx, c, args, c.run)
}

func (c *ChainedAction) run(ctx context.Context, args ...any) (any, error) {
	completed := make([]core.Action, 0, len(c.actions))
	for _, child := range c.actions {
		if _, err := child.Invoke(ctx, args...); err != nil {
			c.rollback(ctx, completed, args)
			return nil, err
		}
		completed = append(completed, child)
	}
	return nil, nil
}

// rollback pops completed in reverse order, rolling back every
// *LeafAction that has a rollback attached. A rollback that itself
// fails is logged and rollback continues with the remaining children.
func (c *ChainedAction) rollback(ctx context.Context, completed []core.Action, args []any) {
	for i := len(completed) - 1; i >= 0; i-- {
		child := completed[i]
		leaf, ok := child.(*LeafAction)
		if !ok || !leaf.HasRollback() {
			continue
		}
		c.log.Info("rolling back", "chain", c.name, "step", leaf.Name())
		if err := leaf.Rollback(ctx, args...); err != nil {
			c.log.Warn("rollback failed", "chain", c.name, "step", leaf.Name(), "error", err)
			metrics.ChainRollbackFailures.WithLabelValues(c.name).Inc()
		}
	}
}

// InvokeBody runs the chain's children without triggering the chain's
// own hooks. See LeafAction.InvokeBody.
func (c *ChainedAction) InvokeBody(ctx context.Context, args ...any) (any, error) {
	return c.run(ctx, args...)
}

// DryRun recurses into every child without invoking any callable or
// firing any hook.
func (c *ChainedAction) DryRun(out func(string)) {
	out("[DRY RUN] ChainedAction '" + c.name + "' with steps:")
	for _, child := range c.actions {
		if dr, ok := child.(interface{ DryRun(func(string)) }); ok {
			dr.DryRun(out)
		}
	}
}
