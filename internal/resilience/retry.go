// Package resilience provides RetryHandler and CircuitBreaker: ordinary
// hooks that plug into any Action or Option's HookManager. Neither is
// part of the core engine.
package resilience

import (
	"context"
	"log/slog"
	"time"

	"go.actionmenu.dev/internal/core"
	"go.actionmenu.dev/internal/metrics"
)

// retryTarget is satisfied by action.LeafAction/ChainedAction/
// ActionGroup and option.Option. It is declared locally (rather than
// imported) so this package does not need to depend on either.
type retryTarget interface {
	InvokeBody(ctx context.Context, args ...any) (any, error)
}

// RetryHandler retries the failed target up to MaxRetries times,
// sleeping Delay (multiplied by Backoff after every attempt) between
// tries. Install it as an on_error hook on an Option or Action.
//
// On recovery it sets ctx.Result, clears ctx.Err, and returns nil —
// the enclosing lifecycle's after phase still runs exactly once,
// regardless of how many retries were needed. Each retry re-invokes
// the target's InvokeBody directly, bypassing the target's own before
// phase on every retry attempt.
type RetryHandler struct {
	MaxRetries int
	Delay      time.Duration
	Backoff    float64

	log *slog.Logger
}

// NewRetryHandler builds a RetryHandler. A nil logger falls back to
// slog.Default().
func NewRetryHandler(maxRetries int, delay time.Duration, backoff float64, logger *slog.Logger) *RetryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryHandler{MaxRetries: maxRetries, Delay: delay, Backoff: backoff, log: logger}
}

// OnError is the on_error Hook to register on the target's HookManager.
func (r *RetryHandler) OnError(ctx *core.Context) error {
	target := r.resolveTarget(ctx)
	if target == nil {
		// Nothing to retry against; leave ctx.Err as-is.
		return nil
	}

	name := ctx.Name
	lastErr := ctx.Err
	delay := r.Delay

	for attempt := 1; attempt <= r.MaxRetries; attempt++ {
		time.Sleep(delay)
		metrics.RetryAttempts.WithLabelValues(name).Inc()
		r.log.Info("retrying", "target", name, "attempt", attempt, "max_retries", r.MaxRetries, "delay", delay)

		result, err := target.InvokeBody(context.Background(), ctx.Args...)
		if err == nil {
			ctx.Result = result
			ctx.Err = nil
			metrics.RetryRecoveries.WithLabelValues(name).Inc()
			r.log.Info("retry recovered", "target", name, "attempt", attempt)
			return nil
		}
		lastErr = err
		delay = time.Duration(float64(delay) * r.Backoff)
	}

	r.log.Warn("retries exhausted", "target", name, "max_retries", r.MaxRetries, "error", lastErr)
	ctx.Err = lastErr
	return nil
}

// resolveTarget prefers ctx.Option, falling back to ctx.Action.
func (r *RetryHandler) resolveTarget(ctx *core.Context) retryTarget {
	if ctx.Option != nil {
		if t, ok := ctx.Option.(retryTarget); ok {
			return t
		}
	}
	if ctx.Action != nil {
		if t, ok := any(ctx.Action).(retryTarget); ok {
			return t
		}
	}
	return nil
}
