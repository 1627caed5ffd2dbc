package resilience

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"go.actionmenu.dev/internal/core"
	amerrors "go.actionmenu.dev/internal/errors"
	"go.actionmenu.dev/internal/metrics"
)

const extraCircuitDone = "actionmenu.circuit_done"

// CircuitBreaker wraps github.com/sony/gobreaker.TwoStepCircuitBreaker
// to back three collaborating hooks (before/on_error/after). The
// two-step form (Allow/done) is used instead of gobreaker's one-shot
// Execute because the guarded body must still run through the full
// before/on_error/after lifecycle rather than inside gobreaker's own
// closure.
type CircuitBreaker struct {
	Name string

	circuit *gobreaker.TwoStepCircuitBreaker
	log     *slog.Logger
}

// NewCircuitBreaker builds a CircuitBreaker named name that opens
// after maxFailures consecutive failures and stays open for
// resetTimeout before allowing a half-open trial request.
func NewCircuitBreaker(name string, maxFailures uint32, resetTimeout time.Duration, logger *slog.Logger) *CircuitBreaker {
	if logger == nil {
		logger = slog.Default()
	}
	cb := &CircuitBreaker{Name: name, log: logger}
	cb.circuit = gobreaker.NewTwoStepCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: resetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			if to == gobreaker.StateOpen {
				metrics.CircuitBreakerTrips.WithLabelValues(name).Inc()
			}
		},
	})
	return cb
}

// Before is the before Hook: it rejects the invocation by setting
// ctx.Err to a CircuitBreakerOpenError when the circuit is open,
// preventing the body from running. It does not return the error
// itself, since before hooks are logged and swallowed by the
// HookManager; ctx.Err is what the caller's lifecycle checks to skip
// the body and route into on_error.
func (cb *CircuitBreaker) Before(ctx *core.Context) error {
	done, err := cb.circuit.Allow()
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			ctx.Err = &amerrors.CircuitBreakerOpenError{Name: cb.Name, OpenUntil: time.Now()}
			return nil
		}
		return err
	}
	if ctx.Extra == nil {
		ctx.Extra = map[string]any{}
	}
	ctx.Extra[extraCircuitDone] = done
	return nil
}

// OnError is the on_error Hook: it reports a failure to gobreaker. It
// does not itself recover the error — ctx.Err is left untouched so the
// breaker never masks a real failure. Composition with RetryHandler
// relies on this: a RetryHandler on_error hook registered before this
// one clears ctx.Err on recovery, so this hook must check for Err's
// presence before counting.
func (cb *CircuitBreaker) OnError(ctx *core.Context) error {
	if ctx.Err == nil {
		// A preceding hook (typically RetryHandler) already recovered
		// this invocation; don't count it as a circuit failure.
		return nil
	}
	if done, ok := ctx.Extra[extraCircuitDone].(func(bool)); ok {
		done(false)
	}
	return nil
}

// After is the after Hook: it reports success to gobreaker.
func (cb *CircuitBreaker) After(ctx *core.Context) error {
	if done, ok := ctx.Extra[extraCircuitDone].(func(bool)); ok {
		done(true)
	}
	return nil
}
