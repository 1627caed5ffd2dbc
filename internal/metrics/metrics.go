// Package metrics exposes prometheus instrumentation for the
// action-menu engine: action invocations, hook failures, chain
// rollbacks, group fan-out, circuit breaker state, and menu dispatch.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActionInvocations tracks total action invocations by outcome:
	// success, failed, or recovered.
	ActionInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "actionmenu",
			Subsystem: "action",
			Name:      "invocations_total",
			Help:      "Total action invocations by outcome",
		},
		[]string{"action", "outcome"},
	)

	// ActionDuration tracks how long an action invocation took.
	ActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "actionmenu",
			Subsystem: "action",
			Name:      "duration_seconds",
			Help:      "Time to complete an action invocation",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"action", "outcome"},
	)

	// HookFailures tracks hooks that raised inside HookManager.Trigger:
	// swallowed before/after/on_teardown failures and re-raised
	// on_error failures alike.
	HookFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "actionmenu",
			Subsystem: "hook",
			Name:      "failures_total",
			Help:      "Hook invocations that raised, by phase",
		},
		[]string{"phase"},
	)

	// ChainRollbackFailures tracks rollback callables that themselves
	// raised while a ChainedAction was unwinding.
	ChainRollbackFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "actionmenu",
			Subsystem: "chain",
			Name:      "rollback_failures_total",
			Help:      "Rollback callables that raised during chain unwind",
		},
		[]string{"chain"},
	)

	// GroupChildrenInflight tracks live ActionGroup children.
	GroupChildrenInflight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "actionmenu",
			Subsystem: "group",
			Name:      "children_inflight",
			Help:      "Number of ActionGroup children currently executing",
		},
		[]string{"group"},
	)

	// RetryAttempts tracks retry attempts made by a RetryHandler hook.
	RetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "actionmenu",
			Subsystem: "retry",
			Name:      "attempts_total",
			Help:      "Retry attempts made by a RetryHandler on_error hook",
		},
		[]string{"target"},
	)

	// RetryRecoveries tracks successful retry recoveries.
	RetryRecoveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "actionmenu",
			Subsystem: "retry",
			Name:      "recoveries_total",
			Help:      "Retries that ultimately recovered the invocation",
		},
		[]string{"target"},
	)

	// CircuitBreakerState tracks the current gobreaker state as a
	// number: 0=closed, 1=half-open, 2=open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "actionmenu",
			Subsystem: "circuit_breaker",
			Name:      "state",
			Help:      "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerTrips tracks transitions into the open state.
	CircuitBreakerTrips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "actionmenu",
			Subsystem: "circuit_breaker",
			Name:      "trips_total",
			Help:      "Total transitions of the circuit breaker into the open state",
		},
		[]string{"name"},
	)

	// MenuDispatch tracks menu dispatch outcomes by option key.
	MenuDispatch = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "actionmenu",
			Subsystem: "menu",
			Name:      "dispatch_total",
			Help:      "Total menu dispatches by option key and outcome",
		},
		[]string{"key", "outcome"},
	)
)
