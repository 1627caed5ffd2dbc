package core

import (
	"fmt"
	"log/slog"

	amerrors "go.actionmenu.dev/internal/errors"
	"go.actionmenu.dev/internal/metrics"
)

// Hook is a lifecycle callback. It receives the invocation's Context
// and may mutate it (setting Result, clearing Err to signal recovery,
// adding Extra keys). A non-nil return is treated as the hook raising.
type Hook func(*Context) error

// HookManager owns four ordered hook sequences, one per Phase, and
// triggers them in registration order. Hook failures in before/after/
// on_teardown are logged and swallowed; a failure in on_error is
// chained onto the context's existing error and re-raised immediately.
type HookManager struct {
	hooks map[Phase][]Hook
	log   *slog.Logger
}

// NewHookManager returns an empty HookManager. A nil logger falls back
// to slog.Default().
func NewHookManager(logger *slog.Logger) *HookManager {
	if logger == nil {
		logger = slog.Default()
	}
	hooks := make(map[Phase][]Hook, len(allPhases))
	for _, p := range allPhases {
		hooks[p] = nil
	}
	return &HookManager{hooks: hooks, log: logger}
}

func (m *HookManager) isKnownPhase(phase Phase) bool {
	_, ok := m.hooks[phase]
	return ok
}

// Register appends a hook for the given phase. It fails with
// ErrUnknownPhase if the phase is not one of the four recognized
// values.
func (m *HookManager) Register(phase Phase, hook Hook) error {
	if !m.isKnownPhase(phase) {
		return fmt.Errorf("%w: %q", amerrors.ErrUnknownPhase, phase)
	}
	m.hooks[phase] = append(m.hooks[phase], hook)
	return nil
}

// Clear empties one phase's hooks, or all four when phase is empty.
func (m *HookManager) Clear(phase Phase) {
	if phase == "" {
		for _, p := range allPhases {
			m.hooks[p] = nil
		}
		return
	}
	if m.isKnownPhase(phase) {
		m.hooks[phase] = nil
	}
}

// Len returns how many hooks are registered for phase, for tests and
// debug logging.
func (m *HookManager) Len(phase Phase) int {
	return len(m.hooks[phase])
}

// Trigger invokes every hook registered for phase, in registration
// order, against ctx.
//
// For PhaseBefore, PhaseAfter, and PhaseOnTeardown, a hook that
// returns an error is logged at warning level and skipped; Trigger
// itself never returns that error.
//
// For PhaseOnError, a hook that returns an error is chained onto
// ctx.Err (via fmt.Errorf's %w wrapping) and returned immediately;
// remaining on_error hooks are skipped. A hook that returns nil and
// clears ctx.Err is interpreted by the caller as recovery.
func (m *HookManager) Trigger(phase Phase, ctx *Context) error {
	if !m.isKnownPhase(phase) {
		return fmt.Errorf("%w: %q", amerrors.ErrUnknownPhase, phase)
	}

	for i, hook := range m.hooks[phase] {
		if err := hook(ctx); err != nil {
			name := ctx.Name
			if name == "" {
				name = "<unnamed>"
			}

			if phase == PhaseOnError {
				m.log.Warn("hook raised during on_error; re-raising",
					"phase", phase, "index", i, "name", name, "hook_error", err)
				metrics.HookFailures.WithLabelValues(string(phase)).Inc()
				return fmt.Errorf("%w (hook error: %v)", ctx.Err, err)
			}

			m.log.Warn("hook raised; swallowed",
				"phase", phase, "index", i, "name", name, "hook_error", err)
			metrics.HookFailures.WithLabelValues(string(phase)).Inc()
			continue
		}
		m.log.Debug("hook completed", "phase", phase, "index", i, "name", ctx.Name)
	}
	return nil
}
