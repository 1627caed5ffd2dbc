// Package menu implements the Menu driver: a keyed set of Options, a
// menu-level HookManager, and a dispatcher with interactive Run and
// headless RunHeadless entry points.
package menu

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.actionmenu.dev/internal/adapter"
	"go.actionmenu.dev/internal/core"
	amerrors "go.actionmenu.dev/internal/errors"
	"go.actionmenu.dev/internal/metrics"
	"go.actionmenu.dev/internal/option"
)

// Counter is auxiliary bottom-bar display state the menu owns but
// does not interpret; it is handed to the display adapter verbatim.
type Counter struct {
	Label   string
	Current int
	Total   int
}

// Menu holds a keyed set of Options, a back option, a menu-level
// HookManager, and dispatch configuration flags.
type Menu struct {
	Title string

	backOption *option.Option
	options    map[string]*option.Option // keyed by uppercased Key
	order      []string                  // insertion order, uppercased keys

	hooks *core.HookManager
	log   *slog.Logger

	display adapter.Display
	input   adapter.Input

	RunHooksOnBack         bool
	ContinueOnErrorPrompt  bool
	NeverConfirm           bool

	Toggles  map[string]bool
	Counters map[string]*Counter
}

// New builds an empty Menu. display/input may be nil, in which case
// adapter.NopDisplay / a StaticInput with no keys (every key prompt
// returns ErrInterrupted and every confirmation answers no) are used — enough to exercise headless
// dispatch and tests without a UI.
func New(title string, display adapter.Display, input adapter.Input, logger *slog.Logger) *Menu {
	if logger == nil {
		logger = slog.Default()
	}
	if display == nil {
		display = adapter.NopDisplay{}
	}
	if input == nil {
		input = &adapter.StaticInput{}
	}
	back, _ := option.New("0", "Back", option.Callable(func(ctx context.Context, args ...any) (any, error) {
		return nil, nil
	}), nil, logger)

	return &Menu{
		Title:                 title,
		backOption:            back,
		options:               make(map[string]*option.Option),
		hooks:                 core.NewHookManager(logger),
		log:                   logger,
		display:               display,
		input:                 input,
		ContinueOnErrorPrompt: true,
		Toggles:               make(map[string]bool),
		Counters:              make(map[string]*Counter),
	}
}

// Hooks returns the menu-level HookManager.
func (m *Menu) Hooks() *core.HookManager { return m.hooks }

func normalizeKey(key string) string { return strings.ToUpper(key) }

func (m *Menu) validateKey(key string) error {
	nk := normalizeKey(key)
	if nk == normalizeKey(m.backOption.Key) {
		return &amerrors.OptionAlreadyExistsError{Key: key}
	}
	if _, exists := m.options[nk]; exists {
		return &amerrors.OptionAlreadyExistsError{Key: key}
	}
	return nil
}

// AddOption registers act (a core.Action or option.Callable) under
// key, failing with OptionAlreadyExistsError on a case-insensitive
// collision with an existing option or the back option.
func (m *Menu) AddOption(key, description string, act any) (*option.Option, error) {
	if err := m.validateKey(key); err != nil {
		return nil, err
	}
	opt, err := option.New(key, description, act, nil, m.log)
	if err != nil {
		return nil, err
	}
	nk := normalizeKey(key)
	m.options[nk] = opt
	m.order = append(m.order, nk)
	return opt, nil
}

// AddSubmenu registers sub as an option under key, wrapped in a
// SubmenuAction so the submenu's Run is invoked without capturing a
// closure that could outlive the submenu.
func (m *Menu) AddSubmenu(key, description string, sub *Menu) (*option.Option, error) {
	if sub == nil {
		return nil, amerrors.ErrNotAMenu
	}
	return m.AddOption(key, description, NewSubmenuAction(description, sub))
}

// UpdateBackOption replaces the back option.
func (m *Menu) UpdateBackOption(key, description string, act any) error {
	if _, exists := m.options[normalizeKey(key)]; exists {
		return &amerrors.OptionAlreadyExistsError{Key: key}
	}
	back, err := option.New(key, description, act, nil, m.log)
	if err != nil {
		return err
	}
	m.backOption = back
	return nil
}

// AddToggle registers a piece of bottom-bar toggle state under key.
func (m *Menu) AddToggle(key, label string, state bool) error {
	nk := normalizeKey(key)
	if _, exists := m.options[nk]; exists {
		return &amerrors.OptionAlreadyExistsError{Key: key}
	}
	if _, exists := m.Toggles[nk]; exists {
		return &amerrors.OptionAlreadyExistsError{Key: key}
	}
	m.Toggles[nk] = state
	return nil
}

// UpdateToggle flips a previously registered toggle's state.
func (m *Menu) UpdateToggle(key string, state bool) {
	m.Toggles[normalizeKey(key)] = state
}

// AddCounter registers a piece of bottom-bar counter state under name.
func (m *Menu) AddCounter(name, label string, current, total int) {
	m.Counters[name] = &Counter{Label: label, Current: current, Total: total}
}

// UpdateCounter updates a previously registered counter's progress.
func (m *Menu) UpdateCounter(name string, current, total int) {
	c, ok := m.Counters[name]
	if !ok {
		return
	}
	c.Current = current
	c.Total = total
}

// GetOption resolves choice (case-insensitively) to a registered
// Option or the back option; nil if unrecognized.
func (m *Menu) GetOption(choice string) *option.Option {
	nk := normalizeKey(choice)
	if nk == normalizeKey(m.backOption.Key) {
		return m.backOption
	}
	return m.options[nk]
}

func (m *Menu) validKeys() []string {
	keys := make([]string, 0, len(m.order)+1)
	keys = append(keys, m.order...)
	keys = append(keys, normalizeKey(m.backOption.Key))
	return keys
}

func (m *Menu) entries() []adapter.Entry {
	entries := make([]adapter.Entry, 0, len(m.order))
	for _, k := range m.order {
		opt := m.options[k]
		entries = append(entries, adapter.Entry{Key: opt.Key, Description: opt.Description})
	}
	return entries
}

func (m *Menu) isBack(opt *option.Option) bool {
	return opt == m.backOption
}

func (m *Menu) shouldRun(opt *option.Option) (bool, error) {
	if !opt.Confirm || m.NeverConfirm {
		return true, nil
	}
	ok, err := m.input.Confirm(opt.ConfirmMessage)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (m *Menu) runSelected(ctx context.Context, opt *option.Option) (any, time.Duration, error) {
	start := time.Now()
	if opt.Spinner.Enabled {
		result, err := m.display.RenderSpinner(opt.Spinner.Message, opt.Spinner.Style, func() (any, error) {
			return opt.Invoke(ctx)
		})
		return result, time.Since(start), err
	}
	result, err := opt.Invoke(ctx)
	return result, time.Since(start), err
}

// dispatch runs one selected Option through the menu-level hook
// lifecycle (before → Option.Invoke [with its own lifecycle nested] →
// after|on_error). It returns (recovered-or-succeeded, error).
func (m *Menu) dispatch(ctx context.Context, opt *option.Option) (bool, error) {
	hctx := &core.Context{
		Name:   opt.Description,
		Option: opt,
		Kwargs: map[string]any{},
	}

	if err := m.hooks.Trigger(core.PhaseBefore, hctx); err != nil {
		return false, err
	}

	if hctx.Err != nil {
		// A menu-level before hook rejected this dispatch by setting
		// ctx.Err without itself raising; the option never runs.
		return m.dispatchErrorPath(hctx, opt)
	}

	result, duration, err := m.runSelected(ctx, opt)
	hctx.Duration = duration

	if err != nil {
		hctx.Err = err
		return m.dispatchErrorPath(hctx, opt)
	}

	hctx.Result = result
	if err := m.hooks.Trigger(core.PhaseAfter, hctx); err != nil {
		return false, err
	}
	metrics.MenuDispatch.WithLabelValues(opt.Key, "success").Inc()
	return true, nil
}

// dispatchErrorPath triggers on_error against hctx (whose Err is
// already set, either by runSelected or by a before hook) and, on
// recovery, the after phase, recording the matching MenuDispatch
// outcome in every case.
func (m *Menu) dispatchErrorPath(hctx *core.Context, opt *option.Option) (bool, error) {
	if hookErr := m.hooks.Trigger(core.PhaseOnError, hctx); hookErr != nil {
		metrics.MenuDispatch.WithLabelValues(opt.Key, "failed").Inc()
		return false, hookErr
	}
	if hctx.Recovered() {
		if err := m.hooks.Trigger(core.PhaseAfter, hctx); err != nil {
			metrics.MenuDispatch.WithLabelValues(opt.Key, "failed").Inc()
			return false, err
		}
		metrics.MenuDispatch.WithLabelValues(opt.Key, "recovered").Inc()
		return true, nil
	}
	metrics.MenuDispatch.WithLabelValues(opt.Key, "failed").Inc()
	return false, hctx.Err
}

// processAction drives one iteration of the interactive loop: prompt,
// resolve, confirm, dispatch. It returns false when the loop should
// exit (back selected, or EOF/interrupt).
func (m *Menu) processAction(ctx context.Context) bool {
	choice, err := m.input.PromptKey(m.validKeys())
	if err != nil {
		m.log.Info("interrupted; exiting menu", "menu", m.Title)
		return false
	}

	opt := m.GetOption(choice)
	if opt == nil {
		m.display.Print(fmt.Sprintf("Invalid option: %s", choice))
		return true
	}

	if m.isBack(opt) {
		m.log.Info("back selected; exiting menu", "menu", m.Title)
		if m.RunHooksOnBack {
			_, _ = m.dispatch(ctx, opt)
		}
		return false
	}

	shouldRun, err := m.shouldRun(opt)
	if err != nil {
		return false
	}
	if !shouldRun {
		m.log.Info("dispatch cancelled", "option", opt.Key)
		return true
	}

	_, err = m.dispatch(ctx, opt)
	if err != nil {
		m.display.Print(fmt.Sprintf("An error occurred while executing %s: %v", opt.Description, err))
		if m.NeverConfirm {
			return true
		}
		if m.ContinueOnErrorPrompt {
			cont, cerr := m.input.Confirm("An error occurred. Do you wish to continue?")
			if cerr != nil {
				return false
			}
			return cont
		}
		return false
	}
	return true
}

// Run drives the interactive loop: render → prompt → select →
// dispatch → repeat, until back is selected or the input adapter
// signals EOF/interrupt.
func (m *Menu) Run(ctx context.Context) {
	m.log.Info("running menu", "menu", m.Title)
	for {
		m.display.RenderTable(m.Title, m.entries())
		if !m.processAction(ctx) {
			break
		}
	}
	m.log.Info("exiting menu", "menu", m.Title)
}

// RunHeadless dispatches a single option by key without the render
// loop. A missing key, a confirmation abort, or an unrecovered
// dispatch error all raise MenuError.
func (m *Menu) RunHeadless(ctx context.Context, key string) (any, error) {
	opt := m.GetOption(key)
	if opt == nil {
		return nil, &amerrors.MenuError{Key: key, Cause: fmt.Errorf("no option registered for key %q", key)}
	}
	// The back option resolves to a regular Option (its action is a
	// no-op by default) and is dispatched like any other key here;
	// only the interactive loop in Run treats it as a sentinel to
	// exit on. This matches the original menu.py's run_headless,
	// which only short-circuits on an unrecognized key.

	shouldRun, err := m.shouldRun(opt)
	if err != nil {
		return nil, &amerrors.MenuError{Key: key, Cause: err}
	}
	if !shouldRun {
		return nil, &amerrors.MenuError{Key: key, Cause: fmt.Errorf("cancelled by confirmation")}
	}

	recoveredOrOK, err := m.dispatch(ctx, opt)
	if err != nil {
		return nil, &amerrors.MenuError{Key: key, Cause: err}
	}
	if !recoveredOrOK {
		return nil, &amerrors.MenuError{Key: key, Cause: fmt.Errorf("dispatch did not complete")}
	}
	return opt.Result(), nil
}
