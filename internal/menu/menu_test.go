package menu

import (
	"context"
	"errors"
	"testing"

	"go.actionmenu.dev/internal/adapter"
	amerrors "go.actionmenu.dev/internal/errors"
	"go.actionmenu.dev/internal/option"
)

func TestMenu_AddOption_DuplicateKeyFails(t *testing.T) {
	m := New("test", nil, nil, nil)
	if _, err := m.AddOption("A", "first", option.Callable(noop)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := m.AddOption("a", "second", option.Callable(noop))
	var dup *amerrors.OptionAlreadyExistsError
	if !errors.As(err, &dup) {
		t.Fatalf("expected OptionAlreadyExistsError for case-insensitive collision, got %v", err)
	}
}

func TestMenu_AddOption_CollidesWithBack(t *testing.T) {
	m := New("test", nil, nil, nil)
	_, err := m.AddOption("0", "fake back", option.Callable(noop))
	var dup *amerrors.OptionAlreadyExistsError
	if !errors.As(err, &dup) {
		t.Fatalf("expected OptionAlreadyExistsError, got %v", err)
	}
}

func TestMenu_RunHeadless_UnknownKeyFails(t *testing.T) {
	m := New("test", nil, nil, nil)
	_, err := m.RunHeadless(context.Background(), "Z")
	var menuErr *amerrors.MenuError
	if !errors.As(err, &menuErr) {
		t.Fatalf("expected MenuError, got %v", err)
	}
}

func TestMenu_RunHeadless_DispatchesRegisteredOption(t *testing.T) {
	m := New("test", nil, nil, nil)
	_, _ = m.AddOption("A", "greet", option.Callable(func(ctx context.Context, args ...any) (any, error) {
		return "hi", nil
	}))

	result, err := m.RunHeadless(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "hi" {
		t.Fatalf("result = %v, want hi", result)
	}
}

func TestMenu_RunHeadless_BackKeyDispatchesAsRegularOption(t *testing.T) {
	m := New("test", nil, nil, nil)
	// The back option's default action is a no-op returning (nil, nil);
	// RunHeadless must dispatch it like any other key rather than
	// special-casing it.
	result, err := m.RunHeadless(context.Background(), "0")
	if err != nil {
		t.Fatalf("unexpected error dispatching back headlessly: %v", err)
	}
	if result != nil {
		t.Fatalf("result = %v, want nil", result)
	}
}

func TestMenu_RunHeadless_FailurePropagatesAsMenuError(t *testing.T) {
	m := New("test", nil, nil, nil)
	_, _ = m.AddOption("A", "fails", option.Callable(func(ctx context.Context, args ...any) (any, error) {
		return nil, errors.New("downstream broke")
	}))

	_, err := m.RunHeadless(context.Background(), "A")
	var menuErr *amerrors.MenuError
	if !errors.As(err, &menuErr) {
		t.Fatalf("expected MenuError, got %v", err)
	}
}

func TestMenu_RunHeadless_UnrecoveredErrorFails(t *testing.T) {
	m := New("test", nil, nil, nil)
	_, _ = m.AddOption("A", "flaky", option.Callable(func(ctx context.Context, args ...any) (any, error) {
		return nil, errors.New("transient")
	}))

	_, err := m.RunHeadless(context.Background(), "A")
	if err == nil {
		t.Fatal("expected unrecovered failure without a recovery hook")
	}
}

func TestMenu_GetOption_CaseInsensitive(t *testing.T) {
	m := New("test", nil, nil, nil)
	_, _ = m.AddOption("A", "greet", option.Callable(noop))
	if m.GetOption("a") == nil {
		t.Fatal("expected lowercase lookup to resolve the uppercase-registered key")
	}
}

func TestMenu_Run_ExitsOnInterrupt(t *testing.T) {
	m := New("test", adapter.NopDisplay{}, &adapter.StaticInput{}, nil)
	_, _ = m.AddOption("A", "greet", option.Callable(noop))
	// StaticInput with no queued keys returns ErrInterrupted immediately;
	// Run must exit cleanly rather than loop forever.
	m.Run(context.Background())
}

func TestMenu_AddToggleAndCounter(t *testing.T) {
	m := New("test", nil, nil, nil)
	if err := m.AddToggle("T", "verbose", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.UpdateToggle("t", true)
	if !m.Toggles["T"] {
		t.Fatal("expected toggle to be updated")
	}

	m.AddCounter("progress", "files", 0, 10)
	m.UpdateCounter("progress", 5, 10)
	if m.Counters["progress"].Current != 5 {
		t.Fatalf("counter current = %d, want 5", m.Counters["progress"].Current)
	}
}

func noop(ctx context.Context, args ...any) (any, error) {
	return nil, nil
}
