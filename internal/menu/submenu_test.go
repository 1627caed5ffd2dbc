package menu

import (
	"context"
	"testing"

	"go.actionmenu.dev/internal/adapter"
)

func TestSubmenuAction_RunsChildMenuToCompletion(t *testing.T) {
	child := New("child", adapter.NopDisplay{}, &adapter.StaticInput{Keys: []string{"0"}}, nil)
	ran := false
	_, _ = child.AddOption("A", "child option", func(ctx context.Context, args ...any) (any, error) {
		ran = true
		return nil, nil
	})

	sub := NewSubmenuAction("child menu", child)
	if _, err := sub.Invoke(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ran {
		t.Fatal("expected the child menu to exit on back without running any option")
	}
}

func TestMenu_AddSubmenu_RejectsNilMenu(t *testing.T) {
	parent := New("parent", nil, nil, nil)
	if _, err := parent.AddSubmenu("S", "sub", nil); err == nil {
		t.Fatal("expected ErrNotAMenu for a nil submenu")
	}
}

func TestMenu_AddSubmenu_DispatchesChildRun(t *testing.T) {
	child := New("child", adapter.NopDisplay{}, &adapter.StaticInput{Keys: []string{"A", "0"}}, nil)
	ran := false
	_, _ = child.AddOption("A", "child option", func(ctx context.Context, args ...any) (any, error) {
		ran = true
		return "child-result", nil
	})

	parent := New("parent", adapter.NopDisplay{}, &adapter.StaticInput{Keys: []string{"S"}}, nil)
	if _, err := parent.AddSubmenu("S", "go to child", child); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := parent.RunHeadless(context.Background(), "S"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Fatal("expected the submenu's option to run")
	}
}
