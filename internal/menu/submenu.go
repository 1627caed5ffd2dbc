package menu

import (
	"context"

	"go.actionmenu.dev/internal/core"
)

// SubmenuAction wraps another Menu's Run as a core.Action, so a
// submenu can be registered as an ordinary Option without capturing a
// closure that could outlive its owner.
type SubmenuAction struct {
	name  string
	hooks *core.HookManager
	menu  *Menu
}

// NewSubmenuAction builds a SubmenuAction named name that runs target
// when invoked.
func NewSubmenuAction(name string, target *Menu) *SubmenuAction {
	return &SubmenuAction{name: name, hooks: core.NewHookManager(target.log), menu: target}
}

func (s *SubmenuAction) Name() string             { return s.name }
func (s *SubmenuAction) Hooks() *core.HookManager { return s.hooks }

// Invoke runs the submenu's interactive loop to completion. Its
// return value is always (nil, nil); the submenu reports its own
// dispatch outcomes through its own hooks.
func (s *SubmenuAction) Invoke(ctx context.Context, args ...any) (any, error) {
	s.menu.Run(ctx)
	return nil, nil
}
