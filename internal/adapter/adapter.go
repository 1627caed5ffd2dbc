// Package adapter defines the external, UI-facing collaborators the
// Menu depends on but does not implement: rendering (Display) and
// input (Input). The core engine only interprets these as interfaces;
// styling and prompting are the adapter's concern. A Nop/Static pair
// is provided so the engine is exercisable and testable without a TUI
// library.
package adapter

import "errors"

// ErrInterrupted is the sentinel an Input adapter returns to signal
// EOF or a user interrupt (Ctrl-D/Ctrl-C) during a prompt.
var ErrInterrupted = errors.New("actionmenu: input interrupted")

// Entry is one row an adapter renders in the option table.
type Entry struct {
	Key         string
	Description string
	Style       string
}

// Display renders the option table, a spinner around a unit of work,
// and arbitrary styled text. All styling is opaque string data; the
// core engine does not interpret color codes.
type Display interface {
	RenderTable(title string, entries []Entry)
	// RenderSpinner renders message/style around body and returns
	// body's result.
	RenderSpinner(message, style string, body func() (any, error)) (any, error)
	Print(styledText string)
}

// Input prompts for one key and for yes/no confirmation. Both may
// return ErrInterrupted to signal EOF or a user interrupt.
type Input interface {
	PromptKey(validKeys []string) (string, error)
	Confirm(message string) (bool, error)
}
