package adapter

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// StdioDisplay renders the option table and spinner messages as plain
// text to out. Kept deliberately plain — rich terminal rendering
// (tables, colors, spinners) is out of scope for the core engine, so
// this adapter exists only to make the engine runnable end to end.
type StdioDisplay struct {
	Out io.Writer
}

func (d *StdioDisplay) RenderTable(title string, entries []Entry) {
	fmt.Fprintf(d.Out, "\n== %s ==\n", title)
	for _, e := range entries {
		fmt.Fprintf(d.Out, "[%s] %s\n", e.Key, e.Description)
	}
	fmt.Fprintln(d.Out, "[0] Back")
}

func (d *StdioDisplay) RenderSpinner(message, style string, body func() (any, error)) (any, error) {
	fmt.Fprintf(d.Out, "%s...\n", message)
	return body()
}

func (d *StdioDisplay) Print(styledText string) {
	fmt.Fprintln(d.Out, styledText)
}

// StdioInput reads one key per line from in and confirms over the
// same stream.
type StdioInput struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewStdioInput builds a StdioInput reading from in and echoing
// prompts to out.
func NewStdioInput(in io.Reader, out io.Writer) *StdioInput {
	return &StdioInput{scanner: bufio.NewScanner(in), out: out}
}

func (s *StdioInput) PromptKey(validKeys []string) (string, error) {
	fmt.Fprintf(s.out, "> ")
	if !s.scanner.Scan() {
		return "", ErrInterrupted
	}
	return strings.TrimSpace(s.scanner.Text()), nil
}

func (s *StdioInput) Confirm(message string) (bool, error) {
	fmt.Fprintf(s.out, "%s [y/N] ", message)
	if !s.scanner.Scan() {
		return false, ErrInterrupted
	}
	answer := strings.ToLower(strings.TrimSpace(s.scanner.Text()))
	return answer == "y" || answer == "yes", nil
}
