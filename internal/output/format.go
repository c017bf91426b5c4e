// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"anto/internal/task"
)

// Printer writes task lines to w.
// Styling is dropped automatically when w is not a terminal.
type Printer struct {
	w    io.Writer
	done lipgloss.Style
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:    w,
		done: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#87AF87")),
	}
}

// Task formats one task line.
// Format: "{N:>4}. [{X| }] {DESCRIPTION}\n" with N 1-based.
func (p *Printer) Task(num int, t *task.Task) {
	fmt.Fprintf(p.w, "%4d. [%s] %s\n", num, p.marker(t), normalizeDescription(t.Description))
}

// Tasks formats every task, numbered from 1.
func (p *Printer) Tasks(tasks []*task.Task) {
	for i, t := range tasks {
		p.Task(i+1, t)
	}
}

// Line returns a task line without numbering or trailing newline, as used
// in confirmations.
func (p *Printer) Line(t *task.Task) string {
	return fmt.Sprintf("[%s] %s", p.marker(t), normalizeDescription(t.Description))
}

func (p *Printer) marker(t *task.Task) string {
	if !t.Done {
		return " "
	}
	return p.done.Render("X")
}

// normalizeDescription normalizes a task description for display.
// - Empty or whitespace-only descriptions become "(untitled)"
// - Newlines are replaced with spaces
func normalizeDescription(desc string) string {
	desc = strings.ReplaceAll(desc, "\r", " ")
	desc = strings.ReplaceAll(desc, "\n", " ")

	if strings.TrimSpace(desc) == "" {
		return "(untitled)"
	}
	return desc
}
