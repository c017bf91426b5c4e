package output

import (
	"bytes"
	"testing"

	"anto/internal/task"
)

func TestPrinter_Tasks(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	done := &task.Task{Description: "walk dog", Done: true}
	p.Tasks([]*task.Task{
		{Description: "buy milk"},
		done,
	})

	expected := "   1. [ ] buy milk\n   2. [X] walk dog\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
	if got := p.Line(done); got != "[X] walk dog" {
		t.Errorf("unexpected line %q", got)
	}
}

func TestNormalizeDescription(t *testing.T) {
	tests := map[string]string{
		"plain":        "plain",
		"two\nlines":   "two lines",
		"crlf\r\nline": "crlf  line",
		"   ":          "(untitled)",
		"":             "(untitled)",
	}
	for in, want := range tests {
		if got := normalizeDescription(in); got != want {
			t.Errorf("normalizeDescription(%q) = %q, want %q", in, got, want)
		}
	}
}
