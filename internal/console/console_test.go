package console

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/magic8ball/internal/oracle"
)

func newPrinter() (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewPrinter(&buf, false), &buf
}

func TestStatsEmpty(t *testing.T) {
	p, buf := newPrinter()
	p.Stats(oracle.Stats{oracle.Positive: 0, oracle.Neutral: 0, oracle.Negative: 0})

	out := buf.String()
	if !strings.Contains(out, "No answers yet!") {
		t.Errorf("expected no-answers message, got %q", out)
	}
	if strings.Contains(out, "%") {
		t.Errorf("no percentages expected for empty stats, got %q", out)
	}
}

func TestStatsPercentages(t *testing.T) {
	p, buf := newPrinter()
	p.Stats(oracle.Stats{oracle.Positive: 2, oracle.Neutral: 1, oracle.Negative: 1})

	out := buf.String()
	for _, want := range []string{"Answer Statistics:", "Positive: 2 (50.0%)", "Neutral: 1 (25.0%)", "Negative: 1 (25.0%)"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Positive") > strings.Index(out, "Negative") {
		t.Error("categories out of display order")
	}
}

func TestHistory(t *testing.T) {
	p, buf := newPrinter()
	p.History([]oracle.Entry{
		{Question: "First?", Answer: "Yes.", Timestamp: time.Date(2023, 1, 1, 8, 15, 30, 999, time.UTC)},
		{Question: "Second?", Answer: "No.", Timestamp: time.Date(2023, 1, 1, 23, 0, 1, 0, time.UTC)},
	})

	out := buf.String()
	for _, want := range []string{
		"Question History:",
		"1. [08:15:30] Q: First?\n   A: Yes.",
		"2. [23:00:01] Q: Second?\n   A: No.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("history output missing %q:\n%s", want, out)
		}
	}
}

func TestAnswer(t *testing.T) {
	p, buf := newPrinter()
	p.Answer("Outlook good.")

	lines := strings.Split(buf.String(), "\n")
	if got := []rune(lines[0]); len(got) != RuleWidth {
		t.Errorf("header width = %d, want %d: %q", len(got), RuleWidth, lines[0])
	}
	if !strings.Contains(lines[0], " The Oracle Speaks ") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(buf.String(), "   Outlook good.") {
		t.Errorf("answer missing: %q", buf.String())
	}
	if !strings.Contains(buf.String(), strings.Repeat("-", RuleWidth)) {
		t.Error("rule missing")
	}
}

func TestCenter(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"ab", 6, "**ab**"},
		{"ab", 5, "*ab**"},
		{"abcdef", 4, "abcdef"},
	}
	for _, tt := range tests {
		if got := center(tt.s, tt.width, "*"); got != tt.want {
			t.Errorf("center(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestMessages(t *testing.T) {
	p, buf := newPrinter()
	p.Banner()
	p.Help()
	p.Saved("8ball_session_x.json")
	p.SaveFailed(errors.New("disk full"))
	p.Degraded()
	p.Goodbye()

	out := buf.String()
	for _, want := range []string{
		"=== Advanced Magic 8 Ball ===",
		"Type '/help' for commands",
		"/history - Show question history",
		"Session saved to 8ball_session_x.json",
		"Error saving session: disk full",
		DegradedMessage,
		"Thanks for playing! Goodbye!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("color codes written with color disabled")
	}
}

func TestLineReader(t *testing.T) {
	var out bytes.Buffer
	r := NewLineReader(strings.NewReader("first\r\nsecond\nlast"), &out)

	for _, want := range []string{"first", "second", "last"} {
		got, err := r.ReadLine("Ask")
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if got != want {
			t.Errorf("ReadLine = %q, want %q", got, want)
		}
	}
	if _, err := r.ReadLine("Ask"); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
	if !strings.Contains(out.String(), "Ask: ") {
		t.Errorf("prompt not echoed: %q", out.String())
	}
}
