// Package console renders the oracle's output and reads questions from the
// user.
package console

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ziadkadry99/magic8ball/internal/oracle"
)

// RuleWidth is the width of the answer header and the rule under it.
const RuleWidth = 40

const banner = `
    ╔═══╗─────────╔╗
    ║╔═╗║─────────║║
    ║╚══╦╗╔╦══╦══╗║║╔══╗
    ╚══╗║╚╝║╔╗║╔═╝║║║══╣
    ║╚═╝║║║║╚╝║╚═╗║╚╬══║
    ╚═══╩╩╩╩══╩══╝╚═╩══╝`

// DegradedMessage is shown when the oracle cannot produce an answer.
const DegradedMessage = "The spirits are silent. Please try again later."

type styles struct {
	banner   lipgloss.Style
	title    lipgloss.Style
	hint     lipgloss.Style
	heading  lipgloss.Style
	stats    lipgloss.Style
	header   lipgloss.Style
	answer   lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
	farewell lipgloss.Style
}

// Printer writes everything the user sees. Colors are dropped when the
// writer is not a terminal or color is disabled.
type Printer struct {
	w      io.Writer
	styles styles
	title  cases.Caser
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		w: w,
		styles: styles{
			banner:   r.NewStyle().Foreground(lipgloss.Color("5")),
			title:    r.NewStyle().Foreground(lipgloss.Color("6")),
			hint:     r.NewStyle().Foreground(lipgloss.Color("3")),
			heading:  r.NewStyle().Foreground(lipgloss.Color("6")),
			stats:    r.NewStyle().Foreground(lipgloss.Color("2")),
			header:   r.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4")),
			answer:   r.NewStyle().Foreground(lipgloss.Color("6")),
			success:  r.NewStyle().Foreground(lipgloss.Color("2")),
			failure:  r.NewStyle().Foreground(lipgloss.Color("1")),
			farewell: r.NewStyle().Foreground(lipgloss.Color("5")),
		},
		title: cases.Title(language.English),
	}
}

func (p *Printer) line(style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(p.w, style.Render(fmt.Sprintf(format, args...)))
}

// Banner prints the welcome art and the command hint.
func (p *Printer) Banner() {
	fmt.Fprintln(p.w, p.styles.banner.Render(banner))
	p.line(p.styles.title, "=== Advanced Magic 8 Ball ===")
	p.line(p.styles.hint, "Type '/help' for commands")
	fmt.Fprintln(p.w)
}

// Help prints the command list.
func (p *Printer) Help() {
	fmt.Fprintln(p.w)
	p.line(p.styles.hint, "Available commands:")
	fmt.Fprintln(p.w, "  /help    - Show this help message")
	fmt.Fprintln(p.w, "  /history - Show question history")
	fmt.Fprintln(p.w, "  /stats   - Display answer statistics")
	fmt.Fprintln(p.w, "  /exit    - Quit the application")
	fmt.Fprintln(p.w)
}

// History prints every entry numbered from 1 with its time of day.
func (p *Printer) History(entries []oracle.Entry) {
	fmt.Fprintln(p.w)
	p.line(p.styles.heading, "Question History:")
	for i, e := range entries {
		fmt.Fprintf(p.w, "%d. [%s] Q: %s\n   A: %s\n", i+1, e.Timestamp.Format("15:04:05"), e.Question, e.Answer)
	}
}

// Stats prints each category's count and share of all answers.
func (p *Printer) Stats(stats oracle.Stats) {
	fmt.Fprintln(p.w)
	p.line(p.styles.stats, "Answer Statistics:")
	total := stats.Total()
	if total == 0 {
		fmt.Fprintln(p.w, "No answers yet!")
		return
	}
	for _, cat := range oracle.Categories {
		count := stats[cat]
		pct := float64(count) / float64(total) * 100
		fmt.Fprintf(p.w, "%s: %d (%.1f%%)\n", p.title.String(string(cat)), count, pct)
	}
}

// Answer prints the oracle's verdict under a centered header.
func (p *Printer) Answer(answer string) {
	fmt.Fprintln(p.w, p.styles.header.Render(center(" The Oracle Speaks ", RuleWidth, "✨")))
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.styles.answer.Render("   "+answer))
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, strings.Repeat("-", RuleWidth))
}

// Degraded tells the user no answer could be produced.
func (p *Printer) Degraded() {
	fmt.Fprintln(p.w)
	p.line(p.styles.failure, DegradedMessage)
}

// ConfigWarning tells the user that built-in defaults replaced configuration.
func (p *Printer) ConfigWarning() {
	p.line(p.styles.hint, "Note: some configuration could not be used; built-in defaults are active.")
}

// Saved reports where the session was written.
func (p *Printer) Saved(path string) {
	fmt.Fprintln(p.w)
	p.line(p.styles.success, "Session saved to %s", path)
}

// SaveFailed reports a persistence failure.
func (p *Printer) SaveFailed(err error) {
	fmt.Fprintln(p.w)
	p.line(p.styles.failure, "Error saving session: %v", err)
}

// Goodbye prints the farewell after /exit.
func (p *Printer) Goodbye() {
	fmt.Fprintln(p.w)
	p.line(p.styles.farewell, "Thanks for playing! Goodbye! ✨")
}

// Interrupted announces that an abort is being handled.
func (p *Printer) Interrupted() {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w)
	p.line(p.styles.failure, "Session interrupted. Saving progress...")
}

// Failure prints the generic notice for unexpected errors.
func (p *Printer) Failure() {
	fmt.Fprintln(p.w)
	p.line(p.styles.failure, "Something went wrong. See the log for details.")
}

// center pads s on both sides with fill up to width runes, the extra rune
// going to the right.
func center(s string, width int, fill string) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	pad := width - n
	left := pad / 2
	return strings.Repeat(fill, left) + s + strings.Repeat(fill, pad-left)
}
