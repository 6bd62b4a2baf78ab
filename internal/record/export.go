package record

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ziadkadry99/magic8ball/internal/oracle"
)

// Markdown renders rec as a Markdown transcript.
func Markdown(rec *Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Magic 8 Ball session %s\n\n", rec.SessionID)
	fmt.Fprintf(&b, "- Started: %s\n", rec.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- Ended: %s\n", rec.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- Questions: %d\n\n", rec.TotalQuestions)

	b.WriteString("## Statistics\n\n")
	b.WriteString("| Category | Count |\n|---|---|\n")
	for _, cat := range oracle.Categories {
		fmt.Fprintf(&b, "| %s | %d |\n", cat, rec.Stats[cat])
	}
	b.WriteString("\n")

	b.WriteString("## History\n\n")
	if len(rec.History) == 0 {
		b.WriteString("_No questions asked._\n")
		return b.String()
	}
	for i, e := range rec.History {
		fmt.Fprintf(&b, "%d. **%s** (%s)  \n   %s\n", i+1, escapeMarkdown(e.Question), e.Timestamp.Format("15:04:05"), escapeMarkdown(e.Answer))
	}
	return b.String()
}

// HTML renders rec as an HTML fragment.
func HTML(rec *Record) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(rec)), &buf); err != nil {
		return "", fmt.Errorf("rendering session %s: %w", rec.SessionID, err)
	}
	return buf.String(), nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "<", "&lt;", ">", "&gt;", "|", `\|`, "[", `\[`, "]", `\]`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
