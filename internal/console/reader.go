package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
)

// ErrInterrupt is returned by a Reader when the user aborts at the prompt.
var ErrInterrupt = errors.New("interrupted")

// Reader reads one line of user input per call. It returns io.EOF when
// input ends and ErrInterrupt when the user aborts.
type Reader interface {
	ReadLine(label string) (string, error)
}

// NewReader returns a PromptReader when in is a terminal and a LineReader
// otherwise.
func NewReader(in *os.File, out io.Writer) Reader {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return &PromptReader{}
	}
	return NewLineReader(in, out)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PromptReader reads lines with promptui, which owns the terminal while
// reading. Ctrl-C at the prompt surfaces as ErrInterrupt.
type PromptReader struct{}

func (r *PromptReader) ReadLine(label string) (string, error) {
	prompt := promptui.Prompt{Label: label}
	line, err := prompt.Run()
	switch {
	case errors.Is(err, promptui.ErrInterrupt):
		return "", ErrInterrupt
	case errors.Is(err, promptui.ErrEOF):
		return "", io.EOF
	case err != nil:
		return "", fmt.Errorf("reading prompt: %w", err)
	}
	return line, nil
}

// LineReader reads newline-terminated input, printing the label first.
type LineReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineReader creates a LineReader over in, echoing prompts to out.
func NewLineReader(in io.Reader, out io.Writer) *LineReader {
	return &LineReader{in: bufio.NewReader(in), out: out}
}

func (r *LineReader) ReadLine(label string) (string, error) {
	fmt.Fprintf(r.out, "\n%s: ", label)
	line, err := r.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
