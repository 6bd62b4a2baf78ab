// Package session runs the interactive question loop and persists the
// transcript when it ends.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/magic8ball/internal/console"
	"github.com/ziadkadry99/magic8ball/internal/oracle"
	"github.com/ziadkadry99/magic8ball/internal/progress"
	"github.com/ziadkadry99/magic8ball/internal/record"
)

// ErrInput wraps a failure to read from the console. The loop has already
// shown the user a failure notice when it returns one.
var ErrInput = errors.New("reading input")

// Prompt is the label shown when waiting for a question.
const Prompt = "Ask a Yes/No question"

// CommandPrefix marks input that is a command rather than a question.
const CommandPrefix = "/"

// Commands recognized at the prompt. Matching is exact and case-sensitive.
const (
	CommandHelp    = "/help"
	CommandHistory = "/history"
	CommandStats   = "/stats"
	CommandExit    = "/exit"
)

// State is a position in the loop's state machine.
type State int

const (
	AwaitingInput State = iota
	Dispatching
	Answering
	CommandHandling
	Ended
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case Dispatching:
		return "dispatching"
	case Answering:
		return "answering"
	case CommandHandling:
		return "command_handling"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Persister stores a finished session and returns where it went.
type Persister interface {
	Persist(ctx context.Context, rec *record.Record) (string, error)
}

// Loop owns one session's ledger for the lifetime of the process. It is not
// safe for concurrent use.
type Loop struct {
	session   *oracle.Session
	reader    console.Reader
	printer   *console.Printer
	shaker    progress.Shaker
	persister Persister
	logger    *zap.Logger

	state State
	saved bool
}

// NewLoop wires a loop from its collaborators.
func NewLoop(s *oracle.Session, r console.Reader, p *console.Printer, sh progress.Shaker, ps Persister, logger *zap.Logger) *Loop {
	return &Loop{
		session:   s,
		reader:    r,
		printer:   p,
		shaker:    sh,
		persister: ps,
		logger:    logger,
		state:     AwaitingInput,
	}
}

// State returns the current state.
func (l *Loop) State() State { return l.state }

// Session returns the session the loop is answering for.
func (l *Loop) Session() *oracle.Session { return l.session }

// Run prints the banner and serves questions until /exit, end of input, an
// interrupt or cancellation of ctx. Every one of those ends the session and
// persists it once. Only an unexpected input failure is returned as an
// error, and that path does not persist.
func (l *Loop) Run(ctx context.Context) error {
	l.printer.Banner()

	for l.state != Ended {
		line, err := l.read(ctx)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled), errors.Is(err, console.ErrInterrupt):
			l.logger.Info("session interrupted", zap.String("session_id", l.session.ID))
			l.printer.Interrupted()
			l.end(ctx)
			return nil
		case errors.Is(err, io.EOF):
			l.end(ctx)
			l.printer.Goodbye()
			return nil
		default:
			l.logger.Error("reading input failed", zap.String("session_id", l.session.ID), zap.Error(err))
			l.printer.Failure()
			return fmt.Errorf("%w: %w", ErrInput, err)
		}

		l.Handle(ctx, line)
	}
	return nil
}

// Handle processes one line of input. Blank lines are ignored.
func (l *Loop) Handle(ctx context.Context, line string) {
	input := strings.TrimSpace(line)
	if input == "" {
		return
	}

	l.state = Dispatching
	if strings.HasPrefix(input, CommandPrefix) {
		l.state = CommandHandling
		l.command(ctx, input)
	} else {
		l.state = Answering
		l.answer(ctx, input)
	}

	if l.state != Ended {
		l.state = AwaitingInput
	}
}

func (l *Loop) read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := l.reader.ReadLine(Prompt)
		ch <- result{line, err}
	}()

	// A cancelled read leaves the reader goroutine blocked on input; the
	// process is about to exit at that point.
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}

func (l *Loop) command(ctx context.Context, cmd string) {
	switch cmd {
	case CommandHelp:
		l.printer.Help()
	case CommandHistory:
		l.printer.History(l.session.History())
	case CommandStats:
		l.printer.Stats(l.session.Stats())
	case CommandExit:
		l.end(ctx)
		l.printer.Goodbye()
	default:
		l.logger.Debug("ignoring unknown command", zap.String("command", cmd))
	}
}

func (l *Loop) answer(ctx context.Context, question string) {
	if err := l.shaker.Shake(ctx); err != nil {
		// Interrupted mid-animation; Run picks up the cancellation.
		return
	}

	answer, err := l.session.Answer(question)
	if err != nil {
		l.logger.Warn("answer unavailable", zap.String("session_id", l.session.ID), zap.Error(err))
		l.printer.Degraded()
		return
	}

	l.logger.Debug("answered",
		zap.String("session_id", l.session.ID),
		zap.Int("seq", l.session.Len()),
		zap.String("answer", answer),
	)
	l.printer.Answer(answer)
}

// end moves to Ended and persists the session. Only the first call persists.
func (l *Loop) end(ctx context.Context) {
	l.state = Ended
	if l.saved {
		return
	}
	l.saved = true

	rec := record.New(l.session, l.session.Now())
	// Persistence must finish even when the session ended by cancellation.
	path, err := l.persister.Persist(context.WithoutCancel(ctx), rec)
	if err != nil {
		l.logger.Error("saving session failed", zap.String("session_id", rec.SessionID), zap.Error(err))
		l.printer.SaveFailed(err)
		return
	}
	l.logger.Info("session saved",
		zap.String("session_id", rec.SessionID),
		zap.String("path", path),
		zap.Int("total_questions", rec.TotalQuestions),
	)
	l.printer.Saved(path)
}
