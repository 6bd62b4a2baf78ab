package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ziadkadry99/magic8ball/internal/config"
	"github.com/ziadkadry99/magic8ball/internal/oracle"
)

// Shaker plays the animation shown while the oracle considers a question.
// Shake returns ctx.Err() when the animation is abandoned.
type Shaker interface {
	Shake(ctx context.Context) error
}

// NewShaker returns a TerminalShaker for interactive terminals, a CIShaker
// if the CI environment variable is set, or a QuietShaker when the
// animation is disabled.
func NewShaker(cfg config.AnimationConfig, w io.Writer, rng oracle.Rand) Shaker {
	if !cfg.Enabled {
		return QuietShaker{}
	}
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIShaker{w: w}
	}
	return &TerminalShaker{cfg: cfg, w: w, rng: rng}
}

// TerminalShaker redraws a bar of random symbols once per cycle.
type TerminalShaker struct {
	cfg config.AnimationConfig
	w   io.Writer
	rng oracle.Rand
}

func (s *TerminalShaker) Shake(ctx context.Context) error {
	fmt.Fprintln(s.w, "\nShaking the Magic 8 Ball...")

	bar := progressbar.NewOptions(s.cfg.Cycles,
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionSetDescription(s.frame()),
		progressbar.OptionSetWidth(s.cfg.Cycles),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)

	for i := 0; i < s.cfg.Cycles; i++ {
		if err := sleep(ctx, s.cfg.Delay); err != nil {
			_ = bar.Exit()
			return err
		}
		bar.Describe(s.frame())
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(s.w)

	return sleep(ctx, s.cfg.RevealDelay)
}

// frame draws Width symbols at random.
func (s *TerminalShaker) frame() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < s.cfg.Width; i++ {
		b.WriteString(s.cfg.Symbols[s.rng.IntN(len(s.cfg.Symbols))])
	}
	b.WriteByte(']')
	return b.String()
}

// CIShaker prints a single line and does not wait.
type CIShaker struct {
	w io.Writer
}

func (s *CIShaker) Shake(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fmt.Fprintln(s.w, "Shaking the Magic 8 Ball...")
	return nil
}

// QuietShaker does nothing. Used when the animation is disabled and in tests.
type QuietShaker struct{}

func (QuietShaker) Shake(ctx context.Context) error { return ctx.Err() }

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
