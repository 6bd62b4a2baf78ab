package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/magic8ball/internal/console"
	"github.com/ziadkadry99/magic8ball/internal/oracle"
	"github.com/ziadkadry99/magic8ball/internal/progress"
	"github.com/ziadkadry99/magic8ball/internal/record"
	"github.com/ziadkadry99/magic8ball/internal/session"
)

// Streams for --seed, so the animation does not shift the answer sequence.
const (
	answerStream    = 1
	animationStream = 2
)

func runSession(cmd *cobra.Command, args []string) error {
	resolved := loadConfig()
	cfg := resolved.Config

	out := os.Stdout
	interactive := console.IsTerminal(out)
	printer := console.NewPrinter(out, cfg.Color && !noColor)
	if resolved.Degraded() {
		printer.ConfigWarning()
	}

	seeded := cmd.Flags().Changed("seed")
	sess := oracle.NewSession(resolved.Catalog, resolved.Weights, oracle.WithRand(newRand(seeded, answerStream)))

	animation := cfg.Animation
	if !interactive {
		animation.Enabled = false
	}
	shaker := progress.NewShaker(animation, out, newRand(seeded, animationStream))

	arch, closeArchive := openArchive(cfg)
	defer closeArchive()
	persister := session.NewStorePersister(record.NewStore(cfg.SessionDir), arch, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := session.NewLoop(sess, console.NewReader(os.Stdin, out), printer, shaker, persister, logger)
	return loop.Run(ctx)
}
