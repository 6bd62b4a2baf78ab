package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ziadkadry99/magic8ball/internal/config"
	"github.com/ziadkadry99/magic8ball/internal/session"
)

var (
	cfgFile string
	verbose bool
	noColor bool
	seed    uint64

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "magic8ball",
	Short: "Ask the Magic 8 Ball a yes/no question",
	Long: `Magic 8 Ball answers free-text yes/no questions with a randomly chosen
positive, neutral or negative response and keeps a transcript of every
session.

Run without arguments to start an interactive session. Type /help at the
prompt for the list of commands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runSession,
}

func Execute() error {
	err := rootCmd.Execute()
	reportError(rootCmd, err)
	return err
}

// reportError prints err to the command's error stream unless the session
// loop has already shown the user a failure notice for it.
func reportError(cmd *cobra.Command, err error) {
	if err == nil || errors.Is(err, session.ErrInput) {
		return
	}
	cmd.PrintErrln("Error:", err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "seed for a reproducible session (default: random)")
}
