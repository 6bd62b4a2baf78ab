package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/magic8ball/internal/config"
	"github.com/ziadkadry99/magic8ball/internal/console"
	"github.com/ziadkadry99/magic8ball/internal/record"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect saved session transcripts",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transcripts in the session directory",
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id|file]",
	Short: "Print the history and statistics of a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export [session-id|file]",
	Short: "Export a saved session as Markdown or HTML",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsExport,
}

var sessionsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show answer statistics across every archived session",
	Args:  cobra.NoArgs,
	RunE:  runSessionsStats,
}

func init() {
	sessionsExportCmd.Flags().Bool("html", false, "render HTML instead of Markdown")
	sessionsExportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
	sessionsListCmd.Flags().Bool("archive", false, "list sessions from the archive instead of the session directory")

	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd, sessionsExportCmd, sessionsStatsCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig().Config
	out := cmd.OutOrStdout()

	fromArchive, _ := cmd.Flags().GetBool("archive")
	if fromArchive {
		arch, closeArchive := openArchive(cfg)
		defer closeArchive()
		if arch == nil {
			return fmt.Errorf("session archive is disabled or unavailable (archive_path: %q)", cfg.ArchivePath)
		}
		sessions, err := arch.List(cmd.Context(), 0)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No archived sessions.")
			return nil
		}
		for i, s := range sessions {
			fmt.Fprintf(out, "  %d. %s  %s  %d questions\n", i+1, s.ID, s.StartTime.Local().Format("2006-01-02 15:04:05"), s.TotalQuestions)
		}
		return nil
	}

	summaries, unreadable, err := record.NewStore(cfg.SessionDir).List()
	if err != nil {
		return err
	}
	for _, e := range unreadable {
		logger.Warn("skipping unreadable transcript", zap.Error(e))
	}
	if len(summaries) == 0 {
		fmt.Fprintf(out, "No sessions found in %s.\n", cfg.SessionDir)
		return nil
	}
	for i, s := range summaries {
		fmt.Fprintf(out, "  %d. %s  %s  %d questions\n", i+1, s.SessionID, s.StartTime.Local().Format("2006-01-02 15:04:05"), s.TotalQuestions)
	}
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig().Config

	rec, err := loadRecord(cmd, cfg, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printer := console.NewPrinter(out, cfg.Color)
	fmt.Fprintf(out, "Session %s\n", rec.SessionID)
	fmt.Fprintf(out, "  Started:   %s\n", rec.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Ended:     %s\n", rec.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Questions: %d\n", rec.TotalQuestions)
	printer.History(rec.History)
	printer.Stats(rec.Stats)
	return nil
}

func runSessionsExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig().Config
	asHTML, _ := cmd.Flags().GetBool("html")
	output, _ := cmd.Flags().GetString("output")

	rec, err := loadRecord(cmd, cfg, args[0])
	if err != nil {
		return err
	}

	content := record.Markdown(rec)
	if asHTML {
		if content, err = record.HTML(rec); err != nil {
			return err
		}
	}

	if output == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing export to %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported session %s to %s\n", rec.SessionID, output)
	return nil
}

func runSessionsStats(cmd *cobra.Command, args []string) error {
	cfg := loadConfig().Config

	arch, closeArchive := openArchive(cfg)
	defer closeArchive()
	if arch == nil {
		return fmt.Errorf("session archive is disabled or unavailable (archive_path: %q)", cfg.ArchivePath)
	}

	totals, err := arch.Totals(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sessions:  %d\n", totals.Sessions)
	fmt.Fprintf(out, "Questions: %d\n", totals.Questions)
	console.NewPrinter(out, cfg.Color).Stats(totals.Stats)
	return nil
}

// loadRecord reads a transcript by session ID or path, falling back to the
// archive when the transcript file is gone.
func loadRecord(cmd *cobra.Command, cfg *config.Config, ref string) (*record.Record, error) {
	rec, err := record.NewStore(cfg.SessionDir).Load(ref)
	if err == nil || !errors.Is(err, record.ErrNotFound) {
		return rec, err
	}

	arch, closeArchive := openArchive(cfg)
	defer closeArchive()
	if arch == nil {
		return nil, err
	}
	archived, archErr := arch.Load(cmd.Context(), ref)
	if archErr != nil {
		logger.Debug("session not in archive either", zap.String("session", ref), zap.Error(archErr))
		return nil, err
	}
	return archived, nil
}
