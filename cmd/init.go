package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/magic8ball/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a magic8ball configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose answer weights, the shake animation and the transcript directory, and writes them to the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
