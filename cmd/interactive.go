package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/deezer-grabber/internal/app"
	"github.com/oshokin/deezer-grabber/internal/logger"
)

//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
var interactiveCmd = &cobra.Command{
	Use:              "interactive [flags]",
	Short:            "Run a menu-driven download session",
	Args:             cobra.NoArgs,
	PersistentPreRun: initConfig,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
			logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
		}

		app.ExecuteInteractiveCommand(cmd.Context(), appConfig)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	addDownloadFlags(interactiveCmd)
	rootCmd.AddCommand(interactiveCmd)
}
