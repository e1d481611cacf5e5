package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/deezer-grabber/internal/app"
)

var (
	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	authCmd = &cobra.Command{
		Use:   "auth",
		Short: "Authentication management commands",
		Long: `Manage authentication for Deezer.

Use 'auth login' to log in via browser and automatically extract your ARL cookie.`,
	}

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	authLoginCmd = &cobra.Command{
		Use:   "login",
		Short: "Login to Deezer and extract the session cookie",
		Long: `Opens a browser window for you to log in to Deezer.

The login process:
1. Browser opens at https://www.deezer.com/login
2. Accept cookies if prompted
3. Log in with your email and password (or Google / Facebook / Apple)
4. Wait for authentication to complete

After successful login, the ARL session cookie will be automatically
extracted from the browser and saved to the configuration file.
On machines without a browser the cookie value can be pasted manually.

You can then download music:
deezer-grabber download https://www.deezer.com/album/302127`,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteAuthLoginCommand(cmd.Context(), appConfig)
		},
	}

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	logoutCmd = &cobra.Command{
		Use:              "logout",
		Short:            "Clear the stored Deezer session cookie",
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteLogoutCommand(cmd.Context(), appConfig)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	// Add login subcommand to auth command.
	authCmd.AddCommand(authLoginCmd)

	// Add auth and logout commands to root command.
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(logoutCmd)
}
