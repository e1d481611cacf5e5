package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/deezer-grabber/internal/app"
	"github.com/oshokin/deezer-grabber/internal/config"
	"github.com/oshokin/deezer-grabber/internal/logger"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "deezer-grabber",
		Short: "Download tracks, albums, playlists, favorites, or an entire artist's catalog from Deezer.",
		Long: `Deezer Grabber is a CLI tool for downloading audio content from Deezer.
It supports downloading:
- Individual tracks
- Full albums
- Playlists
- Your loved tracks
- Complete catalogs of an artist

The application provides flexible naming templates, quality selection with
automatic fallback (flac -> 320 -> 128), and download speed limits.`,
	}

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	downloadCmd = &cobra.Command{
		Use:   "download [flags] {urls}",
		Short: "Download tracks, albums or playlists by their URLs",
		Long: `Download audio content from the given Deezer URLs.

Accepts track, album and playlist URLs in any mix. Arguments ending
in .txt are treated as files with one URL per line.`,
		Args:             cobra.MinimumNArgs(1),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, urls []string) {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			app.ExecuteDownloadCommand(cmd.Context(), appConfig, urls)
		},
	}

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	trackCmd = &cobra.Command{
		Use:              "track [flags] {urls-or-ids}",
		Short:            "Download individual tracks",
		Args:             cobra.MinimumNArgs(1),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			app.ExecuteDownloadCommand(cmd.Context(), appConfig, normalizeItemArgs("track", args))
		},
	}

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	playlistCmd = &cobra.Command{
		Use:              "playlist [flags] {urls-or-ids}",
		Short:            "Download playlists",
		Args:             cobra.MinimumNArgs(1),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			app.ExecuteDownloadCommand(cmd.Context(), appConfig, normalizeItemArgs("playlist", args))
		},
	}

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	favoritesCmd = &cobra.Command{
		Use:              "favorites [flags]",
		Short:            "Download your loved tracks",
		Args:             cobra.NoArgs,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			app.ExecuteFavoritesCommand(cmd.Context(), appConfig)
		},
	}

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	artistCmd = &cobra.Command{
		Use:   "artist [flags] {url-or-id-or-name}",
		Short: "Download an artist's discography",
		Long: `Download the complete discography of an artist.

The argument may be an artist URL, a numeric artist ID, or a free-text
name which is resolved through Deezer search.`,
		Args:             cobra.MinimumNArgs(1),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			app.ExecuteArtistCommand(cmd.Context(), appConfig, strings.Join(args, " "))
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	downloadCommands := []*cobra.Command{downloadCmd, trackCmd, playlistCmd, favoritesCmd, artistCmd}

	for _, cmd := range downloadCommands {
		addDownloadFlags(cmd)
		rootCmd.AddCommand(cmd)
	}
}

// addDownloadFlags registers the flags shared by every download command.
func addDownloadFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringP(
		"quality",
		"q",
		"",
		"preferred audio quality: flac, 320 or 128 (lower tiers are used automatically when missing).")

	flags.StringP(
		"output",
		"o",
		"",
		"directory to save downloaded files (the path will be created if it doesn't exist).")

	flags.StringP(
		"speed-limit",
		"s",
		"",
		"set download speed limit, for example: 500 kbps, 1 mbps, 1.5 mbps.")

	flags.Bool(
		"dry-run",
		false,
		"preview what would be downloaded without writing any files.")

	flags.Bool(
		"replace",
		false,
		"re-download and replace tracks that already exist on disk.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("quality"); flag != nil && flag.Changed {
		cfg.Quality, _ = flags.GetString("quality")
	}

	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.OutputPath, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("speed-limit"); flag != nil && flag.Changed {
		cfg.DownloadSpeedLimit, _ = flags.GetString("speed-limit")
	}

	if flag := flags.Lookup("dry-run"); flag != nil && flag.Changed {
		cfg.DryRun, _ = flags.GetBool("dry-run")
	}

	if flag := flags.Lookup("replace"); flag != nil && flag.Changed {
		cfg.ReplaceTracks, _ = flags.GetBool("replace")
	}

	return config.ValidateConfig(cfg)
}

// normalizeItemArgs turns bare numeric IDs into canonical Deezer URLs
// so that all download commands feed the same URL pipeline.
func normalizeItemArgs(kind string, args []string) []string {
	normalized := make([]string, 0, len(args))

	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}

		if isNumericID(arg) {
			normalized = append(normalized, fmt.Sprintf("https://www.deezer.com/%s/%s", kind, arg))
			continue
		}

		normalized = append(normalized, arg)
	}

	return normalized
}

// isNumericID reports whether the argument is a bare numeric identifier.
func isNumericID(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
