package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	deezer_client "github.com/oshokin/deezer-grabber/internal/client/deezer"
	"github.com/oshokin/deezer-grabber/internal/config"
	"github.com/oshokin/deezer-grabber/internal/logger"
	deezer_service "github.com/oshokin/deezer-grabber/internal/service/deezer"
)

// dumpConfigEnvVar makes download commands print the effective configuration
// as JSON and exit instead of downloading. End-to-end tests use it to verify
// flag binding without touching the network.
const dumpConfigEnvVar = "DEEZER_GRABBER_DUMP_CONFIG"

// ExecuteDownloadCommand is the entry point for URL-based downloads.
// It authenticates the Deezer session, sets up the service components,
// and starts the download process for the provided URLs.
func ExecuteDownloadCommand(ctx context.Context, cfg *config.Config, urls []string) {
	if shouldDumpConfig() {
		dumpConfig(ctx, cfg)
		return
	}

	s := newDownloadService(ctx, cfg)
	runDownloadSession(ctx, s, func() {
		s.DownloadURLs(ctx, urls)
	})
}

// ExecuteFavoritesCommand downloads the authenticated user's loved tracks.
func ExecuteFavoritesCommand(ctx context.Context, cfg *config.Config) {
	s := newDownloadService(ctx, cfg)
	runDownloadSession(ctx, s, func() {
		s.DownloadFavorites(ctx)
	})
}

// ExecuteArtistCommand downloads an artist's discography.
// The query may be an artist URL, a numeric ID, or a free-text name.
func ExecuteArtistCommand(ctx context.Context, cfg *config.Config, query string) {
	s := newDownloadService(ctx, cfg)
	runDownloadSession(ctx, s, func() {
		s.DownloadArtist(ctx, query)
	})
}

// runDownloadSession runs a download action, always prints the summary
// and exits non-zero when any item failed so scripts can detect partial runs.
func runDownloadSession(ctx context.Context, s deezer_service.Service, action func()) {
	func() {
		// Ensure statistics are ALWAYS printed, even on panic.
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf(ctx, "Panic recovered: %v", r)
			}

			s.PrintDownloadSummary(ctx)
		}()

		action()
	}()

	if s.HasFailures() {
		os.Exit(1)
	}
}

// shouldDumpConfig reports whether the config dump mode is enabled.
func shouldDumpConfig() bool {
	return os.Getenv(dumpConfigEnvVar) == "1"
}

// dumpConfig prints the effective configuration as a single JSON object on stdout.
func dumpConfig(ctx context.Context, cfg *config.Config) {
	dump := struct {
		Quality            string `json:"quality"`
		OutputPath         string `json:"output_path"`
		DownloadSpeedLimit string `json:"download_speed_limit"`
		DryRun             bool   `json:"dry_run"`
		ReplaceTracks      bool   `json:"replace_tracks"`
	}{
		Quality:            cfg.Quality,
		OutputPath:         cfg.OutputPath,
		DownloadSpeedLimit: cfg.DownloadSpeedLimit,
		DryRun:             cfg.DryRun,
		ReplaceTracks:      cfg.ReplaceTracks,
	}

	data, err := json.Marshal(dump)
	if err != nil {
		logger.Fatalf(ctx, "Failed to marshal config dump: %v", err)
		return
	}

	fmt.Println(string(data))
}

// newDownloadService builds the client, authenticates the session and wires the service components.
func newDownloadService(ctx context.Context, cfg *config.Config) deezer_service.Service {
	deezerClient, err := deezer_client.NewClient(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize Deezer client: %v", err)
	}

	session, err := deezerClient.LoginWithARL(ctx, cfg.ARLToken)
	if err != nil {
		logger.Fatalf(ctx, "Failed to authenticate with Deezer: %v", err)
	}

	logger.Infof(ctx, "Logged in as %s (country: %s)", session.Name, session.Country)

	urlProcessor := deezer_service.NewURLProcessor()
	templateManager := deezer_service.NewTemplateManager(ctx, cfg)
	tagProcessor := deezer_service.NewTagProcessor()
	qualityResolver := deezer_service.NewQualityResolver(deezerClient)

	return deezer_service.NewService(cfg, deezerClient, urlProcessor, templateManager, tagProcessor, qualityResolver)
}
