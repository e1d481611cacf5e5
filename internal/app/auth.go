package app

import (
	"context"

	"github.com/oshokin/deezer-grabber/internal/config"
	"github.com/oshokin/deezer-grabber/internal/logger"
	"github.com/oshokin/deezer-grabber/internal/service/auth"
)

// ExecuteAuthLoginCommand executes the auth login command.
// It opens a browser, waits for the user to log in, extracts the ARL cookie,
// and saves it to the configuration file.
func ExecuteAuthLoginCommand(ctx context.Context, cfg *config.Config) {
	logger.Info(ctx, "Starting authentication process")

	// Create browser authentication service.
	authService, err := auth.NewService(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize authentication service: %v", err)
		return
	}

	// Perform login and extract the session cookie.
	token, err := authService.LoginAndExtractToken(ctx)
	if err != nil {
		logger.Fatalf(ctx, "Authentication failed: %v", err)
		return
	}

	// Update configuration with new token.
	cfg.ARLToken = token

	// Save configuration to file.
	if err = config.SaveConfig(cfg); err != nil {
		logger.Fatalf(ctx, "Failed to save configuration: %v", err)
		return
	}

	// Print success message.
	logger.Info(ctx, "Configuration updated successfully!")
	logger.Info(ctx, "Authentication complete! You can now download music.")
	logger.Info(ctx, "")
	logger.Info(ctx, "Try downloading an album:")
	logger.Info(ctx, "deezer-grabber download https://www.deezer.com/album/302127")
	logger.Info(ctx, "")
	logger.Info(ctx, "Or a playlist:")
	logger.Info(ctx, "deezer-grabber download https://www.deezer.com/playlist/1963962142")
}

// ExecuteLogoutCommand clears the stored session cookie from the configuration file.
func ExecuteLogoutCommand(ctx context.Context, cfg *config.Config) {
	if cfg.ARLToken == "" {
		logger.Info(ctx, "No stored session found, nothing to do")
		return
	}

	cfg.ARLToken = ""

	if err := config.SaveConfig(cfg); err != nil {
		logger.Fatalf(ctx, "Failed to save configuration: %v", err)
		return
	}

	logger.Info(ctx, "Session cleared. Run 'deezer-grabber auth login' to sign in again.")
}
