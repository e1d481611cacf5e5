package app

import (
	"context"
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/oshokin/deezer-grabber/internal/config"
	"github.com/oshokin/deezer-grabber/internal/logger"
)

const (
	actionDownloadURLs      = "Download by URL (track, album or playlist)"
	actionDownloadFavorites = "Download my loved tracks"
	actionDownloadArtist    = "Download an artist's discography"
	actionQuit              = "Quit"
)

// ExecuteInteractiveCommand runs a menu-driven session for users
// who prefer prompts over flags. The service is wired once and
// reused across actions so metadata caches survive between downloads.
func ExecuteInteractiveCommand(ctx context.Context, cfg *config.Config) {
	s := newDownloadService(ctx, cfg)

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		s.PrintDownloadSummary(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		action, err := promptAction()
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return
			}

			logger.Errorf(ctx, "Failed to read selection: %v", err)

			return
		}

		switch action {
		case actionDownloadURLs:
			urls, promptErr := promptURLs()
			if promptErr != nil {
				logger.Errorf(ctx, "Failed to read URLs: %v", promptErr)
				return
			}

			s.DownloadURLs(ctx, urls)
		case actionDownloadFavorites:
			s.DownloadFavorites(ctx)
		case actionDownloadArtist:
			query, promptErr := promptArtistQuery()
			if promptErr != nil {
				logger.Errorf(ctx, "Failed to read artist query: %v", promptErr)
				return
			}

			s.DownloadArtist(ctx, query)
		case actionQuit:
			return
		}
	}
}

// promptAction asks the user to pick the next action.
func promptAction() (string, error) {
	prompt := &survey.Select{
		Message: "What would you like to do?",
		Options: []string{
			actionDownloadURLs,
			actionDownloadFavorites,
			actionDownloadArtist,
			actionQuit,
		},
	}

	var action string

	err := survey.AskOne(prompt, &action)

	return action, err
}

// promptURLs asks for one or more URLs separated by whitespace.
func promptURLs() ([]string, error) {
	prompt := &survey.Input{
		Message: "Enter one or more Deezer URLs (separated by spaces):",
	}

	var input string
	if err := survey.AskOne(prompt, &input, survey.WithValidator(survey.Required)); err != nil {
		return nil, err
	}

	return strings.Fields(input), nil
}

// promptArtistQuery asks for an artist URL, ID or name.
func promptArtistQuery() (string, error) {
	prompt := &survey.Input{
		Message: "Enter an artist URL, ID or name:",
	}

	var query string
	err := survey.AskOne(prompt, &query, survey.WithValidator(survey.Required))

	return strings.TrimSpace(query), err
}
