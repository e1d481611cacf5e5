package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/oshokin/deezer-grabber/internal/logger"
)

// promptManualToken asks the user to paste the session cookie from their own browser.
// This is the fallback path for headless machines where no browser can be launched.
func (s *ServiceImpl) promptManualToken(ctx context.Context) (string, error) {
	logger.Info(ctx, "")
	logger.Info(ctx, "To find your ARL cookie:")
	logger.Info(ctx, "")
	logger.Info(ctx, "1. Open https://www.deezer.com/ in a browser and log in")
	logger.Info(ctx, "2. Open developer tools (F12) and go to the Application/Storage tab")
	logger.Info(ctx, "3. Under Cookies, select https://www.deezer.com")
	logger.Info(ctx, "4. Copy the value of the cookie named 'arl'")
	logger.Info(ctx, "")

	prompt := &survey.Password{
		Message: "Paste your ARL cookie value:",
	}

	var token string

	err := survey.AskOne(prompt, &token, survey.WithValidator(survey.Required))
	if err != nil {
		return "", fmt.Errorf("failed to read token from prompt: %w", err)
	}

	token = strings.TrimSpace(token)

	if err = validateARLToken(token); err != nil {
		return "", err
	}

	logger.Info(ctx, "Token accepted")

	return token, nil
}
