package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"

	"github.com/oshokin/deezer-grabber/internal/config"
	"github.com/oshokin/deezer-grabber/internal/logger"
)

const (
	// browserSlowMotionDelay is the delay between browser actions for visibility during debugging.
	browserSlowMotionDelay = 200 * time.Millisecond

	// deezerHomeURL is the main Deezer landing page.
	deezerHomeURL = "https://www.deezer.com/"

	// deezerLoginURL is the dedicated login page URL.
	deezerLoginURL = "https://www.deezer.com/login"

	// deezerDomain is the main Deezer domain.
	deezerDomain = "deezer.com"

	// googleAccountsDomain is the Google OAuth service domain used by the social login option.
	googleAccountsDomain = "accounts.google.com"

	// facebookDomain is the Facebook OAuth service domain used by the social login option.
	facebookDomain = "facebook.com"

	// appleIDDomain is the Apple ID OAuth service domain used by the social login option.
	appleIDDomain = "appleid.apple.com"

	// arlCookieName is the name of the Deezer session cookie.
	arlCookieName = "arl"

	// minARLTokenLength is the shortest cookie value still worth treating as a real session.
	// Deezer issues tokens of 192 characters, but the exact length is not contractual.
	minARLTokenLength = 64

	// loginPollInterval is the interval for polling the login status.
	loginPollInterval = 1 * time.Second

	// maxLoginWaitTime is the maximum time to wait for user to complete login.
	maxLoginWaitTime = 10 * time.Minute

	// sessionEstablishDelay is the delay after login to allow session to fully establish.
	sessionEstablishDelay = 2 * time.Second

	// humanBehaviorMinDelay is the minimum delay for simulated human actions.
	humanBehaviorMinDelay = 500 * time.Millisecond
	// humanBehaviorMaxDelay is the maximum delay for simulated human actions.
	humanBehaviorMaxDelay = 2 * time.Second

	// mouseMovementsPerCheck is the number of random mouse movements to simulate per polling cycle.
	mouseMovementsPerCheck = 2

	// mouseMovementMinDelay is the minimum delay between mouse movements.
	mouseMovementMinDelay = 100 * time.Millisecond
	// mouseMovementMaxDelay is the maximum delay between mouse movements.
	mouseMovementMaxDelay = 400 * time.Millisecond

	// scrollProbability is the probability of scrolling (1 in N).
	scrollProbability = 3
	// scrollMinAmount is the minimum scroll amount in pixels.
	scrollMinAmount = -100
	// scrollMaxAmount is the maximum scroll amount in pixels.
	scrollMaxAmount = 200

	// interactionProbability is the probability of random interaction (1 in N).
	interactionProbability = 5
	// interactionActionCount is the number of possible random interaction actions.
	interactionActionCount = 4

	// smallScrollRange is the range for small random scrolls.
	smallScrollRange = 100
	// smallScrollOffset is the offset to center small scroll range.
	smallScrollOffset = 50

	// pauseMinDelay is the minimum pause duration for human-like pauses.
	pauseMinDelay = 500 * time.Millisecond
	// pauseMaxDelay is the maximum pause duration for human-like pauses.
	pauseMaxDelay = 1500 * time.Millisecond

	// browserCleanupDelay is the delay to wait for Chrome to release file locks before cleanup.
	browserCleanupDelay = 500 * time.Millisecond
)

var (
	// ErrLoginTimeout is returned when login takes too long.
	ErrLoginTimeout = errors.New("login timeout exceeded")

	// ErrBrowserClosed is returned when the browser is closed by the user.
	ErrBrowserClosed = errors.New("browser was closed by user")

	// ErrNavigatedAway is returned when the user navigates away from the login flow.
	ErrNavigatedAway = errors.New("user navigated away from login flow")

	// ErrARLCookieNotFound is returned when the session cookie cannot be found after login.
	ErrARLCookieNotFound = errors.New("arl cookie not found - login may have failed")

	// ErrTokenTooShort is returned when a pasted token is too short to be a real session cookie.
	ErrTokenTooShort = errors.New("arl token looks too short to be a valid session cookie")
)

// Service provides browser-based authentication.
type Service interface {
	// LoginAndExtractToken opens a browser, waits for user to log in, then extracts the ARL cookie.
	// If the browser cannot be launched, it falls back to an interactive manual-paste prompt.
	LoginAndExtractToken(ctx context.Context) (string, error)
}

// ServiceImpl provides browser-based authentication for Deezer.
type ServiceImpl struct {
	cfg     *config.Config
	browser *rod.Browser
	page    *rod.Page
	// tempDir stores the temporary profile directory for cleanup.
	tempDir string
}

// NewService creates a new browser authentication service.
func NewService(cfg *config.Config) (*ServiceImpl, error) {
	return &ServiceImpl{
		cfg: cfg,
	}, nil
}

// LoginAndExtractToken opens a browser, waits for user to log in, then extracts the ARL cookie.
func (s *ServiceImpl) LoginAndExtractToken(ctx context.Context) (string, error) {
	logger.Info(ctx, "Starting browser-based authentication")

	// Headless environments have no Chrome to show, so a launch failure
	// switches to the manual-paste flow instead of aborting.
	if err := s.initBrowser(ctx); err != nil {
		logger.Warnf(ctx, "Failed to launch browser: %v", err)
		logger.Info(ctx, "Falling back to manual token entry")

		return s.promptManualToken(ctx)
	}

	defer s.cleanup(ctx)

	// Navigate to login page and wait for user to complete authentication.
	token, err := s.waitForUserLogin(ctx)
	if err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}

	if token != "" {
		logger.Info(ctx, "Session cookie retrieved during login flow")

		return token, nil
	}

	// Extract the cookie from the browser profile as a last resort.
	token, err = s.extractTokenFromProfile(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract token: %w", err)
	}

	logger.Info(ctx, "Authentication token extracted successfully")

	return token, nil
}

// validateARLToken checks that a token value is plausibly a real session cookie.
func validateARLToken(token string) error {
	if len(token) < minARLTokenLength {
		return fmt.Errorf("%w: got %d characters, expected at least %d",
			ErrTokenTooShort, len(token), minARLTokenLength)
	}

	return nil
}
