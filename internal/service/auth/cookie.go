package auth

import (
	"context"

	"github.com/oshokin/deezer-grabber/internal/logger"
)

// getARLCookie retrieves the session cookie value if it exists, without logging.
func (s *ServiceImpl) getARLCookie(ctx context.Context) string {
	defer func() {
		if r := recover(); r != nil {
			logger.Debugf(ctx, "getARLCookie panic recovered: %v", r)
		}
	}()

	cookies, err := s.page.Cookies([]string{deezerHomeURL})
	if err != nil {
		return ""
	}

	for _, cookie := range cookies {
		if cookie.Name == arlCookieName && cookie.Value != "" {
			return cookie.Value
		}
	}

	return ""
}

// extractTokenFromProfile extracts the session cookie from the browser profile.
func (s *ServiceImpl) extractTokenFromProfile(ctx context.Context) (string, error) {
	logger.Info(ctx, "Extracting authentication token from cookies...")

	// Get current page URL.
	currentURL := s.page.MustInfo().URL
	logger.Debugf(ctx, "Current page URL: %s", currentURL)

	// Get all cookies.
	logger.Debug(ctx, "Fetching cookies from browser...")

	cookies := s.page.MustCookies()
	logger.Debugf(ctx, "Found %d cookies", len(cookies))

	// Log cookie names only in debug mode. Values stay out of the logs,
	// the session cookie grants full account access.
	if logger.IsDebugLevel() && len(cookies) > 0 {
		logger.Debug(ctx, "Cookie list:")

		for i, cookie := range cookies {
			logger.Debugf(ctx, "Cookie %d: name=%s, domain=%s", i+1, cookie.Name, cookie.Domain)
		}
	}

	// Find the session cookie.
	logger.Debugf(ctx, "Looking for '%s' cookie...", arlCookieName)

	var arlToken string

	for _, cookie := range cookies {
		if cookie.Name == arlCookieName {
			arlToken = cookie.Value
			logger.Debugf(ctx, "Found '%s' cookie! Length: %d characters", arlCookieName, len(arlToken))

			break
		}
	}

	if arlToken == "" {
		logger.Error(ctx, "Session cookie not found! Available cookies:")

		for _, cookie := range cookies {
			logger.Errorf(ctx, "%s (domain: %s)", cookie.Name, cookie.Domain)
		}

		return "", ErrARLCookieNotFound
	}

	logger.Info(ctx, "Token extracted successfully from cookie!")

	return arlToken, nil
}
