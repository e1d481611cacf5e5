package deezer

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"github.com/cenkalti/backoff/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tidwall/gjson"

	"github.com/oshokin/deezer-grabber/internal/config"
	"github.com/oshokin/deezer-grabber/internal/logger"
	http_transport "github.com/oshokin/deezer-grabber/internal/transport/http"
	"github.com/oshokin/deezer-grabber/internal/utils"
)

// Client defines the interface for interacting with Deezer's API.
type Client interface {
	// FetchTrack opens the encrypted byte stream behind a minted media URL.
	FetchTrack(ctx context.Context, trackURL string) (*FetchTrackResult, error)
	// GetAlbumCover downloads square cover art of the given pixel size.
	GetAlbumCover(ctx context.Context, pictureHash string, size int) ([]byte, error)
	// GetAlbumTracks retrieves all tracks of the specified album.
	GetAlbumTracks(ctx context.Context, albumID string) ([]*Track, error)
	// GetArtist retrieves metadata for the specified artist.
	GetArtist(ctx context.Context, artistID string) (*Artist, error)
	// GetArtistDiscography retrieves the artist's complete list of albums.
	GetArtistDiscography(ctx context.Context, artistID string) ([]*Album, error)
	// GetFavoriteTrackIDs retrieves the authenticated user's loved track IDs.
	GetFavoriteTrackIDs(ctx context.Context) ([]string, error)
	// GetMediaURL mints a short-lived stream URL for a track token and format.
	GetMediaURL(ctx context.Context, trackToken, format string) (string, error)
	// GetPlaylist retrieves metadata for the specified playlist.
	GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error)
	// GetPlaylistTracks retrieves all tracks of the specified playlist.
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]*Track, error)
	// GetTrack retrieves metadata for a single track.
	GetTrack(ctx context.Context, trackID string) (*Track, error)
	// GetTracksByIDs retrieves metadata for the specified track IDs.
	GetTracksByIDs(ctx context.Context, trackIDs []string) ([]*Track, error)
	// LoginWithARL authenticates the session with an arl cookie value.
	LoginWithARL(ctx context.Context, arl string) (*UserSession, error)
	// SearchArtists queries the public search API for artists by name.
	SearchArtists(ctx context.Context, query string) ([]*ArtistSearchResult, error)
	// Session returns the authenticated session, or nil before login.
	Session() *UserSession
}

// ClientImpl implements the Client interface for interacting with Deezer's API.
type ClientImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
	// cookieURL is the URL the session cookie is scoped to.
	cookieURL *url.URL

	// gwURL, publicURL and mediaURL are the service endpoints.
	// They are fields rather than constants so tests can point the
	// client at a local server.
	gwURL            string
	publicURL        string
	mediaURL         string
	coverURLTemplate string

	// apiTokenMu guards apiToken across concurrent gw calls.
	apiTokenMu sync.Mutex
	// apiToken is the CSRF token required by most gw methods.
	apiToken string

	// sessionMu guards session.
	sessionMu sync.RWMutex
	// session is the account state captured at login.
	session *UserSession

	// tracksCache caches track metadata to reduce duplicate API calls for the same tracks.
	tracksCache *lru.Cache[string, *Track]
	// albumTracksCache caches album track lists to reduce duplicate API calls for the same albums.
	albumTracksCache *lru.Cache[string, []*Track]
}

// NewClient creates and returns a new instance of ClientImpl.
// It initializes the HTTP client and metadata caches with the provided configuration.
func NewClient(cfg *config.Config) (Client, error) {
	// Create a cookie jar to manage the session cookie.
	cookies, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	cookieURL, err := url.Parse(homeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid host URL: %w", err)
	}

	// Initialize the HTTP client with custom transport and timeout.
	httpClient := &http.Client{
		Transport: http_transport.NewUserAgentInjector(
			http_transport.NewLogTransport(http.DefaultTransport, 0),
			utils.NewSimpleUserAgentProvider(http_transport.DefaultUserAgent)),
		Jar:     cookies,
		Timeout: http_transport.DefaultTimeout,
	}

	// Initialize LRU caches for metadata to reduce redundant API calls.
	tracksCache, err := lru.New[string, *Track](tracksCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracks cache: %w", err)
	}

	albumTracksCache, err := lru.New[string, []*Track](albumTracksCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create album tracks cache: %w", err)
	}

	client := &ClientImpl{
		cfg:              cfg,
		httpClient:       httpClient,
		cookieURL:        cookieURL,
		gwURL:            gwAPIURL,
		publicURL:        publicAPIURL,
		mediaURL:         mediaAPIURL,
		coverURLTemplate: imageCDNURLTemplate,
		tracksCache:      tracksCache,
		albumTracksCache: albumTracksCache,
	}

	return client, nil
}

// LoginWithARL authenticates the session with an arl cookie value.
// It installs the cookie, fetches the account state and caches the CSRF
// token for subsequent gw calls.
func (c *ClientImpl) LoginWithARL(ctx context.Context, arl string) (*UserSession, error) {
	cookie := &http.Cookie{
		Name:   arlCookieName,
		Value:  arl,
		Domain: ".deezer.com",
		Path:   "/",
	}
	c.httpClient.Jar.SetCookies(c.cookieURL, []*http.Cookie{cookie})

	results, err := c.gwCall(ctx, methodGetUserData, struct{}{})
	if err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(results)

	userID := parsed.Get("USER.USER_ID").Int()
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	session := &UserSession{
		UserID:              userID,
		Name:                parsed.Get("USER.BLOG_NAME").String(),
		LicenseToken:        parsed.Get("USER.OPTIONS.license_token").String(),
		CanStreamHQ:         parsed.Get("USER.OPTIONS.web_hq").Bool(),
		CanStreamLossless:   parsed.Get("USER.OPTIONS.web_lossless").Bool(),
		Country:             parsed.Get("COUNTRY").String(),
		FavoritesPlaylistID: parsed.Get("USER.LOVEDTRACKS_ID").Int(),
	}

	c.apiTokenMu.Lock()
	c.apiToken = parsed.Get("checkForm").String()
	c.apiTokenMu.Unlock()

	c.sessionMu.Lock()
	c.session = session
	c.sessionMu.Unlock()

	logger.Debugf(ctx, "Authenticated as %q (user %d, country %s)", session.Name, session.UserID, session.Country)

	return session, nil
}

// Session returns the authenticated session, or nil before login.
func (c *ClientImpl) Session() *UserSession {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()

	return c.session
}

// GetTrack retrieves metadata for a single track.
// Uses an LRU cache to avoid redundant API calls for the same track.
func (c *ClientImpl) GetTrack(ctx context.Context, trackID string) (*Track, error) {
	if cached, ok := c.tracksCache.Get(trackID); ok {
		logger.Debugf(ctx, "Track cache hit for ID: %s", trackID)

		return cached, nil
	}

	results, err := c.gwCall(ctx, methodSongGetData, map[string]any{"SNG_ID": trackID})
	if err != nil {
		return nil, err
	}

	var track Track
	if err = json.Unmarshal(results, &track); err != nil {
		return nil, fmt.Errorf("failed to decode track %s: %w", trackID, err)
	}

	if track.ID.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrTrackNotFound, trackID)
	}

	c.tracksCache.Add(trackID, &track)

	return &track, nil
}

// GetTracksByIDs retrieves metadata for the specified track IDs.
// IDs are fetched in fixed-size batches; the result preserves the input
// order and silently drops IDs the service no longer knows.
func (c *ClientImpl) GetTracksByIDs(ctx context.Context, trackIDs []string) ([]*Track, error) {
	found := make(map[string]*Track, len(trackIDs))
	uncachedIDs := make([]string, 0, len(trackIDs))

	// Check cache first for each track ID.
	for _, id := range trackIDs {
		if cached, ok := c.tracksCache.Get(id); ok {
			found[id] = cached
		} else {
			uncachedIDs = append(uncachedIDs, id)
		}
	}

	if len(uncachedIDs) > 0 {
		logger.Debugf(ctx, "Fetching %d uncached tracks from API", len(uncachedIDs))
	}

	for start := 0; start < len(uncachedIDs); start += trackBatchSize {
		end := min(start+trackBatchSize, len(uncachedIDs))

		results, err := c.gwCall(ctx, methodSongGetListData, map[string]any{"SNG_IDS": uncachedIDs[start:end]})
		if err != nil {
			return nil, err
		}

		var page listResponse[*Track]
		if err = json.Unmarshal(results, &page); err != nil {
			return nil, fmt.Errorf("failed to decode track batch: %w", err)
		}

		for _, track := range page.Data {
			if track == nil || track.ID.IsZero() {
				continue
			}

			c.tracksCache.Add(track.ID.String(), track)
			found[track.ID.String()] = track
		}
	}

	tracks := make([]*Track, 0, len(trackIDs))

	for _, id := range trackIDs {
		if track, ok := found[id]; ok {
			tracks = append(tracks, track)
		} else {
			logger.Warnf(ctx, "Track %s is missing from the API response, skipping it", id)
		}
	}

	return tracks, nil
}

// GetAlbumTracks retrieves all tracks of the specified album.
// Uses an LRU cache to avoid redundant API calls for the same album.
func (c *ClientImpl) GetAlbumTracks(ctx context.Context, albumID string) ([]*Track, error) {
	if cached, ok := c.albumTracksCache.Get(albumID); ok {
		logger.Debugf(ctx, "Album tracks cache hit for ID: %s", albumID)

		return cached, nil
	}

	results, err := c.gwCall(ctx, methodSongListByAlbum, map[string]any{
		"ALB_ID": albumID,
		"nb":     -1,
	})
	if err != nil {
		return nil, err
	}

	var page listResponse[*Track]
	if err = json.Unmarshal(results, &page); err != nil {
		return nil, fmt.Errorf("failed to decode album %s tracks: %w", albumID, err)
	}

	c.albumTracksCache.Add(albumID, page.Data)

	for _, track := range page.Data {
		if track != nil && !track.ID.IsZero() {
			c.tracksCache.Add(track.ID.String(), track)
		}
	}

	return page.Data, nil
}

// GetPlaylist retrieves metadata for the specified playlist.
func (c *ClientImpl) GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error) {
	results, err := c.gwCall(ctx, methodPagePlaylist, map[string]any{
		"PLAYLIST_ID": playlistID,
		"lang":        "en",
		"header":      true,
		"tab":         0,
	})
	if err != nil {
		return nil, err
	}

	var page pagePlaylistResponse
	if err = json.Unmarshal(results, &page); err != nil {
		return nil, fmt.Errorf("failed to decode playlist %s: %w", playlistID, err)
	}

	if page.Data == nil || page.Data.ID.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrPlaylistNotFound, playlistID)
	}

	return page.Data, nil
}

// GetPlaylistTracks retrieves all tracks of the specified playlist.
func (c *ClientImpl) GetPlaylistTracks(ctx context.Context, playlistID string) ([]*Track, error) {
	results, err := c.gwCall(ctx, methodPlaylistGetSongs, map[string]any{
		"PLAYLIST_ID": playlistID,
		"nb":          -1,
		"start":       0,
	})
	if err != nil {
		return nil, err
	}

	var page listResponse[*Track]
	if err = json.Unmarshal(results, &page); err != nil {
		return nil, fmt.Errorf("failed to decode playlist %s tracks: %w", playlistID, err)
	}

	for _, track := range page.Data {
		if track != nil && !track.ID.IsZero() {
			c.tracksCache.Add(track.ID.String(), track)
		}
	}

	return page.Data, nil
}

// GetFavoriteTrackIDs retrieves the authenticated user's loved track IDs.
func (c *ClientImpl) GetFavoriteTrackIDs(ctx context.Context) ([]string, error) {
	session := c.Session()
	if session == nil {
		return nil, ErrUnauthenticated
	}

	results, err := c.gwCall(ctx, methodSongFavoriteIDs, map[string]any{
		"USER_ID": session.UserID,
		"nb":      favoritesFetchLimit,
		"start":   0,
	})
	if err != nil {
		return nil, err
	}

	var page listResponse[struct {
		ID FlexID `json:"SNG_ID"`
	}]
	if err = json.Unmarshal(results, &page); err != nil {
		return nil, fmt.Errorf("failed to decode favorite track IDs: %w", err)
	}

	trackIDs := make([]string, 0, len(page.Data))

	for _, entry := range page.Data {
		if !entry.ID.IsZero() {
			trackIDs = append(trackIDs, entry.ID.String())
		}
	}

	return trackIDs, nil
}

// GetArtist retrieves metadata for the specified artist.
func (c *ClientImpl) GetArtist(ctx context.Context, artistID string) (*Artist, error) {
	results, err := c.gwCall(ctx, methodArtistGetData, map[string]any{"ART_ID": artistID})
	if err != nil {
		return nil, err
	}

	var artist Artist
	if err = json.Unmarshal(results, &artist); err != nil {
		return nil, fmt.Errorf("failed to decode artist %s: %w", artistID, err)
	}

	if artist.ID.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrArtistNotFound, artistID)
	}

	return &artist, nil
}

// GetArtistDiscography retrieves the artist's complete list of albums,
// paging through the gw endpoint until the advertised total is reached.
func (c *ClientImpl) GetArtistDiscography(ctx context.Context, artistID string) ([]*Album, error) {
	var albums []*Album

	for start := 0; ; start += discographyPageSize {
		results, err := c.gwCall(ctx, methodAlbumDiscography, map[string]any{
			"ART_ID":           artistID,
			"discography_mode": "all",
			"nb":               discographyPageSize,
			"nb_songs":         0,
			"start":            start,
		})
		if err != nil {
			return nil, err
		}

		var page listResponse[*Album]
		if err = json.Unmarshal(results, &page); err != nil {
			return nil, fmt.Errorf("failed to decode discography of artist %s: %w", artistID, err)
		}

		if len(page.Data) == 0 {
			break
		}

		albums = append(albums, page.Data...)

		if int64(len(albums)) >= page.Total.Int64() {
			break
		}
	}

	return albums, nil
}

// SearchArtists queries the public search API for artists by name.
func (c *ClientImpl) SearchArtists(ctx context.Context, query string) ([]*ArtistSearchResult, error) {
	searchURL, err := url.Parse(c.publicURL + "/search/artist")
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprintf("%d", artistSearchLimit))
	searchURL.RawQuery = params.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	var page listResponse[*ArtistSearchResult]
	if err = json.NewDecoder(response.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode artist search results: %w", err)
	}

	return page.Data, nil
}

// GetMediaURL mints a short-lived stream URL for a track token and format.
// Returns ErrQualityUnavailable when the service has no stream at the
// requested quality, which callers treat as a fallback signal.
func (c *ClientImpl) GetMediaURL(ctx context.Context, trackToken, format string) (string, error) {
	session := c.Session()
	if session == nil {
		return "", ErrUnauthenticated
	}

	body, err := json.Marshal(&mediaRequest{
		LicenseToken: session.LicenseToken,
		Media: []mediaSpec{{
			Type: "FULL",
			Formats: []mediaFormat{{
				Cipher: mediaCipherName,
				Format: format,
			}},
		}},
		TrackTokens: []string{trackToken},
	})
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.mediaURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", err
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	var decoded mediaResponse
	if err = json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode media response: %w", err)
	}

	if len(decoded.Data) == 0 {
		return "", ErrEmptyGWResults
	}

	entry := decoded.Data[0]
	if len(entry.Errors) > 0 {
		logger.Debugf(ctx, "Media API refused format %s: %s (code %d)",
			format, entry.Errors[0].Message, entry.Errors[0].Code)

		return "", fmt.Errorf("%w: %s", ErrQualityUnavailable, format)
	}

	for _, media := range entry.Media {
		for _, source := range media.Sources {
			if source.URL != "" {
				return source.URL, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s", ErrQualityUnavailable, format)
}

// FetchTrack opens the encrypted byte stream behind a minted media URL.
func (c *ClientImpl) FetchTrack(ctx context.Context, trackURL string) (*FetchTrackResult, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	// Add a Range header to request partial content.
	request.Header.Add("Range", "bytes=0-")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusPartialContent {
		response.Body.Close() //nolint:gosec // Error on close is not critical here.

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return &FetchTrackResult{
		Body:       response.Body,
		TotalBytes: response.ContentLength,
	}, nil
}

// GetAlbumCover downloads square cover art of the given pixel size.
func (c *ClientImpl) GetAlbumCover(ctx context.Context, pictureHash string, size int) ([]byte, error) {
	coverURL := fmt.Sprintf(c.coverURLTemplate, pictureHash, size, size)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, coverURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return io.ReadAll(response.Body)
}

// gwCall invokes a gw-light method and returns its results payload.
// The CSRF token is refreshed and the call replayed once when the
// service reports the token invalid.
func (c *ClientImpl) gwCall(ctx context.Context, method string, body any) (json.RawMessage, error) {
	token, err := c.tokenForMethod(ctx, method)
	if err != nil {
		return nil, err
	}

	results, err := c.doGWRequest(ctx, method, token, body)
	if err == nil || !isInvalidTokenError(err) {
		return results, err
	}

	logger.Debugf(ctx, "CSRF token rejected for method %s, refreshing it", method)

	token, err = c.refreshAPIToken(ctx)
	if err != nil {
		return nil, err
	}

	return c.doGWRequest(ctx, method, token, body)
}

// tokenForMethod returns the token to send with the given gw method.
// deezer.getUserData is the bootstrap call and always uses the null token.
func (c *ClientImpl) tokenForMethod(ctx context.Context, method string) (string, error) {
	if method == methodGetUserData {
		return "null", nil
	}

	c.apiTokenMu.Lock()
	token := c.apiToken
	c.apiTokenMu.Unlock()

	if token != "" {
		return token, nil
	}

	return c.refreshAPIToken(ctx)
}

// refreshAPIToken fetches a fresh CSRF token via deezer.getUserData.
func (c *ClientImpl) refreshAPIToken(ctx context.Context) (string, error) {
	results, err := c.doGWRequest(ctx, methodGetUserData, "null", struct{}{})
	if err != nil {
		return "", fmt.Errorf("failed to refresh API token: %w", err)
	}

	token := gjson.GetBytes(results, "checkForm").String()

	c.apiTokenMu.Lock()
	c.apiToken = token
	c.apiTokenMu.Unlock()

	return token, nil
}

// doGWRequest performs a single gw-light POST.
// Transport failures and server-side 5xx responses are retried with
// exponential backoff; application errors are returned as is.
func (c *ClientImpl) doGWRequest(ctx context.Context, method, token string, body any) (json.RawMessage, error) {
	requestBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	requestURL, err := url.Parse(c.gwURL)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("api_version", "1.0")
	query.Set("api_token", token)
	query.Set("input", "3")
	query.Set("method", method)
	requestURL.RawQuery = query.Encode()

	operation := func() (json.RawMessage, error) {
		request, err := http.NewRequestWithContext(
			ctx, http.MethodPost, requestURL.String(), bytes.NewReader(requestBody))
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		request.Header.Set("Content-Type", "application/json")

		response, err := c.httpClient.Do(request)
		if err != nil {
			return nil, err
		}

		defer response.Body.Close()

		if response.StatusCode != http.StatusOK {
			statusErr := fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
			if response.StatusCode >= http.StatusInternalServerError {
				return nil, statusErr
			}

			return nil, backoff.Permanent(statusErr)
		}

		var envelope gwResponse
		if err = json.NewDecoder(response.Body).Decode(&envelope); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to decode gw response: %w", err))
		}

		if message := gwErrorMessage(envelope.Error); message != "" {
			return nil, backoff.Permanent(fmt.Errorf("%w: method %s: %s", ErrGWAPIError, method, message))
		}

		if len(envelope.Results) == 0 {
			return nil, backoff.Permanent(fmt.Errorf("%w: method %s", ErrEmptyGWResults, method))
		}

		return envelope.Results, nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.cfg.RetryAttemptsCount)),
		ctx)

	return backoff.RetryWithData(operation, policy)
}

// gwErrorMessage extracts a human-readable message from the gw error
// field, which is an empty object or array on success.
func gwErrorMessage(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	switch trimmed {
	case "", "null", "false", "0", "[]", "{}":
		return ""
	}

	return trimmed
}

// isInvalidTokenError reports whether a gw error means the cached CSRF
// token expired and the call should be replayed with a fresh one.
func isInvalidTokenError(err error) bool {
	if err == nil {
		return false
	}

	message := strings.ToLower(err.Error())

	return strings.Contains(message, "invalid api token") ||
		strings.Contains(message, "invalid csrf token")
}
