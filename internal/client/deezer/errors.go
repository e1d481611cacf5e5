package deezer

import "errors"

// Static error definitions for better error handling.
var (
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrUnauthenticated indicates a missing or rejected session credential.
	ErrUnauthenticated = errors.New("session is not authenticated")
	// ErrTrackNotFound indicates that the requested track does not exist upstream.
	ErrTrackNotFound = errors.New("track not found")
	// ErrPlaylistNotFound indicates that the requested playlist does not exist upstream.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrArtistNotFound indicates that the requested artist does not exist upstream.
	ErrArtistNotFound = errors.New("artist not found")
	// ErrQualityUnavailable indicates the service has no stream at the requested
	// quality tier for the track. This is the expected trigger for quality
	// fallback, not an exceptional condition.
	ErrQualityUnavailable = errors.New("no stream available at requested quality")
	// ErrGWAPIError indicates the gw-light endpoint returned an application error.
	ErrGWAPIError = errors.New("gw api error")
	// ErrEmptyGWResults indicates a gw-light response without a results payload.
	ErrEmptyGWResults = errors.New("gw response has no results")
)
