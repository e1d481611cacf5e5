package deezer

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
)

// FlexID decodes the gw-light API's identifiers, which arrive as either
// JSON numbers or JSON strings depending on the endpoint and the entity's age.
// It normalizes both to the canonical decimal string form.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""

		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*f = FlexID(s)

		return nil
	}

	*f = FlexID(data)

	return nil
}

// String returns the canonical decimal form of the identifier.
func (f FlexID) String() string {
	return string(f)
}

// IsZero reports whether the identifier is absent or the service's "0" placeholder.
func (f FlexID) IsZero() bool {
	return f == "" || f == "0"
}

// FlexInt decodes integers that the gw-light API serves as either numbers or strings.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0

		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		if s == "" {
			*f = 0

			return nil
		}

		parsed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}

		*f = FlexInt(parsed)

		return nil
	}

	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	*f = FlexInt(v)

	return nil
}

// Int64 returns the value as a plain int64.
func (f FlexInt) Int64() int64 {
	return int64(f)
}

// Track represents gw-light track metadata.
type Track struct {
	// ID is the unique track identifier.
	ID FlexID `json:"SNG_ID"`
	// Title is the track name.
	Title string `json:"SNG_TITLE"`
	// Version is an optional title suffix such as "(Remastered)".
	Version string `json:"VERSION"`
	// ArtistName is the primary artist's display name.
	ArtistName string `json:"ART_NAME"`
	// ArtistID is the primary artist's identifier.
	ArtistID FlexID `json:"ART_ID"`
	// AlbumTitle is the containing album's name.
	AlbumTitle string `json:"ALB_TITLE"`
	// AlbumID is the containing album's identifier.
	AlbumID FlexID `json:"ALB_ID"`
	// AlbumPicture is the cover art hash on the image CDN.
	AlbumPicture string `json:"ALB_PICTURE"`
	// Duration is the track length in seconds.
	Duration FlexInt `json:"DURATION"`
	// TrackNumber is the track's position on its album.
	TrackNumber FlexInt `json:"TRACK_NUMBER"`
	// DiskNumber is the disk the track belongs to.
	DiskNumber FlexInt `json:"DISK_NUMBER"`
	// ISRC is the International Standard Recording Code.
	ISRC string `json:"ISRC"`
	// ReleaseDate is the album's physical release date in "2006-01-02" form.
	ReleaseDate string `json:"PHYSICAL_RELEASE_DATE"`
	// MD5Origin keys the legacy CDN URL scheme.
	MD5Origin string `json:"MD5_ORIGIN"`
	// MediaVersion versions the track's media files.
	MediaVersion FlexID `json:"MEDIA_VERSION"`
	// TrackToken authorizes media URL minting; short-lived.
	TrackToken string `json:"TRACK_TOKEN"`
	// TrackTokenExpire is the token's expiry as a Unix timestamp.
	TrackTokenExpire FlexInt `json:"TRACK_TOKEN_EXPIRE"`
	// FilesizeMP3128, FilesizeMP3320 and FilesizeFLAC are per-tier stream
	// sizes in bytes; zero means the tier does not exist for this track.
	FilesizeMP3128 FlexInt `json:"FILESIZE_MP3_128"`
	FilesizeMP3320 FlexInt `json:"FILESIZE_MP3_320"`
	FilesizeFLAC   FlexInt `json:"FILESIZE_FLAC"`
}

// DisplayName returns the human-facing "artist - title" form of the track.
func (t *Track) DisplayName() string {
	artist := t.ArtistName
	if artist == "" {
		artist = "Unknown Artist"
	}

	return artist + " - " + t.Title
}

// FilesizeForFormat returns the stream size in bytes for a gw format code
// (9 = FLAC, 3 = MP3 320, 1 = MP3 128), or zero for unknown codes.
func (t *Track) FilesizeForFormat(formatCode int) int64 {
	switch formatCode {
	case 9:
		return t.FilesizeFLAC.Int64()
	case 3:
		return t.FilesizeMP3320.Int64()
	case 1:
		return t.FilesizeMP3128.Int64()
	default:
		return 0
	}
}

// Playlist represents gw-light playlist metadata.
type Playlist struct {
	// ID is the unique playlist identifier.
	ID FlexID `json:"PLAYLIST_ID"`
	// Title is the playlist name.
	Title string `json:"TITLE"`
	// SongCount is the number of tracks in the playlist.
	SongCount FlexInt `json:"NB_SONG"`
	// OwnerName is the display name of the playlist's owner.
	OwnerName string `json:"PARENT_USERNAME"`
}

// Album represents gw-light album metadata as returned by the discography endpoint.
type Album struct {
	// ID is the unique album identifier.
	ID FlexID `json:"ALB_ID"`
	// Title is the album name.
	Title string `json:"ALB_TITLE"`
	// ArtistName is the album artist's display name.
	ArtistName string `json:"ART_NAME"`
	// TrackCount is the number of tracks on the album.
	TrackCount FlexInt `json:"NB_TRACKS"`
	// IsOfficial distinguishes official releases from compilations
	// the artist merely appears on.
	IsOfficial bool `json:"ARTISTS_ALBUMS_IS_OFFICIAL"`
}

// Artist represents gw-light artist metadata.
type Artist struct {
	// ID is the unique artist identifier.
	ID FlexID `json:"ART_ID"`
	// Name is the artist's display name.
	Name string `json:"ART_NAME"`
}

// ArtistSearchResult represents one hit from the public search API.
type ArtistSearchResult struct {
	// ID is the unique artist identifier.
	ID int64 `json:"id"`
	// Name is the artist's display name.
	Name string `json:"name"`
	// FanCount ranks the hit's popularity.
	FanCount int64 `json:"nb_fan"`
}

// UserSession holds the account state extracted from deezer.getUserData
// after a successful arl login. It is read-only once created and shared
// by every concurrent download job.
type UserSession struct {
	// UserID is the numeric account identifier.
	UserID int64
	// Name is the account's display name.
	Name string
	// LicenseToken authorizes media URL minting.
	LicenseToken string
	// CanStreamHQ reports the 320 kbps entitlement.
	CanStreamHQ bool
	// CanStreamLossless reports the FLAC entitlement.
	CanStreamLossless bool
	// Country is the account's licensing country.
	Country string
	// FavoritesPlaylistID identifies the account's loved-tracks playlist.
	FavoritesPlaylistID int64
}

// FetchTrackResult carries an open track stream and its advertised length.
type FetchTrackResult struct {
	// Body is the raw (still encrypted) byte stream.
	Body io.ReadCloser
	// TotalBytes is the Content-Length of the stream, -1 when unknown.
	TotalBytes int64
}

// gwResponse is the envelope of every gw-light reply.
type gwResponse struct {
	// Error is empty, an empty object/array, or an error description.
	Error json.RawMessage `json:"error"`
	// Results is the method-specific payload.
	Results json.RawMessage `json:"results"`
}

// listResponse wraps the common {"data": [...], "total": n} payload shape.
type listResponse[T any] struct {
	Data  []T     `json:"data"`
	Total FlexInt `json:"total"`
}

// pagePlaylistResponse is the shape of deezer.pagePlaylist results.
type pagePlaylistResponse struct {
	Data *Playlist `json:"DATA"`
}

// mediaRequest is the body of a media URL minting call.
type mediaRequest struct {
	LicenseToken string      `json:"license_token"`
	Media        []mediaSpec `json:"media"`
	TrackTokens  []string    `json:"track_tokens"`
}

type mediaSpec struct {
	Type    string        `json:"type"`
	Formats []mediaFormat `json:"formats"`
}

type mediaFormat struct {
	Cipher string `json:"cipher"`
	Format string `json:"format"`
}

// mediaResponse is the reply of a media URL minting call.
type mediaResponse struct {
	Data []mediaEntry `json:"data"`
}

type mediaEntry struct {
	Errors []mediaError `json:"errors"`
	Media  []mediaInfo  `json:"media"`
}

type mediaError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

type mediaInfo struct {
	Sources []mediaSource `json:"sources"`
}

type mediaSource struct {
	URL string `json:"url"`
}
