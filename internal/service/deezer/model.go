package deezer

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oshokin/deezer-grabber/internal/client/deezer"
)

const (
	// defaultFolderPermissions sets the default permissions for folders: (rwxr-xr-x).
	defaultFolderPermissions os.FileMode = 0o755

	// File extensions.
	extensionMP3  = ".mp3"
	extensionFLAC = ".flac"
	extensionBin  = ".bin"
	extensionJPG  = ".jpg"
	extensionTXT  = ".txt"

	// Default filenames and values.
	defaultCoverBasename    = "cover"
	trackNumberPaddingWidth = 2

	// coverArtSize is the square pixel size requested from the image CDN.
	coverArtSize = 1000
)

// DownloadCategory represents the type of content being downloaded.
type DownloadCategory uint8

const (
	// DownloadCategoryUnknown - unknown category.
	DownloadCategoryUnknown DownloadCategory = iota
	// DownloadCategoryTrack - single track.
	DownloadCategoryTrack
	// DownloadCategoryAlbum - full album.
	DownloadCategoryAlbum
	// DownloadCategoryPlaylist - playlist.
	DownloadCategoryPlaylist
	// DownloadCategoryArtist - complete artist's discography.
	DownloadCategoryArtist
	// DownloadCategoryFavorites - the authenticated user's loved tracks.
	DownloadCategoryFavorites
)

// String returns a human-readable representation of the DownloadCategory.
func (dc DownloadCategory) String() string {
	switch dc {
	case DownloadCategoryUnknown:
		return "unknown"
	case DownloadCategoryTrack:
		return "track"
	case DownloadCategoryAlbum:
		return "album"
	case DownloadCategoryPlaylist:
		return "playlist"
	case DownloadCategoryArtist:
		return "artist"
	case DownloadCategoryFavorites:
		return "favorites"
	default:
		return fmt.Sprintf("unknown: %d", dc)
	}
}

// SkipReason represents why a track was skipped.
type SkipReason uint8

const (
	// SkipReasonExists - track file already exists.
	SkipReasonExists SkipReason = iota
)

// String returns a human-readable representation of the SkipReason.
func (sr SkipReason) String() string {
	switch sr {
	case SkipReasonExists:
		return "already exists"
	default:
		return fmt.Sprintf("unknown reason: %d", sr)
	}
}

// DownloadItem represents a full downloadable item, including its category, URL, and unique identifier.
type DownloadItem struct {
	// Category is the type of content. (track, album, playlist, etc.).
	Category DownloadCategory
	// URL is the direct URL to the item.
	URL string
	// ItemID is the unique identifier of the item.
	ItemID string
}

// ShortDownloadItem is a lightweight version of DownloadItem without the URL.
// It is useful when storing or processing items without needing the actual download link.
type ShortDownloadItem struct {
	// Category is the type of content.
	Category DownloadCategory
	// ItemID is the unique identifier of the item.
	ItemID string
}

// String returns a human-readable representation of the DownloadItem.
func (di DownloadItem) String() string {
	return fmt.Sprintf("category: %v, ID: %s", di.Category, di.ItemID)
}

// GetShortVersion converts a full DownloadItem into a ShortDownloadItem by stripping the URL.
func (di DownloadItem) GetShortVersion() ShortDownloadItem {
	return ShortDownloadItem{
		Category: di.Category,
		ItemID:   di.ItemID,
	}
}

// DownloadStatistics tracks metrics for a download session.
type DownloadStatistics struct {
	// StartTime is when the download session began.
	StartTime time.Time
	// EndTime is when the download session completed.
	EndTime time.Time
	// IsDryRun indicates if this was a dry-run preview.
	IsDryRun bool
	// TotalTracksProcessed is the total number of tracks attempted.
	TotalTracksProcessed int64
	// TracksDownloaded is the number of tracks successfully downloaded.
	TracksDownloaded int64
	// TracksSkipped is the total number of tracks skipped for any reason.
	TracksSkipped int64
	// TracksSkippedExists is the number of tracks skipped because they already exist.
	TracksSkippedExists int64
	// TracksFailed is the number of tracks that failed to download.
	TracksFailed int64
	// TracksFailedUnavailable is the number of failed tracks whose every quality tier was unplayable.
	TracksFailedUnavailable int64
	// TotalBytesDownloaded is the total size of downloaded content in bytes.
	TotalBytesDownloaded int64
	// CoversDownloaded is the number of cover art files downloaded.
	CoversDownloaded int64
	// CoversSkipped is the number of cover art files skipped (already exist).
	CoversSkipped int64
	// Errors is a list of all errors encountered during the download process.
	Errors []DownloadError
}

// DownloadError represents a single error that occurred during download.
type DownloadError struct {
	// Category is the type of item that failed (track, album, playlist, artist).
	Category DownloadCategory
	// ItemID is the unique identifier of the item that failed.
	ItemID string
	// ItemTitle is the human-readable title of the item.
	ItemTitle string
	// ItemURL is the URL of the failed item (for albums/playlists/artists).
	ItemURL string
	// ErrorMessage is the error message.
	ErrorMessage string
	// Phase indicates when the error occurred (e.g., "fetching metadata", "downloading track").
	Phase string
	// ParentCategory is the type of parent collection (album/playlist) for tracks.
	ParentCategory DownloadCategory
	// ParentID is the ID of the parent collection.
	ParentID string
	// ParentTitle is the title of the parent collection.
	ParentTitle string
}

// DownloadTrackResult contains the result of downloadAndSaveTrack operation.
type DownloadTrackResult struct {
	// IsExist indicates whether the track file already existed (download was skipped).
	IsExist bool
	// TempPath is the path to the temporary .part file (empty if download was skipped or failed).
	TempPath string
	// BytesDownloaded is the number of bytes successfully downloaded.
	BytesDownloaded int64
}

// TrackQuality represents the audio quality level.
type TrackQuality uint8

// Enum values for TrackQuality.
const (
	// TrackQualityUnknown represents an unknown or unspecified audio quality.
	TrackQualityUnknown TrackQuality = iota
	// TrackQualityMP3Mid represents MP3 format at 128 Kbps.
	TrackQualityMP3Mid
	// TrackQualityMP3High represents MP3 format at 320 Kbps.
	TrackQualityMP3High
	// TrackQualityFLAC represents FLAC lossless format.
	TrackQualityFLAC
)

// Constants for repeated string literals.
const (
	// TrackQualityMP3MidString is the string representation for 128 Kbps quality.
	TrackQualityMP3MidString = "128"
	// TrackQualityMP3HighString is the string representation for 320 Kbps quality.
	TrackQualityMP3HighString = "320"
	// TrackQualityFLACString is the string representation for FLAC quality.
	TrackQualityFLACString = "flac"
)

// String returns the display value of the Quality enum.
func (tq TrackQuality) String() string {
	//nolint:exhaustive // All meaningful cases are explicitly handled; default covers unknown values.
	switch tq {
	case TrackQualityMP3Mid:
		return "MP3, 128 Kbps (standard quality)"
	case TrackQualityMP3High:
		return "MP3, 320 Kbps (high quality)"
	case TrackQualityFLAC:
		return "FLAC, 16-bit (lossless quality)"
	default:
		return "unknown format"
	}
}

// Extension returns the file extension for the Quality enum.
func (tq TrackQuality) Extension() string {
	//nolint:exhaustive // All meaningful cases are explicitly handled; default covers unknown values.
	switch tq {
	case TrackQualityMP3High, TrackQualityMP3Mid:
		return extensionMP3
	case TrackQualityFLAC:
		return extensionFLAC
	default:
		return extensionBin
	}
}

// FormatCode returns the numeric gw format code for the TrackQuality.
func (tq TrackQuality) FormatCode() int {
	//nolint:exhaustive // All meaningful cases are explicitly handled; default covers unknown values.
	switch tq {
	case TrackQualityMP3Mid:
		return 1
	case TrackQualityMP3High:
		return 3
	case TrackQualityFLAC:
		return 9
	default:
		return 0
	}
}

// APIName returns the media API format name for the TrackQuality.
func (tq TrackQuality) APIName() string {
	//nolint:exhaustive // All meaningful cases are explicitly handled; default covers unknown values.
	switch tq {
	case TrackQualityMP3Mid:
		return "MP3_128"
	case TrackQualityMP3High:
		return "MP3_320"
	case TrackQualityFLAC:
		return "FLAC"
	default:
		return ""
	}
}

// FallbackChain returns the quality tiers to try, in descending order,
// starting from the receiver. Higher tiers are never probed.
func (tq TrackQuality) FallbackChain() []TrackQuality {
	switch tq {
	case TrackQualityFLAC:
		return []TrackQuality{TrackQualityFLAC, TrackQualityMP3High, TrackQualityMP3Mid}
	case TrackQualityMP3High:
		return []TrackQuality{TrackQualityMP3High, TrackQualityMP3Mid}
	case TrackQualityMP3Mid:
		return []TrackQuality{TrackQualityMP3Mid}
	case TrackQualityUnknown:
		return nil
	default:
		return nil
	}
}

// ParseQuality converts a string to a Quality enum.
func ParseQuality(s string) TrackQuality {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case TrackQualityMP3MidString:
		return TrackQualityMP3Mid
	case TrackQualityMP3HighString:
		return TrackQualityMP3High
	case TrackQualityFLACString:
		return TrackQualityFLAC
	default:
		return TrackQualityUnknown
	}
}

// audioCollection represents a collection of audio tracks with associated metadata.
type audioCollection struct {
	// category indicates the type of collection (album, playlist, etc.).
	category DownloadCategory
	// title is the collection name.
	title string
	// tags contains metadata key-value pairs for the collection.
	tags map[string]string
	// tracksPath is the directory path where tracks will be saved.
	tracksPath string
	// coverPath is the file path for the collection's cover art.
	coverPath string
	// tracksCount is the total number of tracks in the collection.
	tracksCount int64
}

// downloadTracksMetadata contains all metadata needed for downloading tracks.
type downloadTracksMetadata struct {
	// category indicates the type of download (album, playlist, etc.).
	category DownloadCategory
	// tracks is the ordered list of tracks to download.
	tracks []*deezer.Track
	// audioCollection contains the collection structure for the download.
	audioCollection *audioCollection
}

// downloadTrackRequest contains parameters for downloading a single track.
type downloadTrackRequest struct {
	// trackIndex is the position of the track in the download queue.
	trackIndex int64
	// track is the track to download.
	track *deezer.Track
	// metadata contains all metadata needed for downloading.
	metadata *downloadTracksMetadata
}
