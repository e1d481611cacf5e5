package deezer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestTrackQuality_String tests the display names of quality tiers.
func TestTrackQuality_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		quality  TrackQuality
		expected string
	}{
		{TrackQualityMP3Mid, "MP3, 128 Kbps (standard quality)"},
		{TrackQualityMP3High, "MP3, 320 Kbps (high quality)"},
		{TrackQualityFLAC, "FLAC, 16-bit (lossless quality)"},
		{TrackQualityUnknown, "unknown format"},
		{TrackQuality(99), "unknown format"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.quality.String())
	}
}

// TestTrackQuality_Extension tests file extensions per tier.
func TestTrackQuality_Extension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		quality  TrackQuality
		expected string
	}{
		{TrackQualityMP3Mid, ".mp3"},
		{TrackQualityMP3High, ".mp3"},
		{TrackQualityFLAC, ".flac"},
		{TrackQualityUnknown, ".bin"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.quality.Extension())
	}
}

// TestTrackQuality_FormatCode tests the gw format codes.
func TestTrackQuality_FormatCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		quality  TrackQuality
		expected int
	}{
		{TrackQualityMP3Mid, 1},
		{TrackQualityMP3High, 3},
		{TrackQualityFLAC, 9},
		{TrackQualityUnknown, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.quality.FormatCode())
	}
}

// TestTrackQuality_APIName tests the media API format names.
func TestTrackQuality_APIName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		quality  TrackQuality
		expected string
	}{
		{TrackQualityMP3Mid, "MP3_128"},
		{TrackQualityMP3High, "MP3_320"},
		{TrackQualityFLAC, "FLAC"},
		{TrackQualityUnknown, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.quality.APIName())
	}
}

// TestTrackQuality_FallbackChain tests that chains descend from the
// requested tier and never include higher ones.
func TestTrackQuality_FallbackChain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		quality  TrackQuality
		expected []TrackQuality
	}{
		{
			name:     "FLAC falls through both MP3 tiers",
			quality:  TrackQualityFLAC,
			expected: []TrackQuality{TrackQualityFLAC, TrackQualityMP3High, TrackQualityMP3Mid},
		},
		{
			name:     "320 falls through to 128 only",
			quality:  TrackQualityMP3High,
			expected: []TrackQuality{TrackQualityMP3High, TrackQualityMP3Mid},
		},
		{
			name:     "128 has nothing to fall back to",
			quality:  TrackQualityMP3Mid,
			expected: []TrackQuality{TrackQualityMP3Mid},
		},
		{
			name:     "unknown quality has no chain",
			quality:  TrackQualityUnknown,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.quality.FallbackChain())
		})
	}
}

// TestParseQuality tests parsing of the quality config setting.
func TestParseQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected TrackQuality
	}{
		{"128", TrackQualityMP3Mid},
		{"320", TrackQualityMP3High},
		{"flac", TrackQualityFLAC},
		{"FLAC", TrackQualityFLAC},
		{"  flac  ", TrackQualityFLAC},
		{"best", TrackQualityUnknown},
		{"", TrackQualityUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseQuality(tt.input), "input: %q", tt.input)
	}
}

// TestDownloadCategory_String tests category display names.
func TestDownloadCategory_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		category DownloadCategory
		expected string
	}{
		{DownloadCategoryUnknown, "unknown"},
		{DownloadCategoryTrack, "track"},
		{DownloadCategoryAlbum, "album"},
		{DownloadCategoryPlaylist, "playlist"},
		{DownloadCategoryArtist, "artist"},
		{DownloadCategoryFavorites, "favorites"},
		{DownloadCategory(42), "unknown: 42"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.category.String())
	}
}

// TestSkipReason_String tests skip reason display names.
func TestSkipReason_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "already exists", SkipReasonExists.String())
	assert.Equal(t, "unknown reason: 7", SkipReason(7).String())
}

// TestDownloadItem_GetShortVersion tests stripping the URL from an item.
func TestDownloadItem_GetShortVersion(t *testing.T) {
	t.Parallel()

	item := DownloadItem{
		Category: DownloadCategoryAlbum,
		URL:      "https://www.deezer.com/album/103248",
		ItemID:   "103248",
	}

	short := item.GetShortVersion()
	assert.Equal(t, DownloadCategoryAlbum, short.Category)
	assert.Equal(t, "103248", short.ItemID)
}

// TestDownloadItem_String tests the item's display form.
func TestDownloadItem_String(t *testing.T) {
	t.Parallel()

	item := DownloadItem{Category: DownloadCategoryTrack, ItemID: "3135556"}
	assert.Equal(t, "category: track, ID: 3135556", item.String())
}
