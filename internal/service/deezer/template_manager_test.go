package deezer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oshokin/deezer-grabber/internal/config"
)

func newTestTemplateManager(cfgOverrides ...func(*config.Config)) TemplateManager {
	cfg := &config.Config{
		TrackFilenameTemplate:    config.DefaultTrackFilenameTemplate,
		AlbumFolderTemplate:      config.DefaultAlbumFolderTemplate,
		PlaylistFilenameTemplate: config.DefaultPlaylistFilenameTemplate,
	}

	for _, override := range cfgOverrides {
		override(cfg)
	}

	return NewTemplateManager(context.Background(), cfg)
}

func sampleTrackTags() map[string]string {
	return map[string]string{
		"trackNumber":    "3",
		"trackNumberPad": "03",
		"trackArtist":    "Daft Punk",
		"trackTitle":     "Harder Better Faster Stronger",
		"albumArtist":    "Daft Punk",
		"albumTitle":     "Discovery",
	}
}

// TestGetTrackFilename_AlbumTrack tests the default album track template.
func TestGetTrackFilename_AlbumTrack(t *testing.T) {
	t.Parallel()

	manager := newTestTemplateManager()

	filename := manager.GetTrackFilename(context.Background(), false, sampleTrackTags(), 14)
	assert.Equal(t, "03 - Harder Better Faster Stronger", filename)
}

// TestGetTrackFilename_PlaylistTrack tests that playlist tracks carry the artist.
func TestGetTrackFilename_PlaylistTrack(t *testing.T) {
	t.Parallel()

	manager := newTestTemplateManager()

	filename := manager.GetTrackFilename(context.Background(), true, sampleTrackTags(), 14)
	assert.Equal(t, "03 - Daft Punk - Harder Better Faster Stronger", filename)
}

// TestGetTrackFilename_Single tests that single-track collections use the
// artist-bearing template even outside playlists.
func TestGetTrackFilename_Single(t *testing.T) {
	t.Parallel()

	manager := newTestTemplateManager()

	filename := manager.GetTrackFilename(context.Background(), false, sampleTrackTags(), 1)
	assert.Equal(t, "03 - Daft Punk - Harder Better Faster Stronger", filename)
}

// TestGetTrackFilename_CustomTemplate tests a custom track filename template.
func TestGetTrackFilename_CustomTemplate(t *testing.T) {
	t.Parallel()

	manager := newTestTemplateManager(func(cfg *config.Config) {
		cfg.TrackFilenameTemplate = "{{.trackArtist}}_{{.trackTitle}}"
	})

	filename := manager.GetTrackFilename(context.Background(), false, sampleTrackTags(), 14)
	assert.Equal(t, "Daft Punk_Harder Better Faster Stronger", filename)
}

// TestGetTrackFilename_InvalidTemplateFallsBack tests falling back to the
// default template when the configured one does not parse.
func TestGetTrackFilename_InvalidTemplateFallsBack(t *testing.T) {
	t.Parallel()

	manager := newTestTemplateManager(func(cfg *config.Config) {
		cfg.TrackFilenameTemplate = "{{.trackTitle"
	})

	filename := manager.GetTrackFilename(context.Background(), false, sampleTrackTags(), 14)
	assert.Equal(t, "03 - Harder Better Faster Stronger", filename)
}

// TestGetTrackFilename_SpecialCharactersRoundTrip tests that characters the
// template engine escapes come back out unescaped.
func TestGetTrackFilename_SpecialCharactersRoundTrip(t *testing.T) {
	t.Parallel()

	manager := newTestTemplateManager()

	tags := sampleTrackTags()
	tags["trackTitle"] = `Rock & Roll <Deluxe> "Edition"`

	filename := manager.GetTrackFilename(context.Background(), false, tags, 14)
	assert.Equal(t, `03 - Rock & Roll <Deluxe> "Edition"`, filename)
}

// TestGetAlbumFolderName tests the default album folder template.
func TestGetAlbumFolderName(t *testing.T) {
	t.Parallel()

	manager := newTestTemplateManager()

	folderName := manager.GetAlbumFolderName(context.Background(), map[string]string{
		"albumArtist": "Daft Punk",
		"albumTitle":  "Discovery",
	})
	assert.Equal(t, "Daft Punk - Discovery", folderName)
}

// TestGetAlbumFolderName_CustomTemplate tests a custom folder template with
// extra album tags.
func TestGetAlbumFolderName_CustomTemplate(t *testing.T) {
	t.Parallel()

	manager := newTestTemplateManager(func(cfg *config.Config) {
		cfg.AlbumFolderTemplate = "{{.releaseYear}}/{{.albumArtist}} - {{.albumTitle}}"
	})

	folderName := manager.GetAlbumFolderName(context.Background(), map[string]string{
		"albumArtist": "Daft Punk",
		"albumTitle":  "Discovery",
		"releaseYear": "2001",
	})
	assert.Equal(t, "2001/Daft Punk - Discovery", folderName)
}

// TestGetAlbumFolderName_InvalidTemplateFallsBack tests the default folder
// template fallback.
func TestGetAlbumFolderName_InvalidTemplateFallsBack(t *testing.T) {
	t.Parallel()

	manager := newTestTemplateManager(func(cfg *config.Config) {
		cfg.AlbumFolderTemplate = "{{.albumTitle"
	})

	folderName := manager.GetAlbumFolderName(context.Background(), map[string]string{
		"albumArtist": "Daft Punk",
		"albumTitle":  "Discovery",
	})
	assert.Equal(t, "Daft Punk - Discovery", folderName)
}
