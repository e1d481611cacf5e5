package deezer

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/oshokin/deezer-grabber/internal/client/deezer"
	"github.com/oshokin/deezer-grabber/internal/logger"
	"github.com/oshokin/deezer-grabber/internal/utils"
)

func (s *ServiceImpl) downloadPlaylist(ctx context.Context, item *DownloadItem) {
	// Fetch metadata for the playlist.
	playlist, err := s.deezerClient.GetPlaylist(ctx, item.ItemID)
	if err != nil {
		logger.Errorf(ctx, "Failed to get metadata for playlist with ID '%s': %v", item.ItemID, err)
		s.recordError(&ErrorContext{
			Category:  DownloadCategoryPlaylist,
			ItemID:    item.ItemID,
			ItemTitle: "Playlist ID: " + item.ItemID,
			ItemURL:   item.URL,
			Phase:     "fetching playlist metadata",
		}, err)

		return
	}

	tracks, err := s.deezerClient.GetPlaylistTracks(ctx, item.ItemID)
	if err != nil {
		logger.Errorf(ctx, "Failed to get tracks for playlist '%s': %v", playlist.Title, err)
		s.recordError(&ErrorContext{
			Category:  DownloadCategoryPlaylist,
			ItemID:    item.ItemID,
			ItemTitle: playlist.Title,
			ItemURL:   item.URL,
			Phase:     "fetching playlist tracks",
		}, err)

		return
	}

	if len(tracks) == 0 {
		logger.Infof(ctx, "Playlist '%s' contains no tracks", playlist.Title)

		return
	}

	// Register the playlist collection (create the folder, etc.).
	audioCollection := s.registerPlaylistCollection(ctx, item.ItemID, playlist, int64(len(tracks)))
	if audioCollection == nil {
		return
	}

	// Download all tracks in the playlist.
	s.downloadTracks(ctx, &downloadTracksMetadata{
		category:        DownloadCategoryPlaylist,
		tracks:          tracks,
		audioCollection: audioCollection,
	})
}

func (s *ServiceImpl) registerPlaylistCollection(
	ctx context.Context,
	playlistID string,
	playlist *deezer.Playlist,
	tracksCount int64,
) *audioCollection {
	logger.Infof(ctx, "Downloading playlist: %s", playlist.Title)

	// Generate a sanitized folder name for the playlist and truncate if necessary.
	playlistFolderName := s.truncateFolderName(ctx, "Playlist", utils.SanitizeFilename(playlist.Title))
	playlistPath := filepath.Join(s.cfg.OutputPath, playlistFolderName)

	if !s.cfg.DryRun {
		if err := os.MkdirAll(playlistPath, defaultFolderPermissions); err != nil {
			logger.Errorf(ctx, "Failed to create playlist folder '%s': %v", playlistPath, err)

			return nil
		}
	}

	// Generate tags for the playlist.
	playlistTags := s.fillPlaylistTags(playlist, tracksCount)

	// Lock to ensure thread-safe access to the audio collections.
	s.audioCollectionsMutex.Lock()
	defer s.audioCollectionsMutex.Unlock()

	// Create and register the audio collection for the playlist.
	audioCollectionKey := ShortDownloadItem{
		Category: DownloadCategoryPlaylist,
		ItemID:   playlistID,
	}
	audioCollection := &audioCollection{
		category:    DownloadCategoryPlaylist,
		title:       playlist.Title,
		tags:        playlistTags,
		tracksPath:  playlistPath,
		tracksCount: tracksCount,
	}

	s.audioCollections[audioCollectionKey] = audioCollection

	return audioCollection
}

func (s *ServiceImpl) fillPlaylistTags(playlist *deezer.Playlist, tracksCount int64) map[string]string {
	return map[string]string{
		"type":               "playlist",
		"playlistID":         playlist.ID.String(),
		"playlistTitle":      playlist.Title,
		"playlistOwner":      playlist.OwnerName,
		"playlistTrackCount": strconv.FormatInt(tracksCount, 10),
	}
}
