package deezer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/oshokin/deezer-grabber/internal/client/deezer"
	"github.com/oshokin/deezer-grabber/internal/logger"
)

func (s *ServiceImpl) downloadAlbum(ctx context.Context, item *DownloadItem) {
	tracks, err := s.deezerClient.GetAlbumTracks(ctx, item.ItemID)
	if err != nil {
		logger.Errorf(ctx, "Failed to fetch tracks for album with ID '%s': %v", item.ItemID, err)
		s.recordError(&ErrorContext{
			Category:  DownloadCategoryAlbum,
			ItemID:    item.ItemID,
			ItemTitle: "Album ID: " + item.ItemID,
			ItemURL:   item.URL,
			Phase:     "fetching album tracks",
		}, err)

		return
	}

	if len(tracks) == 0 {
		err = fmt.Errorf("album with ID '%s': %w", item.ItemID, ErrEmptyAlbum)
		logger.Errorf(ctx, "%v", err)
		s.recordError(&ErrorContext{
			Category: DownloadCategoryAlbum,
			ItemID:   item.ItemID,
			ItemURL:  item.URL,
			Phase:    "fetching album tracks",
		}, err)

		return
	}

	// Generate tags for templating (folder names, filenames).
	albumTags := s.fillAlbumTagsForTemplating(item.ItemID, tracks)

	// Register the album collection (create folders, download cover art, etc.).
	audioCollection := s.registerAlbumCollection(ctx, item.ItemID, albumTags, tracks, true)
	if audioCollection == nil {
		return
	}

	// Download all tracks in the album.
	s.downloadTracks(ctx, &downloadTracksMetadata{
		category:        DownloadCategoryAlbum,
		tracks:          tracks,
		audioCollection: audioCollection,
	})
}

func (s *ServiceImpl) fillAlbumTagsForTemplating(albumID string, tracks []*deezer.Track) map[string]string {
	first := tracks[0]

	releaseDate := first.ReleaseDate
	releaseYear := ""

	if len(releaseDate) >= 4 {
		releaseYear = releaseDate[:4]
	}

	return map[string]string{
		"albumArtist":     first.ArtistName,
		"albumID":         albumID,
		"albumTitle":      first.AlbumTitle,
		"albumTrackCount": strconv.Itoa(len(tracks)),
		"releaseDate":     releaseDate,
		"releaseYear":     releaseYear,
		"type":            "album",
	}
}

func (s *ServiceImpl) registerAlbumCollection(
	ctx context.Context,
	albumID string,
	albumTags map[string]string,
	tracks []*deezer.Track,
	isAlbumDownload bool,
) *audioCollection {
	// Log the album being downloaded.
	if isAlbumDownload {
		logger.Infof(
			ctx,
			"Downloading '%s - %s (%s)'",
			albumTags["albumArtist"],
			albumTags["albumTitle"],
			albumTags["releaseYear"])
	}

	// Get raw template output before sanitization (might contain invalid characters).
	rawAlbumFolderName := s.templateManager.GetAlbumFolderName(ctx, albumTags)
	albumFolderName := s.generateSanitizedFolderPath(ctx, rawAlbumFolderName)

	// Create the album folder path by joining with the base output path.
	albumPath := filepath.Join(s.cfg.OutputPath, albumFolderName)

	if !s.cfg.DryRun {
		if err := os.MkdirAll(albumPath, defaultFolderPermissions); err != nil {
			logger.Errorf(ctx, "Failed to create album folder '%s': %v", albumPath, err)

			return nil
		}
	}

	// Download the album cover art.
	albumCoverPath := s.downloadAlbumCover(ctx, tracks[0].AlbumPicture, albumPath)

	// Lock to ensure thread-safe access to audioCollections.
	s.audioCollectionsMutex.Lock()
	defer s.audioCollectionsMutex.Unlock()

	// Create and register the audio collection.
	audioCollectionKey := ShortDownloadItem{
		Category: DownloadCategoryAlbum,
		ItemID:   albumID,
	}
	audioCollection := &audioCollection{
		category:    DownloadCategoryAlbum,
		title:       albumTags["albumTitle"],
		tags:        albumTags,
		tracksPath:  albumPath,
		coverPath:   albumCoverPath,
		tracksCount: int64(len(tracks)),
	}

	s.audioCollections[audioCollectionKey] = audioCollection

	return audioCollection
}

// getOrRegisterAlbumCollection resolves the album collection a standalone
// track belongs to, fetching and registering the album on first use.
func (s *ServiceImpl) getOrRegisterAlbumCollection(ctx context.Context, track *deezer.Track) *audioCollection {
	albumID := track.AlbumID.String()

	s.audioCollectionsMutex.Lock()

	downloadItem := ShortDownloadItem{
		Category: DownloadCategoryAlbum,
		ItemID:   albumID,
	}
	collection, exists := s.audioCollections[downloadItem]

	s.audioCollectionsMutex.Unlock()

	if exists && collection != nil {
		return collection
	}

	// The album track list is needed for track counts and positions.
	// The client caches it, so sibling tracks of the same album reuse the fetch.
	albumTracks, err := s.deezerClient.GetAlbumTracks(ctx, albumID)
	if err != nil || len(albumTracks) == 0 {
		logger.Errorf(ctx, "Failed to fetch album with ID '%s' for track '%s': %v", albumID, track.DisplayName(), err)

		return nil
	}

	albumTags := s.fillAlbumTagsForTemplating(albumID, albumTracks)

	return s.registerAlbumCollection(ctx, albumID, albumTags, albumTracks, false)
}

func (s *ServiceImpl) downloadAlbumCover(ctx context.Context, pictureHash, albumPath string) string {
	if pictureHash == "" {
		return ""
	}

	albumCoverPath := filepath.Join(albumPath, defaultCoverBasename+extensionJPG)

	// Reuse an already downloaded cover.
	if _, err := os.Stat(albumCoverPath); err == nil {
		s.incrementCoverSkipped()

		return albumCoverPath
	}

	if s.cfg.DryRun {
		logger.Infof(ctx, "[DRY-RUN] Would download album cover to: %s", albumCoverPath)

		return ""
	}

	data, err := s.deezerClient.GetAlbumCover(ctx, pictureHash, coverArtSize)
	if err != nil {
		logger.Errorf(ctx, "Failed to download album cover: %v", err)

		return ""
	}

	isExist, err := s.saveFileIfAbsent(ctx, data, albumCoverPath)
	if err != nil {
		logger.Errorf(ctx, "Failed to save album cover: %v", err)

		return ""
	}

	if isExist {
		s.incrementCoverSkipped()
	} else {
		s.incrementCoverDownloaded()
	}

	return albumCoverPath
}
