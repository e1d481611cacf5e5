package deezer

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/oshokin/deezer-grabber/internal/client/deezer"
	"github.com/oshokin/deezer-grabber/internal/config"
	"github.com/oshokin/deezer-grabber/internal/logger"
	"github.com/oshokin/deezer-grabber/internal/utils"
)

// Service provides methods for downloading audio content from Deezer.
type Service interface {
	// DownloadURLs orchestrates the full download pipeline, from URL processing to file creation.
	DownloadURLs(ctx context.Context, urls []string)
	// DownloadFavorites downloads the authenticated user's loved tracks.
	DownloadFavorites(ctx context.Context)
	// DownloadArtist downloads the discography of an artist given a URL, a numeric ID, or a free-text name.
	DownloadArtist(ctx context.Context, query string)
	// PrintDownloadSummary prints a formatted summary of download statistics.
	PrintDownloadSummary(ctx context.Context)
	// HasFailures reports whether any track or collection failed during the session.
	HasFailures() bool
}

// ServiceImpl implements the audio download service with deduplication and metadata handling.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// deezerClient is the client for interacting with Deezer's API.
	deezerClient deezer.Client
	// urlProcessor handles URL parsing and categorization.
	urlProcessor URLProcessor
	// templateManager generates filenames and folder names.
	templateManager TemplateManager
	// tagProcessor writes metadata tags to audio files.
	tagProcessor TagProcessor
	// qualityResolver negotiates the quality tier and stream URL per track.
	qualityResolver QualityResolver
	// audioCollections stores download collections indexed by item.
	audioCollections map[ShortDownloadItem]*audioCollection
	// audioCollectionsMutex protects concurrent access to audioCollections.
	audioCollectionsMutex *sync.Mutex
	// stats tracks download statistics for the current session.
	stats *DownloadStatistics
	// statsMutex protects concurrent access to statistics.
	statsMutex *sync.Mutex
}

// NewService creates a download service instance with dependency-injected components.
func NewService(
	cfg *config.Config,
	deezerClient deezer.Client,
	urlProcessor URLProcessor,
	templateManager TemplateManager,
	tagProcessor TagProcessor,
	qualityResolver QualityResolver,
) Service {
	return &ServiceImpl{
		cfg:                   cfg,
		deezerClient:          deezerClient,
		urlProcessor:          urlProcessor,
		templateManager:       templateManager,
		tagProcessor:          tagProcessor,
		qualityResolver:       qualityResolver,
		audioCollections:      make(map[ShortDownloadItem]*audioCollection),
		audioCollectionsMutex: new(sync.Mutex),
		stats:                 new(DownloadStatistics),
		statsMutex:            new(sync.Mutex),
	}
}

// DownloadURLs orchestrates the full download pipeline, from URL processing to file creation.
func (s *ServiceImpl) DownloadURLs(ctx context.Context, urls []string) {
	s.beginSession(ctx)
	defer s.endSession()

	// Extract and categorize download items from the provided URLs.
	downloadItemsByCategories, err := s.urlProcessor.ExtractDownloadItems(ctx, urls)
	if err != nil {
		logger.Errorf(ctx, "Failed to extract items to download: %v", err)

		return
	}

	logger.Info(ctx, "Starting download process")

	// Process albums and playlists first to maintain organizational structure.
	standaloneItems := s.fetchAndDeduplicateStandaloneItems(ctx, downloadItemsByCategories)
	if len(standaloneItems) > 0 {
		s.downloadStandaloneItems(ctx, standaloneItems)
	}

	// Process individual tracks after collections to allow potential deduplication.
	if len(downloadItemsByCategories.Tracks) > 0 {
		s.downloadTrackItems(ctx, downloadItemsByCategories.Tracks)
	}

	logger.Info(ctx, "Download process completed")
}

// DownloadFavorites downloads the authenticated user's loved tracks.
func (s *ServiceImpl) DownloadFavorites(ctx context.Context) {
	s.beginSession(ctx)
	defer s.endSession()

	trackIDs, err := s.deezerClient.GetFavoriteTrackIDs(ctx)
	if err != nil {
		logger.Errorf(ctx, "Failed to get favorite tracks: %v", err)
		s.recordError(&ErrorContext{
			Category: DownloadCategoryFavorites,
			Phase:    "fetching favorite track IDs",
		}, err)

		return
	}

	if len(trackIDs) == 0 {
		logger.Info(ctx, "No favorite tracks found")

		return
	}

	logger.Infof(ctx, "Downloading %d favorite tracks", len(trackIDs))

	tracks, err := s.deezerClient.GetTracksByIDs(ctx, trackIDs)
	if err != nil {
		logger.Errorf(ctx, "Failed to get favorite track metadata: %v", err)
		s.recordError(&ErrorContext{
			Category: DownloadCategoryFavorites,
			Phase:    "fetching track metadata",
		}, err)

		return
	}

	s.downloadTracks(ctx, &downloadTracksMetadata{
		category:        DownloadCategoryFavorites,
		tracks:          tracks,
		audioCollection: nil,
	})
}

// DownloadArtist downloads the discography of an artist given a URL, a numeric ID, or a free-text name.
func (s *ServiceImpl) DownloadArtist(ctx context.Context, query string) {
	s.beginSession(ctx)
	defer s.endSession()

	artistItem, err := s.resolveArtistQuery(ctx, query)
	if err != nil {
		logger.Errorf(ctx, "Failed to resolve artist '%s': %v", query, err)
		s.recordError(&ErrorContext{
			Category:  DownloadCategoryArtist,
			ItemTitle: query,
			Phase:     "resolving artist",
		}, err)

		return
	}

	albumItems := s.fetchArtistAlbums(ctx, []*DownloadItem{artistItem})
	if len(albumItems) == 0 {
		return
	}

	s.downloadStandaloneItems(ctx, s.urlProcessor.DeduplicateDownloadItems(albumItems))
}

// beginSession records the session start and prepares the output directory.
func (s *ServiceImpl) beginSession(ctx context.Context) {
	s.statsMutex.Lock()
	s.stats.StartTime = time.Now()
	s.stats.IsDryRun = s.cfg.DryRun
	s.statsMutex.Unlock()

	// Ensure the output directory exists (skip in dry-run mode).
	if !s.cfg.DryRun {
		if err := os.MkdirAll(s.cfg.OutputPath, defaultFolderPermissions); err != nil {
			logger.Errorf(ctx, "Failed to create output path: %v", err)
		}
	} else {
		logger.Infof(ctx, "[DRY-RUN] Would create output directory: %s", s.cfg.OutputPath)
	}
}

// endSession records the session end time.
func (s *ServiceImpl) endSession() {
	s.statsMutex.Lock()
	s.stats.EndTime = time.Now()
	s.statsMutex.Unlock()
}

// fetchAndDeduplicateStandaloneItems expands artist items into their albums and removes duplicate entries.
func (s *ServiceImpl) fetchAndDeduplicateStandaloneItems(
	ctx context.Context,
	items *ExtractDownloadItemsResponse,
) []*DownloadItem {
	standaloneItems := items.StandaloneItems

	// If artist URLs are present, fetch their albums and append them to the standalone items.
	if len(items.Artists) > 0 {
		artistAlbums := s.fetchArtistAlbums(ctx, items.Artists)
		standaloneItems = append(standaloneItems, artistAlbums...)
		// Remove duplicate album entries that might exist in the original URLs.
		standaloneItems = s.urlProcessor.DeduplicateDownloadItems(standaloneItems)
	}

	return standaloneItems
}

// downloadStandaloneItems handles the download of albums and playlists.
func (s *ServiceImpl) downloadStandaloneItems(ctx context.Context, items []*DownloadItem) {
	itemsCount := len(items)

	// Iterate through each item and download based on its category.
	for index, item := range items {
		// Check if context was canceled (CTRL+C pressed) - stop immediately.
		select {
		case <-ctx.Done():
			return
		default:
		}

		//nolint:exhaustive // All meaningful cases are explicitly handled; default covers unknown values.
		switch item.Category {
		case DownloadCategoryAlbum:
			logger.Infof(ctx, "Downloading item: %v (%d / %d)", item, index+1, itemsCount)
			s.downloadAlbum(ctx, item)
		case DownloadCategoryPlaylist:
			logger.Infof(ctx, "Downloading item: %v (%d / %d)", item, index+1, itemsCount)
			s.downloadPlaylist(ctx, item)
		default:
			logger.Errorf(ctx, "Unknown URL category: %d", item.Category)
		}
	}
}

// downloadTrackItems handles the download of individual tracks.
func (s *ServiceImpl) downloadTrackItems(ctx context.Context, items []*DownloadItem) {
	logger.Info(ctx, "Downloading tracks")

	trackIDs := utils.Map(items, func(v *DownloadItem) string { return v.ItemID })

	tracks, err := s.deezerClient.GetTracksByIDs(ctx, trackIDs)
	if err != nil {
		logger.Errorf(ctx, "Failed to get track metadata: %v", err)
		s.recordError(&ErrorContext{
			Category: DownloadCategoryTrack,
			Phase:    "fetching track metadata",
		}, err)

		return
	}

	s.downloadTracks(ctx, &downloadTracksMetadata{
		category:        DownloadCategoryTrack,
		tracks:          tracks,
		audioCollection: nil,
	})
}
