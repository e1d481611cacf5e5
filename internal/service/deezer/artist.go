package deezer

import (
	"context"
	"fmt"
	"strings"

	"github.com/oshokin/deezer-grabber/internal/logger"
)

// weightedAverageNumberOfAlbumsPerArtist is an estimated average discography size.
const weightedAverageNumberOfAlbumsPerArtist = 20

// resolveArtistQuery turns a URL, a numeric ID, or a free-text name into an artist item.
// Free-text queries resolve through the public search API: an exact
// case-insensitive name match wins, otherwise the top-ranked hit is taken.
func (s *ServiceImpl) resolveArtistQuery(ctx context.Context, query string) (*DownloadItem, error) {
	query = strings.TrimSpace(query)

	// URLs and bare numeric IDs skip the search entirely.
	if item := s.urlProcessor.ParseArtistTarget(query); item != nil {
		return item, nil
	}

	hits, err := s.deezerClient.SearchArtists(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search artists: %w", err)
	}

	if len(hits) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrArtistNotResolved, query)
	}

	chosen := hits[0]

	for _, hit := range hits {
		if strings.EqualFold(hit.Name, query) {
			chosen = hit

			break
		}
	}

	logger.Infof(ctx, "Resolved artist '%s' to '%s' (ID %d, %d fans)", query, chosen.Name, chosen.ID, chosen.FanCount)

	return &DownloadItem{
		Category: DownloadCategoryArtist,
		ItemID:   fmt.Sprintf("%d", chosen.ID),
	}, nil
}

// fetchArtistAlbums fetches all official albums for a given list of artists.
func (s *ServiceImpl) fetchArtistAlbums(ctx context.Context, artistItems []*DownloadItem) []*DownloadItem {
	var (
		artistsCount = len(artistItems)
		result       = make([]*DownloadItem, 0, artistsCount*weightedAverageNumberOfAlbumsPerArtist)
	)

	// Iterate over each artist and fetch their albums.
	for itemIndex, v := range artistItems {
		// Check if context was canceled (CTRL+C pressed) - stop immediately.
		select {
		case <-ctx.Done():
			return result
		default:
		}

		logger.Infof(ctx, "Fetching releases for artist with ID %s (%d out of %d)", v.ItemID, itemIndex+1, artistsCount)

		albums, err := s.deezerClient.GetArtistDiscography(ctx, v.ItemID)
		if err != nil {
			logger.Errorf(ctx, "Failed to fetch artist releases: %v", err)
			s.recordError(&ErrorContext{
				Category:  DownloadCategoryArtist,
				ItemID:    v.ItemID,
				ItemTitle: "Artist ID: " + v.ItemID,
				ItemURL:   v.URL,
				Phase:     "fetching artist releases",
			}, err)

			continue
		}

		if len(albums) == 0 {
			logger.Info(ctx, "No albums found for this artist")

			continue
		}

		// Generate download-ready items for each album, skipping compilations
		// the artist merely appears on.
		for _, album := range albums {
			if !album.IsOfficial {
				logger.Debugf(ctx, "Skipping non-official release '%s'", album.Title)

				continue
			}

			result = append(result, &DownloadItem{
				Category: DownloadCategoryAlbum,
				URL:      "https://www.deezer.com/album/" + album.ID.String(),
				ItemID:   album.ID.String(),
			})
		}
	}

	return result
}
