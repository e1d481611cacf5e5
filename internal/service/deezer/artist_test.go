package deezer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/deezer-grabber/internal/client/deezer"
)

// TestDownloadArtist_NumericID tests that a bare numeric ID skips the search.
func TestDownloadArtist_NumericID(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	// An empty discography ends the flow. SearchArtists must never be called.
	setup.mockClient.EXPECT().
		GetArtistDiscography(gomock.Any(), "27").
		Return([]*deezer.Album{}, nil)

	setup.service.DownloadArtist(context.Background(), "27")
}

// TestDownloadArtist_URL tests that an artist URL resolves without a search.
func TestDownloadArtist_URL(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	setup.mockClient.EXPECT().
		GetArtistDiscography(gomock.Any(), "27").
		Return([]*deezer.Album{}, nil)

	setup.service.DownloadArtist(context.Background(), "https://www.deezer.com/artist/27")
}

// TestDownloadArtist_FreeTextExactMatch tests that an exact case-insensitive
// name match wins over better-ranked hits.
func TestDownloadArtist_FreeTextExactMatch(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	setup.mockClient.EXPECT().
		SearchArtists(gomock.Any(), "daft punk").
		Return([]*deezer.ArtistSearchResult{
			{ID: 901, Name: "Daft Punk Tribute Band", FanCount: 5000000},
			{ID: 27, Name: "Daft Punk", FanCount: 4000000},
		}, nil)

	setup.mockClient.EXPECT().
		GetArtistDiscography(gomock.Any(), "27").
		Return([]*deezer.Album{}, nil)

	setup.service.DownloadArtist(context.Background(), "daft punk")
}

// TestDownloadArtist_FreeTextTopHit tests falling back to the top-ranked hit
// when no exact match exists.
func TestDownloadArtist_FreeTextTopHit(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	setup.mockClient.EXPECT().
		SearchArtists(gomock.Any(), "daft").
		Return([]*deezer.ArtistSearchResult{
			{ID: 27, Name: "Daft Punk", FanCount: 4000000},
			{ID: 901, Name: "Daft Hunks", FanCount: 100},
		}, nil)

	setup.mockClient.EXPECT().
		GetArtistDiscography(gomock.Any(), "27").
		Return([]*deezer.Album{}, nil)

	setup.service.DownloadArtist(context.Background(), "daft")
}

// TestDownloadArtist_NoHits tests that an unmatched query is recorded as an error.
func TestDownloadArtist_NoHits(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	setup.mockClient.EXPECT().
		SearchArtists(gomock.Any(), "xyzzy").
		Return([]*deezer.ArtistSearchResult{}, nil)

	setup.service.DownloadArtist(context.Background(), "xyzzy")

	stats := setup.stats(t)
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, DownloadCategoryArtist, stats.Errors[0].Category)
	assert.Equal(t, "resolving artist", stats.Errors[0].Phase)
}

// TestDownloadArtist_SkipsNonOfficialReleases tests that compilations the
// artist merely appears on are excluded from the discography download.
func TestDownloadArtist_SkipsNonOfficialReleases(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	setup.mockClient.EXPECT().
		GetArtistDiscography(gomock.Any(), "27").
		Return([]*deezer.Album{
			{ID: "302127", Title: "Discovery", IsOfficial: true},
			{ID: "999999", Title: "Now That's What I Call Electro", IsOfficial: false},
		}, nil)

	// Only the official album reaches the download stage. Returning no
	// tracks ends the flow with a recorded empty-album error.
	setup.mockClient.EXPECT().
		GetAlbumTracks(gomock.Any(), "302127").
		Return([]*deezer.Track{}, nil)

	setup.service.DownloadArtist(context.Background(), "27")

	stats := setup.stats(t)
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, DownloadCategoryAlbum, stats.Errors[0].Category)
	assert.Equal(t, "302127", stats.Errors[0].ItemID)
	assert.Contains(t, stats.Errors[0].ErrorMessage, "album contains no tracks")
}

// TestFetchArtistAlbums_DiscographyError tests that a failed discography
// fetch is recorded and does not abort other artists.
func TestFetchArtistAlbums_DiscographyError(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	impl := setup.service.(*ServiceImpl)

	setup.mockClient.EXPECT().
		GetArtistDiscography(gomock.Any(), "1").
		Return(nil, assert.AnError)
	setup.mockClient.EXPECT().
		GetArtistDiscography(gomock.Any(), "2").
		Return([]*deezer.Album{
			{ID: "44", Title: "Second Artist Album", IsOfficial: true},
		}, nil)

	items := impl.fetchArtistAlbums(context.Background(), []*DownloadItem{
		{Category: DownloadCategoryArtist, ItemID: "1"},
		{Category: DownloadCategoryArtist, ItemID: "2"},
	})

	require.Len(t, items, 1)
	assert.Equal(t, "44", items[0].ItemID)
	assert.Equal(t, "https://www.deezer.com/album/44", items[0].URL)

	stats := setup.stats(t)
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, "fetching artist releases", stats.Errors[0].Phase)
}
