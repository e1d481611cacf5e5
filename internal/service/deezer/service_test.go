package deezer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_deezer_client "github.com/oshokin/deezer-grabber/internal/client/deezer/mocks"
	"github.com/oshokin/deezer-grabber/internal/config"
)

// mockURLProcessor is a mock implementation of the URLProcessor interface.
type mockURLProcessor struct{}

func (m *mockURLProcessor) ExtractDownloadItems(
	_ context.Context,
	_ []string,
) (*ExtractDownloadItemsResponse, error) {
	return &ExtractDownloadItemsResponse{}, nil
}

func (m *mockURLProcessor) DeduplicateDownloadItems(items []*DownloadItem) []*DownloadItem {
	return items
}

func (m *mockURLProcessor) ParseArtistTarget(_ string) *DownloadItem {
	return nil
}

// mockTemplateManager is a mock implementation of the TemplateManager interface.
type mockTemplateManager struct{}

func (m *mockTemplateManager) GetTrackFilename(
	_ context.Context,
	_ bool,
	_ map[string]string,
	_ int64,
) string {
	return "test_track"
}

func (m *mockTemplateManager) GetAlbumFolderName(_ context.Context, _ map[string]string) string {
	return "test_album"
}

// mockTagProcessor is a mock implementation of the TagProcessor interface.
// Tests can set err to simulate tagging failures.
type mockTagProcessor struct {
	err error
}

func (m *mockTagProcessor) WriteTags(_ context.Context, _ *WriteTagsRequest) error {
	return m.err
}

// TestNewService tests the NewService function.
func TestNewService(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := &config.Config{
		OutputPath: t.TempDir(),
	}

	mockClient := mock_deezer_client.NewMockClient(ctrl)

	service := NewService(
		cfg,
		mockClient,
		new(mockURLProcessor),
		new(mockTemplateManager),
		new(mockTagProcessor),
		NewQualityResolver(mockClient),
	)

	assert.NotNil(t, service)
}

// TestServiceImpl_DownloadURLs tests the DownloadURLs method with no matching items.
func TestServiceImpl_DownloadURLs(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := &config.Config{
		OutputPath: t.TempDir(),
	}

	mockClient := mock_deezer_client.NewMockClient(ctrl)

	service := NewService(
		cfg,
		mockClient,
		new(mockURLProcessor),
		new(mockTemplateManager),
		new(mockTagProcessor),
		NewQualityResolver(mockClient),
	)

	ctx := context.Background()
	urls := []string{"https://www.deezer.com/track/3135556"}

	// The stub URL processor returns no items, so no client calls are expected.
	service.DownloadURLs(ctx, urls)
}

// TestServiceImpl_DownloadURLs_EmptyURLs tests DownloadURLs with empty URLs.
func TestServiceImpl_DownloadURLs_EmptyURLs(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := &config.Config{
		OutputPath: t.TempDir(),
	}

	mockClient := mock_deezer_client.NewMockClient(ctrl)

	service := NewService(
		cfg,
		mockClient,
		new(mockURLProcessor),
		new(mockTemplateManager),
		new(mockTagProcessor),
		NewQualityResolver(mockClient),
	)

	service.DownloadURLs(context.Background(), nil)
}

// TestServiceImpl_DownloadFavorites_Empty tests DownloadFavorites when the
// account has no loved tracks.
func TestServiceImpl_DownloadFavorites_Empty(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	setup.mockClient.EXPECT().
		GetFavoriteTrackIDs(gomock.Any()).
		Return([]string{}, nil)

	// No metadata fetch should follow an empty favorites list.
	setup.service.DownloadFavorites(context.Background())
}

// TestServiceImpl_DownloadFavorites_FetchError tests that a failed favorites
// fetch is recorded as an error.
func TestServiceImpl_DownloadFavorites_FetchError(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	fetchErr := errors.New("gw api error")
	setup.mockClient.EXPECT().
		GetFavoriteTrackIDs(gomock.Any()).
		Return(nil, fetchErr)

	setup.service.DownloadFavorites(context.Background())

	impl, ok := setup.service.(*ServiceImpl)
	require.True(t, ok)

	require.Len(t, impl.stats.Errors, 1)
	assert.Equal(t, DownloadCategoryFavorites, impl.stats.Errors[0].Category)
	assert.Equal(t, "fetching favorite track IDs", impl.stats.Errors[0].Phase)
}

// TestServiceImpl_PrintDownloadSummary_NothingProcessed tests that the summary
// stays silent when nothing was processed.
func TestServiceImpl_PrintDownloadSummary_NothingProcessed(t *testing.T) {
	t.Parallel()

	setup := newTestDownloadSetup(t)
	defer setup.cleanup()

	// Must not panic and must not require any client calls.
	setup.service.PrintDownloadSummary(context.Background())
}
