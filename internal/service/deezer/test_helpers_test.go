package deezer

import (
	"bytes"
	"context"
	"crypto/cipher"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/blowfish"

	"github.com/oshokin/deezer-grabber/internal/client/deezer"
	mock_deezer_client "github.com/oshokin/deezer-grabber/internal/client/deezer/mocks"
	"github.com/oshokin/deezer-grabber/internal/config"
	"github.com/oshokin/deezer-grabber/internal/constants"
	"github.com/oshokin/deezer-grabber/internal/crypto"
)

// testDownloadSetup encapsulates common test dependencies and configuration.
type testDownloadSetup struct {
	ctrl         *gomock.Controller
	mockClient   *mock_deezer_client.MockClient
	tagProcessor *mockTagProcessor
	service      Service
	config       *config.Config
	tempDir      string
}

// newTestDownloadSetup creates a standard test setup with optional config overrides.
// It wires a real URL processor, template manager, and quality resolver so the
// download pipeline runs end to end against the mocked client.
func newTestDownloadSetup(t *testing.T, configOverrides ...func(*config.Config)) *testDownloadSetup {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockClient := mock_deezer_client.NewMockClient(ctrl)
	tempDir := t.TempDir()

	cfg := &config.Config{
		OutputPath:               tempDir,
		Quality:                  TrackQualityMP3HighString,
		TrackFilenameTemplate:    config.DefaultTrackFilenameTemplate,
		AlbumFolderTemplate:      config.DefaultAlbumFolderTemplate,
		PlaylistFilenameTemplate: config.DefaultPlaylistFilenameTemplate,
		MaxConcurrentDownloads:   1,
		ReplaceTracks:            false,
		ParsedMaxDownloadPause:   10 * time.Millisecond,
	}

	// Apply overrides.
	for _, override := range configOverrides {
		override(cfg)
	}

	tagProcessor := new(mockTagProcessor)

	service := NewService(
		cfg,
		mockClient,
		NewURLProcessor(),
		NewTemplateManager(context.Background(), cfg),
		tagProcessor,
		NewQualityResolver(mockClient),
	)

	return &testDownloadSetup{
		ctrl:         ctrl,
		mockClient:   mockClient,
		tagProcessor: tagProcessor,
		service:      service,
		config:       cfg,
		tempDir:      tempDir,
	}
}

// cleanup releases test resources.
func (s *testDownloadSetup) cleanup() {
	s.ctrl.Finish()
}

// stats returns the service's statistics for assertions.
func (s *testDownloadSetup) stats(t *testing.T) *DownloadStatistics {
	t.Helper()

	impl, ok := s.service.(*ServiceImpl)
	require.True(t, ok)

	return impl.stats
}

// expectSession configures the mocked session with the given entitlements.
func (s *testDownloadSetup) expectSession(canStreamHQ, canStreamLossless bool) {
	s.mockClient.EXPECT().
		Session().
		Return(&deezer.UserSession{
			UserID:            42,
			Name:              "Test User",
			CanStreamHQ:       canStreamHQ,
			CanStreamLossless: canStreamLossless,
		}).
		AnyTimes()
}

// newTestTracks generates deterministic track metadata for the given IDs.
// Every track belongs to the same album and advertises all quality tiers.
func newTestTracks(trackIDs []int64, albumID int64) []*deezer.Track {
	tracks := make([]*deezer.Track, 0, len(trackIDs))

	for i, trackID := range trackIDs {
		trackIDString := strconv.FormatInt(trackID, 10)
		tracks = append(tracks, &deezer.Track{
			ID:             deezer.FlexID(trackIDString),
			Title:          fmt.Sprintf("Track %d", i+1),
			ArtistName:     "Test Artist",
			AlbumTitle:     "Test Album",
			AlbumID:        deezer.FlexID(strconv.FormatInt(albumID, 10)),
			AlbumPicture:   "cover-hash",
			TrackNumber:    deezer.FlexInt(i + 1),
			DiskNumber:     1,
			ReleaseDate:    "2024-01-01",
			TrackToken:     "token-" + trackIDString,
			FilesizeMP3128: 1 << 20,
			FilesizeMP3320: 2 << 20,
			FilesizeFLAC:   20 << 20,
		})
	}

	return tracks
}

// buildAlbumMetadata wraps tracks into album download metadata whose
// collection writes straight into dir.
func buildAlbumMetadata(tracks []*deezer.Track, dir string) *downloadTracksMetadata {
	return &downloadTracksMetadata{
		category: DownloadCategoryAlbum,
		tracks:   tracks,
		audioCollection: &audioCollection{
			category: DownloadCategoryAlbum,
			title:    "Test Album",
			tags: map[string]string{
				"albumArtist": "Test Artist",
				"albumTitle":  "Test Album",
				"releaseDate": "2024-01-01",
				"releaseYear": "2024",
				"type":        "album",
			},
			tracksPath:  dir,
			tracksCount: int64(len(tracks)),
		},
	}
}

// encryptTrackStream applies the service's partial stream encryption to
// plaintext with the track's derived key, producing bytes that decrypt
// correctly through the download pipeline.
func encryptTrackStream(t *testing.T, trackID string, plaintext []byte) []byte {
	t.Helper()

	block, err := blowfish.NewCipher(crypto.TrackKey(trackID))
	require.NoError(t, err)

	encrypted := make([]byte, len(plaintext))
	copy(encrypted, plaintext)

	for offset := 0; offset < len(encrypted); offset += crypto.StreamWindowSize {
		window := encrypted[offset:min(offset+crypto.StreamWindowSize, len(encrypted))]
		if len(window) < crypto.ProtectedSegmentSize {
			break
		}

		iv := crypto.StreamIV
		cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(
			window[:crypto.ProtectedSegmentSize],
			window[:crypto.ProtectedSegmentSize],
		)
	}

	return encrypted
}

// setupMockMediaURL configures mock expectations for GetMediaURL.
func setupMockMediaURL(
	mockClient *mock_deezer_client.MockClient,
	trackToken string,
	format string,
	streamURL string,
) {
	mockClient.EXPECT().
		GetMediaURL(gomock.Any(), trackToken, format).
		Return(streamURL, nil)
}

// setupMockFetchTrack configures mock expectations for FetchTrack.
func setupMockFetchTrack(
	mockClient *mock_deezer_client.MockClient,
	streamURL string,
	encryptedData []byte,
) {
	fetchTrackResult := &deezer.FetchTrackResult{
		Body:       io.NopCloser(bytes.NewReader(encryptedData)),
		TotalBytes: int64(len(encryptedData)),
	}
	mockClient.EXPECT().
		FetchTrack(gomock.Any(), streamURL).
		Return(fetchTrackResult, nil)
}

// makeFakeAudioData creates deterministic fake audio data for testing.
// The data never contains NUL bytes, so the padding trimmer passes it through.
func makeFakeAudioData(sizeKB int) []byte {
	fakeData := make([]byte, sizeKB*1024)
	for i := range fakeData {
		fakeData[i] = byte(i%255) + 1
	}

	return fakeData
}

// findPartFiles finds all .part files in the given directory.
func findPartFiles(t *testing.T, dir string) []string {
	t.Helper()

	var partFiles []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && filepath.Ext(path) == constants.ExtensionPart {
			partFiles = append(partFiles, path)
		}

		return nil
	})

	require.NoError(t, err, "Failed to walk directory for .part files")

	return partFiles
}

// findAudioFiles finds all audio files (.mp3, .flac, .bin) in the given directory.
func findAudioFiles(t *testing.T, dir string) []string {
	t.Helper()

	var audioFiles []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		ext := filepath.Ext(path)
		if !info.IsDir() &&
			(ext == constants.ExtensionMP3 || ext == constants.ExtensionFLAC || ext == constants.ExtensionBin) {
			audioFiles = append(audioFiles, path)
		}

		return nil
	})

	require.NoError(t, err, "Failed to walk directory for audio files")

	return audioFiles
}

// findFileWithExtension finds the first file with the specified extension and returns its path.
// Also verifies the file content matches expectedContent if provided.
func findFileWithExtension(t *testing.T, dir, ext string, expectedContent []byte) (string, bool) {
	t.Helper()

	var (
		foundPath string
		found     bool
	)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && filepath.Ext(path) == ext {
			found = true
			foundPath = path

			// Verify content if provided.
			if expectedContent != nil {
				content, readErr := os.ReadFile(path)
				require.NoError(t, readErr, "Failed to read file: %s", path)
				assert.Len(t, content, len(expectedContent),
					"File size should match expected size (no truncation)")
				assert.Equal(t, expectedContent, content,
					"File content should match source data exactly")
			}
		}

		return nil
	})

	require.NoError(t, err, "Failed to walk directory")

	return foundPath, found
}
