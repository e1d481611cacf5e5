package deezer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oshokin/deezer-grabber/internal/client/deezer"
	"github.com/oshokin/deezer-grabber/internal/constants"
	"github.com/oshokin/deezer-grabber/internal/crypto"
	"github.com/oshokin/deezer-grabber/internal/logger"
	"github.com/oshokin/deezer-grabber/internal/utils"
)

func (s *ServiceImpl) downloadTracks(ctx context.Context, metadata *downloadTracksMetadata) {
	maxConcurrent := s.cfg.MaxConcurrentDownloads

	// Sequential download (default behavior when maxConcurrent == 1).
	if maxConcurrent <= 1 {
		s.downloadTracksSequentially(ctx, metadata)

		return
	}

	// Concurrent downloads with a bounded worker group.
	s.downloadTracksConcurrently(ctx, metadata, maxConcurrent)
}

// executeTrackDownload creates a download request and executes the track download.
// This is the common logic shared between sequential and concurrent downloads.
func (s *ServiceImpl) executeTrackDownload(
	ctx context.Context,
	trackIndex int,
	track *deezer.Track,
	metadata *downloadTracksMetadata,
) {
	request := &downloadTrackRequest{
		// Track numbers start at 1 for user-facing numbering.
		trackIndex: int64(trackIndex) + 1,
		track:      track,
		metadata:   metadata,
	}

	s.downloadTrack(ctx, request)

	// Add a random pause between downloads to avoid rate limiting.
	utils.RandomPause(0, s.cfg.ParsedMaxDownloadPause)
}

// downloadTracksSequentially downloads tracks one by one.
func (s *ServiceImpl) downloadTracksSequentially(ctx context.Context, metadata *downloadTracksMetadata) {
	for i, track := range metadata.tracks {
		// Check if context was canceled (CTRL+C pressed) - stop immediately.
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.executeTrackDownload(ctx, i, track, metadata)
	}
}

// downloadTracksConcurrently downloads tracks with a bounded errgroup.
// Every job returns nil so a failed track never aborts its siblings.
func (s *ServiceImpl) downloadTracksConcurrently(
	ctx context.Context,
	metadata *downloadTracksMetadata,
	maxConcurrent int64,
) {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(int(maxConcurrent))

	for index, track := range metadata.tracks {
		// Check if context was canceled (CTRL+C pressed) - stop queueing new downloads.
		if ctx.Err() != nil {
			break
		}

		group.Go(func() error {
			s.executeTrackDownload(groupCtx, index, track, metadata)

			return nil
		})
	}

	// Wait for all in-flight downloads to complete.
	_ = group.Wait()
}

//nolint:funlen,gocognit,cyclop // Function orchestrates complex download workflow with multiple sequential steps.
func (s *ServiceImpl) downloadTrack(
	ctx context.Context,
	req *downloadTrackRequest,
) {
	metadata := req.metadata

	track := req.track
	if track == nil || track.ID.IsZero() {
		err := fmt.Errorf("track %d of %d: %w", req.trackIndex, len(metadata.tracks), ErrTrackNotFound)
		logger.Errorf(ctx, "%v", err)
		s.recordError(&ErrorContext{
			Category:  DownloadCategoryTrack,
			ItemTitle: "Unknown Track",
			Phase:     "fetching metadata",
		}, err)

		return
	}

	trackID := track.ID.String()

	// Standalone tracks still land in their album's folder.
	audioCollection := metadata.audioCollection
	if audioCollection == nil {
		audioCollection = s.getOrRegisterAlbumCollection(ctx, track)
	}

	if audioCollection == nil {
		s.incrementTrackFailed()
		s.recordError(&ErrorContext{
			Category:       DownloadCategoryTrack,
			ItemID:         trackID,
			ItemTitle:      track.DisplayName(),
			Phase:          "resolving album collection",
			ParentCategory: metadata.category,
		}, fmt.Errorf("no album collection for track '%s'", trackID))

		return
	}

	// Determine the track's position in the album or playlist.
	isPlaylist := metadata.category == DownloadCategoryPlaylist

	trackPosition := req.trackIndex
	if !isPlaylist && track.TrackNumber.Int64() > 0 {
		// For album downloads, use the track's position in the album metadata.
		trackPosition = track.TrackNumber.Int64()
	}

	// Generate the track filename (extension is attached after quality resolution).
	trackTags := s.fillTrackTagsForTemplating(trackPosition, track, audioCollection)
	trackFilename := s.templateManager.GetTrackFilename(ctx, isPlaylist, trackTags, audioCollection.tracksCount)
	trackFilename = utils.SanitizeFilename(trackFilename)

	requestedQuality := ParseQuality(s.cfg.Quality)

	// Skip-existing is checked across the whole fallback chain before any
	// network call: an earlier run may have fallen back to a lower tier,
	// leaving the track under a different extension.
	if !s.cfg.ReplaceTracks {
		if existingPath := s.findExistingTrackPath(audioCollection.tracksPath, trackFilename, requestedQuality); existingPath != "" {
			if s.cfg.DryRun {
				logger.Infof(ctx, "[DRY-RUN] Track '%s' already exists, would skip", existingPath)
			} else {
				logger.Infof(ctx, "Track '%s' already exists, skipping download", existingPath)
			}

			s.incrementTrackSkipped(SkipReasonExists)

			return
		}
	}

	// Negotiate the quality tier and mint a stream URL.
	resolution, err := s.qualityResolver.ResolveQuality(ctx, track, requestedQuality)
	if err != nil {
		// A track with no playable tier is a terminal failure: it keeps
		// its own counter but still drives the non-zero exit code.
		if errors.Is(err, ErrNoAvailableQuality) {
			logger.Errorf(ctx, "Track '%s' has no playable quality tier", track.DisplayName())
			s.incrementTrackUnavailable()
			s.recordError(&ErrorContext{
				Category:       DownloadCategoryTrack,
				ItemID:         trackID,
				ItemTitle:      track.DisplayName(),
				Phase:          "negotiating quality",
				ParentCategory: metadata.category,
				ParentTitle:    audioCollection.title,
			}, err)

			return
		}

		// Don't log context cancellation - it's expected when user presses CTRL+C.
		if !errors.Is(err, context.Canceled) {
			logger.Errorf(ctx, "Failed to resolve quality for '%s': %v", track.DisplayName(), err)
		}

		s.incrementTrackFailed()
		s.recordError(&ErrorContext{
			Category:       DownloadCategoryTrack,
			ItemID:         trackID,
			ItemTitle:      track.DisplayName(),
			Phase:          "negotiating quality",
			ParentCategory: metadata.category,
			ParentTitle:    audioCollection.title,
		}, err)

		return
	}

	quality := resolution.Quality
	trackFilename = utils.SetFileExtension(trackFilename, quality.Extension(), true)
	trackPath := filepath.Join(audioCollection.tracksPath, trackFilename)

	logger.Infof(
		ctx,
		"Downloading track %d of %d: %s (%s)",
		req.trackIndex,
		audioCollection.tracksCount,
		track.DisplayName(),
		quality)

	// Dry-run mode: report the advertised size without fetching the stream.
	if s.cfg.DryRun {
		logger.Infof(ctx, "[DRY-RUN] Would download track to: %s", trackPath)
		s.incrementTrackDownloaded(track.FilesizeForFormat(quality.FormatCode()))

		return
	}

	// Download and save the track.
	result, err := s.downloadAndSaveTrack(ctx, track, resolution.StreamURL, trackPath)
	if err != nil {
		// Don't log context cancellation - it's expected when user presses CTRL+C.
		if !errors.Is(err, context.Canceled) {
			logger.Errorf(ctx, "Failed to download track: %v", err)
		}

		s.incrementTrackFailed()
		s.recordError(&ErrorContext{
			Category:       DownloadCategoryTrack,
			ItemID:         trackID,
			ItemTitle:      track.DisplayName(),
			Phase:          "downloading file",
			ParentCategory: metadata.category,
			ParentTitle:    audioCollection.title,
		}, err)

		return
	}

	if result.IsExist {
		s.incrementTrackSkipped(SkipReasonExists)

		return
	}

	s.incrementTrackDownloaded(result.BytesDownloaded)

	// Write metadata tags to the .part file BEFORE renaming for atomic operation.
	writeTagsRequest := &WriteTagsRequest{
		TrackPath:                  result.TempPath,
		CoverPath:                  audioCollection.coverPath,
		Quality:                    quality,
		TrackTags:                  trackTags,
		IsCoverEmbeddedToTrackTags: !isPlaylist,
	}

	err = s.tagProcessor.WriteTags(ctx, writeTagsRequest)
	if err != nil {
		logger.Errorf(ctx, "Failed to write track tags: %v", err)
		s.recordError(&ErrorContext{
			Category:       DownloadCategoryTrack,
			ItemID:         trackID,
			ItemTitle:      track.DisplayName(),
			Phase:          "writing metadata tags",
			ParentCategory: metadata.category,
			ParentTitle:    audioCollection.title,
		}, err)

		// Clean up .part file on tagging failure.
		_ = os.Remove(result.TempPath)

		return
	}

	// Atomically rename the .part file to its final name.
	// At this point, the file has complete audio data AND metadata tags.
	if err = os.Rename(result.TempPath, trackPath); err != nil {
		logger.Errorf(ctx, "Failed to finalize track file: %v", err)
		s.recordError(&ErrorContext{
			Category:       DownloadCategoryTrack,
			ItemID:         trackID,
			ItemTitle:      track.DisplayName(),
			Phase:          "renaming temporary file",
			ParentCategory: metadata.category,
			ParentTitle:    audioCollection.title,
		}, err)

		// Clean up .part file on rename failure.
		_ = os.Remove(result.TempPath)
	}
}

// findExistingTrackPath returns the path of an already downloaded rendition
// of the track, checking the extension of every tier reachable through the
// requested quality's fallback chain.
func (s *ServiceImpl) findExistingTrackPath(tracksPath, trackFilename string, requested TrackQuality) string {
	checkedExtensions := make(map[string]struct{}, 2)

	for _, tier := range requested.FallbackChain() {
		extension := tier.Extension()
		if _, ok := checkedExtensions[extension]; ok {
			continue
		}

		checkedExtensions[extension] = struct{}{}

		candidate := filepath.Join(tracksPath, utils.SetFileExtension(trackFilename, extension, true))
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

func (s *ServiceImpl) fillTrackTagsForTemplating(
	trackNumber int64,
	track *deezer.Track,
	audioCollection *audioCollection,
) map[string]string {
	// Initialize the result map with collection tags first.
	result := make(map[string]string, len(audioCollection.tags))
	maps.Copy(result, audioCollection.tags)

	trackTitle := track.Title
	if track.Version != "" {
		trackTitle += " " + track.Version
	}

	// Apply track-specific tags.
	result["collectionTitle"] = audioCollection.title
	result["trackArtist"] = track.ArtistName
	result["trackID"] = track.ID.String()
	result["trackISRC"] = track.ISRC
	result["trackNumber"] = strconv.FormatInt(trackNumber, 10)
	result["trackNumberPad"] = fmt.Sprintf("%0*d", trackNumberPaddingWidth, trackNumber)
	result["trackTitle"] = trackTitle
	result["discNumber"] = strconv.FormatInt(track.DiskNumber.Int64(), 10)
	result["trackCount"] = strconv.FormatInt(audioCollection.tracksCount, 10)

	return result
}

//nolint:cyclop,funlen,gocognit // Function orchestrates complex download workflow with multiple sequential steps.
func (s *ServiceImpl) downloadAndSaveTrack(
	ctx context.Context,
	track *deezer.Track,
	streamURL string,
	trackPath string,
) (*DownloadTrackResult, error) {
	// Check if the final file already exists.
	if !s.cfg.ReplaceTracks {
		if _, err := os.Stat(trackPath); err == nil {
			logger.Infof(ctx, "Track '%s' already exists, skipping download", trackPath)

			return &DownloadTrackResult{
				IsExist:         true,
				TempPath:        "",
				BytesDownloaded: 0,
			}, nil
		}
	}

	// Fetch the encrypted stream.
	fetchResult, fetchErr := s.deezerClient.FetchTrack(ctx, streamURL)
	if fetchErr != nil {
		return nil, fmt.Errorf("failed to fetch track: %w", fetchErr)
	}

	defer fetchResult.Body.Close() //nolint:errcheck // Error on close is not critical here.

	// Count raw network bytes before decryption: padding trimming makes the
	// written size smaller than the advertised stream size, so completeness
	// is verified against the source count.
	sourceReader := &countingReader{source: fetchResult.Body}

	decryptReader, err := crypto.NewDecryptReader(sourceReader, crypto.TrackKey(track.ID.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize stream decryption: %w", err)
	}

	reader := newPaddingTrimReader(decryptReader)

	// Download to a temporary .part file first for atomic operation.
	// A unique suffix keeps concurrent workers from clobbering each other's
	// partial file when two queue entries resolve to the same path.
	tempFilePath := trackPath + "." + uuid.New().String() + constants.ExtensionPart

	// Always overwrite .part files (they indicate incomplete downloads).
	f, openErr := os.OpenFile(filepath.Clean(tempFilePath), overwriteFileOptions, constants.DefaultFilePermissions)
	if openErr != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", openErr)
	}

	// Track whether the download succeeded.
	// If not, the .part file is cleaned up on function exit.
	var downloadSucceeded bool

	defer func() {
		// Ensure file is closed before cleanup.
		closeErr := f.Close()

		// Clean up .part file if download failed.
		if !downloadSucceeded {
			// Small delay to ensure file handle is released (Windows needs this).
			time.Sleep(10 * time.Millisecond)

			if removeErr := os.Remove(tempFilePath); removeErr != nil && !os.IsNotExist(removeErr) {
				logger.Warnf(ctx, "Failed to clean up temporary file '%s': %v (close error: %v)",
					tempFilePath, removeErr, closeErr)
			}
		}
	}()

	// Initialize progress tracker.
	// Progress bars are disabled when downloading concurrently to avoid terminal output conflicts.
	var writer io.Writer

	if logger.Level() <= zap.InfoLevel && s.cfg.MaxConcurrentDownloads == 1 {
		bar := progressbar.DefaultBytes(
			fetchResult.TotalBytes,
			"Downloading",
		)

		writer = io.MultiWriter(f, bar)
	} else {
		writer = f
	}

	// Download logic.
	var bytesWritten int64

	if s.cfg.ParsedDownloadSpeedLimit == 0 {
		bytesWritten, err = io.Copy(writer, reader)
	} else {
		for {
			var n int64

			n, err = io.CopyN(writer, reader, s.cfg.ParsedDownloadSpeedLimit)
			bytesWritten += n

			if errors.Is(err, io.EOF) {
				err = nil

				break
			}

			if err != nil {
				break
			}

			// Throttle to respect speed limit.
			time.Sleep(time.Second)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	// Verify that the whole advertised stream was consumed.
	if fetchResult.TotalBytes > 0 && sourceReader.count != fetchResult.TotalBytes {
		return nil, fmt.Errorf(
			"%w: read %d bytes, expected %d bytes",
			ErrIncompleteDownload,
			sourceReader.count,
			fetchResult.TotalBytes,
		)
	}

	// Mark download as successful to prevent cleanup by defer.
	// The .part file will be renamed to final name by the caller after tags are written.
	downloadSucceeded = true

	// Return the temp file path for the caller to rename after writing tags.
	return &DownloadTrackResult{
		IsExist:         false,
		TempPath:        tempFilePath,
		BytesDownloaded: bytesWritten,
	}, nil
}

// countingReader counts the bytes read through it.
type countingReader struct {
	source io.Reader
	count  int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.source.Read(p)
	r.count += int64(n)

	return n, err
}

// paddingProbeSize covers the MP4 size prefix plus the "ftyp" brand.
const paddingProbeSize = 8

// paddingTrimReader strips the NUL padding some decrypted streams carry
// before the container magic. MP4 streams are exempt: their size prefix
// legitimately contains zero bytes before "ftyp".
type paddingTrimReader struct {
	src     io.Reader
	buf     []byte
	started bool
}

func newPaddingTrimReader(src io.Reader) io.Reader {
	return &paddingTrimReader{src: src}
}

func (r *paddingTrimReader) Read(p []byte) (int, error) {
	if !r.started {
		r.started = true

		if err := r.trimLeadingPadding(); err != nil {
			return 0, err
		}
	}

	if len(r.buf) > 0 {
		n := copy(p, r.buf)
		r.buf = r.buf[n:]

		return n, nil
	}

	return r.src.Read(p)
}

func (r *paddingTrimReader) trimLeadingPadding() error {
	var (
		probe = make([]byte, paddingProbeSize)
		eof   bool
	)

	n, err := io.ReadFull(r.src, probe)
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return err
		}

		eof = true
	}

	probe = probe[:n]

	// MP4 streams keep their leading bytes.
	if len(probe) == paddingProbeSize && bytes.Equal(probe[4:paddingProbeSize], []byte("ftyp")) {
		r.buf = probe

		return nil
	}

	for {
		if trimmed := bytes.TrimLeft(probe, "\x00"); len(trimmed) > 0 {
			r.buf = trimmed

			return nil
		}

		// A stream of padding only drains to an empty file.
		if eof {
			return nil
		}

		probe = probe[:paddingProbeSize]
		n, err = r.src.Read(probe)
		probe = probe[:n]

		if err != nil {
			if !errors.Is(err, io.EOF) {
				return err
			}

			eof = true
		}
	}
}
