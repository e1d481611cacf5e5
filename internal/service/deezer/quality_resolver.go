package deezer

//go:generate $MOCKGEN -source=quality_resolver.go -destination=mocks/quality_resolver_mock.go

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/deezer-grabber/internal/client/deezer"
	"github.com/oshokin/deezer-grabber/internal/crypto"
	"github.com/oshokin/deezer-grabber/internal/logger"
)

// QualityResolutionResult contains the result of quality resolution.
type QualityResolutionResult struct {
	// Quality is the tier the stream was actually obtained at.
	Quality TrackQuality
	// StreamURL is the URL to stream/download the track.
	StreamURL string
	// IsLegacyURL indicates the URL was generated locally instead of minted by the media API.
	IsLegacyURL bool
}

// QualityResolver resolves the actual quality and stream URL for tracks.
type QualityResolver interface {
	// ResolveQuality walks the fallback chain of the desired quality and
	// returns the first tier that yields a playable stream URL.
	ResolveQuality(
		ctx context.Context,
		track *deezer.Track,
		desiredQuality TrackQuality,
	) (*QualityResolutionResult, error)
}

// trackQualityResolver mints media URLs through the client, falling back
// to the legacy CDN URL scheme for tracks the media API refuses to serve.
type trackQualityResolver struct {
	deezerClient deezer.Client
}

// NewQualityResolver creates a resolver backed by the given client.
func NewQualityResolver(client deezer.Client) QualityResolver {
	return &trackQualityResolver{deezerClient: client}
}

// ResolveQuality resolves the final quality and stream URL for a track.
// Tiers above the desired one are never probed.
func (r *trackQualityResolver) ResolveQuality(
	ctx context.Context,
	track *deezer.Track,
	desiredQuality TrackQuality,
) (*QualityResolutionResult, error) {
	chain := desiredQuality.FallbackChain()
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: unknown desired quality", ErrNoAvailableQuality)
	}

	session := r.deezerClient.Session()

	for _, tier := range chain {
		// Skip tiers the account is not entitled to instead of probing them.
		if session != nil && !r.isTierEntitled(tier, session) {
			logger.Debugf(ctx, "Account is not entitled to %s, trying next tier", tier)

			continue
		}

		streamURL, err := r.deezerClient.GetMediaURL(ctx, track.TrackToken, tier.APIName())
		if err == nil && streamURL != "" {
			return &QualityResolutionResult{
				Quality:   tier,
				StreamURL: streamURL,
			}, nil
		}

		if err != nil && !errors.Is(err, deezer.ErrQualityUnavailable) {
			return nil, fmt.Errorf("failed to mint media URL: %w", err)
		}

		// The media API refused this tier; the legacy CDN scheme may still
		// serve it when the track advertises a non-zero size for the tier.
		if legacyURL := r.legacyStreamURL(track, tier); legacyURL != "" {
			logger.Infof(ctx, "Falling back to legacy URL for '%s' (%s)", track.DisplayName(), tier)

			return &QualityResolutionResult{
				Quality:     tier,
				StreamURL:   legacyURL,
				IsLegacyURL: true,
			}, nil
		}

		logger.Infof(ctx, "Quality %s is unavailable for '%s', trying next tier", tier, track.DisplayName())
	}

	return nil, fmt.Errorf("%w: %s", ErrNoAvailableQuality, track.DisplayName())
}

// isTierEntitled reports whether the session's subscription covers the tier.
func (r *trackQualityResolver) isTierEntitled(tier TrackQuality, session *deezer.UserSession) bool {
	//nolint:exhaustive // 128 Kbps is available to every account.
	switch tier {
	case TrackQualityFLAC:
		return session.CanStreamLossless
	case TrackQualityMP3High:
		return session.CanStreamHQ
	default:
		return true
	}
}

// legacyStreamURL generates a legacy CDN URL for the tier, or an empty
// string when the track lacks the data the scheme requires.
func (r *trackQualityResolver) legacyStreamURL(track *deezer.Track, tier TrackQuality) string {
	if track.MD5Origin == "" || track.FilesizeForFormat(tier.FormatCode()) == 0 {
		return ""
	}

	return crypto.LegacyStreamURL(
		track.ID.String(),
		track.MD5Origin,
		track.MediaVersion.String(),
		tier.FormatCode())
}
