package deezer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/deezer-grabber/internal/client/deezer"
	mock_deezer_client "github.com/oshokin/deezer-grabber/internal/client/deezer/mocks"
	"github.com/oshokin/deezer-grabber/internal/crypto"
)

func newResolverTestClient(t *testing.T) (*gomock.Controller, *mock_deezer_client.MockClient, QualityResolver) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockClient := mock_deezer_client.NewMockClient(ctrl)

	return ctrl, mockClient, NewQualityResolver(mockClient)
}

func fullEntitlementSession() *deezer.UserSession {
	return &deezer.UserSession{
		CanStreamHQ:       true,
		CanStreamLossless: true,
	}
}

// TestResolveQuality_RequestedTierAvailable tests the happy path where the
// desired tier is served immediately.
func TestResolveQuality_RequestedTierAvailable(t *testing.T) {
	t.Parallel()

	ctrl, mockClient, resolver := newResolverTestClient(t)
	defer ctrl.Finish()

	track := &deezer.Track{ID: "3135556", Title: "Harder Better Faster Stronger", TrackToken: "tok"}

	mockClient.EXPECT().Session().Return(fullEntitlementSession())
	mockClient.EXPECT().
		GetMediaURL(gomock.Any(), "tok", "FLAC").
		Return("https://cdn.example.com/flac", nil)

	result, err := resolver.ResolveQuality(context.Background(), track, TrackQualityFLAC)
	require.NoError(t, err)

	assert.Equal(t, TrackQualityFLAC, result.Quality)
	assert.Equal(t, "https://cdn.example.com/flac", result.StreamURL)
	assert.False(t, result.IsLegacyURL)
}

// TestResolveQuality_StandardNeverProbesHigher tests that a 128 request
// touches only the 128 tier.
func TestResolveQuality_StandardNeverProbesHigher(t *testing.T) {
	t.Parallel()

	ctrl, mockClient, resolver := newResolverTestClient(t)
	defer ctrl.Finish()

	track := &deezer.Track{ID: "1", TrackToken: "tok"}

	mockClient.EXPECT().Session().Return(fullEntitlementSession())
	mockClient.EXPECT().
		GetMediaURL(gomock.Any(), "tok", "MP3_128").
		Return("https://cdn.example.com/128", nil)

	result, err := resolver.ResolveQuality(context.Background(), track, TrackQualityMP3Mid)
	require.NoError(t, err)

	assert.Equal(t, TrackQualityMP3Mid, result.Quality)
}

// TestResolveQuality_FallsThroughChain tests FLAC falling through 320 to 128.
func TestResolveQuality_FallsThroughChain(t *testing.T) {
	t.Parallel()

	ctrl, mockClient, resolver := newResolverTestClient(t)
	defer ctrl.Finish()

	track := &deezer.Track{ID: "1", TrackToken: "tok"}

	mockClient.EXPECT().Session().Return(fullEntitlementSession())

	gomock.InOrder(
		mockClient.EXPECT().
			GetMediaURL(gomock.Any(), "tok", "FLAC").
			Return("", deezer.ErrQualityUnavailable),
		mockClient.EXPECT().
			GetMediaURL(gomock.Any(), "tok", "MP3_320").
			Return("", deezer.ErrQualityUnavailable),
		mockClient.EXPECT().
			GetMediaURL(gomock.Any(), "tok", "MP3_128").
			Return("https://cdn.example.com/128", nil),
	)

	result, err := resolver.ResolveQuality(context.Background(), track, TrackQualityFLAC)
	require.NoError(t, err)

	assert.Equal(t, TrackQualityMP3Mid, result.Quality)
	assert.False(t, result.IsLegacyURL)
}

// TestResolveQuality_EntitlementSkipsTiers tests that unentitled tiers are
// skipped without probing the media API.
func TestResolveQuality_EntitlementSkipsTiers(t *testing.T) {
	t.Parallel()

	ctrl, mockClient, resolver := newResolverTestClient(t)
	defer ctrl.Finish()

	track := &deezer.Track{ID: "1", TrackToken: "tok"}

	mockClient.EXPECT().Session().Return(&deezer.UserSession{
		CanStreamHQ:       false,
		CanStreamLossless: false,
	})

	// Only the universally available 128 tier may be probed.
	mockClient.EXPECT().
		GetMediaURL(gomock.Any(), "tok", "MP3_128").
		Return("https://cdn.example.com/128", nil)

	result, err := resolver.ResolveQuality(context.Background(), track, TrackQualityFLAC)
	require.NoError(t, err)

	assert.Equal(t, TrackQualityMP3Mid, result.Quality)
}

// TestResolveQuality_LegacyFallback tests that a refused tier with legacy
// data generates a local URL instead of falling to the next tier.
func TestResolveQuality_LegacyFallback(t *testing.T) {
	t.Parallel()

	ctrl, mockClient, resolver := newResolverTestClient(t)
	defer ctrl.Finish()

	track := &deezer.Track{
		ID:           "3135556",
		TrackToken:   "tok",
		MD5Origin:    "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6",
		MediaVersion: "1",
		FilesizeFLAC: 20 << 20,
	}

	mockClient.EXPECT().Session().Return(fullEntitlementSession())
	mockClient.EXPECT().
		GetMediaURL(gomock.Any(), "tok", "FLAC").
		Return("", deezer.ErrQualityUnavailable)

	result, err := resolver.ResolveQuality(context.Background(), track, TrackQualityFLAC)
	require.NoError(t, err)

	assert.Equal(t, TrackQualityFLAC, result.Quality)
	assert.True(t, result.IsLegacyURL)
	assert.Equal(t,
		crypto.LegacyStreamURL("3135556", track.MD5Origin, "1", TrackQualityFLAC.FormatCode()),
		result.StreamURL)
}

// TestResolveQuality_LegacyRequiresFilesize tests that a zero advertised size
// disables the legacy scheme for that tier.
func TestResolveQuality_LegacyRequiresFilesize(t *testing.T) {
	t.Parallel()

	ctrl, mockClient, resolver := newResolverTestClient(t)
	defer ctrl.Finish()

	track := &deezer.Track{
		ID:           "1",
		TrackToken:   "tok",
		MD5Origin:    "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6",
		MediaVersion: "1",
		// FilesizeFLAC stays zero: the tier does not exist for this track.
		FilesizeMP3320: 2 << 20,
	}

	mockClient.EXPECT().Session().Return(fullEntitlementSession())

	gomock.InOrder(
		mockClient.EXPECT().
			GetMediaURL(gomock.Any(), "tok", "FLAC").
			Return("", deezer.ErrQualityUnavailable),
		mockClient.EXPECT().
			GetMediaURL(gomock.Any(), "tok", "MP3_320").
			Return("https://cdn.example.com/320", nil),
	)

	result, err := resolver.ResolveQuality(context.Background(), track, TrackQualityFLAC)
	require.NoError(t, err)

	assert.Equal(t, TrackQualityMP3High, result.Quality)
	assert.False(t, result.IsLegacyURL)
}

// TestResolveQuality_TransportErrorAborts tests that errors other than
// quality unavailability abort the chain immediately.
func TestResolveQuality_TransportErrorAborts(t *testing.T) {
	t.Parallel()

	ctrl, mockClient, resolver := newResolverTestClient(t)
	defer ctrl.Finish()

	track := &deezer.Track{ID: "1", TrackToken: "tok"}
	transportErr := errors.New("connection refused")

	mockClient.EXPECT().Session().Return(fullEntitlementSession())
	mockClient.EXPECT().
		GetMediaURL(gomock.Any(), "tok", "FLAC").
		Return("", transportErr)

	result, err := resolver.ResolveQuality(context.Background(), track, TrackQualityFLAC)
	require.Error(t, err)
	require.ErrorIs(t, err, transportErr)
	assert.Nil(t, result)
}

// TestResolveQuality_Exhausted tests that exhausting every tier yields
// ErrNoAvailableQuality.
func TestResolveQuality_Exhausted(t *testing.T) {
	t.Parallel()

	ctrl, mockClient, resolver := newResolverTestClient(t)
	defer ctrl.Finish()

	track := &deezer.Track{ID: "1", Title: "Ghost Track", TrackToken: "tok"}

	mockClient.EXPECT().Session().Return(fullEntitlementSession())

	for _, format := range []string{"FLAC", "MP3_320", "MP3_128"} {
		mockClient.EXPECT().
			GetMediaURL(gomock.Any(), "tok", format).
			Return("", deezer.ErrQualityUnavailable)
	}

	result, err := resolver.ResolveQuality(context.Background(), track, TrackQualityFLAC)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNoAvailableQuality)
	assert.Nil(t, result)
}

// TestResolveQuality_UnknownDesiredQuality tests that an unknown quality is
// rejected without client calls.
func TestResolveQuality_UnknownDesiredQuality(t *testing.T) {
	t.Parallel()

	ctrl, _, resolver := newResolverTestClient(t)
	defer ctrl.Finish()

	track := &deezer.Track{ID: "1", TrackToken: "tok"}

	result, err := resolver.ResolveQuality(context.Background(), track, TrackQualityUnknown)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNoAvailableQuality)
	assert.Nil(t, result)
}

// TestResolveQuality_NilSession tests that a missing session probes every
// tier instead of gating on entitlements.
func TestResolveQuality_NilSession(t *testing.T) {
	t.Parallel()

	ctrl, mockClient, resolver := newResolverTestClient(t)
	defer ctrl.Finish()

	track := &deezer.Track{ID: "1", TrackToken: "tok"}

	mockClient.EXPECT().Session().Return(nil)
	mockClient.EXPECT().
		GetMediaURL(gomock.Any(), "tok", "FLAC").
		Return("https://cdn.example.com/flac", nil)

	result, err := resolver.ResolveQuality(context.Background(), track, TrackQualityFLAC)
	require.NoError(t, err)

	assert.Equal(t, TrackQualityFLAC, result.Quality)
}
