package adapters

import (
	"context"
	"fmt"

	"github.com/Blee1077/spotify-data-analysis/internal/playlist"
)

// MaxFeatureBatch is the most track IDs the audio-features endpoint accepts per call.
const MaxFeatureBatch = 100

// ApiAdapter defines the music platform calls the pipeline depends on.
// Paged calls return the page found at offset; an empty Next means it was the last one.
type ApiAdapter interface {
	// Authentication methods
	Authenticate(ctx context.Context) error
	IsAuthenticated() bool

	// Platform-specific methods
	GetUserPlaylists(ctx context.Context, userID string, offset int) (playlist.PlaylistPage, error)
	GetPlaylistItems(ctx context.Context, playlistID string, offset int) (playlist.ItemPage, error)

	// GetAudioFeatures returns one entry per requested ID, in request order.
	// Entries the platform cannot resolve are nil.
	GetAudioFeatures(ctx context.Context, trackIDs ...string) ([]*playlist.AudioFeatures, error)
}

// PlatformType represents the supported music platforms
type PlatformType string

const (
	SpotifyPlatform PlatformType = "spotify"
)

// NewApiAdapter is a factory function that creates a new adapter for the specified platform
func NewApiAdapter(platform string, opts SpotifyOptions) (ApiAdapter, error) {
	switch PlatformType(platform) {
	case SpotifyPlatform:
		return NewSpotifyAdapter(opts)
	default:
		return nil, fmt.Errorf("unsupported platform: %s", platform)
	}
}
