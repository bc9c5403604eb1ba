package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Blee1077/spotify-data-analysis/internal/playlist"
)

// Source is the subset of the music platform API the pipeline reads from.
type Source interface {
	GetUserPlaylists(ctx context.Context, userID string, offset int) (playlist.PlaylistPage, error)
	GetPlaylistItems(ctx context.Context, playlistID string, offset int) (playlist.ItemPage, error)
	GetAudioFeatures(ctx context.Context, trackIDs ...string) ([]*playlist.AudioFeatures, error)
}

// Enumerate lists every playlist owned by userID, following pages until the
// API reports no next page. Playlists are keyed by ID, so two playlists
// sharing a name are both kept.
func Enumerate(ctx context.Context, src Source, userID string, logger *slog.Logger) (playlist.Playlists, error) {
	var (
		out     playlist.Playlists
		offset  int
		skipped int
	)

	for {
		page, err := src.GetUserPlaylists(ctx, userID, offset)
		if err != nil {
			return playlist.Playlists{}, err
		}

		for _, p := range page.Playlists {
			if p.OwnerID != userID {
				skipped++
				continue
			}
			out.Add(p)
		}

		if page.Next == "" {
			break
		}
		if len(page.Playlists) == 0 {
			return playlist.Playlists{}, fmt.Errorf("playlists of %s: empty page at offset %d announces a next page", userID, offset)
		}
		offset += len(page.Playlists)
	}

	logger.Info("enumerated playlists", "user", userID, "owned", out.Len(), "skipped_not_owned", skipped)
	return out, nil
}
