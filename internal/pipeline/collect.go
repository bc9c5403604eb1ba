package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Blee1077/spotify-data-analysis/internal/playlist"
)

// Collect fetches every entry of the given playlists, in order, and returns the
// occurrences with an index from track ID to occurrence keys.
//
// Entries without a track reference are skipped but still use up their
// position, so keys stay stable. Duplicate tracks are kept.
func Collect(ctx context.Context, src Source, playlists playlist.Playlists, playlistIDs []string, logger *slog.Logger) (*playlist.Occurrences, *playlist.TrackIndex, error) {
	occs := playlist.NewOccurrences()
	index := playlist.NewTrackIndex()

	for plIdx, id := range playlistIDs {
		meta, ok := playlists.ByID(id)
		if !ok {
			return nil, nil, fmt.Errorf("playlist %s is not in the enumerated playlists", id)
		}

		entries, err := fetchEntries(ctx, src, id)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("fetched playlist", "playlist", meta.Name, "playlist_id", id, "entries", len(entries))

		for pos, e := range entries {
			if !e.HasTrack() {
				continue
			}
			if err := e.Validate(); err != nil {
				return nil, nil, fmt.Errorf("playlist %s position %d: %w", id, pos, err)
			}

			key := playlist.OccurrenceKey{Playlist: plIdx, Position: pos}
			artist := e.Track.Artists[0]
			occ := playlist.TrackOccurrence{
				Key:          key,
				TrackID:      e.Track.ID,
				PlaylistID:   id,
				PlaylistName: meta.Name,
				DateAdded:    e.AddedAt,
				TrackName:    e.Track.Name,
				ArtistName:   artist.Name,
				ArtistID:     artist.ID,
				Popularity:   e.Track.Popularity,
			}
			if err := occs.Add(occ); err != nil {
				return nil, nil, err
			}
			index.Append(e.Track.ID, key)
		}
	}

	return occs, index, nil
}

// fetchEntries pages through one playlist until no next page is indicated.
func fetchEntries(ctx context.Context, src Source, playlistID string) ([]playlist.Entry, error) {
	var entries []playlist.Entry
	for {
		page, err := src.GetPlaylistItems(ctx, playlistID, len(entries))
		if err != nil {
			return nil, err
		}
		entries = append(entries, page.Items...)

		if page.Next == "" {
			return entries, nil
		}
		if len(page.Items) == 0 {
			return nil, fmt.Errorf("playlist %s: empty page at offset %d announces a next page", playlistID, len(entries))
		}
	}
}
