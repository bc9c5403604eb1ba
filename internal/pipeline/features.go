package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/Blee1077/spotify-data-analysis/internal/adapters"
	"github.com/Blee1077/spotify-data-analysis/internal/playlist"
)

// JoinFeatures fetches audio features for every indexed track and expands each
// vector into one row per occurrence of the track, carrying the occurrence's
// metadata. Tracks the API returns no features for are dropped with a warning.
// A value that cannot be cast fails the whole join.
func JoinFeatures(ctx context.Context, src Source, occs *playlist.Occurrences, index *playlist.TrackIndex, logger *slog.Logger) ([]playlist.OutputRow, error) {
	features, err := fetchFeatures(ctx, src, index.TrackIDs(), logger)
	if err != nil {
		return nil, err
	}

	var rows []playlist.OutputRow
	for _, trackID := range index.TrackIDs() {
		raw, ok := features[trackID]
		if !ok {
			continue
		}
		vector, err := raw.Cast()
		if err != nil {
			return nil, err
		}

		for _, key := range index.Keys(trackID) {
			occ, ok := occs.Get(key)
			if !ok {
				return nil, fmt.Errorf("track %s: occurrence %s not collected", trackID, key)
			}
			rows = append(rows, playlist.NewOutputRow(vector, occ))
		}
	}

	return Dedup(rows), nil
}

// fetchFeatures requests features in batches the API accepts and keys them by
// the requested track ID.
func fetchFeatures(ctx context.Context, src Source, trackIDs []string, logger *slog.Logger) (map[string]playlist.AudioFeatures, error) {
	out := make(map[string]playlist.AudioFeatures, len(trackIDs))

	for _, batch := range lo.Chunk(trackIDs, adapters.MaxFeatureBatch) {
		features, err := src.GetAudioFeatures(ctx, batch...)
		if err != nil {
			return nil, err
		}
		if len(features) != len(batch) {
			return nil, fmt.Errorf("audio features: requested %d tracks, got %d entries", len(batch), len(features))
		}

		for i, f := range features {
			if f == nil {
				logger.Warn("no audio features for track, dropping its occurrences", "track_id", batch[i])
				continue
			}
			vector := *f
			vector.TrackID = batch[i]
			out[batch[i]] = vector
		}
	}

	return out, nil
}

// Dedup drops rows repeating an earlier (track, occurrence) pair, keeping order.
func Dedup(rows []playlist.OutputRow) []playlist.OutputRow {
	return lo.UniqBy(rows, func(r playlist.OutputRow) [2]string {
		return [2]string{r.TrackID, r.OccurrenceKey}
	})
}
