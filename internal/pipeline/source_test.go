package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Blee1077/spotify-data-analysis/internal/genres"
	"github.com/Blee1077/spotify-data-analysis/internal/playlist"
)

var errSource = errors.New("source failure")

// fakeSource serves fixed playlists, entries and features with small pages so
// paging is exercised.
type fakeSource struct {
	pageSize  int
	playlists []playlist.PlaylistMeta
	entries   map[string][]playlist.Entry
	features  map[string]*playlist.AudioFeatures

	failFeatures bool
	featureCalls [][]string
	itemOffsets  map[string][]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pageSize:    2,
		entries:     map[string][]playlist.Entry{},
		features:    map[string]*playlist.AudioFeatures{},
		itemOffsets: map[string][]int{},
	}
}

func page[T any](all []T, offset, size int) ([]T, bool) {
	if offset >= len(all) {
		return nil, false
	}
	end := min(offset+size, len(all))
	return all[offset:end], end < len(all)
}

func (f *fakeSource) GetUserPlaylists(_ context.Context, _ string, offset int) (playlist.PlaylistPage, error) {
	items, more := page(f.playlists, offset, f.pageSize)
	p := playlist.PlaylistPage{Playlists: items}
	if more {
		p.Next = fmt.Sprintf("playlists?offset=%d", offset+len(items))
	}
	return p, nil
}

func (f *fakeSource) GetPlaylistItems(_ context.Context, playlistID string, offset int) (playlist.ItemPage, error) {
	all, ok := f.entries[playlistID]
	if !ok {
		return playlist.ItemPage{}, fmt.Errorf("%w: unknown playlist %s", errSource, playlistID)
	}
	f.itemOffsets[playlistID] = append(f.itemOffsets[playlistID], offset)

	items, more := page(all, offset, f.pageSize)
	p := playlist.ItemPage{Items: items}
	if more {
		p.Next = fmt.Sprintf("items?offset=%d", offset+len(items))
	}
	return p, nil
}

func (f *fakeSource) GetAudioFeatures(_ context.Context, trackIDs ...string) ([]*playlist.AudioFeatures, error) {
	if f.failFeatures {
		return nil, errSource
	}
	f.featureCalls = append(f.featureCalls, append([]string(nil), trackIDs...))

	out := make([]*playlist.AudioFeatures, len(trackIDs))
	for i, id := range trackIDs {
		if feat, ok := f.features[id]; ok && feat != nil {
			cp := *feat
			out[i] = &cp
		}
	}
	return out, nil
}

func (f *fakeSource) addFeatures(trackID, danceability string) {
	f.features[trackID] = &playlist.AudioFeatures{
		TrackID:          trackID,
		Danceability:     playlist.Number(danceability),
		Energy:           "0.5",
		Key:              "5",
		Loudness:         "-7.2",
		Mode:             "1",
		Speechiness:      "0.04",
		Acousticness:     "0.1",
		Instrumentalness: "0",
		Liveness:         "0.12",
		Valence:          "0.6",
		Tempo:            "120.0",
		DurationMs:       "210000",
		TimeSignature:    "4",
	}
}

func track(id, name, artist, artistID string) playlist.Entry {
	return playlist.Entry{
		AddedAt: "2021-05-01T12:00:00Z",
		Track: &playlist.TrackRef{
			ID:         id,
			Name:       name,
			Artists:    []playlist.ArtistRef{{ID: artistID, Name: artist}},
			Popularity: 50,
		},
	}
}

func nullEntry() playlist.Entry {
	return playlist.Entry{AddedAt: "2021-05-01T12:00:00Z"}
}

// fakeLookup answers artist lookups from a fixed table.
type fakeLookup struct {
	artists map[string]genres.Artist
	err     error
	calls   []string
}

func (l *fakeLookup) LookupArtist(_ context.Context, artistID string) (genres.Artist, error) {
	l.calls = append(l.calls, artistID)
	if l.err != nil {
		return genres.Artist{}, l.err
	}
	a, ok := l.artists[artistID]
	if !ok {
		return genres.Artist{}, fmt.Errorf("unknown artist %s", artistID)
	}
	return a, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
