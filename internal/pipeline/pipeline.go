package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"reflect"

	"github.com/samber/lo"

	"github.com/Blee1077/spotify-data-analysis/internal/genres"
	"github.com/Blee1077/spotify-data-analysis/internal/playlist"
	"github.com/Blee1077/spotify-data-analysis/internal/utils"
)

const backfillProgressEvery = 10

// Paths locates the files a run reads and writes.
type Paths struct {
	// ArtistGenreMap is read at start and overwritten after a backfill.
	ArtistGenreMap string
	// Playlists receives playlist metadata when set.
	Playlists string
	// Output receives the final table.
	Output string
}

// Options controls a single run.
type Options struct {
	UserID     string
	FillGenres bool
}

// Summary reports what a run produced.
type Summary struct {
	Playlists     int
	Occurrences   int
	Tracks        int
	Rows          int
	MissingGenres int
	Backfilled    int
	Output        string
}

// Pipeline downloads a user's playlists and writes the feature table
// using a platform source and a genre lookup
type Pipeline struct {
	source Source
	lookup genres.ArtistLookup
	paths  Paths
	logger *slog.Logger
}

// New creates a new Pipeline
func New(source Source, lookup genres.ArtistLookup, paths Paths, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source: source,
		lookup: lookup,
		paths:  paths,
		logger: logger,
	}
}

// Run executes the whole pipeline. Nothing is written until the feature table
// is complete; a failure during backfill leaves the genre map file as it was.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Summary, error) {
	summary := Summary{Output: p.paths.Output}

	genreMap, err := LoadArtistGenreMap(p.paths.ArtistGenreMap, p.logger)
	if err != nil {
		return summary, err
	}

	playlists, err := Enumerate(ctx, p.source, opts.UserID, p.logger)
	if err != nil {
		return summary, fmt.Errorf("enumerate playlists: %w", err)
	}
	summary.Playlists = playlists.Len()

	if p.paths.Playlists != "" {
		if err := utils.WriteJSONFile(p.paths.Playlists, playlists.All(), 0o644); err != nil {
			return summary, fmt.Errorf("save playlists: %w", err)
		}
	}

	occs, index, err := Collect(ctx, p.source, playlists, playlists.IDs(), p.logger)
	if err != nil {
		return summary, fmt.Errorf("collect tracks: %w", err)
	}
	summary.Occurrences = occs.Len()
	summary.Tracks = index.Len()

	rows, err := JoinFeatures(ctx, p.source, occs, index, p.logger)
	if err != nil {
		return summary, fmt.Errorf("join audio features: %w", err)
	}
	rows = playlist.AttachGenres(rows, genreMap)

	missing := MissingGenreArtists(rows)
	summary.MissingGenres = len(missing)

	if opts.FillGenres && len(missing) > 0 {
		genreMap, err = p.backfill(ctx, genreMap, missing)
		if err != nil {
			return summary, err
		}
		summary.Backfilled = len(missing)
		rows = playlist.AttachGenres(rows, genreMap)
	}

	headers := utils.StructToCsvHeader(reflect.TypeOf(playlist.OutputRow{}))
	if err := utils.WriteToCsvFile(p.paths.Output, headers, rows); err != nil {
		return summary, fmt.Errorf("write %s: %w", p.paths.Output, err)
	}
	summary.Rows = len(rows)

	p.logger.Info("wrote feature table", "path", p.paths.Output, "rows", len(rows))
	return summary, nil
}

// backfill looks up artists missing from genreMap, then overwrites the stored
// map with the merged result.
func (p *Pipeline) backfill(ctx context.Context, genreMap playlist.ArtistGenreMap, artistIDs []string) (playlist.ArtistGenreMap, error) {
	p.logger.Info("backfilling artist genres", "artists", len(artistIDs))

	delta, err := genres.Backfill(ctx, p.lookup, artistIDs, func(done, total int) {
		if done%backfillProgressEvery == 0 {
			p.logger.Info("backfill progress", "done", done, "total", total)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("backfill genres: %w", err)
	}

	merged := genreMap.Merge(delta)
	if err := utils.WriteJSONFile(p.paths.ArtistGenreMap, merged, 0o644); err != nil {
		return nil, fmt.Errorf("save artist genre map: %w", err)
	}
	return merged, nil
}

// MissingGenreArtists returns the distinct artist IDs of rows without genres,
// in row order.
func MissingGenreArtists(rows []playlist.OutputRow) []string {
	ids := lo.FilterMap(rows, func(r playlist.OutputRow, _ int) (string, bool) {
		return r.ArtistID, r.Genres == nil && r.ArtistID != ""
	})
	return lo.Uniq(ids)
}

// LoadArtistGenreMap reads the cached artist -> genres mapping. A missing file
// yields an empty map.
func LoadArtistGenreMap(path string, logger *slog.Logger) (playlist.ArtistGenreMap, error) {
	m := playlist.ArtistGenreMap{}
	err := utils.ReadJSONFile(path, &m)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("artist genre map not found, starting empty", "path", path)
		return playlist.ArtistGenreMap{}, nil
	case err != nil:
		return nil, fmt.Errorf("load artist genre map: %w", err)
	}
	return m, nil
}
