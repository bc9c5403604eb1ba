package playlist

import (
	"encoding/json"
	"maps"
)

// GenreList is a list of genre tags. A nil list means the artist has no known
// genres and is written as an empty cell.
type GenreList []string

// MarshalText renders the list as a JSON array so it fits in one CSV cell.
func (g GenreList) MarshalText() ([]byte, error) {
	if g == nil {
		return []byte{}, nil
	}
	return json.Marshal([]string(g))
}

// ArtistGenreMap maps an artist display name to its genres. A nil value records
// an artist that was looked up but has no listed genres.
type ArtistGenreMap map[string][]string

// Genres returns the genres of artist, or nil when unknown.
func (m ArtistGenreMap) Genres(artist string) GenreList {
	g, ok := m[artist]
	if !ok || g == nil {
		return nil
	}
	return GenreList(g)
}

// Merge returns a new map holding m overlaid with delta.
func (m ArtistGenreMap) Merge(delta ArtistGenreMap) ArtistGenreMap {
	out := make(ArtistGenreMap, len(m)+len(delta))
	maps.Copy(out, m)
	maps.Copy(out, delta)
	return out
}

// OutputRow is one line of the final table: a feature vector joined with the
// occurrence it belongs to and the artist's genres.
type OutputRow struct {
	Danceability      float64   `csv:"danceability"`
	Energy            float64   `csv:"energy"`
	Key               int       `csv:"key"`
	Loudness          float64   `csv:"loudness"`
	Mode              int       `csv:"mode"`
	Speechiness       float64   `csv:"speechiness"`
	Acousticness      float64   `csv:"acousticness"`
	Instrumentalness  float64   `csv:"instrumentalness"`
	Liveness          float64   `csv:"liveness"`
	Valence           float64   `csv:"valence"`
	Tempo             float64   `csv:"tempo"`
	TrackID           string    `csv:"id"`
	DurationMs        int       `csv:"duration_ms"`
	TimeSignature     int       `csv:"time_signature"`
	OccurrenceKey     string    `csv:"playlist_track_id"`
	Name              string    `csv:"name"`
	Popularity        int       `csv:"popularity"`
	Artist            string    `csv:"artist"`
	ArtistID          string    `csv:"artist_id"`
	PlaylistName      string    `csv:"playlist_name"`
	PlaylistDateAdded string    `csv:"playlist_date_added"`
	Genres            GenreList `csv:"genres"`
}

// NewOutputRow combines a feature vector with occurrence metadata.
func NewOutputRow(f FeatureRow, occ TrackOccurrence) OutputRow {
	return OutputRow{
		Danceability:      f.Danceability,
		Energy:            f.Energy,
		Key:               f.Key,
		Loudness:          f.Loudness,
		Mode:              f.Mode,
		Speechiness:       f.Speechiness,
		Acousticness:      f.Acousticness,
		Instrumentalness:  f.Instrumentalness,
		Liveness:          f.Liveness,
		Valence:           f.Valence,
		Tempo:             f.Tempo,
		TrackID:           f.TrackID,
		DurationMs:        f.DurationMs,
		TimeSignature:     f.TimeSignature,
		OccurrenceKey:     occ.Key.String(),
		Name:              occ.TrackName,
		Popularity:        occ.Popularity,
		Artist:            occ.ArtistName,
		ArtistID:          occ.ArtistID,
		PlaylistName:      occ.PlaylistName,
		PlaylistDateAdded: occ.DateAdded,
	}
}

// AttachGenres returns a copy of rows with genres looked up by artist name.
// Rows whose artist is missing from m get nil genres.
func AttachGenres(rows []OutputRow, m ArtistGenreMap) []OutputRow {
	out := make([]OutputRow, len(rows))
	for i, r := range rows {
		r.Genres = m.Genres(r.Artist)
		out[i] = r
	}
	return out
}
