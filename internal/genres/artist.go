package genres

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Blee1077/spotify-data-analysis/internal/playlist"
)

const artistProfilePath = "/artistprofile.cgi"

// Artist is the genre information listed on an artist's profile page.
type Artist struct {
	ID   string
	Name string
	// Genres is nil when the profile lists none.
	Genres []string
}

// ArtistLookup resolves the genres of a single artist.
type ArtistLookup interface {
	LookupArtist(ctx context.Context, artistID string) (Artist, error)
}

// LookupArtist scrapes the profile page of artistID.
func (c *Client) LookupArtist(ctx context.Context, artistID string) (Artist, error) {
	doc, err := c.fetch(ctx, c.artistLimiter, artistProfilePath, map[string]string{"id": artistID})
	if err != nil {
		return Artist{}, fmt.Errorf("lookup artist %s: %w", artistID, err)
	}

	artist, err := parseArtistProfile(doc, artistID)
	if err != nil {
		return Artist{}, err
	}
	if artist.Genres == nil {
		c.logger.Warn("artist has no listed genres, needs manual review",
			"artist_id", artistID,
			"artist", artist.Name,
		)
	}
	return artist, nil
}

func parseArtistProfile(doc *goquery.Document, artistID string) (Artist, error) {
	cell := doc.Find("td.discocell").First()
	if cell.Length() == 0 {
		return Artist{}, fmt.Errorf("artist %s: %w: no discography cell", artistID, ErrPageStructure)
	}

	title := cell.Find("div.title").First()
	if title.Length() == 0 {
		return Artist{}, fmt.Errorf("artist %s: %w", artistID, ErrMissingArtistName)
	}

	artist := Artist{
		ID:   artistID,
		Name: strings.TrimSpace(title.Text()),
	}
	if g := cell.Find("div.genres").First(); g.Length() > 0 {
		artist.Genres = strings.Split(g.Text(), ", ")
	}
	return artist, nil
}

// Resolve looks up artistID and returns its genres along with a copy of m that
// records them under the artist's profile name. m itself is left unchanged.
func Resolve(ctx context.Context, lookup ArtistLookup, artistID string, m playlist.ArtistGenreMap) ([]string, playlist.ArtistGenreMap, error) {
	artist, err := lookup.LookupArtist(ctx, artistID)
	if err != nil {
		return nil, nil, err
	}
	return artist.Genres, m.Merge(playlist.ArtistGenreMap{artist.Name: artist.Genres}), nil
}

// Backfill resolves each artist in turn and returns the found genres keyed by
// artist name. Artists without listed genres map to nil. Lookups stop at the
// first error; the partial result is discarded.
func Backfill(ctx context.Context, lookup ArtistLookup, artistIDs []string, progress func(done, total int)) (playlist.ArtistGenreMap, error) {
	delta := playlist.ArtistGenreMap{}
	for i, id := range artistIDs {
		var err error
		if _, delta, err = Resolve(ctx, lookup, id, delta); err != nil {
			return nil, err
		}

		if progress != nil {
			progress(i+1, len(artistIDs))
		}
	}
	return delta, nil
}
