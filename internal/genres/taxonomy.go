package genres

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	genreIndexPath = "/engenremap.html"
	labelSelector  = "div.genre.scanme"
	progressEvery  = 10
)

// Taxonomy is the artist <-> genre mapping scraped from the genre site.
type Taxonomy struct {
	// Genres lists genres in crawl order.
	Genres       []string
	GenreArtists map[string][]string
	ArtistGenres map[string][]string
}

// GenrePagePath returns the page of genre: its label with spaces removed and
// nothing else normalized.
func GenrePagePath(genre string) string {
	return "/engenremap-" + strings.ReplaceAll(genre, " ", "") + ".html"
}

// CrawlTaxonomy fetches the genre index and every genre page on it. An artist
// listed under several genres collects them in crawl order.
func (c *Client) CrawlTaxonomy(ctx context.Context) (Taxonomy, error) {
	index, err := c.fetch(ctx, c.genreLimiter, genreIndexPath, nil)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("fetch genre index: %w", err)
	}

	genreLabels := labels(index.Find(labelSelector))
	c.logger.Info("total number of genres", "count", len(genreLabels))

	tax := Taxonomy{
		GenreArtists: make(map[string][]string, len(genreLabels)),
		ArtistGenres: make(map[string][]string),
	}

	for i, genre := range genreLabels {
		if i%progressEvery == 0 {
			c.logger.Info("pulling genre", "n", i, "total", len(genreLabels), "genre", genre)
		}

		if _, ok := tax.GenreArtists[genre]; !ok {
			tax.Genres = append(tax.Genres, genre)
			tax.GenreArtists[genre] = []string{}
		}

		page, err := c.fetch(ctx, c.genreLimiter, GenrePagePath(genre), nil)
		if err != nil {
			return Taxonomy{}, fmt.Errorf("fetch genre %q: %w", genre, err)
		}

		for _, artist := range labels(page.Find(labelSelector)) {
			tax.ArtistGenres[artist] = append(tax.ArtistGenres[artist], genre)
			tax.GenreArtists[genre] = append(tax.GenreArtists[genre], artist)
		}
	}

	return tax, nil
}

// labels returns the non-blank labels of sel in document order.
func labels(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if l := label(s); l != "" {
			out = append(out, l)
		}
	})
	return out
}
