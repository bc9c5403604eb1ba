package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Blee1077/spotify-data-analysis/internal/genres"
	"github.com/Blee1077/spotify-data-analysis/internal/utils"
)

// TaxonomyCrawler scrapes the full genre taxonomy.
type TaxonomyCrawler interface {
	CrawlTaxonomy(ctx context.Context) (genres.Taxonomy, error)
}

// ScrapeTaxonomy crawls the genre site and persists both mappings. Nothing is
// written unless the crawl completes.
func ScrapeTaxonomy(ctx context.Context, crawler TaxonomyCrawler, genreArtistPath, artistGenrePath string, logger *slog.Logger) (genres.Taxonomy, error) {
	tax, err := crawler.CrawlTaxonomy(ctx)
	if err != nil {
		return genres.Taxonomy{}, fmt.Errorf("crawl genre taxonomy: %w", err)
	}

	if err := utils.WriteJSONFile(genreArtistPath, tax.GenreArtists, 0o644); err != nil {
		return genres.Taxonomy{}, fmt.Errorf("save genre artist mapping: %w", err)
	}
	if err := utils.WriteJSONFile(artistGenrePath, tax.ArtistGenres, 0o644); err != nil {
		return genres.Taxonomy{}, fmt.Errorf("save artist genre mapping: %w", err)
	}

	logger.Info("saved genre taxonomy",
		"genres", len(tax.Genres),
		"artists", len(tax.ArtistGenres),
		"genre_artist_path", genreArtistPath,
		"artist_genre_path", artistGenrePath,
	)
	return tax, nil
}
