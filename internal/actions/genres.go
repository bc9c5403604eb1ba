package actions

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Blee1077/spotify-data-analysis/internal/pipeline"
)

// ScrapeGenres crawls the whole genre taxonomy and saves both mappings.
// A full crawl takes hours because of the page throttle.
func ScrapeGenres(c *cli.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	tax, err := pipeline.ScrapeTaxonomy(
		c.Context,
		newScraper(cfg, log),
		cfg.GenreArtistMappingPath(),
		cfg.ArtistGenreMappingPath(),
		log.WithComponent("taxonomy").Logger,
	)
	if err != nil {
		return err
	}

	fmt.Printf("Saved %d genres and %d artists to %s\n", len(tax.Genres), len(tax.ArtistGenres), cfg.RawDir)
	return nil
}
