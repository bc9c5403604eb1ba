package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/Blee1077/spotify-data-analysis/internal/actions"
)

func main() {
	app := &cli.App{
		Name:  "spotify-data-analysis",
		Usage: "Collect playlist audio features and artist genres into a CSV table.",
		Commands: []*cli.Command{
			{
				Name:  "download",
				Usage: "Download playlist tracks, audio features and genres",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    actions.FillGenresFlag,
						Aliases: []string{"fill_genres"},
						Usage:   "Look up artists missing from the artist-genre mapping and update it",
					},
				},
				Action: actions.DownloadPlaylists,
			},
			{
				Name:   "scrape-genres",
				Usage:  "Crawl the full genre taxonomy into the artist/genre mapping files",
				Action: actions.ScrapeGenres,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
