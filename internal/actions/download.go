package actions

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/urfave/cli/v2"

	"github.com/Blee1077/spotify-data-analysis/internal/adapters"
	"github.com/Blee1077/spotify-data-analysis/internal/config"
	"github.com/Blee1077/spotify-data-analysis/internal/genres"
	"github.com/Blee1077/spotify-data-analysis/internal/logger"
	"github.com/Blee1077/spotify-data-analysis/internal/pipeline"
)

// FillGenresFlag enables the genre backfill step of the download command.
const FillGenresFlag = "fill-genres"

// DownloadPlaylists runs the playlist feature pipeline for the configured user.
func DownloadPlaylists(c *cli.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if cfg.Spotify.User == "" {
		if err := promptUser(&cfg.Spotify.User); err != nil {
			return err
		}
	}
	if err := cfg.ValidateSpotify(); err != nil {
		return err
	}

	ctx := c.Context
	adapter, err := adapters.NewApiAdapter(string(adapters.SpotifyPlatform), adapters.SpotifyOptions{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RedirectURI:  cfg.Spotify.RedirectURI,
		Scopes:       cfg.Spotify.Scopes,
		TokenPath:    cfg.Spotify.TokenPath,
		Logger:       log.WithComponent("spotify").Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create adapter: %w", err)
	}

	// handle auth
	if err := adapter.Authenticate(ctx); err != nil {
		return err
	}

	p := pipeline.New(adapter, newScraper(cfg, log), pipeline.Paths{
		ArtistGenreMap: cfg.ArtistGenreMappingPath(),
		Playlists:      cfg.PlaylistsPath(),
		Output:         cfg.ProcessedDataPath(),
	}, log.WithComponent("pipeline").Logger)

	opts := pipeline.Options{
		UserID:     cfg.Spotify.User,
		FillGenres: c.Bool(FillGenresFlag),
	}

	var summary pipeline.Summary
	download := func(ctx context.Context) error {
		summary, err = p.Run(ctx, opts)
		return err
	}
	if err := spinner.New().Title("Downloading playlist data...").Context(ctx).ActionWithErr(download).Run(); err != nil {
		return err
	}

	fmt.Printf("Wrote %d rows (%d occurrences of %d tracks across %d playlists) to %s\n",
		summary.Rows, summary.Occurrences, summary.Tracks, summary.Playlists, summary.Output)
	if summary.MissingGenres > 0 && !opts.FillGenres {
		fmt.Printf("%d artists have no genres; rerun with --%s to look them up\n", summary.MissingGenres, FillGenresFlag)
	}
	return nil
}

// promptUser asks for the Spotify username when none is configured.
func promptUser(user *string) error {
	return huh.NewInput().
		Title("Enter the Spotify username whose playlists to download").
		Value(user).
		Run()
}

func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}), nil
}

func newScraper(cfg *config.Config, log *logger.Logger) *genres.Client {
	return genres.New(genres.Options{
		BaseURL:        cfg.Scrape.BaseURL,
		UserAgent:      cfg.Scrape.UserAgent,
		ArtistInterval: cfg.Scrape.ArtistInterval,
		GenreInterval:  cfg.Scrape.GenreInterval,
		Timeout:        cfg.Scrape.Timeout,
		Logger:         log.WithComponent("everynoise").Logger,
	})
}
