// Package config loads run configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	GenreArtistMappingFile = "genre_artist_mapping.json"
	ArtistGenreMappingFile = "artist_genre_mapping.json"
	PlaylistsFile          = "playlists.json"
	ProcessedDataFile      = "spotify_playlist_track_features.csv"
)

// SpotifyConfig holds the Spotify identity and OAuth settings.
type SpotifyConfig struct {
	User         string   `env:"SPOTIFY_USER"`
	ClientID     string   `env:"SPOTIFY_ID"`
	ClientSecret string   `env:"SPOTIFY_SECRET"`
	RedirectURI  string   `env:"SPOTIFY_REDIRECT_URI" envDefault:"http://localhost:8080/callback"`
	Scopes       []string `env:"SPOTIFY_SCOPES" envDefault:"user-library-read,user-top-read,user-read-recently-played" envSeparator:","`
	TokenPath    string   `env:"SPOTIFY_TOKEN_PATH" envDefault:".spotify_token.json"`
}

// ScrapeConfig holds the genre site settings.
type ScrapeConfig struct {
	BaseURL string `env:"EVERYNOISE_URL" envDefault:"https://everynoise.com"`
	// UserAgent falls back to the scraper's desktop browser agent when empty.
	UserAgent      string        `env:"SCRAPE_USER_AGENT"`
	ArtistInterval time.Duration `env:"ARTIST_LOOKUP_INTERVAL" envDefault:"1s"`
	GenreInterval  time.Duration `env:"GENRE_PAGE_INTERVAL" envDefault:"2s"`
	Timeout        time.Duration `env:"SCRAPE_TIMEOUT" envDefault:"120s"`
}

// Config holds all application configuration
type Config struct {
	Spotify   SpotifyConfig
	Scrape    ScrapeConfig
	RawDir    string `env:"DATA_RAW_DIR" envDefault:"data/raw"`
	ProcDir   string `env:"DATA_PROC_DIR" envDefault:"data/processed"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GenreArtistMappingPath is where the taxonomy crawl writes genre -> artists.
func (c *Config) GenreArtistMappingPath() string {
	return filepath.Join(c.RawDir, GenreArtistMappingFile)
}

// ArtistGenreMappingPath is the cached artist -> genres mapping.
func (c *Config) ArtistGenreMappingPath() string {
	return filepath.Join(c.RawDir, ArtistGenreMappingFile)
}

// PlaylistsPath is where playlist metadata is persisted.
func (c *Config) PlaylistsPath() string {
	return filepath.Join(c.RawDir, PlaylistsFile)
}

// ProcessedDataPath is the output table.
func (c *Config) ProcessedDataPath() string {
	return filepath.Join(c.ProcDir, ProcessedDataFile)
}

// Validate validates the settings every command needs and returns detailed errors
func (c *Config) Validate() error {
	var errs []string

	if c.RawDir == "" {
		errs = append(errs, "DATA_RAW_DIR cannot be empty")
	}
	if c.ProcDir == "" {
		errs = append(errs, "DATA_PROC_DIR cannot be empty")
	}

	if u, err := url.Parse(c.Scrape.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("EVERYNOISE_URL is not a valid URL: %s", c.Scrape.BaseURL))
	}
	if c.Scrape.ArtistInterval < 0 {
		errs = append(errs, "ARTIST_LOOKUP_INTERVAL cannot be negative")
	}
	if c.Scrape.GenreInterval < 0 {
		errs = append(errs, "GENRE_PAGE_INTERVAL cannot be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}
	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[c.LogFormat] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	return joinErrors(errs)
}

// ValidateSpotify validates the settings the download pipeline needs.
func (c *Config) ValidateSpotify() error {
	var errs []string

	if c.Spotify.User == "" {
		errs = append(errs, "SPOTIFY_USER cannot be empty")
	}
	if c.Spotify.ClientID == "" {
		errs = append(errs, "SPOTIFY_ID cannot be empty")
	}
	if c.Spotify.ClientSecret == "" {
		errs = append(errs, "SPOTIFY_SECRET cannot be empty")
	}
	if u, err := url.Parse(c.Spotify.RedirectURI); err != nil || u.Host == "" {
		errs = append(errs, fmt.Sprintf("SPOTIFY_REDIRECT_URI is not a valid URL: %s", c.Spotify.RedirectURI))
	}
	if len(c.Spotify.Scopes) == 0 {
		errs = append(errs, "SPOTIFY_SCOPES cannot be empty")
	}

	return joinErrors(errs)
}

func joinErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
}
