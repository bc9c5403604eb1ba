// Package genres scrapes artist genre tags from everynoise.com.
package genres

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://everynoise.com"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/99.0.4844.51 Safari/537.36"

	defaultTimeout = 120 * time.Second
)

// Options configures a Client. Zero intervals disable throttling.
type Options struct {
	BaseURL   string
	UserAgent string
	// ArtistInterval is the minimum gap between artist profile requests.
	ArtistInterval time.Duration
	// GenreInterval is the minimum gap between taxonomy page requests.
	GenreInterval time.Duration
	Timeout       time.Duration
	Logger        *slog.Logger
}

// Client fetches everynoise pages one at a time. Every request carries the same
// User-Agent and waits on its path's limiter first, whatever the outcome of the
// previous request.
type Client struct {
	http          *resty.Client
	artistLimiter *rate.Limiter
	genreLimiter  *rate.Limiter
	logger        *slog.Logger
}

// New creates a new Client.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
			SetHeader("User-Agent", opts.UserAgent).
			SetTimeout(opts.Timeout),
		artistLimiter: newLimiter(opts.ArtistInterval),
		genreLimiter:  newLimiter(opts.GenreInterval),
		logger:        opts.Logger,
	}
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// fetch waits on limiter, GETs path and parses the body as HTML.
func (c *Client) fetch(ctx context.Context, limiter *rate.Limiter, path string, query map[string]string) (*goquery.Document, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	c.logger.Debug("everynoise request", "path", path, "query", query)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("get %s: %w: %d", path, ErrUnexpectedStatus, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// label reads a genre or artist label, dropping the "»" link marker.
func label(s *goquery.Selection) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(s.Text()), "»", ""))
}
