package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"

	"github.com/Blee1077/spotify-data-analysis/internal/playlist"
	"github.com/Blee1077/spotify-data-analysis/internal/utils"
)

const (
	playlistPageLimit = 50
	itemPageLimit     = 100
)

// SpotifyOptions configures the Spotify adapter.
type SpotifyOptions struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	// TokenPath caches the OAuth token between runs when set.
	TokenPath string
	Logger    *slog.Logger
}

// SpotifyAdapter adapts the Spotify API to our common adapter interface
type SpotifyAdapter struct {
	BaseAdapter // Embed the BaseAdapter
	client      *spotify.Client
	opts        SpotifyOptions
	auth        *spotifyauth.Authenticator
	state       string
}

// NewSpotifyAdapter creates a new SpotifyAdapter
func NewSpotifyAdapter(opts SpotifyOptions) (*SpotifyAdapter, error) {
	if opts.ClientID == "" {
		opts.ClientID = os.Getenv("SPOTIFY_ID")
	}
	if opts.ClientSecret == "" {
		opts.ClientSecret = os.Getenv("SPOTIFY_SECRET")
	}
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, fmt.Errorf("spotify client ID and secret must be provided or set in environment variables")
	}
	if _, err := url.Parse(opts.RedirectURI); err != nil || opts.RedirectURI == "" {
		return nil, fmt.Errorf("invalid spotify redirect URI %q", opts.RedirectURI)
	}

	return &SpotifyAdapter{
		BaseAdapter: NewBaseAdapter("Spotify", opts.Logger),
		opts:        opts,
		auth: spotifyauth.New(
			spotifyauth.WithRedirectURL(opts.RedirectURI),
			spotifyauth.WithScopes(opts.Scopes...),
			spotifyauth.WithClientID(opts.ClientID),
			spotifyauth.WithClientSecret(opts.ClientSecret),
		),
		state: uuid.NewString(),
	}, nil
}

// Authenticate reuses a cached token when one is stored, otherwise runs the
// browser login flow and waits for the callback.
func (a *SpotifyAdapter) Authenticate(ctx context.Context) error {
	if tok, err := loadToken(a.opts.TokenPath); err == nil {
		client := spotify.New(a.auth.Client(ctx, tok))
		if user, err := client.CurrentUser(ctx); err == nil {
			a.setClient(client)
			a.logger.Info("reused cached spotify token", "user", user.ID)
			return nil
		}
		a.logger.Warn("cached spotify token rejected, logging in again")
	}

	client, err := a.login(ctx)
	if err != nil {
		return err
	}

	// Verify authentication by getting user info
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	a.setClient(client)

	fmt.Println("You are logged in as:", user.ID)
	return nil
}

func (a *SpotifyAdapter) setClient(client *spotify.Client) {
	a.client = client
	a.SetAuthenticated(true)

	if a.opts.TokenPath == "" {
		return
	}
	tok, err := client.Token()
	if err != nil {
		a.logger.Warn("could not read spotify token", "error", err)
		return
	}
	if err := saveToken(a.opts.TokenPath, tok); err != nil {
		a.logger.Warn("could not cache spotify token", "path", a.opts.TokenPath, "error", err)
	}
}

type authResult struct {
	client *spotify.Client
	err    error
}

// login serves the redirect URI locally, opens the consent page and blocks
// until the callback delivers a token.
func (a *SpotifyAdapter) login(ctx context.Context) (*spotify.Client, error) {
	redirect, err := url.Parse(a.opts.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("parse redirect URI: %w", err)
	}

	ch := make(chan authResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		ch <- a.completeAuth(w, r)
	})

	ln, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("listen for oauth callback on %s: %w", redirect.Host, err)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("oauth callback server stopped", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	// Open browser for authentication
	authURL := a.auth.AuthURL(a.state)
	fmt.Println("Please log in to Spotify by visiting the following page in your browser:", authURL)
	utils.OpenBrowser(authURL)

	select {
	case res := <-ch:
		return res.client, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// completeAuth is the callback handler for the Spotify auth flow
func (a *SpotifyAdapter) completeAuth(w http.ResponseWriter, r *http.Request) authResult {
	if st := r.FormValue("state"); st != a.state {
		http.NotFound(w, r)
		return authResult{err: fmt.Errorf("state mismatch: %s != %s", st, a.state)}
	}
	tok, err := a.auth.Token(r.Context(), a.state, r)
	if err != nil {
		http.Error(w, "Couldn't get token", http.StatusForbidden)
		return authResult{err: fmt.Errorf("exchange oauth code: %w", err)}
	}

	// Use the token to get an authenticated client. The request context ends
	// with the callback, so the client is bound to a background context.
	client := spotify.New(a.auth.Client(context.Background(), tok))
	fmt.Fprintf(w, "Login Completed! You can now close this window.")
	return authResult{client: client}
}

// GetUserPlaylists retrieves one page of playlists for userID
func (a *SpotifyAdapter) GetUserPlaylists(ctx context.Context, userID string, offset int) (playlist.PlaylistPage, error) {
	if err := a.CheckAuth(); err != nil {
		return playlist.PlaylistPage{}, err
	}

	page, err := a.client.GetPlaylistsForUser(ctx, userID, spotify.Limit(playlistPageLimit), spotify.Offset(offset))
	if err != nil {
		return playlist.PlaylistPage{}, fmt.Errorf("error getting playlists for %s: %w", userID, err)
	}

	out := playlist.PlaylistPage{Next: page.Next}
	for _, p := range page.Playlists {
		out.Playlists = append(out.Playlists, convertPlaylist(p))
	}
	return out, nil
}

// GetPlaylistItems retrieves one page of entries in a playlist
func (a *SpotifyAdapter) GetPlaylistItems(ctx context.Context, playlistID string, offset int) (playlist.ItemPage, error) {
	if err := a.CheckAuth(); err != nil {
		return playlist.ItemPage{}, err
	}

	page, err := a.client.GetPlaylistItems(
		ctx,
		spotify.ID(playlistID),
		spotify.Limit(itemPageLimit),
		spotify.Offset(offset),
	)
	if err != nil {
		return playlist.ItemPage{}, fmt.Errorf("error getting playlist items for %s: %w", playlistID, err)
	}

	out := playlist.ItemPage{Next: page.Next}
	for _, item := range page.Items {
		out.Items = append(out.Items, convertItem(item))
	}
	return out, nil
}

// GetAudioFeatures retrieves audio features for at most MaxFeatureBatch tracks
func (a *SpotifyAdapter) GetAudioFeatures(ctx context.Context, trackIDs ...string) ([]*playlist.AudioFeatures, error) {
	if err := a.CheckAuth(); err != nil {
		return nil, err
	}
	if len(trackIDs) > MaxFeatureBatch {
		return nil, fmt.Errorf("audio features batch of %d exceeds limit of %d", len(trackIDs), MaxFeatureBatch)
	}

	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}

	features, err := a.client.GetAudioFeatures(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("error getting audio features: %w", err)
	}

	out := make([]*playlist.AudioFeatures, len(features))
	for i, f := range features {
		out[i] = convertFeatures(f)
	}
	return out, nil
}

func convertPlaylist(p spotify.SimplePlaylist) playlist.PlaylistMeta {
	return playlist.PlaylistMeta{
		ID:          string(p.ID),
		Name:        p.Name,
		OwnerID:     p.Owner.ID,
		TotalTracks: int(p.Tracks.Total),
	}
}

// convertItem maps an API item to an Entry. Episodes and tracks removed from
// the catalog have no track reference.
func convertItem(item spotify.PlaylistItem) playlist.Entry {
	entry := playlist.Entry{AddedAt: item.AddedAt}
	track := item.Track.Track
	if track == nil || track.ID == "" {
		return entry
	}

	ref := &playlist.TrackRef{
		ID:         string(track.ID),
		Name:       track.Name,
		Popularity: int(track.Popularity),
	}
	for _, artist := range track.Artists {
		ref.Artists = append(ref.Artists, playlist.ArtistRef{ID: string(artist.ID), Name: artist.Name})
	}
	entry.Track = ref
	return entry
}

func convertFeatures(f *spotify.AudioFeatures) *playlist.AudioFeatures {
	if f == nil {
		return nil
	}
	return &playlist.AudioFeatures{
		TrackID:          string(f.ID),
		Danceability:     float32Number(float64(f.Danceability)),
		Energy:           float32Number(float64(f.Energy)),
		Key:              playlist.IntNumber(int(f.Key)),
		Loudness:         float32Number(float64(f.Loudness)),
		Mode:             playlist.IntNumber(int(f.Mode)),
		Speechiness:      float32Number(float64(f.Speechiness)),
		Acousticness:     float32Number(float64(f.Acousticness)),
		Instrumentalness: float32Number(float64(f.Instrumentalness)),
		Liveness:         float32Number(float64(f.Liveness)),
		Valence:          float32Number(float64(f.Valence)),
		Tempo:            float32Number(float64(f.Tempo)),
		DurationMs:       playlist.IntNumber(int(f.Duration)),
		TimeSignature:    playlist.IntNumber(int(f.TimeSignature)),
	}
}

// float32Number formats with single precision so 0.735 stays 0.735.
func float32Number(f float64) playlist.Number {
	return playlist.Number(strconv.FormatFloat(f, 'g', -1, 32))
}

