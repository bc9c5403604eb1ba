package genres

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	profileWithGenres = `<html><body><table><tr>
<td class="discocell"><div class="title">Artist A</div><div class="genres">indie rock, shoegaze</div></td>
</tr></table></body></html>`
	profileWithoutGenres = `<html><body><table><tr>
<td class="discocell"><div class="title"> Artist B </div></td>
</tr></table></body></html>`
	profileWithoutTitle = `<html><body><table><tr><td class="discocell"></td></tr></table></body></html>`
	profileMissingCell  = `<html><body><p>Nothing here</p></body></html>`

	genreIndex = `<html><body>
<div class="genre scanme">rock»</div>
<div class="genre scanme">  </div>
<div class="genre scanme">hip hop »</div>
<div class="genre scanme">jazz</div>
</body></html>`
	rockPage   = `<div class="genre scanme">Artist»</div><div class="genre scanme">Other</div>`
	hipHopPage = `<div class="genre scanme">Rapper</div>`
	jazzPage   = `<div class="genre scanme">Artist »</div>`
)

type siteRecorder struct {
	mu         sync.Mutex
	paths      []string
	userAgents []string
}

func (r *siteRecorder) record(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, req.URL.Path)
	r.userAgents = append(r.userAgents, req.Header.Get("User-Agent"))
}

func newSite(t *testing.T, pages map[string]string) (*httptest.Server, *siteRecorder) {
	t.Helper()
	rec := &siteRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rec.record(req)
		key := req.URL.Path
		if id := req.URL.Query().Get("id"); id != "" {
			key += "?id=" + id
		}
		body, ok := pages[key]
		if !ok {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestClient(baseURL string) *Client {
	return New(Options{
		BaseURL:   baseURL,
		UserAgent: "test-agent/1.0",
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestLookupArtist(t *testing.T) {
	srv, rec := newSite(t, map[string]string{
		"/artistprofile.cgi?id=a1": profileWithGenres,
		"/artistprofile.cgi?id=a2": profileWithoutGenres,
		"/artistprofile.cgi?id=a3": profileWithoutTitle,
		"/artistprofile.cgi?id=a4": profileMissingCell,
	})
	c := newTestClient(srv.URL)
	ctx := context.Background()

	a, err := c.LookupArtist(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, Artist{ID: "a1", Name: "Artist A", Genres: []string{"indie rock", "shoegaze"}}, a)

	a, err = c.LookupArtist(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, "Artist B", a.Name)
	assert.Nil(t, a.Genres)

	_, err = c.LookupArtist(ctx, "a3")
	assert.ErrorIs(t, err, ErrMissingArtistName)

	_, err = c.LookupArtist(ctx, "a4")
	assert.ErrorIs(t, err, ErrPageStructure)

	_, err = c.LookupArtist(ctx, "unknown")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	for _, ua := range rec.userAgents {
		assert.Equal(t, "test-agent/1.0", ua)
	}
}

func TestCrawlTaxonomy(t *testing.T) {
	srv, rec := newSite(t, map[string]string{
		"/engenremap.html":        genreIndex,
		"/engenremap-rock.html":   rockPage,
		"/engenremap-hiphop.html": hipHopPage,
		"/engenremap-jazz.html":   jazzPage,
	})

	tax, err := newTestClient(srv.URL).CrawlTaxonomy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"rock", "hip hop", "jazz"}, tax.Genres)
	assert.Equal(t, []string{"rock", "jazz"}, tax.ArtistGenres["Artist"])
	assert.Equal(t, []string{"hip hop"}, tax.ArtistGenres["Rapper"])
	assert.Equal(t, []string{"Artist", "Other"}, tax.GenreArtists["rock"])
	assert.Equal(t, []string{"Artist"}, tax.GenreArtists["jazz"])

	assert.Equal(t, []string{
		"/engenremap.html",
		"/engenremap-rock.html",
		"/engenremap-hiphop.html",
		"/engenremap-jazz.html",
	}, rec.paths)
	for _, ua := range rec.userAgents {
		assert.Equal(t, "test-agent/1.0", ua)
	}
}

func TestCrawlTaxonomyFailsOnMissingPage(t *testing.T) {
	srv, _ := newSite(t, map[string]string{
		"/engenremap.html":      genreIndex,
		"/engenremap-rock.html": rockPage,
	})

	_, err := newTestClient(srv.URL).CrawlTaxonomy(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestGenrePagePath(t *testing.T) {
	tests := map[string]string{
		"rock":          "/engenremap-rock.html",
		"hip hop":       "/engenremap-hiphop.html",
		"k-pop":         "/engenremap-k-pop.html",
		"drum and bass": "/engenremap-drumandbass.html",
	}
	for genre, want := range tests {
		assert.Equal(t, want, GenrePagePath(genre), genre)
	}
}

func TestDefaultUserAgent(t *testing.T) {
	srv, rec := newSite(t, map[string]string{"/artistprofile.cgi?id=a1": profileWithGenres})

	c := New(Options{BaseURL: srv.URL, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	_, err := c.LookupArtist(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultUserAgent}, rec.userAgents)
}

func TestArtistRequestsAreThrottled(t *testing.T) {
	srv, _ := newSite(t, map[string]string{"/artistprofile.cgi?id=a1": profileWithGenres})

	interval := 50 * time.Millisecond
	c := New(Options{
		BaseURL:        srv.URL,
		ArtistInterval: interval,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	start := time.Now()
	for range 3 {
		_, err := c.LookupArtist(context.Background(), "a1")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 2*interval)
}

func TestThrottleHonoursContext(t *testing.T) {
	srv, _ := newSite(t, map[string]string{"/artistprofile.cgi?id=a1": profileWithGenres})
	c := New(Options{
		BaseURL:        srv.URL,
		ArtistInterval: time.Hour,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	_, err := c.LookupArtist(context.Background(), "a1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.LookupArtist(ctx, "a1")
	assert.Error(t, err)
}

type stubLookup map[string]Artist

func (s stubLookup) LookupArtist(_ context.Context, id string) (Artist, error) {
	a, ok := s[id]
	if !ok {
		return Artist{}, ErrUnexpectedStatus
	}
	return a, nil
}

func TestBackfill(t *testing.T) {
	lookup := stubLookup{
		"a1": {ID: "a1", Name: "Artist A", Genres: []string{"rock"}},
		"a2": {ID: "a2", Name: "Artist B"},
	}

	var progress [][2]int
	delta, err := Backfill(context.Background(), lookup, []string{"a1", "a2"}, func(done, total int) {
		progress = append(progress, [2]int{done, total})
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"rock"}, delta["Artist A"])
	v, ok := delta["Artist B"]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, progress)

	_, err = Backfill(context.Background(), lookup, []string{"a1", "missing"}, nil)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestResolveReturnsUpdatedCopy(t *testing.T) {
	lookup := stubLookup{"a1": {ID: "a1", Name: "Artist A", Genres: []string{"rock", "jazz"}}}
	m := map[string][]string{"Other": {"pop"}}

	got, updated, err := Resolve(context.Background(), lookup, "a1", m)
	require.NoError(t, err)

	assert.Equal(t, []string{"rock", "jazz"}, got)
	assert.Equal(t, []string{"rock", "jazz"}, updated["Artist A"])
	assert.Equal(t, []string{"pop"}, updated["Other"])
	assert.NotContains(t, m, "Artist A")

	_, _, err = Resolve(context.Background(), lookup, "missing", m)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}
