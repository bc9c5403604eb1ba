package playlist

import (
	"errors"
	"fmt"
)

// ErrInvalidEntry is returned when an API entry fails validation at the boundary.
var ErrInvalidEntry = errors.New("invalid playlist entry")

// PlaylistMeta describes one playlist owned by a user.
// Playlists are keyed by ID; Name is display metadata only.
type PlaylistMeta struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	OwnerID     string `json:"owner_id"`
	TotalTracks int    `json:"total_tracks"`
}

// Playlists is an ordered set of playlists keyed by ID.
type Playlists struct {
	items []PlaylistMeta
	byID  map[string]int
}

// NewPlaylists builds a Playlists collection. A repeated ID keeps its first
// position and takes the later metadata.
func NewPlaylists(metas ...PlaylistMeta) Playlists {
	p := Playlists{byID: make(map[string]int, len(metas))}
	for _, m := range metas {
		p.Add(m)
	}
	return p
}

// Add inserts or replaces a playlist.
func (p *Playlists) Add(m PlaylistMeta) {
	if p.byID == nil {
		p.byID = make(map[string]int)
	}
	if i, ok := p.byID[m.ID]; ok {
		p.items[i] = m
		return
	}
	p.byID[m.ID] = len(p.items)
	p.items = append(p.items, m)
}

// ByID returns the playlist with the given ID.
func (p Playlists) ByID(id string) (PlaylistMeta, bool) {
	i, ok := p.byID[id]
	if !ok {
		return PlaylistMeta{}, false
	}
	return p.items[i], true
}

// IDs returns playlist IDs in insertion order.
func (p Playlists) IDs() []string {
	ids := make([]string, len(p.items))
	for i, m := range p.items {
		ids[i] = m.ID
	}
	return ids
}

// All returns a copy of the playlists in insertion order.
func (p Playlists) All() []PlaylistMeta {
	return append([]PlaylistMeta(nil), p.items...)
}

// Len returns the number of playlists.
func (p Playlists) Len() int {
	return len(p.items)
}

// PlaylistPage is one page of a user's playlists.
type PlaylistPage struct {
	Playlists []PlaylistMeta
	Next      string
}

// ArtistRef is an artist credited on a track.
type ArtistRef struct {
	ID   string
	Name string
}

// TrackRef is the track an entry points to. Tracks removed from the catalog
// come back with an empty ID.
type TrackRef struct {
	ID         string
	Name       string
	Artists    []ArtistRef
	Popularity int
}

// Entry is one item of a playlist as returned by the API.
type Entry struct {
	AddedAt string
	Track   *TrackRef
}

// HasTrack reports whether the entry references a resolvable track.
func (e Entry) HasTrack() bool {
	return e.Track != nil && e.Track.ID != ""
}

// Validate checks the fields the pipeline relies on.
func (e Entry) Validate() error {
	if !e.HasTrack() {
		return fmt.Errorf("%w: missing track reference", ErrInvalidEntry)
	}
	if len(e.Track.Artists) == 0 {
		return fmt.Errorf("%w: track %s has no artists", ErrInvalidEntry, e.Track.ID)
	}
	return nil
}

// ItemPage is one page of playlist entries.
type ItemPage struct {
	Items []Entry
	Next  string
}
