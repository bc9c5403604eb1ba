package playlist

import "fmt"

// OccurrenceKey identifies one appearance of a track: the index of the
// playlist in the collected list and the entry position within it.
type OccurrenceKey struct {
	Playlist int
	Position int
}

func (k OccurrenceKey) String() string {
	return fmt.Sprintf("%d-%d", k.Playlist, k.Position)
}

// TrackOccurrence is one physical appearance of a track in a playlist.
type TrackOccurrence struct {
	Key          OccurrenceKey
	TrackID      string
	PlaylistID   string
	PlaylistName string
	DateAdded    string
	TrackName    string
	ArtistName   string
	ArtistID     string
	Popularity   int
}

// Occurrences holds track occurrences in collection order.
type Occurrences struct {
	items []TrackOccurrence
	byKey map[OccurrenceKey]int
}

// NewOccurrences returns an empty collection.
func NewOccurrences() *Occurrences {
	return &Occurrences{byKey: make(map[OccurrenceKey]int)}
}

// Add stores an occurrence. Keys must be unique.
func (o *Occurrences) Add(occ TrackOccurrence) error {
	if _, ok := o.byKey[occ.Key]; ok {
		return fmt.Errorf("duplicate occurrence key %s", occ.Key)
	}
	o.byKey[occ.Key] = len(o.items)
	o.items = append(o.items, occ)
	return nil
}

// Get looks up an occurrence by key.
func (o *Occurrences) Get(k OccurrenceKey) (TrackOccurrence, bool) {
	i, ok := o.byKey[k]
	if !ok {
		return TrackOccurrence{}, false
	}
	return o.items[i], true
}

// All returns the occurrences in collection order.
func (o *Occurrences) All() []TrackOccurrence {
	return append([]TrackOccurrence(nil), o.items...)
}

// Len returns the number of occurrences.
func (o *Occurrences) Len() int {
	return len(o.items)
}

// TrackIndex maps a track ID to the keys of its occurrences.
type TrackIndex struct {
	keys  map[string][]OccurrenceKey
	order []string
}

// NewTrackIndex returns an empty index.
func NewTrackIndex() *TrackIndex {
	return &TrackIndex{keys: make(map[string][]OccurrenceKey)}
}

// Append records another occurrence of trackID.
func (x *TrackIndex) Append(trackID string, k OccurrenceKey) {
	if _, ok := x.keys[trackID]; !ok {
		x.order = append(x.order, trackID)
	}
	x.keys[trackID] = append(x.keys[trackID], k)
}

// Keys returns the occurrence keys of trackID; nil means the track was never seen.
func (x *TrackIndex) Keys(trackID string) []OccurrenceKey {
	return x.keys[trackID]
}

// TrackIDs returns the distinct track IDs in first-seen order.
func (x *TrackIndex) TrackIDs() []string {
	return append([]string(nil), x.order...)
}

// Len returns the number of distinct tracks.
func (x *TrackIndex) Len() int {
	return len(x.order)
}

// Check verifies that every indexed key exists in occ.
func (x *TrackIndex) Check(occ *Occurrences) error {
	for _, id := range x.order {
		for _, k := range x.keys[id] {
			o, ok := occ.Get(k)
			if !ok {
				return fmt.Errorf("track %s: occurrence %s not collected", id, k)
			}
			if o.TrackID != id {
				return fmt.Errorf("track %s: occurrence %s belongs to %s", id, k, o.TrackID)
			}
		}
	}
	return nil
}
