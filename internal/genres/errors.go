package genres

import "errors"

// Sentinel errors for genre site scraping.
var (
	// ErrPageStructure means an element every page is expected to carry is
	// missing, i.e. the site layout changed and the scraper needs updating.
	ErrPageStructure = errors.New("genres: unexpected page structure")
	// ErrMissingArtistName means the profile section exists but has no title.
	ErrMissingArtistName = errors.New("genres: artist profile has no name")
	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("genres: unexpected response status")
)
