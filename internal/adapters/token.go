package adapters

import (
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/Blee1077/spotify-data-analysis/internal/utils"
)

var errNoToken = errors.New("no cached token")

// loadToken reads a cached OAuth token. A token without access or refresh
// token is treated as absent.
func loadToken(path string) (*oauth2.Token, error) {
	if path == "" {
		return nil, errNoToken
	}
	var tok oauth2.Token
	if err := utils.ReadJSONFile(path, &tok); err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, errNoToken
	}
	return &tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	return utils.WriteJSONFile(path, tok, 0o600)
}
