package adapters

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotAuthenticated is returned by API calls made before Authenticate succeeded.
var ErrNotAuthenticated = errors.New("not authenticated")

// BaseAdapter provides common functionality for platform adapters
type BaseAdapter struct {
	authenticated bool
	platformName  string
	logger        *slog.Logger
}

// NewBaseAdapter creates a new BaseAdapter
func NewBaseAdapter(platformName string, logger *slog.Logger) BaseAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return BaseAdapter{
		platformName: platformName,
		logger:       logger.With("platform", platformName),
	}
}

// SetAuthenticated updates the authentication status
func (b *BaseAdapter) SetAuthenticated(status bool) {
	b.authenticated = status
}

// IsAuthenticated checks if the adapter is authenticated
func (b *BaseAdapter) IsAuthenticated() bool {
	return b.authenticated
}

// CheckAuth ensures the adapter is authenticated before making API calls
func (b *BaseAdapter) CheckAuth() error {
	if !b.IsAuthenticated() {
		return fmt.Errorf("%s: %w, call Authenticate() first", b.platformName, ErrNotAuthenticated)
	}
	return nil
}

// PlatformName returns the name of the platform
func (b *BaseAdapter) PlatformName() string {
	return b.platformName
}
