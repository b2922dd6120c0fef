// Package api provides factory implementations for dependency injection
package api

import (
	"context"

	"github.com/ssargent/twinkeys/pkg/catalog"
	"github.com/ssargent/twinkeys/pkg/logging"
)

// DefaultCatalogOpener opens the pebble catalog
type DefaultCatalogOpener struct{}

// NewCatalogOpener creates a new catalog opener
func NewCatalogOpener() CatalogOpener {
	return &DefaultCatalogOpener{}
}

// OpenCatalog opens or creates the catalog in dataDir
func (o *DefaultCatalogOpener) OpenCatalog(dataDir string) (*catalog.Catalog, error) {
	return catalog.Open(dataDir)
}

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer starts the API server with the given configuration
func (s *DefaultServerStarter) StartServer(ctx context.Context, store ElementStore, config ServerConfig, logger *logging.Logger) error {
	return StartServer(ctx, store, config, logger)
}
