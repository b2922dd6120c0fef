// Package api provides interfaces for dependency injection
package api

import (
	"context"

	"github.com/ssargent/twinkeys/pkg/catalog"
	"github.com/ssargent/twinkeys/pkg/logging"
	"github.com/ssargent/twinkeys/pkg/structure"
)

// ElementStore defines the catalog operations the server needs
type ElementStore interface {
	structure.Source

	PutElement(modelID string, e structure.Element) (structure.Element, error)
	GetElement(modelID, key string) (structure.Element, error)
	ListElements(modelID string) ([]structure.Element, error)
	DeleteElement(modelID, key string) error
	Levels(ctx context.Context, modelURN string) ([]structure.Element, error)
	Rooms(ctx context.Context, modelURN, levelKey string) ([]structure.Element, error)

	SaveSnapshot(snap structure.Snapshot) (string, error)
	LoadSnapshot(id string) (structure.Snapshot, error)
	ListSnapshots() ([]catalog.SnapshotInfo, error)

	Stats() (catalog.Stats, error)
}

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves until ctx is done
	StartServer(ctx context.Context, store ElementStore, config ServerConfig, logger *logging.Logger) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}

// CatalogOpener opens the element catalog
type CatalogOpener interface {
	// OpenCatalog opens or creates the catalog in dataDir
	OpenCatalog(dataDir string) (*catalog.Catalog, error)
}
