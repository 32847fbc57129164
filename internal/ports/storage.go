// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import (
	"time"

	"github.com/corey/typedex/internal/domain/catalog"
)

// CatalogStore persists the last collected catalog so the daemon can start
// from it without re-fetching.
//
// Crash safety: SaveCatalog must be transactional. A crash mid-write must not
// corrupt the previously committed catalog.
type CatalogStore interface {
	// SaveCatalog replaces the stored catalog and its metadata.
	SaveCatalog(entries []catalog.Entry, meta CatalogMeta) error

	// LoadCatalog returns the stored entries.
	// Returns nil, nil if nothing has been stored yet.
	LoadCatalog() ([]catalog.Entry, error)

	// Meta returns metadata for the stored catalog, or nil if none.
	Meta() (*CatalogMeta, error)

	// Delete removes the stored catalog. Idempotent.
	Delete() error
}

// CatalogMeta describes a stored catalog.
type CatalogMeta struct {
	Source    string    `json:"source"`     // where the entries came from (URL or file)
	Count     int       `json:"count"`      // number of stored entries
	Total     int       `json:"total"`      // upstream species count at collection time
	UpdatedAt time.Time `json:"updated_at"`
}
