// Package bbolt implements the ports.CatalogStore interface using bbolt
// (embedded B+ tree). A single "catalog" bucket holds the entries and their
// metadata as JSON blobs. Writes are transactional, so a crash mid-write
// cannot corrupt the previously committed catalog.
package bbolt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/corey/typedex/internal/domain/catalog"
	"github.com/corey/typedex/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketCatalog = []byte("catalog")
	keyEntries    = []byte("entries")
	keyMeta       = []byte("meta")
)

// Store implements ports.CatalogStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ ports.CatalogStore = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveCatalog replaces the stored entries and metadata in one transaction.
// Entries are validated first so a bad collection never reaches disk.
func (s *Store) SaveCatalog(entries []catalog.Entry, meta ports.CatalogMeta) error {
	if err := catalog.Validate(entries); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	if entries == nil {
		entries = []catalog.Entry{}
	}
	meta.Count = len(entries)
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = time.Now().UTC()
	}

	entriesJSON, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketCatalog)
		if err != nil {
			return err
		}
		if err := b.Put(keyEntries, entriesJSON); err != nil {
			return err
		}
		return b.Put(keyMeta, metaJSON)
	})
}

// LoadCatalog retrieves the stored entries.
// Returns nil, nil if no catalog has been stored.
func (s *Store) LoadCatalog() ([]catalog.Entry, error) {
	data, err := s.get(keyEntries)
	if err != nil || data == nil {
		return nil, err
	}

	c, err := catalog.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("stored catalog: %w", err)
	}
	return c.Entries(), nil
}

// Meta returns the stored metadata, or nil, nil if none.
func (s *Store) Meta() (*ports.CatalogMeta, error) {
	data, err := s.get(keyMeta)
	if err != nil || data == nil {
		return nil, err
	}
	var meta ports.CatalogMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal meta: %w", err)
	}
	return &meta, nil
}

// Delete removes the stored catalog.
// Idempotent: deleting when nothing is stored is not an error.
func (s *Store) Delete() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketCatalog); err == bolt.ErrBucketNotFound {
			return nil // idempotent
		} else {
			return err
		}
	})
}

// get copies a value out of the catalog bucket.
func (s *Store) get(key []byte) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCatalog)
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get(key); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	return data, err
}
