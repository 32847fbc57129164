package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/corey/typedex/internal/domain/typechart"
)

// rawEntry is the on-disk form. Types stay strings so unknown names can be
// reported by value.
type rawEntry struct {
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

// Decode reads a JSON array of {"name","types"} objects and validates it.
func Decode(r io.Reader) (*Catalog, error) {
	var raw []rawEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrMalformed, err)
	}
	entries, err := fromRaw(raw)
	if err != nil {
		return nil, err
	}
	if err := Validate(entries); err != nil {
		return nil, err
	}
	return New(entries), nil
}

// Parse is Decode over an in-memory document.
func Parse(data []byte) (*Catalog, error) {
	return Decode(bytes.NewReader(data))
}

// LoadFS reads and decodes path from fsys. Read failures wrap ErrUnavailable.
func LoadFS(fsys fs.FS, path string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c.WithSource("embedded:" + path), nil
}

// LoadFile reads and decodes a catalog file from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c.WithSource(path), nil
}

// Encode writes entries as an indented JSON array in the same format Decode
// accepts.
func Encode(w io.Writer, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(entries)
}

// FromNames converts a name plus type display names or slugs into an Entry.
// Unknown type names are kept as typechart.Invalid so Validate can reject them.
func FromNames(name string, types []string) Entry {
	e := Entry{Name: name, Types: make([]typechart.Label, 0, len(types))}
	for _, t := range types {
		l, _ := typechart.Parse(t)
		e.Types = append(e.Types, l)
	}
	return e
}

func fromRaw(raw []rawEntry) ([]Entry, error) {
	entries := make([]Entry, 0, len(raw))
	for i, r := range raw {
		e := Entry{Name: r.Name, Types: make([]typechart.Label, 0, len(r.Types))}
		for _, t := range r.Types {
			l, ok := typechart.Parse(t)
			if !ok {
				return nil, fmt.Errorf("%w: entry %d (%s): unknown type %q", ErrMalformed, i, r.Name, t)
			}
			e.Types = append(e.Types, l)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
