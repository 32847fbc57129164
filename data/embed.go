// Package data embeds the default creature catalog for compile-time inclusion.
// The catalog is a JSON array of {"name", "types"} objects with katakana
// names and Japanese type labels.
//
// Usage:
//
//	catalog.LoadFS(data.FS, data.CatalogPath)
package data

import "embed"

// CatalogPath is the embedded catalog's path inside FS.
const CatalogPath = "pokemon.json"

//go:embed pokemon.json
var FS embed.FS
