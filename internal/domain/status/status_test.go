package status

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/corey/typedex/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Entry{
		catalog.FromNames("フシギダネ", []string{"くさ", "どく"}),
		catalog.FromNames("ヒトカゲ", []string{"ほのお"}),
		catalog.FromNames("ヒトカゲ", []string{"ほのお"}),
	}).WithSource("embedded:pokemon.json")
}

func TestGenerate_Basic(t *testing.T) {
	cat := testCatalog()
	data := Generate(cat, 3, 1)

	assert.Equal(t, 3, data.Entries)
	assert.Equal(t, 1, data.Duplicates)
	assert.Equal(t, 1, data.DualTyped)
	assert.Equal(t, "embedded:pokemon.json", data.Source)
	assert.Equal(t, cat.LoadedAt(), data.LoadedAt)
	assert.Equal(t, int64(3), data.Reloads)
	assert.Equal(t, int64(1), data.ReloadFailures)
	assert.Equal(t, os.Getpid(), data.PID)
}

func TestGenerate_NilCatalog(t *testing.T) {
	data := Generate(nil, 0, 2)
	assert.Equal(t, 0, data.Entries)
	assert.Empty(t, data.Source)
	assert.True(t, data.LoadedAt.IsZero())
	assert.Equal(t, int64(2), data.ReloadFailures)
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, StatusFile)

	data := Generate(testCatalog(), 0, 0)
	require.NoError(t, WriteJSON(path, data))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(3), decoded["entries"])
	assert.Equal(t, "embedded:pokemon.json", decoded["source"])
	assert.Contains(t, decoded, "loaded_at")

	// No temp file left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteJSON_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), StatusFile)

	require.NoError(t, WriteJSON(path, Generate(testCatalog(), 0, 0)))
	require.NoError(t, WriteJSON(path, Generate(testCatalog(), 5, 0)))

	got, err := ReadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Reloads)
	assert.Equal(t, 3, got.Entries)
}

func TestWriteJSON_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", StatusFile)
	assert.Error(t, WriteJSON(path, Generate(nil, 0, 0)))
}

func TestReadJSON_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadJSON(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(err))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = ReadJSON(bad)
	assert.ErrorContains(t, err, "decode status")
}
