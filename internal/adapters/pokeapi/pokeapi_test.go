package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/corey/typedex/internal/domain/catalog"
	tc "github.com/corey/typedex/internal/domain/typechart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSpecies is the upstream data served by newFakeAPI, indexed by id-1.
type fakeSpecies struct {
	ja, jaHrkt string
	types      []string
}

var fakeDex = []fakeSpecies{
	{jaHrkt: "フシギダネ", ja: "フシギダネ", types: []string{"grass", "poison"}},
	{jaHrkt: "フシギソウ", types: []string{"grass", "poison"}},
	{ja: "フシギバナ", types: []string{"grass", "poison"}},
	{types: []string{"fire"}}, // no Japanese name
	{jaHrkt: "リザード", types: []string{"shadow"}},
	{jaHrkt: "リザードン", types: []string{"fire", "flying"}},
}

func newFakeAPI(t *testing.T, count int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /pokemon-species", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(map[string]any{"count": count})
	})
	mux.HandleFunc("GET /pokemon/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		if id < 1 || id > len(fakeDex) {
			http.NotFound(w, r)
			return
		}
		var types []map[string]any
		for i, name := range fakeDex[id-1].types {
			types = append(types, map[string]any{"slot": i + 1, "type": map[string]string{"name": name}})
		}
		json.NewEncoder(w).Encode(map[string]any{"types": types})
	})
	mux.HandleFunc("GET /pokemon-species/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		if id < 1 || id > len(fakeDex) {
			http.NotFound(w, r)
			return
		}
		sp := fakeDex[id-1]
		names := []map[string]any{
			{"name": "Bulbasaur", "language": map[string]string{"name": "en"}},
		}
		if sp.ja != "" {
			names = append(names, map[string]any{"name": sp.ja, "language": map[string]string{"name": "ja"}})
		}
		if sp.jaHrkt != "" {
			names = append(names, map[string]any{"name": sp.jaHrkt, "language": map[string]string{"name": "ja-Hrkt"}})
		}
		json.NewEncoder(w).Encode(map[string]any{"names": names})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// proxy forwards a GET to the fake API.
func proxy(w http.ResponseWriter, target string) {
	resp, err := http.Get(target)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}

func testClient(baseURL string) *Client {
	return New(baseURL, WithRate(0), WithBackoffUnit(time.Millisecond), WithTimeout(5*time.Second))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =============================================================================
// Client
// =============================================================================

func TestGetJSON_RetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"count": 7}`))
	}))
	defer srv.Close()

	var out speciesList
	err := testClient(srv.URL).GetJSON(context.Background(), "/x", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, 7, out.Count)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetJSON_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("down"))
	}))
	defer srv.Close()

	var out speciesList
	err := testClient(srv.URL).GetJSON(context.Background(), "/x", nil, &out)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "down", apiErr.Body)
	assert.Equal(t, int32(maxRetries+1), calls.Load())
}

func TestGetJSON_NoRetryOn4xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	var out speciesList
	err := testClient(srv.URL).GetJSON(context.Background(), "/x", nil, &out)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetJSON_ContextCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	var out speciesList
	err := testClient(srv.URL).GetJSON(ctx, "/x", nil, &out)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestBackoffDelay(t *testing.T) {
	c := New("http://example.invalid")
	assert.Equal(t, time.Second, c.backoffDelay(1, nil))
	assert.Equal(t, 2*time.Second, c.backoffDelay(2, nil))
	assert.Equal(t, 4*time.Second, c.backoffDelay(3, nil))
	assert.Equal(t, 7*time.Second, c.backoffDelay(1, &APIError{StatusCode: 429, retryAfter: "7"}))
	assert.Equal(t, time.Second, c.backoffDelay(1, &APIError{StatusCode: 429, retryAfter: "soon"}))
}

func TestSpeciesCount(t *testing.T) {
	srv := newFakeAPI(t, 6)
	n, err := testClient(srv.URL).SpeciesCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestSpeciesCount_Fallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	n, err := testClient(srv.URL).SpeciesCount(context.Background())
	assert.Error(t, err)
	assert.Equal(t, FallbackSpeciesCount, n)

	zero := newFakeAPI(t, 0)
	n, err = testClient(zero.URL).SpeciesCount(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, FallbackSpeciesCount, n)
}

func TestFetch(t *testing.T) {
	c := testClient(newFakeAPI(t, 6).URL)
	ctx := context.Background()

	e, err := c.Fetch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "フシギダネ", e.Name)
	assert.Equal(t, []tc.Label{tc.Grass, tc.Poison}, e.Types)

	// ja fallback when ja-Hrkt is absent
	e, err = c.Fetch(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "フシギバナ", e.Name)

	_, err = c.Fetch(ctx, 4)
	assert.ErrorIs(t, err, ErrNoJapaneseName)

	_, err = c.Fetch(ctx, 5)
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = c.Fetch(ctx, 99)
	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
}

// =============================================================================
// Collector
// =============================================================================

func TestCollector_FromEmpty(t *testing.T) {
	col := NewCollector(testClient(newFakeAPI(t, 6).URL), quietLogger())

	res, err := col.Update(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total)
	assert.Equal(t, 4, res.Added)
	assert.Equal(t, 2, res.Skipped)
	assert.Empty(t, res.Failed)
	assert.False(t, res.UpToDate)

	var got []string
	for _, e := range res.Entries {
		got = append(got, e.Name)
	}
	assert.Equal(t, []string{"フシギダネ", "フシギソウ", "フシギバナ", "リザードン"}, got)
	require.NoError(t, catalog.Validate(res.Entries))
}

func TestCollector_Incremental(t *testing.T) {
	col := NewCollector(testClient(newFakeAPI(t, 6).URL), quietLogger())
	existing := []catalog.Entry{
		{Name: "A", Types: []tc.Label{tc.Normal}},
		{Name: "B", Types: []tc.Label{tc.Normal}},
		{Name: "C", Types: []tc.Label{tc.Normal}},
		{Name: "D", Types: []tc.Label{tc.Normal}},
		{Name: "E", Types: []tc.Label{tc.Normal}},
	}

	res, err := col.Update(context.Background(), existing)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Existing)
	assert.Equal(t, 1, res.Added)
	require.Len(t, res.Entries, 6)
	assert.Equal(t, "A", res.Entries[0].Name)
	assert.Equal(t, "リザードン", res.Entries[5].Name)

	// Input slice not modified
	assert.Len(t, existing, 5)
}

func TestCollector_UpToDate(t *testing.T) {
	var calls atomic.Int32
	api := newFakeAPI(t, 2)
	counting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		proxy(w, api.URL+r.URL.RequestURI())
	}))
	defer counting.Close()

	col := NewCollector(testClient(counting.URL), quietLogger())
	existing := []catalog.Entry{
		{Name: "A", Types: []tc.Label{tc.Normal}},
		{Name: "B", Types: []tc.Label{tc.Normal}},
	}
	res, err := col.Update(context.Background(), existing)
	require.NoError(t, err)
	assert.True(t, res.UpToDate)
	assert.Equal(t, existing, res.Entries)
	assert.Equal(t, int32(1), calls.Load(), "only the species count is requested")
}

func TestCollector_FailuresContinue(t *testing.T) {
	api := newFakeAPI(t, 3)
	flaky := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/pokemon/2") {
			http.Error(w, "gone", http.StatusGone)
			return
		}
		proxy(w, api.URL+r.URL.RequestURI())
	}))
	defer flaky.Close()

	col := NewCollector(testClient(flaky.URL), quietLogger())
	res, err := col.Update(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, res.Failed)
	assert.Equal(t, 2, res.Added)
}

func TestCollector_Cancelled(t *testing.T) {
	col := NewCollector(testClient(newFakeAPI(t, 6).URL), quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := col.Update(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Entries)
}

// =============================================================================
// WriteFile
// =============================================================================

func TestWriteFile_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "pokemon.json")
	entries := []catalog.Entry{{Name: "ピカチュウ", Types: []tc.Label{tc.Electric}}}

	require.NoError(t, WriteFile(path, entries))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	c, err := catalog.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, entries, c.Entries())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), fmt.Sprintf("%q", "でんき"))
}
