// Package app wires together all adapters and domain logic.
// It provides lifecycle management for the typedex daemon: create, start, stop.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corey/typedex/data"
	"github.com/corey/typedex/internal/adapters/ahocorasick"
	"github.com/corey/typedex/internal/adapters/bbolt"
	fsw "github.com/corey/typedex/internal/adapters/fsnotify"
	"github.com/corey/typedex/internal/adapters/socket"
	"github.com/corey/typedex/internal/adapters/web"
	"github.com/corey/typedex/internal/config"
	"github.com/corey/typedex/internal/domain/catalog"
	"github.com/corey/typedex/internal/domain/matcher"
	"github.com/corey/typedex/internal/domain/matchup"
	"github.com/corey/typedex/internal/domain/status"
	"github.com/corey/typedex/internal/domain/typechart"
)

// SourceStore tags a catalog loaded from the bbolt store.
const SourceStore = "store"

// App is the top-level container wiring all components together.
type App struct {
	Config config.Config
	Paths  *Paths

	Store     *bbolt.Store
	Watcher   *fsw.Watcher // nil when there is no catalog file to watch
	Matcher   *matcher.Matcher
	Server    *socket.Server
	WebServer *web.Server

	logger   *slog.Logger
	snapshot *catalog.Snapshot
	scanner  atomic.Pointer[ahocorasick.Scanner] // rebuilt with every catalog
	reloadMu sync.Mutex // serializes reloads; searches never take it
	started  time.Time

	reloads        atomic.Int64
	reloadFailures atomic.Int64
	searches       atomic.Int64
	emptySearches  atomic.Int64
}

// New creates an App with all dependencies wired and the catalog loaded.
// Does not start services. A catalog that fails to load here is fatal.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data dir required")
	}
	if err := typechart.Validate(); err != nil {
		return nil, fmt.Errorf("type chart: %w", err)
	}

	paths := NewPaths(cfg.DataDir)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create data dirs: %w", err)
	}

	store, err := bbolt.NewStore(paths.DB)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &App{
		Config: cfg,
		Paths:  paths,
		Store:  store,
		logger: logger,
	}

	cat, err := a.loadCatalog()
	if err != nil {
		store.Close()
		return nil, err
	}
	a.snapshot = catalog.NewSnapshot(cat)
	a.scanner.Store(ahocorasick.NewScanner(cat))
	logger.Info("catalog loaded", "source", cat.Source(), "entries", cat.Len())

	a.Matcher = matcher.New(a.snapshot.Load)
	a.Matcher.SetObserver(a.searchObserver)

	if cfg.Watch && cfg.CatalogPath != "" {
		watcher, err := fsw.NewWatcher()
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("create watcher: %w", err)
		}
		a.Watcher = watcher
	}

	sockPath := socket.SocketPath(cfg.DataDir)
	a.Server = socket.NewServer(a, sockPath, logger)
	a.WebServer = web.NewServer(a, paths.PortFile, logger)

	return a, nil
}

// loadCatalog resolves the catalog source: explicit file, then the last
// collected catalog in the store, then the embedded default.
func (a *App) loadCatalog() (*catalog.Catalog, error) {
	if path := a.Config.CatalogPath; path != "" {
		cat, err := catalog.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		return cat, nil
	}

	entries, err := a.Store.LoadCatalog()
	switch {
	case err != nil:
		a.logger.Warn("stored catalog unreadable, using embedded default", "error", err)
	case entries != nil:
		return catalog.New(entries).WithSource(SourceStore), nil
	}

	cat, err := catalog.LoadFS(data.FS, data.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load embedded catalog: %w", err)
	}
	return cat, nil
}

// Start begins the daemon (socket server + HTTP server + catalog watcher).
func (a *App) Start() error {
	a.started = time.Now()
	if err := a.Server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	if err := a.WebServer.Start(a.Config.HTTPAddr); err != nil {
		a.Server.Stop()
		return fmt.Errorf("start http: %w", err)
	}
	// Watcher is non-fatal: the catalog is already loaded
	if a.Watcher != nil {
		if err := a.Watcher.Watch(a.Config.CatalogPath, a.onCatalogChanged); err != nil {
			a.logger.Warn("catalog watcher unavailable", "path", a.Config.CatalogPath, "error", err)
		}
	}
	if err := os.WriteFile(a.Paths.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		a.logger.Warn("failed to write pid file", "path", a.Paths.PIDFile, "error", err)
	}
	a.writeStatus()
	a.logger.Info("daemon started", "socket", a.Server.Addr(), "http", a.WebServer.URL())
	return nil
}

// Stop gracefully shuts down all services and closes the store.
func (a *App) Stop() error {
	a.WebServer.Stop()
	a.Server.Stop()
	a.Paths.CleanEphemeral()
	return a.Close()
}

// Close releases the watcher and the store without touching servers or
// runtime files. Used by one-shot commands that never called Start.
func (a *App) Close() error {
	if a.Watcher != nil {
		a.Watcher.Stop()
	}
	return a.Store.Close()
}

// Catalog returns the catalog currently served.
func (a *App) Catalog() *catalog.Catalog {
	return a.snapshot.Load()
}

// Reload re-reads the catalog source and swaps it in. On failure the
// previous catalog keeps serving and the failure is counted.
func (a *App) Reload() (socket.ReloadResult, error) {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	start := time.Now()
	cat, err := a.loadCatalog()
	if err != nil {
		a.reloadFailures.Add(1)
		a.logger.Error("catalog reload failed, keeping previous", "error", err,
			"failures", a.reloadFailures.Load())
		a.writeStatus()
		return socket.ReloadResult{}, err
	}

	a.scanner.Store(ahocorasick.NewScanner(cat))
	a.snapshot.Swap(cat)
	a.reloads.Add(1)
	a.writeStatus()

	elapsed := time.Since(start)
	a.logger.Info("catalog reloaded", "source", cat.Source(), "entries", cat.Len(),
		"duration_ms", elapsed.Milliseconds())
	return socket.ReloadResult{
		Entries: cat.Len(),
		Source:  cat.Source(),
		Elapsed: elapsed.String(),
	}, nil
}

// onCatalogChanged is the watcher callback.
func (a *App) onCatalogChanged() {
	a.logger.Debug("catalog file changed", "path", a.Config.CatalogPath)
	a.Reload()
}

// Search returns up to matcher.MaxResults entries whose name contains query.
func (a *App) Search(query string) ([]catalog.Entry, error) {
	if a.snapshot.Load() == nil {
		return nil, catalog.ErrUnavailable
	}
	return a.Matcher.Search(query), nil
}

// Mentions returns every catalog name found in text, in text order.
func (a *App) Mentions(text string) ([]ahocorasick.Mention, error) {
	sc := a.scanner.Load()
	if sc == nil {
		return nil, catalog.ErrUnavailable
	}
	return sc.Scan(text), nil
}

// Matchups computes the grouped matchup table for one or two defending
// type names. Errors wrap matchup.ErrInvalidSelection.
func (a *App) Matchups(names []string) (socket.MatchupResult, error) {
	sel, err := matchup.ParseSelection(names)
	if err != nil {
		return socket.MatchupResult{}, err
	}
	return socket.NewMatchupResult(sel), nil
}

// Health reports what is being served.
func (a *App) Health() socket.HealthResult {
	h := socket.HealthResult{
		Status:         "ok",
		Reloads:        a.reloads.Load(),
		ReloadFailures: a.reloadFailures.Load(),
		Searches:       a.searches.Load(),
	}
	if !a.started.IsZero() {
		h.Uptime = time.Since(a.started).Round(time.Second).String()
	}
	cat := a.snapshot.Load()
	if cat == nil {
		h.Status = "unavailable"
		return h
	}
	h.Entries = cat.Len()
	h.Source = cat.Source()
	h.LoadedAt = cat.LoadedAt()
	return h
}

// writeStatus refreshes status.json. Failures are logged only.
func (a *App) writeStatus() {
	sd := status.Generate(a.snapshot.Load(), a.reloads.Load(), a.reloadFailures.Load())
	if err := status.WriteJSON(a.Paths.Status, sd); err != nil {
		a.logger.Warn("failed to write status", "path", a.Paths.Status, "error", err)
	}
}

var _ socket.Service = (*App)(nil)
