package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corey/typedex/data"
	"github.com/corey/typedex/internal/adapters/bbolt"
	"github.com/corey/typedex/internal/adapters/pokeapi"
	"github.com/corey/typedex/internal/app"
	"github.com/corey/typedex/internal/config"
	"github.com/corey/typedex/internal/domain/catalog"
	"github.com/corey/typedex/internal/domain/typechart"
	"github.com/corey/typedex/internal/ports"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Collect, validate and inspect catalog data",
}

var catalogFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Append newly released species from PokeAPI",
	Long: "Fetches species after the last known entry and appends them to the catalog file.\n" +
		"Interrupting the run keeps everything collected so far.",
	Args: cobra.NoArgs,
	RunE: runCatalogFetch,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a catalog file and print statistics",
	Long:  "Validates a catalog file, or the configured catalog, or the embedded default when neither is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogValidate,
}

var catalogClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the catalog stored by fetch --store",
	Args:  cobra.NoArgs,
	RunE:  runCatalogClear,
}

var (
	fetchOut   string
	fetchStore bool
)

func init() {
	catalogFetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "catalog file to update (default: configured catalog or <data dir>/catalog/pokemon.json)")
	catalogFetchCmd.Flags().BoolVar(&fetchStore, "store", false, "also save the result in the catalog store")

	catalogCmd.AddCommand(catalogFetchCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogClearCmd)
}

func runCatalogFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	paths := app.NewPaths(cfg.DataDir)
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	out := fetchOut
	if out == "" {
		out = cfg.CatalogPath
	}
	if out == "" {
		out = paths.CatalogFile
	}

	var store *bbolt.Store
	if fetchStore {
		store, err = bbolt.NewStore(paths.DB)
		if err != nil {
			if isDBLockError(err) {
				return errors.New(diagnoseDBLock(cfg.DataDir))
			}
			return err
		}
		defer store.Close()
	}

	existing, from, err := existingEntries(out, store)
	if err != nil {
		return err
	}
	logger, closeLog := config.SetupLogger("", cfg.LogLevel)
	defer closeLog()
	logger.Info("starting collection", "existing", len(existing), "from", from, "out", out)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := pokeapi.New(cfg.PokeAPIURL,
		pokeapi.WithTimeout(cfg.PokeAPITimeout),
		pokeapi.WithRate(cfg.PokeAPIRate),
	)
	res, runErr := pokeapi.NewCollector(client, logger).Update(ctx, existing)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("collect: %w", runErr)
	}
	if res.UpToDate {
		fmt.Printf("⚡ catalog is up to date (%d entries)\n", len(res.Entries))
		return nil
	}
	if res.Added == 0 {
		fmt.Println("⚡ nothing new collected")
		return runErr
	}

	if err := pokeapi.WriteFile(out, res.Entries); err != nil {
		return err
	}
	if store != nil {
		meta := ports.CatalogMeta{
			Source:    cfg.PokeAPIURL,
			Count:     len(res.Entries),
			Total:     res.Total,
			UpdatedAt: time.Now(),
		}
		if err := store.SaveCatalog(res.Entries, meta); err != nil {
			return fmt.Errorf("save to store: %w", err)
		}
	}

	if runErr != nil {
		fmt.Printf("⚡ interrupted: kept %d new entries (%d total) in %s\n", res.Added, len(res.Entries), out)
	} else {
		fmt.Printf("⚡ added %d entries (%d skipped, %d failed), %d total in %s\n",
			res.Added, res.Skipped, len(res.Failed), len(res.Entries), out)
	}

	// A running daemon picks the file up through its watcher when it serves
	// this path; an explicit reload covers the other cases.
	if client, ok := daemonClient(cfg); ok {
		if r, err := client.Reload(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: daemon reload failed: %v\n", err)
		} else {
			fmt.Printf("⚡ daemon reloaded %d entries from %s\n", r.Entries, r.Source)
		}
	}
	return nil
}

// existingEntries picks what the collector appends to: the output file if it
// exists, then the store when one is open, then the embedded default.
func existingEntries(out string, store *bbolt.Store) ([]catalog.Entry, string, error) {
	if _, err := os.Stat(out); err == nil {
		cat, err := catalog.LoadFile(out)
		if err != nil {
			return nil, "", err
		}
		return cat.Entries(), out, nil
	}
	if store != nil {
		entries, err := store.LoadCatalog()
		if err != nil {
			return nil, "", err
		}
		if entries != nil {
			return entries, app.SourceStore, nil
		}
	}
	cat, err := catalog.LoadFS(data.FS, data.CatalogPath)
	if err != nil {
		return nil, "", err
	}
	return cat.Entries(), cat.Source(), nil
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	if err := typechart.Validate(); err != nil {
		return fmt.Errorf("type chart: %w", err)
	}

	var (
		cat *catalog.Catalog
		err error
	)
	switch {
	case len(args) == 1:
		cat, err = catalog.LoadFile(args[0])
	default:
		cfg, cerr := config.Load()
		if cerr != nil {
			return cerr
		}
		if cfg.CatalogPath != "" {
			cat, err = catalog.LoadFile(cfg.CatalogPath)
		} else {
			cat, err = catalog.LoadFS(data.FS, data.CatalogPath)
		}
	}
	if err != nil {
		return err
	}

	stats := cat.Stats()
	if jsonFlag {
		return printJSON(stats)
	}
	fmt.Print(formatStats(stdoutStyles(), cat.Source(), stats))
	return nil
}

func runCatalogClear(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	paths := app.NewPaths(cfg.DataDir)
	if _, err := os.Stat(paths.DB); os.IsNotExist(err) {
		fmt.Println("⚡ nothing stored")
		return nil
	}

	store, err := bbolt.NewStore(paths.DB)
	if err != nil {
		if isDBLockError(err) {
			return errors.New(diagnoseDBLock(cfg.DataDir))
		}
		return err
	}
	defer store.Close()

	meta, err := store.Meta()
	if err != nil {
		return err
	}
	if meta == nil {
		fmt.Println("⚡ nothing stored")
		return nil
	}
	if err := store.Delete(); err != nil {
		return err
	}
	fmt.Printf("⚡ removed %d stored entries (from %s, %s)\n",
		meta.Count, meta.Source, meta.UpdatedAt.Format("2006-01-02"))
	return nil
}
