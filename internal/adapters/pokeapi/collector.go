package pokeapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/corey/typedex/internal/domain/catalog"
	"github.com/corey/typedex/internal/domain/typechart"
)

// Wire shapes of the three endpoints used. Only the fields read are declared.
type speciesList struct {
	Count int `json:"count"`
}

type pokemonResource struct {
	Types []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
}

type speciesResource struct {
	Names []struct {
		Name     string `json:"name"`
		Language struct {
			Name string `json:"name"`
		} `json:"language"`
	} `json:"names"`
}

// ErrNoJapaneseName means the species has neither a ja-Hrkt nor a ja name.
var ErrNoJapaneseName = errors.New("no japanese name")

// ErrUnknownType means the upstream type slug is not one of the 18 labels.
var ErrUnknownType = errors.New("unknown type")

// SpeciesCount returns the upstream species total. Any failure, or a zero
// count, yields FallbackSpeciesCount along with the error for logging.
func (c *Client) SpeciesCount(ctx context.Context) (int, error) {
	var list speciesList
	err := c.GetJSON(ctx, "/pokemon-species", url.Values{"limit": {"1"}}, &list)
	if err != nil {
		return FallbackSpeciesCount, err
	}
	if list.Count <= 0 {
		return FallbackSpeciesCount, nil
	}
	return list.Count, nil
}

// Fetch builds the catalog entry for one national dex id from the pokemon
// (types) and pokemon-species (names) resources.
func (c *Client) Fetch(ctx context.Context, id int) (catalog.Entry, error) {
	var p pokemonResource
	if err := c.GetJSON(ctx, fmt.Sprintf("/pokemon/%d", id), nil, &p); err != nil {
		return catalog.Entry{}, fmt.Errorf("pokemon %d: %w", id, err)
	}
	var s speciesResource
	if err := c.GetJSON(ctx, fmt.Sprintf("/pokemon-species/%d", id), nil, &s); err != nil {
		return catalog.Entry{}, fmt.Errorf("species %d: %w", id, err)
	}

	name := japaneseName(s)
	if name == "" {
		return catalog.Entry{}, fmt.Errorf("species %d: %w", id, ErrNoJapaneseName)
	}

	types := make([]typechart.Label, 0, len(p.Types))
	for _, t := range p.Types {
		l, ok := typechart.Parse(t.Type.Name)
		if !ok {
			return catalog.Entry{}, fmt.Errorf("pokemon %d: %w %q", id, ErrUnknownType, t.Type.Name)
		}
		types = append(types, l)
	}
	return catalog.Entry{Name: name, Types: types}, nil
}

// japaneseName prefers the kana (ja-Hrkt) name over the kanji one (ja).
func japaneseName(s speciesResource) string {
	var ja string
	for _, n := range s.Names {
		switch n.Language.Name {
		case "ja-Hrkt":
			if n.Name != "" {
				return n.Name
			}
		case "ja":
			if ja == "" {
				ja = n.Name
			}
		}
	}
	return ja
}

// Result describes one collection run.
type Result struct {
	Entries  []catalog.Entry // existing entries followed by the new ones
	Total    int             // upstream species count
	Existing int
	Added    int
	Skipped  int   // ids without a Japanese name or with an unknown type
	Failed   []int // ids whose requests failed
	UpToDate bool
}

// Collector appends newly released species to an existing catalog.
type Collector struct {
	client        *Client
	logger        *slog.Logger
	progressEvery int
}

// NewCollector creates a Collector. A nil logger uses slog.Default().
func NewCollector(client *Client, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{client: client, logger: logger, progressEvery: 50}
}

// Update fetches ids len(existing)+1 through the upstream total and appends
// them to existing. Per-id failures are logged and skipped. A cancelled
// context stops the run and returns what was merged so far with ctx.Err().
func (c *Collector) Update(ctx context.Context, existing []catalog.Entry) (Result, error) {
	total, err := c.client.SpeciesCount(ctx)
	if err != nil {
		c.logger.Warn("species count failed, using fallback", "fallback", total, "error", err)
	}

	res := Result{Total: total, Existing: len(existing)}
	merged := make([]catalog.Entry, len(existing), max(len(existing), total))
	copy(merged, existing)
	res.Entries = merged

	if len(existing) >= total {
		res.UpToDate = true
		c.logger.Info("catalog is up to date", "existing", len(existing), "total", total)
		return res, nil
	}

	start := len(existing) + 1
	c.logger.Info("collecting entries", "from", start, "to", total, "new", total-len(existing))

	for id := start; id <= total; id++ {
		if err := ctx.Err(); err != nil {
			res.Entries = merged
			return res, err
		}
		e, err := c.client.Fetch(ctx, id)
		switch {
		case err == nil:
			merged = append(merged, e)
			res.Added++
		case errors.Is(err, ErrNoJapaneseName) || errors.Is(err, ErrUnknownType):
			res.Skipped++
			c.logger.Warn("skipping entry", "id", id, "error", err)
		case ctx.Err() != nil:
			res.Entries = merged
			return res, ctx.Err()
		default:
			res.Failed = append(res.Failed, id)
			c.logger.Error("fetch failed", "id", id, "error", err)
		}
		if done := id - start + 1; done%c.progressEvery == 0 {
			c.logger.Info("collection progress", "done", done, "id", id, "added", res.Added)
		}
	}

	res.Entries = merged
	c.logger.Info("collection complete", "added", res.Added, "skipped", res.Skipped,
		"failed", len(res.Failed), "total", len(merged))
	return res, nil
}

// WriteFile writes entries to path atomically: a temp file in the same
// directory is written and renamed over the target.
func WriteFile(path string, entries []catalog.Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	var buf bytes.Buffer
	if err := catalog.Encode(&buf, entries); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write temp catalog: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename catalog: %w", err)
	}
	return nil
}
