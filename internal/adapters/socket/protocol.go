// Package socket implements a JSON-over-Unix-socket protocol for the typedex daemon.
// The protocol uses newline-delimited JSON: each message is one JSON object + \n.
package socket

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"time"

	"github.com/corey/typedex/internal/adapters/ahocorasick"
	"github.com/corey/typedex/internal/domain/catalog"
	"github.com/corey/typedex/internal/domain/matchup"
)

// SocketPath returns the Unix socket path for a given data directory.
// Format: /tmp/typedex-{first12hex}.sock
func SocketPath(dataDir string) string {
	abs, err := filepath.Abs(dataDir)
	if err != nil {
		abs = dataDir
	}
	h := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("/tmp/typedex-%x.sock", h[:6])
}

// Method names for the protocol.
const (
	MethodSearch   = "search"
	MethodMatchup  = "matchup"
	MethodMentions = "mentions"
	MethodHealth   = "health"
	MethodReload   = "reload"
	MethodShutdown = "shutdown"
)

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// SearchParams is the params for a search request.
type SearchParams struct {
	Query string `json:"query"`
}

// SearchResult is the result of a search request.
type SearchResult struct {
	Results []catalog.Entry `json:"results"`
	Count   int             `json:"count"`
	Elapsed string          `json:"elapsed"`
}

// MatchupParams is the params for a matchup request. Types are display
// names or slugs.
type MatchupParams struct {
	Types []string `json:"types"`
}

// MatchupResult is the result of a matchup request. The HTTP API returns the
// same shape.
type MatchupResult struct {
	Defense []string         `json:"defense"`
	Results []matchup.Result `json:"results"`
	Groups  []MatchupGroup   `json:"groups"`
}

// MatchupGroup is one non-empty category with its attacking labels in
// declaration order.
type MatchupGroup struct {
	Category   matchup.Category `json:"category"`
	Label      string           `json:"label"`
	Multiplier float64          `json:"multiplier"`
	Types      []string         `json:"types"`
}

// NewMatchupResult computes and groups the matchups for sel.
func NewMatchupResult(sel matchup.Selection) MatchupResult {
	results := sel.Compute()
	groups := matchup.GroupByCategory(results)

	out := MatchupResult{
		Defense: sel.Names(),
		Results: results,
		Groups:  make([]MatchupGroup, 0, len(groups)),
	}
	for _, g := range groups {
		// Every reachable product maps to exactly one category, so all
		// members share the first result's multiplier.
		mg := MatchupGroup{
			Category:   g.Category,
			Label:      g.Category.Caption(),
			Multiplier: g.Results[0].Multiplier,
			Types:      make([]string, 0, len(g.Results)),
		}
		for _, r := range g.Results {
			mg.Types = append(mg.Types, r.Attack.String())
		}
		out.Groups = append(out.Groups, mg)
	}
	return out
}

// MentionsParams is the params for a mentions request.
type MentionsParams struct {
	Text string `json:"text"`
}

// MentionsResult is the result of a mentions request.
type MentionsResult struct {
	Mentions []ahocorasick.Mention `json:"mentions"`
	Count    int                   `json:"count"`
	Elapsed  string                `json:"elapsed"`
}

// HealthResult is the result of a health request.
type HealthResult struct {
	Status         string    `json:"status"`
	Entries        int       `json:"entries"`
	Source         string    `json:"source"`
	LoadedAt       time.Time `json:"loaded_at"`
	Reloads        int64     `json:"reloads"`
	ReloadFailures int64     `json:"reload_failures"`
	Searches       int64     `json:"searches"`
	Uptime         string    `json:"uptime"`
}

// ReloadResult is the result of a reload request.
type ReloadResult struct {
	Entries int    `json:"entries"`
	Source  string `json:"source"`
	Elapsed string `json:"elapsed"`
}

// Service is what the server needs from the application.
// Thread safety is the implementor's responsibility.
type Service interface {
	Search(query string) ([]catalog.Entry, error)
	Matchups(names []string) (MatchupResult, error)
	Mentions(text string) ([]ahocorasick.Mention, error)
	Health() HealthResult
	Reload() (ReloadResult, error)
}
