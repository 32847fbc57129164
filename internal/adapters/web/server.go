// Package web serves the JSON API and the suggestion WebSocket over HTTP.
// Binds to localhost by default; there is no auth.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/corey/typedex/internal/adapters/ahocorasick"
	"github.com/corey/typedex/internal/adapters/socket"
	"github.com/corey/typedex/internal/domain/catalog"
	"github.com/corey/typedex/internal/domain/matchup"
	"github.com/corey/typedex/internal/domain/typechart"
)

// errLoadFailed is the body returned whenever the catalog cannot be read.
const errLoadFailed = "Failed to load pokemon data"

// Server serves the HTTP API. It shares socket.Service with the Unix socket
// daemon so both transports answer from the same application.
type Server struct {
	svc      socket.Service
	logger   *slog.Logger
	listener net.Listener
	httpSrv  *http.Server
	addr     string
	stopOnce sync.Once

	portFilePath string // <data>/run/http.addr
}

// NewServer creates an HTTP server. The portFilePath is where the bound
// address is written for discovery; empty disables it. A nil logger uses
// slog.Default().
func NewServer(svc socket.Service, portFilePath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		svc:          svc,
		logger:       logger,
		portFilePath: portFilePath,
	}
}

// Handler returns the routed and instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/pokemon", s.handlePokemon)
	mux.HandleFunc("GET /api/matchups", s.handleMatchups)
	mux.HandleFunc("GET /api/mentions", s.handleMentions)
	mux.HandleFunc("GET /api/types", s.handleTypes)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/suggest", s.handleSuggest)
	return requestID(logRequests(s.logger, mux))
}

// Start begins listening on addr ("host:port"; port 0 picks a free one) and
// writes the bound address to the port file.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.addr = ln.Addr().String()

	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	if s.portFilePath != "" {
		if err := os.WriteFile(s.portFilePath, []byte(s.addr), 0o644); err != nil {
			s.logger.Warn("failed to write port file", "path", s.portFilePath, "error", err)
		}
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.httpSrv.Shutdown(ctx); err != nil {
				s.logger.Warn("http shutdown", "error", err)
			}
		}
		if s.portFilePath != "" {
			os.Remove(s.portFilePath)
		}
	})
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	return s.addr
}

// URL returns the base URL of the API.
func (s *Server) URL() string {
	return "http://" + s.addr
}

func (s *Server) handlePokemon(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusOK, []catalog.Entry{})
		return
	}
	results, err := s.svc.Search(q)
	if err != nil {
		s.logger.Error("search failed", "query", q, "error", err)
		writeError(w, http.StatusInternalServerError, errLoadFailed)
		return
	}
	if results == nil {
		results = []catalog.Entry{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleMatchups(w http.ResponseWriter, r *http.Request) {
	names := splitTypes(r.URL.Query()["types"])
	result, err := s.svc.Matchups(names)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, matchup.ErrInvalidSelection):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("matchup failed", "types", names, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleMentions(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		writeJSON(w, http.StatusOK, []ahocorasick.Mention{})
		return
	}
	mentions, err := s.svc.Mentions(text)
	if err != nil {
		s.logger.Error("mentions failed", "error", err)
		writeError(w, http.StatusInternalServerError, errLoadFailed)
		return
	}
	if mentions == nil {
		mentions = []ahocorasick.Mention{}
	}
	writeJSON(w, http.StatusOK, mentions)
}

// typeInfo is one entry of /api/types.
type typeInfo struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	labels := typechart.All()
	out := make([]typeInfo, len(labels))
	for i, l := range labels {
		out[i] = typeInfo{Name: l.String(), Slug: l.Slug()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Health())
}

// splitTypes accepts both ?types=a&types=b and ?types=a,b.
func splitTypes(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
