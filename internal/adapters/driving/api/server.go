// Package api exposes the brochure search over HTTP. It is the endpoint
// the CRM front end calls; a failed or empty retrieval renders the
// designed "no relevant brochures" message, never an error page.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/casadesk/brochure-search/internal/core/ports/driving"
	"github.com/casadesk/brochure-search/internal/logger"
)

// NoResultsMessage is the degraded response body text for both "no match"
// and "index unavailable"; the two are distinguishable only via logs.
const NoResultsMessage = "No relevant brochures found."

// Server serves the brochure search HTTP API.
type Server struct {
	retrieval driving.RetrievalService
	addr      string
}

// NewServer creates an HTTP API server backed by the retrieval service.
func NewServer(retrieval driving.RetrievalService, addr string) (*Server, error) {
	if retrieval == nil {
		return nil, fmt.Errorf("api: retrieval service is required")
	}
	if addr == "" {
		return nil, fmt.Errorf("api: listen address is required")
	}
	return &Server{retrieval: retrieval, addr: addr}, nil
}

// Handler returns the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Run starts the HTTP server. It blocks until the context is cancelled
// or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	logger.Info("Search API listening on %s", s.addr)
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// searchResponse is the JSON shape the CRM front end consumes.
type searchResponse struct {
	Query   string         `json:"query"`
	Results []searchResult `json:"results,omitempty"`
	Message string         `json:"message,omitempty"`
}

type searchResult struct {
	Source  string `json:"source"`
	ChunkID int    `json:"chunk_id"`
	Text    string `json:"text"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	topK := driving.DefaultTopK
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "top_k must be a positive integer", http.StatusBadRequest)
			return
		}
		topK = parsed
	}

	logger.Debug("Search request: q=%q top_k=%d", query, topK)
	results, err := s.retrieval.Query(r.Context(), query, topK)
	if err != nil {
		// The front end gets the designed degraded response; the cause
		// stays in the logs.
		logger.Warn("Search query failed: %v", err)
		writeJSON(w, searchResponse{Query: query, Message: NoResultsMessage})
		return
	}
	if len(results) == 0 {
		writeJSON(w, searchResponse{Query: query, Message: NoResultsMessage})
		return
	}

	resp := searchResponse{
		Query:   query,
		Results: make([]searchResult, len(results)),
	}
	for i, result := range results {
		resp.Results[i] = searchResult{
			Source:  result.Source,
			ChunkID: result.ChunkID,
			Text:    result.Text,
		}
	}
	writeJSON(w, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Encoding response failed: %v", err)
	}
}
