// Package server implements the serve-mode preview server: it serves the
// generated site, exposes search and backlink queries over the index, and
// streams rebuild events for live reload.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/dagaz/internal/index"
	"github.com/starford/dagaz/internal/sse"
)

// NewRouter builds the preview router over the generated output directory.
func NewRouter(outputDir string, search index.Searcher, broker *sse.Broker, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", healthHandler)
	r.Get("/health/ready", healthHandler)

	r.Get("/api/search", searchHandler(search, logger))
	r.Get("/api/backlinks", backlinksHandler(search, logger))
	r.Get("/api/events", broker.ServeHTTP)

	r.Handle("/*", http.FileServer(http.Dir(outputDir)))

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func searchHandler(search index.Searcher, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "missing query parameter q"})
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		results, err := search.Search(q, limit)
		if err != nil {
			logger.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
			return
		}
		if results == nil {
			results = []index.SearchResult{}
		}
		respondJSON(w, http.StatusOK, results)
	}
}

func backlinksHandler(search index.Searcher, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("target")
		if target == "" {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "missing query parameter target"})
			return
		}

		backlinks, err := search.Backlinks(target)
		if err != nil {
			logger.Error("backlinks failed", slog.String("target", target), slog.String("error", err.Error()))
			respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "backlinks failed"})
			return
		}
		if backlinks == nil {
			backlinks = []string{}
		}
		respondJSON(w, http.StatusOK, backlinks)
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
