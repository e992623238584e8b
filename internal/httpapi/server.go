// ABOUTME: HTTP surface for the query engine: chat, search, listings, and cache maintenance
// ABOUTME: Thin chi handlers that delegate to the engine; transport concerns only
package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/policyatlas/policyatlas/internal/core"
	"github.com/policyatlas/policyatlas/internal/models"
)

const defaultSearchLimit = 10

// Server exposes the query engine over HTTP.
type Server struct {
	engine *core.Engine
}

// NewServer wraps the engine with the HTTP surface.
func NewServer(engine *core.Engine) *Server {
	return &Server{engine: engine}
}

// Router builds the full route table, middleware included.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/search", s.handleSearch)
		r.Get("/countries", s.handleCountries)
		r.Get("/areas", s.handleAreas)
		r.Get("/cache/status", s.handleCacheStatus)
		r.Post("/cache/refresh", s.handleCacheRefresh)
	})
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := s.engine.Chat(r.Context(), &req)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	results := s.engine.Search(r.Context(), query, limit)
	if results == nil {
		results = []core.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": results,
	})
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	snap, err := s.engine.Cache().Ensure(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "policy corpus unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"countries": snap.Countries})
}

func (s *Server) handleAreas(w http.ResponseWriter, r *http.Request) {
	snap, err := s.engine.Cache().Ensure(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "policy corpus unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"areas": snap.Areas})
}

func (s *Server) handleCacheStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Cache().Status())
}

func (s *Server) handleCacheRefresh(w http.ResponseWriter, r *http.Request) {
	if _, err := s.engine.Cache().Refresh(r.Context()); err != nil {
		log.Printf("manual cache refresh failed: %v", err)
		writeError(w, http.StatusBadGateway, "cache refresh failed")
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Cache().Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
