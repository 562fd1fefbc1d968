// Package server exposes the graph, timeline and cache-admin services as a
// small JSON API. Rendering is left entirely to clients.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andrewchch/jira-dependency-viewer/internal/service"
)

// Server routes API requests to the underlying services.
type Server struct {
	graphs    service.GraphService
	timelines service.TimelineService
	cacheOps  service.CacheAdminService
	logger    *slog.Logger
}

// New assembles the API server. A nil logger discards request logs.
func New(graphs service.GraphService, timelines service.TimelineService, cacheOps service.CacheAdminService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{graphs: graphs, timelines: timelines, cacheOps: cacheOps, logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/schedule", s.handleSchedule)
	mux.HandleFunc("GET /api/cache/stats", s.handleCacheStats)
	mux.HandleFunc("POST /api/cache/clear", s.handleCacheClear)
	return mux
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req := graphRequest(r)
	result, err := s.graphs.BuildGraph(r.Context(), req)
	if err != nil {
		s.logger.Error("graph build failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes":    result.Snapshot.Nodes,
		"edges":    result.Snapshot.Edges,
		"failures": result.Failures,
	})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	req := service.TimelineRequest{GraphRequest: graphRequest(r)}
	if v := r.URL.Query().Get("today"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("today must be formatted YYYY-MM-DD"))
			return
		}
		req.Today = &t
	}

	result, err := s.timelines.BuildTimeline(r.Context(), req)
	if err != nil {
		s.logger.Error("timeline build failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}

	body := map[string]any{
		"tasks":    result.Tasks,
		"links":    result.Links,
		"failures": result.Failures,
	}
	// A cycle leaves the graph usable but the timeline not; the error
	// field tells clients to fall back to graph-only display.
	if len(result.CycleIDs) > 0 {
		body["error"] = map[string]any{
			"code":     "CYCLE_DETECTED",
			"issueIds": result.CycleIDs,
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.cacheOps.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	var removed int
	var err error
	if r.URL.Query().Get("expired") == "true" {
		removed, err = s.cacheOps.ClearExpired(r.Context())
	} else {
		removed, err = s.cacheOps.Clear(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// graphRequest maps query parameters onto a service request.
func graphRequest(r *http.Request) service.GraphRequest {
	q := r.URL.Query()
	req := service.GraphRequest{
		Project:            q.Get("project"),
		Text:               q.Get("text"),
		JQL:                q.Get("jql"),
		HighlightJQL:       q.Get("highlight_jql"),
		ShowDependencyTree: q.Get("show_dependency_tree") == "true",
		ChildAsBlocking:    q.Get("child_as_blocking") == "true",
	}
	if statuses := q.Get("statuses"); statuses != "" {
		for _, s := range strings.Split(statuses, ",") {
			if s = strings.TrimSpace(s); s != "" {
				req.Statuses = append(req.Statuses, s)
			}
		}
	}
	if v := q.Get("max_results"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			req.MaxResults = n
		}
	}
	return req
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
