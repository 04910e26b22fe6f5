package server

import (
	"context"
	"encoding/json"
	"net/http"

	"raven_news/internal/middleware"
	"raven_news/internal/models"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store is the slice of the database the HTTP surface needs.
type Store interface {
	Ping(ctx context.Context) error
	CountTotal(ctx context.Context) (int64, error)
	CountDaily(ctx context.Context) (int64, error)
	CountBySource(ctx context.Context, source string) (int64, error)
}

// Server exposes the operational endpoints: health, Prometheus metrics and
// ingestion stats. It never serves feed content; the pipeline writes, readers
// go to the database.
type Server struct {
	store Store
}

// NewServer creates a Server backed by store.
func NewServer(store Store) *Server {
	return &Server{store: store}
}

// Handler wires the routes and the request middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.HealthCheck)
	mux.HandleFunc("GET /api/stats", s.GetStats)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.Logging(mux)
	handler = middleware.RequestID(handler)
	return handler
}

// HealthCheck responds 200 OK when the database is reachable, 503 otherwise.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		http.Error(w, "DB unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}

// GetStats returns stored item counts as JSON: overall and today by default,
// scoped to one source with ?source=NAME.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if source := r.URL.Query().Get("source"); source != "" {
		canonical := models.CanonicalSource(source)
		count, err := s.store.CountBySource(ctx, canonical)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{
			"source": canonical,
			"total":  count,
		})
		return
	}

	total, err := s.store.CountTotal(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	today, err := s.store.CountDaily(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"total": total,
		"today": today,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
