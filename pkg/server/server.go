package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/BeatNow2-0/beatpulse/internal/scheduler"
	"github.com/BeatNow2-0/beatpulse/pkg/stats"
)

// Server exposes the latest analytics report over HTTP.
type Server struct {
	holder    *scheduler.Holder
	refresher *scheduler.Refresher
	username  string
	port      int
}

// New creates a new HTTP server.
func New(holder *scheduler.Holder, refresher *scheduler.Refresher, username string, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		holder:    holder,
		refresher: refresher,
		username:  username,
		port:      port,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/report", s.handleReport)
	mux.HandleFunc("/api/v1/posts", s.handlePosts)
	mux.HandleFunc("/api/v1/export", s.handleExport)
	mux.HandleFunc("/api/v1/refresh", s.handleRefresh)
	return mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("beatpulse server listening on %s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	report := s.holder.Get()
	if report == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no report computed yet"})
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	report := s.holder.Get()
	if report == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no report computed yet"})
		return
	}

	items := report.Items
	if r.URL.Query().Get("order") == "recent" {
		items = report.Recent
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  items,
		"count": len(items),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	report := s.holder.Get()
	if report == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no report computed yet"})
		return
	}

	items := make([]stats.Metrics, len(report.Recent))
	for i, item := range report.Recent {
		items[i] = item.Metrics
	}
	csv := stats.ExportCSV(items, stats.ExportColumns)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", stats.ExportFilename(s.username)))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(csv))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	report, err := s.refresher.Refresh(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.holder.Set(report)

	writeJSON(w, http.StatusOK, map[string]any{
		"posts":     report.Totals.TotalPosts,
		"threshold": report.Threshold,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
