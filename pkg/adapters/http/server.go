// Package http exposes a read-only introspection API over the tour catalog and
// walkthrough sessions.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/catalog"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
)

// TourLister lists the tours known to the server.
type TourLister interface {
	List() []catalog.Entry
	Problems() map[string]error
}

// SessionLister reports the sessions running in this process.
type SessionLister interface {
	Sessions() []domain.Progress
}

// Server serves the introspection routes. Every field is optional.
type Server struct {
	Tours   TourLister
	Live    SessionLister
	Store   ports.ProgressStore
	Metrics http.Handler
	Logger  *slog.Logger
}

// TourView is the JSON shape of a catalog entry.
type TourView struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Steps int    `json:"steps"`
	Path  string `json:"path"`
}

// ToursResponse is returned by GET /tours.
type ToursResponse struct {
	Tours    []TourView        `json:"tours"`
	Problems map[string]string `json:"problems,omitempty"`
}

// SessionView is a Progress snapshot tagged with where it came from.
type SessionView struct {
	domain.Progress
	Live bool `json:"live"`
}

// NewHandler creates the HTTP handler for s.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.GetHealth)
	r.Get("/tours", s.GetTours)
	r.Get("/sessions", s.GetSessions)
	r.Get("/sessions/{id}", s.GetSession)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetTours handles GET /tours.
func (s *Server) GetTours(w http.ResponseWriter, r *http.Request) {
	resp := ToursResponse{Tours: []TourView{}}
	if s.Tours != nil {
		for _, e := range s.Tours.List() {
			resp.Tours = append(resp.Tours, TourView{ID: e.ID, Title: e.Title, Steps: e.Steps, Path: e.Path})
		}
		if problems := s.Tours.Problems(); len(problems) > 0 {
			resp.Problems = make(map[string]string, len(problems))
			for path, err := range problems {
				resp.Problems[path] = err.Error()
			}
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GetSessions handles GET /sessions. Live sessions shadow their stored snapshot.
func (s *Server) GetSessions(w http.ResponseWriter, r *http.Request) {
	byID := make(map[string]SessionView)

	if s.Store != nil {
		ids, err := s.Store.List(r.Context())
		if err != nil {
			s.Logger.Error("list sessions failed", "err", err)
			http.Error(w, "failed to list sessions", http.StatusInternalServerError)
			return
		}
		for _, id := range ids {
			p, err := s.Store.Load(r.Context(), id)
			if errors.Is(err, domain.ErrSessionNotFound) {
				continue
			}
			if err != nil {
				s.Logger.Warn("load session failed", "session", id, "err", err)
				continue
			}
			byID[id] = SessionView{Progress: *p}
		}
	}
	if s.Live != nil {
		for _, p := range s.Live.Sessions() {
			byID[p.SessionID] = SessionView{Progress: p, Live: true}
		}
	}

	out := make([]SessionView, 0, len(byID))
	for _, v := range byID {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	s.writeJSON(w, http.StatusOK, out)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if s.Live != nil {
		for _, p := range s.Live.Sessions() {
			if p.SessionID == id {
				s.writeJSON(w, http.StatusOK, SessionView{Progress: p, Live: true})
				return
			}
		}
	}
	if s.Store == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	p, err := s.Store.Load(r.Context(), id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.Logger.Error("load session failed", "session", id, "err", err)
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, SessionView{Progress: *p})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}
