// Package httpapi is an optional, off-the-hot-path status surface for a
// running GNC loop: liveness, current state, and history, served over chi.
// Read-only: the loop itself is never driven over HTTP.
package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/PossumXI/Asgard/Selene/internal/state"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Server exposes the latest state and full history of a running loop.
// Safe for concurrent use: the loop driver calls Update from its own
// goroutine while HTTP handlers read under the same mutex.
type Server struct {
	mu      sync.RWMutex
	latest  state.SpacecraftState
	history []state.SpacecraftState
}

// NewServer creates an empty status server.
func NewServer() *Server { return &Server{} }

// Update records a newly completed step. Called from the loop's OnStep hook.
func (s *Server) Update(st state.SpacecraftState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = st
	s.history = append(s.history, st)
}

// Router builds the chi mux for GET /healthz, /state, /history.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{AllowedOrigins: []string{"*"}, AllowedMethods: []string{"GET"}}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Get("/state", func(w http.ResponseWriter, _ *http.Request) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.latest)
	})
	r.Get("/history", func(w http.ResponseWriter, _ *http.Request) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.history)
	})
	return r
}
