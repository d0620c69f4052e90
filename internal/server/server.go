// Package server exposes the running keyboard over HTTP: its state, a
// WebSocket snapshot feed, an MJPEG view of the overlay and the typing
// history.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ayusman/airkeys/internal/engine"
	"github.com/ayusman/airkeys/internal/layout"
	"github.com/ayusman/airkeys/internal/server/api"
	"github.com/ayusman/airkeys/internal/store"
)

// ShutdownTimeout bounds how long Serve waits for open requests on exit.
const ShutdownTimeout = 5 * time.Second

// Source is the running keyboard.
type Source interface {
	api.Keyboard
	Subscribe() (<-chan engine.Snapshot, func())
	LatestFrame() []byte
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Source    Source
	Layout    *layout.Layout
}

// Server represents the HTTP server for the keyboard.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Source != nil && s.config.Layout != nil {
		kb := api.NewKeyboardHandler(s.config.Source, s.config.Layout)
		s.mux.HandleFunc("/api/state", kb.State)
		s.mux.HandleFunc("/api/layout", kb.Layout)
		s.mux.HandleFunc("/api/pause", kb.Pause)
		s.mux.HandleFunc("/api/resume", kb.Resume)
	}

	if s.config.Source != nil {
		s.mux.Handle("/api/ws", NewSnapshotHandler(s.config.Source))
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Source))
	}

	if s.config.Store != nil {
		sessions := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// Serve listens on addr until ctx is cancelled, then shuts down.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Printf("HTTP server listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
