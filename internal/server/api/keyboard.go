package api

import (
	"net/http"

	"github.com/ayusman/airkeys/internal/engine"
	"github.com/ayusman/airkeys/internal/layout"
)

// Keyboard is the running keyboard as seen by the API.
type Keyboard interface {
	Snapshot() engine.Snapshot
	SetPaused(paused bool)
	Paused() bool
	LastKey() string
}

// KeyboardHandler serves the keyboard's state and layout and toggles pause.
type KeyboardHandler struct {
	keyboard Keyboard
	layout   *layout.Layout
}

// NewKeyboardHandler creates a KeyboardHandler.
func NewKeyboardHandler(k Keyboard, l *layout.Layout) *KeyboardHandler {
	return &KeyboardHandler{keyboard: k, layout: l}
}

type stateResponse struct {
	StateView
	LastKey string `json:"last_key"`
}

type pauseResponse struct {
	Paused bool `json:"paused"`
}

// State handles GET /api/state.
func (h *KeyboardHandler) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, stateResponse{
		StateView: NewStateView(h.keyboard.Snapshot()),
		LastKey:   h.keyboard.LastKey(),
	})
}

// Layout handles GET /api/layout.
func (h *KeyboardHandler) Layout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, NewLayoutView(h.layout))
}

// Pause handles POST /api/pause.
func (h *KeyboardHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, true)
}

// Resume handles POST /api/resume.
func (h *KeyboardHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, false)
}

func (h *KeyboardHandler) setPaused(w http.ResponseWriter, r *http.Request, paused bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	h.keyboard.SetPaused(paused)
	writeJSON(w, http.StatusOK, pauseResponse{Paused: h.keyboard.Paused()})
}
