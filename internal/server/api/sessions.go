package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/airkeys/internal/store"
)

// DefaultSessionLimit caps GET /api/sessions when no limit is given.
const DefaultSessionLimit = 50

// SessionHandler handles HTTP requests for typing history.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP routes /api/sessions and /api/sessions/{id}.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	id = strings.Trim(id, "/")

	if id == "" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.list(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// SessionView is the JSON form of a typing session.
type SessionView struct {
	ID         string `json:"id"`
	Layout     string `json:"layout"`
	Source     string `json:"source"`
	Text       string `json:"text"`
	Keystrokes int    `json:"keystrokes"`
	StartedAt  string `json:"started_at"`
	EndedAt    string `json:"ended_at,omitempty"`
}

// KeystrokeView is the JSON form of one committed key.
type KeystrokeView struct {
	Sequence  int    `json:"sequence"`
	Key       string `json:"key"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
}

// SessionDetailView is a session with its keystrokes in order.
type SessionDetailView struct {
	SessionView
	Keys []KeystrokeView `json:"keys"`
}

// NewSessionDetailView converts a session and its keystrokes.
func NewSessionDetailView(s *store.Session, keys []*store.Keystroke) SessionDetailView {
	view := SessionDetailView{
		SessionView: NewSessionView(s),
		Keys:        make([]KeystrokeView, 0, len(keys)),
	}
	for _, k := range keys {
		view.Keys = append(view.Keys, KeystrokeView{
			Sequence:  k.Sequence,
			Key:       k.Key,
			Kind:      k.Kind,
			CreatedAt: formatTime(k.CreatedAt),
		})
	}
	return view
}

type listSessionsResponse struct {
	Sessions []SessionView `json:"sessions"`
}

// NewSessionView converts a stored session to its JSON form.
func NewSessionView(s *store.Session) SessionView {
	resp := SessionView{
		ID:         s.ID,
		Layout:     s.Layout,
		Source:     s.Source,
		Text:       s.FinalText,
		Keystrokes: s.Keystrokes,
		StartedAt:  formatTime(s.StartedAt),
	}
	if s.EndedAt != nil {
		resp.EndedAt = formatTime(*s.EndedAt)
	}
	return resp
}

// list handles GET /api/sessions?limit=N, newest first.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultSessionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	sessions, err := h.store.Sessions().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]SessionView, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, NewSessionView(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id} and includes the keystrokes.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	keys, err := h.store.Keystrokes().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list keystrokes")
		return
	}

	writeJSON(w, http.StatusOK, NewSessionDetailView(sess, keys))
}

// delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Sessions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
