package server

import (
	"log"
	"net/http"
	"time"

	"github.com/ayusman/airkeys/internal/engine"
	"github.com/ayusman/airkeys/internal/server/api"
	"github.com/gorilla/websocket"
)

const (
	// SnapshotInterval is the minimum time between messages to one client.
	SnapshotInterval = 66 * time.Millisecond // ~15 FPS
	writeWait        = time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Subscriber hands out snapshot subscriptions.
type Subscriber interface {
	Subscribe() (<-chan engine.Snapshot, func())
}

// SnapshotHandler streams keyboard snapshots to WebSocket clients as JSON.
type SnapshotHandler struct {
	source Subscriber
}

// NewSnapshotHandler creates a SnapshotHandler.
func NewSnapshotHandler(source Subscriber) *SnapshotHandler {
	return &SnapshotHandler{source: source}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	snaps, cancel := h.source.Subscribe()
	defer cancel()

	// Reading is only used to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var last time.Time
	for {
		select {
		case <-closed:
			return
		case snap, ok := <-snaps:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "keyboard stopped"),
					time.Now().Add(writeWait))
				return
			}
			// Commits are always sent; other frames are throttled.
			if snap.Commit == nil && time.Since(last) < SnapshotInterval {
				continue
			}
			last = time.Now()

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(api.NewStateView(snap)); err != nil {
				log.Printf("websocket write error: %v", err)
				return
			}
		}
	}
}
