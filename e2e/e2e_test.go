package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/airkeys/internal/app"
	"github.com/ayusman/airkeys/internal/capture"
	"github.com/ayusman/airkeys/internal/detector"
	"github.com/ayusman/airkeys/internal/engine"
	"github.com/ayusman/airkeys/internal/layout"
	"github.com/ayusman/airkeys/internal/server"
	"github.com/ayusman/airkeys/internal/server/api"
	"github.com/ayusman/airkeys/internal/store"
	"github.com/ayusman/airkeys/testdata"
)

func TestE2E_ReplayTypesIntoHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	frames, err := testdata.LoadRecording(testdata.HiFive)
	if err != nil {
		t.Fatalf("LoadRecording() error = %v", err)
	}

	application, err := app.New(app.Config{
		Engine:        engine.New(layout.Extended(), engine.Config{}),
		Camera:        capture.NewBlankCamera(testdata.RecordingWidth, testdata.RecordingHeight),
		Detector:      detector.NewReplayDetector(frames, false),
		History:       s,
		Source:        app.SourceReplay,
		Clock:         app.StepClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC), 33*time.Millisecond),
		FrameInterval: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	srv := server.New(server.Config{
		Store:  s,
		Source: application,
		Layout: application.Engine().Layout(),
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/ws", nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	commits := make(chan []string, 1)
	go func() {
		var got []string
		for {
			var v api.StateView
			if err := conn.ReadJSON(&v); err != nil {
				commits <- got
				return
			}
			if v.Commit != nil {
				got = append(got, v.Commit.Kind)
			}
		}
	}()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := application.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	t.Run("State", func(t *testing.T) {
		resp, err := ts.Client().Get(ts.URL + "/api/state")
		if err != nil {
			t.Fatalf("GET /api/state error = %v", err)
		}
		defer resp.Body.Close()

		var state struct {
			Text    string `json:"text"`
			Shift   bool   `json:"shift"`
			LastKey string `json:"last_key"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if state.Text != testdata.HiFiveText {
			t.Errorf("text = %q, want %q", state.Text, testdata.HiFiveText)
		}
		if state.Shift || state.LastKey != "5" {
			t.Errorf("unexpected state %+v", state)
		}
	})

	t.Run("History", func(t *testing.T) {
		resp, err := ts.Client().Get(ts.URL + "/api/sessions/" + application.SessionID())
		if err != nil {
			t.Fatalf("GET session error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var sess struct {
			Text   string `json:"text"`
			Source string `json:"source"`
			Layout string `json:"layout"`
			Keys   []struct {
				Key string `json:"key"`
			} `json:"keys"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
			t.Fatalf("decode error = %v", err)
		}

		if sess.Text != testdata.HiFiveText || sess.Source != app.SourceReplay || sess.Layout != "extended" {
			t.Errorf("unexpected session %+v", sess)
		}

		var keys []string
		for _, k := range sess.Keys {
			keys = append(keys, k.Key)
		}
		if got, want := strings.Join(keys, ","), "H,i,space,5"; got != want {
			t.Errorf("keys = %s, want %s", got, want)
		}
	})

	t.Run("WebSocket", func(t *testing.T) {
		select {
		case got := <-commits:
			if len(got) != 5 || got[0] != "shift" {
				t.Errorf("expected 5 commits starting with shift, got %v", got)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("websocket did not close after the replay")
		}
	})
}
