package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

// newTestStore creates a Store backed by a file in a temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func createSession(t *testing.T, s *Store, started time.Time) *Session {
	t.Helper()

	sess := &Session{ID: uuid.New().String(), Layout: "extended", StartedAt: started}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return sess
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	sess := &Session{ID: uuid.New().String(), Layout: "basic"}

	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.StartedAt.IsZero() {
		t.Error("StartedAt should be set after create")
	}
	if sess.Source != "camera" {
		t.Errorf("expected default source camera, got %q", sess.Source)
	}

	got, err := s.Sessions().GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Layout != "basic" || got.EndedAt != nil || got.Keystrokes != 0 {
		t.Errorf("unexpected session %+v", got)
	}
}

func TestSessionRepository_InvalidLayout(t *testing.T) {
	s := newTestStore(t)

	err := s.Sessions().Create(&Session{ID: uuid.New().String(), Layout: "dvorak"})
	if err == nil {
		t.Error("expected constraint error for unknown layout")
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Sessions().GetByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_Finish(t *testing.T) {
	s := newTestStore(t)
	sess := createSession(t, s, time.Now())

	ended := time.Now().Add(time.Minute)
	if err := s.Sessions().Finish(sess.ID, "hello", ended); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	got, err := s.Sessions().GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.FinalText != "hello" {
		t.Errorf("expected final text %q, got %q", "hello", got.FinalText)
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(ended) {
		t.Errorf("expected ended_at %v, got %v", ended, got.EndedAt)
	}

	if err := s.Sessions().Finish("missing", "", ended); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_ListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Now()

	oldest := createSession(t, s, base)
	middle := createSession(t, s, base.Add(time.Second))
	newest := createSession(t, s, base.Add(2*time.Second))

	all, err := s.Sessions().List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	want := []string{newest.ID, middle.ID, oldest.ID}
	for i, id := range want {
		if all[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, all[i].ID)
		}
	}

	limited, err := s.Sessions().List(2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(limited))
	}
}

func TestSessionRepository_DeleteCascades(t *testing.T) {
	s := newTestStore(t)
	sess := createSession(t, s, time.Now())

	if err := s.Keystrokes().Add(&Keystroke{SessionID: sess.ID, Key: "a", Kind: "char"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := s.Sessions().Delete(sess.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	keys, err := s.Keystrokes().ListBySession(sess.ID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected keystrokes to be deleted, got %d", len(keys))
	}

	if err := s.Sessions().Delete(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
