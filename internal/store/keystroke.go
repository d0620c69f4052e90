package store

import (
	"database/sql"
	"time"
)

// Keystroke is one committed key intent.
type Keystroke struct {
	ID        int64
	SessionID string
	Sequence  int
	Key       string // the typed character, "space" or "backspace"
	Kind      string // "char", "space" or "backspace"
	CreatedAt time.Time
}

// KeystrokeRepository provides access to recorded keystrokes.
type KeystrokeRepository struct {
	db *sql.DB
}

// Keystrokes returns the keystroke repository for this store.
func (s *Store) Keystrokes() *KeystrokeRepository {
	return &KeystrokeRepository{db: s.db}
}

// Add appends a keystroke to its session. The sequence number is assigned
// here, one past the session's current last keystroke.
func (r *KeystrokeRepository) Add(k *Keystroke) error {
	if k.CreatedAt.IsZero() {
		k.CreatedAt = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT COUNT(*) FROM typing_sessions WHERE id = ?`, k.SessionID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	err = tx.QueryRow(
		`SELECT COALESCE(MAX(sequence), -1) + 1 FROM keystrokes WHERE session_id = ?`,
		k.SessionID,
	).Scan(&k.Sequence)
	if err != nil {
		return err
	}

	result, err := tx.Exec(
		`INSERT INTO keystrokes (session_id, sequence, key, kind, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		k.SessionID, k.Sequence, k.Key, k.Kind, k.CreatedAt,
	)
	if err != nil {
		return err
	}

	k.ID, err = result.LastInsertId()
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ListBySession returns a session's keystrokes in commit order.
func (r *KeystrokeRepository) ListBySession(sessionID string) ([]*Keystroke, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, sequence, key, kind, created_at
		 FROM keystrokes WHERE session_id = ? ORDER BY sequence`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keystrokes []*Keystroke
	for rows.Next() {
		k := &Keystroke{}
		if err := rows.Scan(&k.ID, &k.SessionID, &k.Sequence, &k.Key, &k.Kind, &k.CreatedAt); err != nil {
			return nil, err
		}
		keystrokes = append(keystrokes, k)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return keystrokes, nil
}
