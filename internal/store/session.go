package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session is one typing session.
type Session struct {
	ID         string
	Layout     string // "basic" or "extended"
	Source     string // "camera" or "replay"
	FinalText  string
	StartedAt  time.Time
	EndedAt    *time.Time // nil while the session is running
	Keystrokes int        // filled by List and GetByID
}

// SessionRepository provides access to typing sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session. StartedAt defaults to now.
func (r *SessionRepository) Create(sess *Session) error {
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}
	if sess.Source == "" {
		sess.Source = "camera"
	}

	_, err := r.db.Exec(
		`INSERT INTO typing_sessions (id, layout, source, final_text, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.Layout, sess.Source, sess.FinalText, sess.StartedAt,
	)
	return err
}

const sessionColumns = `s.id, s.layout, s.source, s.final_text, s.started_at, s.ended_at,
	(SELECT COUNT(*) FROM keystrokes k WHERE k.session_id = s.id)`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	sess := &Session{}
	var ended sql.NullTime
	err := row.Scan(&sess.ID, &sess.Layout, &sess.Source, &sess.FinalText, &sess.StartedAt, &ended, &sess.Keystrokes)
	if err != nil {
		return nil, err
	}
	if ended.Valid {
		t := ended.Time
		sess.EndedAt = &t
	}
	return sess, nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess, err := scanSession(r.db.QueryRow(
		`SELECT `+sessionColumns+` FROM typing_sessions s WHERE s.id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// List returns sessions, newest first. A limit of zero or less returns all.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM typing_sessions s ORDER BY s.started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Finish records the final text and end time of a session.
func (r *SessionRepository) Finish(id, finalText string, endedAt time.Time) error {
	result, err := r.db.Exec(
		`UPDATE typing_sessions SET final_text = ?, ended_at = ? WHERE id = ?`,
		finalText, endedAt, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a session and its keystrokes.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM typing_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
