package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per run of the keyboard
		`CREATE TABLE IF NOT EXISTS typing_sessions (
			id TEXT PRIMARY KEY,
			layout TEXT NOT NULL CHECK(layout IN ('basic', 'extended')),
			source TEXT NOT NULL DEFAULT 'camera',
			final_text TEXT NOT NULL DEFAULT '',
			started_at DATETIME NOT NULL,
			ended_at DATETIME
		)`,

		// Committed keystrokes in commit order
		`CREATE TABLE IF NOT EXISTS keystrokes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES typing_sessions(id) ON DELETE CASCADE,
			sequence INTEGER NOT NULL,
			key TEXT NOT NULL,
			kind TEXT NOT NULL CHECK(kind IN ('char', 'space', 'backspace')),
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_keystrokes_session_id ON keystrokes(session_id, sequence)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
