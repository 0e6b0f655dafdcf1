package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/verdantcity/verdant/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS turns (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);`

// Store holds every session's conversation transcript. With the default
// in-memory DSN nothing survives a process restart; sessions are isolated
// from each other by session id.
type Store struct {
	db *sql.DB
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// An in-memory sqlite database exists per connection; the pool must be
	// pinned to one connection or each query could see a different database.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession registers a new session and returns it.
func (s *Store) CreateSession() (*models.Session, error) {
	query := `
        INSERT INTO sessions (id, created_at)
        VALUES (?, CURRENT_TIMESTAMP)
        RETURNING created_at`

	sess := &models.Session{ID: uuid.NewString()}
	if err := s.db.QueryRow(query, sess.ID).Scan(&sess.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// SessionExists reports whether the given session id is known.
func (s *Store) SessionExists(sessionID string) (bool, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(1) FROM sessions WHERE id = ?", sessionID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AppendTurn records one turn at the end of the session's transcript.
// Turns are append-only; nothing reorders or deduplicates them.
func (s *Store) AppendTurn(sessionID, role, content string) (*models.Turn, error) {
	query := `
        INSERT INTO turns (session_id, role, content, created_at)
        VALUES (?, ?, ?, CURRENT_TIMESTAMP)
        RETURNING id, created_at`

	turn := &models.Turn{SessionID: sessionID, Role: role, Content: content}
	if err := s.db.QueryRow(query, sessionID, role, content).Scan(&turn.ID, &turn.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to append turn: %w", err)
	}
	return turn, nil
}

// History returns the session's turns in submission order.
func (s *Store) History(sessionID string) ([]models.Turn, error) {
	query := `
        SELECT id, session_id, role, content, created_at
        FROM turns
        WHERE session_id = ?
        ORDER BY id ASC`

	rows, err := s.db.Query(query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := make([]models.Turn, 0)
	for rows.Next() {
		var t models.Turn
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// ClearSession removes every turn of the session. The session itself stays
// valid for further interactions.
func (s *Store) ClearSession(sessionID string) error {
	_, err := s.db.Exec("DELETE FROM turns WHERE session_id = ?", sessionID)
	return err
}

// DeleteSession removes the session and its transcript.
func (s *Store) DeleteSession(sessionID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM turns WHERE session_id = ?", sessionID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return err
	}

	return tx.Commit()
}
