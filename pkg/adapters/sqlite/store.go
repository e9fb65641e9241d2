// Package sqlite provides a ProgressStore backed by a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aretw0/waypoint/pkg/domain"
)

//go:embed schema.sql
var schemaSQL string

// Store implements ports.ProgressStore on SQLite in WAL mode.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and applies the schema.
// It is idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save upserts the progress row of a session.
func (s *Store) Save(ctx context.Context, sessionID string, progress *domain.Progress) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, tour_id, step_index, step_title, step_count, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tour_id = excluded.tour_id,
			step_index = excluded.step_index,
			step_title = excluded.step_title,
			step_count = excluded.step_count,
			status = excluded.status,
			updated_at = excluded.updated_at
	`,
		sessionID,
		progress.TourID,
		progress.StepIndex,
		progress.StepTitle,
		progress.StepCount,
		string(progress.Status),
		progress.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

// Load reads the progress row of a session.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Progress, error) {
	var (
		p         domain.Progress
		status    string
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, tour_id, step_index, step_title, step_count, status, updated_at
		FROM sessions WHERE id = ?
	`, sessionID).Scan(&p.SessionID, &p.TourID, &p.StepIndex, &p.StepTitle, &p.StepCount, &status, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	p.Status = domain.SessionStatus(status)
	p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("load session %s: bad updated_at: %w", sessionID, err)
	}
	return &p, nil
}

// Delete removes the session row.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

// List returns every stored session ID in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return ids, nil
}
