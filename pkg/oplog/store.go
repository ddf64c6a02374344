package oplog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store provides sqlite persistence for dispatched events. Each row
// keeps the decoded columns for querying plus the raw CBOR encoding.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens (or creates) the event database at dbPath. Use
// ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL keeps the writer from stalling readers
	_, err = db.Exec(`
		PRAGMA foreign_keys = ON;
		PRAGMA journal_mode = WAL;
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at DATETIME NOT NULL,
		direction INTEGER NOT NULL,
		element_number INTEGER NOT NULL,
		ddi INTEGER NOT NULL,
		value INTEGER NOT NULL,
		raw BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_recorded_at ON events(recorded_at);
	CREATE INDEX IF NOT EXISTS idx_events_ddi ON events(ddi);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Append persists one event.
func (s *Store) Append(event Event) error {
	raw, err := EncodeEvent(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(
		`INSERT INTO events (recorded_at, direction, element_number, ddi, value, raw)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.Timestamp.UTC().Format(time.RFC3339Nano),
		uint8(event.Direction), event.ElementNumber, event.DDI, event.Value, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Drain consumes events from the recorder until ctx is cancelled,
// persisting each one. Persistence errors are returned immediately.
func (s *Store) Drain(ctx context.Context, r *Recorder) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-r.Events():
			if err := s.Append(event); err != nil {
				return err
			}
		}
	}
}

// Recent returns up to limit events, newest first, decoded from their
// raw CBOR form.
func (s *Store) Recent(limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT raw FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event, err := DecodeEvent(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Count returns the number of stored events.
func (s *Store) Count() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
