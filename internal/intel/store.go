// Package intel archives scam intelligence captured by the platform's
// logging tool and forwards notable alerts to operator webhooks. The alert
// stream itself is deliberately not durable; only tool-captured intel rows
// land here.
package intel

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Capture is one archived scam-intel record.
type Capture struct {
	ID         string         `json:"id"`
	CallID     string         `json:"callId"`
	CapturedAt time.Time      `json:"capturedAt"`
	Data       map[string]any `json:"data"`
}

// Store is a SQLite-backed archive of captures.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the archive at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open intel db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping intel db: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS scam_intel (
		id          TEXT PRIMARY KEY,
		call_id     TEXT NOT NULL,
		captured_at TIMESTAMP NOT NULL,
		data        TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_scam_intel_call ON scam_intel (call_id);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate intel db: %w", err)
	}

	return &Store{db: db}, nil
}

// Record archives one capture. A missing ID or timestamp is filled in.
func (s *Store) Record(c Capture) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CapturedAt.IsZero() {
		c.CapturedAt = time.Now().UTC()
	}

	data, err := json.Marshal(c.Data)
	if err != nil {
		return fmt.Errorf("encode capture data: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO scam_intel (id, call_id, captured_at, data) VALUES (?, ?, ?, ?)`,
		c.ID, c.CallID, c.CapturedAt.UTC(), string(data),
	)
	if err != nil {
		return fmt.Errorf("insert capture: %w", err)
	}
	return nil
}

// List returns the most recent captures, newest first.
func (s *Store) List(limit int) ([]Capture, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, call_id, captured_at, data FROM scam_intel ORDER BY captured_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query captures: %w", err)
	}
	defer rows.Close()

	var out []Capture
	for rows.Next() {
		var c Capture
		var data string
		if err := rows.Scan(&c.ID, &c.CallID, &c.CapturedAt, &data); err != nil {
			return nil, fmt.Errorf("scan capture: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &c.Data); err != nil {
			c.Data = map[string]any{"raw": data}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
