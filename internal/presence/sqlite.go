package presence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/linkup-app/messaging-core/pkg/metrics"
)

// SQLiteStore keeps the presence record in a local sqlite database, as a
// one-row key-value table. No schema versioning; the value is opaque JSON.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open presence db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping presence db: %w", err)
	}

	if _, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create presence table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the persisted record, or the default when none exists yet.
func (s *SQLiteStore) Get(ctx context.Context) (Record, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, StorageKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultRecord(time.Now()), nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("load presence: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Record{}, fmt.Errorf("decode presence: %w", err)
	}
	return rec, nil
}

// Set validates and persists the record.
func (s *SQLiteStore) Set(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode presence: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO app_state (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		StorageKey, string(raw))
	if err != nil {
		return fmt.Errorf("save presence: %w", err)
	}

	metrics.PresenceUpdatesTotal.WithLabelValues(string(rec.Status)).Inc()
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
