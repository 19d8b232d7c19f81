package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/okian/matchboard/pkg/logger"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps documents in a single kv table of a local SQLite file.
type SQLiteStore struct {
	conn   *sql.DB
	path   string
	closed atomic.Bool
	log    logger.Logger
}

// OpenSQLite creates or opens the database at path and migrates it to the
// latest schema.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := newSettings(opts)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows a single writer.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", s.busyTimeout.Milliseconds()),
	}
	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	if err := migrate(ctx, conn, s.logger); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	s.logger.Info(ctx, "sqlite store opened", logger.String("path", path))
	return &SQLiteStore{conn: conn, path: path, log: s.logger}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

// Driver implements Store.
func (s *SQLiteStore) Driver() string { return DriverSQLite }

// Read implements Store.
func (s *SQLiteStore) Read(ctx context.Context, key Key, dst any) (found bool, err error) {
	defer observe(DriverSQLite, "read", time.Now(), &err)
	if s.closed.Load() {
		return false, ErrClosed
	}

	var raw string
	err = s.conn.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, string(key)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

// Write implements Store.
func (s *SQLiteStore) Write(ctx context.Context, key Key, v any) (err error) {
	defer observe(DriverSQLite, "write", time.Now(), &err)
	if s.closed.Load() {
		return ErrClosed
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.conn.ExecContext(ctx, `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(key), string(b), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	s.log.Debug(ctx, "document written", logger.String("key", string(key)), logger.Int("bytes", len(b)))
	return nil
}

// Remove implements Store.
func (s *SQLiteStore) Remove(ctx context.Context, key Key) (err error) {
	defer observe(DriverSQLite, "remove", time.Now(), &err)
	if s.closed.Load() {
		return ErrClosed
	}
	if _, err = s.conn.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, string(key)); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.conn.Close()
}
