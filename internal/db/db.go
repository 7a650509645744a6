// Package db stores the lookup history in SQLite.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"

	"github.com/ryanm101/gameswiki/internal/games"
)

// SchemaVersion is the latest migration applied by Open.
const SchemaVersion = 2

// DB wraps a SQLite database connection.
type DB struct {
	conn *sql.DB
	path string
}

// NewSessionID returns a fresh id for stamping one process's history rows.
func NewSessionID() string {
	return uuid.NewString()
}

// Open opens or creates a SQLite database at the given path.
func Open(ctx context.Context, path string) (*DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	conn, err := otelsql.Open("sqlite", path,
		otelsql.WithAttributes(attribute.String("db.system", "sqlite")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serialises writers; one connection also keeps :memory: databases coherent.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, path: path}
	if err := db.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Path returns the database location.
func (db *DB) Path() string {
	return db.path
}

// migrate runs database migrations up to the current schema version.
func (db *DB) migrate(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var version int
	err := db.conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if version < 1 {
		if err := db.migrateV1(ctx); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := db.migrateV2(ctx); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the lookup history table.
func (db *DB) migrateV1(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS lookup_history (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			game_name TEXT NOT NULL,
			appid TEXT,
			site_id TEXT NOT NULL,
			url TEXT NOT NULL,
			succeeded INTEGER NOT NULL DEFAULT 0,
			opened_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_lookup_history_opened_at ON lookup_history(opened_at);

		INSERT INTO schema_version (version) VALUES (1);
	`

	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute v1 migration: %w", err)
	}
	return nil
}

// migrateV2 indexes lookups by site for the per-site summary.
func (db *DB) migrateV2(ctx context.Context) error {
	schema := `
		CREATE INDEX IF NOT EXISTS idx_lookup_history_site_id ON lookup_history(site_id);

		INSERT INTO schema_version (version) VALUES (2);
	`

	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute v2 migration: %w", err)
	}
	return nil
}

// RecordOpen stores one link-open attempt.
func (db *DB) RecordOpen(ctx context.Context, l games.Lookup) error {
	openedAt := l.OpenedAt
	if openedAt.IsZero() {
		openedAt = time.Now()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO lookup_history (session_id, game_name, appid, site_id, url, succeeded, opened_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, l.SessionID, l.GameName, l.AppID, l.SiteID, l.URL, l.Succeeded, openedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record lookup: %w", err)
	}
	return nil
}

// Recent returns up to limit lookups, newest first.
func (db *DB) Recent(ctx context.Context, limit int) ([]games.Lookup, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, session_id, game_name, COALESCE(appid, ''), site_id, url, succeeded, opened_at
		FROM lookup_history
		ORDER BY opened_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []games.Lookup{}
	for rows.Next() {
		var l games.Lookup
		var openedAt int64
		if err := rows.Scan(&l.ID, &l.SessionID, &l.GameName, &l.AppID, &l.SiteID, &l.URL, &l.Succeeded, &openedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		l.OpenedAt = time.UnixMilli(openedAt).UTC()
		out = append(out, l)
	}
	return out, rows.Err()
}

// SiteCount is the number of lookups made against one site.
type SiteCount struct {
	SiteID string `json:"site"`
	Count  int    `json:"count"`
}

// CountBySite returns lookup totals per site, most used first.
func (db *DB) CountBySite(ctx context.Context) ([]SiteCount, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT site_id, COUNT(*) AS n
		FROM lookup_history
		GROUP BY site_id
		ORDER BY n DESC, site_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count lookups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []SiteCount{}
	for rows.Next() {
		var c SiteCount
		if err := rows.Scan(&c.SiteID, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan site count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
