package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// DB wraps the shared SQLite handle used by the HTTP surface.
type DB struct {
	*sql.DB

	log *logrus.Logger
}

// Open opens the SQLite database at path, creating the parent directory if
// needed, and applies pending migrations before returning.
func Open(ctx context.Context, path string, log *logrus.Logger) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_timeout=10000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", path, err)
	}

	if err := Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database %s: %w", path, err)
	}

	log.WithField("path", path).Info("database ready")
	return &DB{DB: conn, log: log}, nil
}

// Close closes the underlying handle.
func (db *DB) Close() error {
	db.log.Debug("closing database")
	return db.DB.Close()
}
