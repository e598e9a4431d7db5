package sqlitestore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/stocklight/go-inventory-client/storage"
)

const (
	dirPermissions  = 0750
	filePermissions = 0600

	// busyTimeoutMs is the maximum time to wait for a database lock.
	busyTimeoutMs = 5000
)

const schema = `
CREATE TABLE IF NOT EXISTS session_markers (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

var _ storage.Repo = (*Store)(nil)

// Store is a storage.Repo backed by a local SQLite file, so session markers
// survive process restarts. The file is created with 0600 permissions because
// it holds the bearer token.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the marker database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL", path, busyTimeoutMs)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening storage database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating session_markers table: %w", err)
	}

	if err := os.Chmod(path, filePermissions); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("restricting storage file permissions: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM session_markers WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", storage.NotFoundErr
	}
	if err != nil {
		return "", fmt.Errorf("reading marker %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) Put(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO session_markers (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing marker %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM session_markers WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting marker %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
