package preference

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const createPreferencesTable = `CREATE TABLE IF NOT EXISTS preferences (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteStore keeps preferences in a SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	key string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path, key string) (store *SQLiteStore, err error) {
	if path == "" {
		err = errors.New("sqlite database path is required")
		return store, err
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create database directory: %s", dir)
		return store, err
	}

	var db *sql.DB
	db, err = sql.Open("sqlite", path)
	if err != nil {
		err = errors.Wrapf(err, "failed to open sqlite database: %s", path)
		return store, err
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	_, err = db.ExecContext(ctx, createPreferencesTable)
	if err != nil {
		_ = db.Close()
		err = errors.Wrap(err, "failed to create preferences table")
		return store, err
	}

	store = &SQLiteStore{
		db:  db,
		key: key,
	}
	return store, err
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context) (code string, found bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, s.key).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return code, found, err
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to read preference %s", s.key)
		return code, found, err
	}

	found = true
	return code, found, err
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, code string) (err error) {
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		s.key, code)
	if err != nil {
		err = errors.Wrapf(err, "failed to write preference %s", s.key)
		return err
	}
	return err
}

// Close implements Store.
func (s *SQLiteStore) Close() (err error) {
	err = s.db.Close()
	return err
}
