// Package db manages the SQLite store: connection setup, schema creation,
// registered scalar functions, and shared SQL helpers.
package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver
)

var registerOnce sync.Once

// Open opens (or creates) the store at the given path and ensures the
// schema exists. WAL mode and foreign keys are enabled via DSN pragmas so
// every pooled connection gets them.
func Open(path string) (*sql.DB, error) {
	registerOnce.Do(registerFunctions)

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	dsn := "file:" + path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := createSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}
