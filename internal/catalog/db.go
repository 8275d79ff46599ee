// Package catalog maintains a queryable SQLite index of archives. The
// catalog is derived data: it is rebuilt at any time from the history log
// and the destination directory, so losing it never loses information.
package catalog

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Catalog provides SQLite database operations for the archive index.
type Catalog struct {
	db *sql.DB
}

// DefaultFileName is the catalog database created in the destination
// directory unless configured otherwise.
const DefaultFileName = "logsweep.db"

// Open creates or opens a catalog at the specified database path.
// Use ":memory:" for in-memory databases (useful for testing).
func Open(dbPath string) (*Catalog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB returns the underlying database connection for advanced queries.
func (c *Catalog) DB() *sql.DB {
	return c.db
}
