package catalog

import (
	"database/sql"
	"fmt"
	"time"
)

// Upsert inserts or replaces an archive row.
func (c *Catalog) Upsert(a *Archive) error {
	query := `
		INSERT OR REPLACE INTO archives
		(name, created_at, files, size_bytes, source, present)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(query,
		a.Name,
		a.CreatedAt.Format(time.RFC3339),
		a.Files,
		a.SizeBytes,
		a.Source,
		a.Present,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert archive %s: %w", a.Name, err)
	}

	return nil
}

// Get retrieves an archive by name.
func (c *Catalog) Get(name string) (*Archive, error) {
	query := `
		SELECT name, created_at, files, size_bytes, source, present
		FROM archives
		WHERE name = ?
	`

	var a Archive
	var createdAt string

	err := c.db.QueryRow(query, name).Scan(
		&a.Name,
		&createdAt,
		&a.Files,
		&a.SizeBytes,
		&a.Source,
		&a.Present,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("archive %s not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get archive %s: %w", name, err)
	}

	a.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for %s: %w", name, err)
	}

	return &a, nil
}

// List returns all archives ordered by creation time (newest first).
func (c *Catalog) List() ([]*Archive, error) {
	query := `
		SELECT name, created_at, files, size_bytes, source, present
		FROM archives
		ORDER BY created_at DESC, name DESC
	`

	rows, err := c.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}
	defer rows.Close()

	var archives []*Archive
	for rows.Next() {
		var a Archive
		var createdAt string

		err := rows.Scan(
			&a.Name,
			&createdAt,
			&a.Files,
			&a.SizeBytes,
			&a.Source,
			&a.Present,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan archive row: %w", err)
		}

		a.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for %s: %w", a.Name, err)
		}

		archives = append(archives, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating archives: %w", err)
	}

	return archives, nil
}

// Delete removes an archive row by name.
func (c *Catalog) Delete(name string) error {
	result, err := c.db.Exec(`DELETE FROM archives WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete archive %s: %w", name, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("archive %s not found", name)
	}

	return nil
}

// Clear removes every row. Used before a full rebuild.
func (c *Catalog) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM archives`); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	return nil
}

// Stats aggregates the catalog for the stats command.
func (c *Catalog) Stats() (*Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(present), 0),
			COALESCE(SUM(files), 0),
			COALESCE(SUM(size_bytes), 0),
			COUNT(DISTINCT CASE WHEN source != '' THEN source END),
			COALESCE(MIN(created_at), ''),
			COALESCE(MAX(created_at), '')
		FROM archives
	`

	var s Stats
	var oldest, newest string

	err := c.db.QueryRow(query).Scan(
		&s.Archives,
		&s.Present,
		&s.TotalFiles,
		&s.TotalBytes,
		&s.Sources,
		&oldest,
		&newest,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	if oldest != "" {
		s.OldestAt, err = time.Parse(time.RFC3339, oldest)
		if err != nil {
			return nil, fmt.Errorf("failed to parse oldest timestamp: %w", err)
		}
	}
	if newest != "" {
		s.NewestAt, err = time.Parse(time.RFC3339, newest)
		if err != nil {
			return nil, fmt.Errorf("failed to parse newest timestamp: %w", err)
		}
	}

	return &s, nil
}
