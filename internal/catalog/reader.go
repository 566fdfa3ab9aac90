package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/michaelscutari/docstat/internal/entry"
	"github.com/michaelscutari/docstat/internal/pathutil"
)

// DisplayEntry is a catalog row prepared for listing.
type DisplayEntry struct {
	Path      string
	Name      string
	Kind      entry.Kind
	Role      string
	Documents int64
	Volume    int64
	Bytes     int64
}

// LoadChildren loads the subdirectories and documents of a directory.
func LoadChildren(db *sql.DB, parentPath, sortBy string, limit int) ([]DisplayEntry, error) {
	parentPath = pathutil.Normalize(parentPath)
	orderClause := "bytes DESC, name ASC"
	switch sortBy {
	case "name":
		orderClause = "name ASC"
	case "documents", "docs":
		orderClause = "documents DESC, name ASC"
	case "volume", "words":
		orderClause = "volume DESC, name ASC"
	case "size", "bytes":
		orderClause = "bytes DESC, name ASC"
	}

	query := fmt.Sprintf(`
		SELECT d.path, d.name, ? as kind, d.role,
		       COALESCE(r.total_documents, 0) as documents,
		       COALESCE(r.total_volume, 0) as volume,
		       COALESCE(r.total_bytes, 0) as bytes
		FROM dirs d
		LEFT JOIN rollups r ON r.dir_id = d.id
		WHERE d.parent_id = ?

		UNION ALL

		SELECT (pd.path || '/' || doc.file_name) as path, doc.name, ? as kind, '' as role,
		       1 as documents,
		       doc.volume as volume,
		       doc.size as bytes
		FROM documents doc
		JOIN dirs pd ON pd.id = doc.dir_id
		WHERE doc.dir_id = ?
		ORDER BY %s
		LIMIT ?
	`, orderClause)

	parentID, err := lookupDirID(db, parentPath)
	if err != nil {
		return nil, fmt.Errorf("parent not found: %w", err)
	}

	rows, err := db.Query(query, entry.KindDir, parentID, entry.KindDocument, parentID, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []DisplayEntry
	for rows.Next() {
		var e DisplayEntry
		if err := rows.Scan(&e.Path, &e.Name, &e.Kind, &e.Role, &e.Documents, &e.Volume, &e.Bytes); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// GetRollup retrieves the totals of a directory. It returns nil when the
// path is not in the catalog.
func GetRollup(db *sql.DB, path string) (*entry.Aggregate, error) {
	dirID, err := lookupDirID(db, pathutil.Normalize(path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var agg entry.Aggregate
	err = db.QueryRow(`
		SELECT total_documents, total_volume, total_bytes
		FROM rollups WHERE dir_id = ?
	`, dirID).Scan(&agg.Documents, &agg.Volume, &agg.Bytes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

// GetRole returns the role recorded for a directory.
func GetRole(db *sql.DB, path string) (string, error) {
	var r string
	err := db.QueryRow(`SELECT role FROM dirs WHERE path = ?`, pathutil.Normalize(path)).Scan(&r)
	if err != nil {
		return "", fmt.Errorf("failed to read role of %s: %w", path, err)
	}
	return r, nil
}

// GetRunMeta retrieves the run metadata.
func GetRunMeta(db *sql.DB) (*entry.RunMeta, error) {
	var m entry.RunMeta
	var startTime, endTime int64

	err := db.QueryRow(`
		SELECT root_path, collection, start_time, COALESCE(end_time, 0),
		       documents, dirs, volume, bytes, pages, error_count
		FROM run_meta WHERE id = 1
	`).Scan(&m.RootPath, &m.Collection, &startTime, &endTime,
		&m.Documents, &m.Dirs, &m.Volume, &m.Bytes, &m.Pages, &m.ErrorCount)
	if err != nil {
		return nil, err
	}

	m.StartTime = time.Unix(startTime, 0)
	if endTime > 0 {
		m.EndTime = time.Unix(endTime, 0)
	}
	return &m, nil
}

// GetErrors returns up to limit recorded run errors.
func GetErrors(db *sql.DB, limit int) ([]entry.ScanError, error) {
	rows, err := db.Query(`SELECT path, op, message FROM run_errors ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var errs []entry.ScanError
	for rows.Next() {
		var e entry.ScanError
		if err := rows.Scan(&e.Path, &e.Op, &e.Message); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		errs = append(errs, e)
	}
	return errs, rows.Err()
}
