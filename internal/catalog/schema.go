package catalog

import (
	"database/sql"
	"fmt"
)

const dirsTableDDL = `
CREATE TABLE IF NOT EXISTS dirs (
    id INTEGER PRIMARY KEY,
    path TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL,
    parent_id INTEGER,
    depth INTEGER NOT NULL,
    role TEXT NOT NULL
);
`

const documentsTableDDL = `
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY,
    dir_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    file_name TEXT NOT NULL,
    size INTEGER NOT NULL,
    volume INTEGER NOT NULL
);
`

const rollupsTableDDL = `
CREATE TABLE IF NOT EXISTS rollups (
    dir_id INTEGER PRIMARY KEY,
    total_documents INTEGER NOT NULL,
    total_volume INTEGER NOT NULL,
    total_bytes INTEGER NOT NULL
);
`

const runMetaTableDDL = `
CREATE TABLE IF NOT EXISTS run_meta (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    root_path TEXT NOT NULL,
    collection TEXT NOT NULL,
    start_time INTEGER NOT NULL,
    end_time INTEGER,
    documents INTEGER DEFAULT 0,
    dirs INTEGER DEFAULT 0,
    volume INTEGER DEFAULT 0,
    bytes INTEGER DEFAULT 0,
    pages INTEGER DEFAULT 0,
    error_count INTEGER DEFAULT 0
);
`

const runErrorsTableDDL = `
CREATE TABLE IF NOT EXISTS run_errors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL,
    op TEXT NOT NULL,
    message TEXT NOT NULL
);
`

const dirsParentIndexDDL = `CREATE INDEX IF NOT EXISTS idx_dirs_parent ON dirs(parent_id);`
const documentsDirIndexDDL = `CREATE INDEX IF NOT EXISTS idx_documents_dir ON documents(dir_id);`
const rollupsBytesIndexDDL = `CREATE INDEX IF NOT EXISTS idx_rollups_bytes ON rollups(total_bytes DESC);`
const rollupsDocumentsIndexDDL = `CREATE INDEX IF NOT EXISTS idx_rollups_documents ON rollups(total_documents DESC);`

// InitSchema creates all tables in the database.
func InitSchema(db *sql.DB) error {
	ddls := []string{
		dirsTableDDL,
		documentsTableDDL,
		rollupsTableDDL,
		runMetaTableDDL,
		runErrorsTableDDL,
	}

	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to execute DDL: %w", err)
		}
	}

	return nil
}

// ApplyWritePragmas configures SQLite for a single bulk write.
func ApplyWritePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}

	return nil
}

// ApplyReadPragmas configures SQLite for read-only browsing.
func ApplyReadPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA temp_store = MEMORY",
		"PRAGMA query_only = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}

	return nil
}

// BuildIndexes creates indexes after the data load.
func BuildIndexes(db *sql.DB) error {
	indexes := []string{
		dirsParentIndexDDL,
		documentsDirIndexDDL,
		rollupsBytesIndexDDL,
		rollupsDocumentsIndexDDL,
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Finalize prepares the database for read-only access.
func Finalize(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA optimize"); err != nil {
		return fmt.Errorf("failed to optimize: %w", err)
	}

	// Switch from WAL to DELETE so the snapshot is a single file
	if _, err := db.Exec("PRAGMA journal_mode = DELETE"); err != nil {
		return fmt.Errorf("failed to set journal mode: %w", err)
	}

	return nil
}
