package catalog

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/michaelscutari/docstat/internal/entry"
	"github.com/michaelscutari/docstat/internal/role"
)

const insertDirSQL = `INSERT INTO dirs (id, path, name, parent_id, depth, role) VALUES (?, ?, ?, ?, ?, ?)`
const insertDocumentSQL = `INSERT INTO documents (dir_id, name, file_name, size, volume) VALUES (?, ?, ?, ?, ?)`
const insertRollupSQL = `INSERT OR REPLACE INTO rollups (dir_id, total_documents, total_volume, total_bytes) VALUES (?, ?, ?, ?)`
const insertErrorSQL = `INSERT INTO run_errors (path, op, message) VALUES (?, ?, ?)`

const maxErrorsSampled = 1000

// DefaultBatchSize is the number of rows written per transaction.
const DefaultBatchSize = 1000

type dirRow struct {
	id       int64
	path     string
	name     string
	parentID int64
	depth    int
	role     string
}

type documentRow struct {
	dirID    int64
	name     string
	fileName string
	size     int64
	volume   int64
}

type rollupRow struct {
	dirID int64
	agg   entry.Aggregate
}

// Recorder batches directories, documents and rollups of a run and writes
// them to the catalog. Directories must be recorded parents first.
type Recorder struct {
	db        *sql.DB
	batchSize int

	ids    map[string]int64
	nextID int64

	dirBatch      []dirRow
	documentBatch []documentRow
	rollupBatch   []rollupRow

	dirStmt      *sql.Stmt
	documentStmt *sql.Stmt
	rollupStmt   *sql.Stmt
	errorStmt    *sql.Stmt
}

// NewRecorder prepares a recorder on a database with an initialized schema.
func NewRecorder(db *sql.DB, batchSize int) (*Recorder, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	r := &Recorder{
		db:        db,
		batchSize: batchSize,
		ids:       make(map[string]int64),
		nextID:    1,
	}

	var err error
	if r.dirStmt, err = db.Prepare(insertDirSQL); err != nil {
		return nil, fmt.Errorf("failed to prepare dir statement: %w", err)
	}
	if r.documentStmt, err = db.Prepare(insertDocumentSQL); err != nil {
		r.Close()
		return nil, fmt.Errorf("failed to prepare document statement: %w", err)
	}
	if r.rollupStmt, err = db.Prepare(insertRollupSQL); err != nil {
		r.Close()
		return nil, fmt.Errorf("failed to prepare rollup statement: %w", err)
	}
	if r.errorStmt, err = db.Prepare(insertErrorSQL); err != nil {
		r.Close()
		return nil, fmt.Errorf("failed to prepare error statement: %w", err)
	}
	return r, nil
}

// RecordDir queues a directory, its direct documents and its rollup.
func (r *Recorder) RecordDir(node *entry.DirNode, ro role.Role, agg entry.Aggregate) error {
	id := r.nextID
	r.nextID++
	r.ids[node.Path] = id

	var parentID int64
	if node.Depth > 0 {
		parentID = r.ids[filepath.Dir(node.Path)]
	}

	r.dirBatch = append(r.dirBatch, dirRow{
		id:       id,
		path:     node.Path,
		name:     node.Name,
		parentID: parentID,
		depth:    node.Depth,
		role:     ro.String(),
	})
	for _, f := range node.Files {
		r.documentBatch = append(r.documentBatch, documentRow{
			dirID:    id,
			name:     f.Name,
			fileName: f.FileName,
			size:     f.Size,
			volume:   f.Volume,
		})
	}
	r.rollupBatch = append(r.rollupBatch, rollupRow{dirID: id, agg: agg})

	if len(r.dirBatch) >= r.batchSize || len(r.documentBatch) >= r.batchSize {
		return r.Flush()
	}
	return nil
}

// RecordErrors writes up to maxErrorsSampled run errors.
func (r *Recorder) RecordErrors(errs []entry.ScanError) error {
	if len(errs) > maxErrorsSampled {
		errs = errs[:maxErrorsSampled]
	}
	if len(errs) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin error transaction: %w", err)
	}

	stmt := tx.Stmt(r.errorStmt)
	for _, e := range errs {
		if _, err := stmt.Exec(e.Path, e.Op, e.Message); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert error for %q: %w", e.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit error transaction: %w", err)
	}
	return nil
}

// Flush writes all queued rows in one transaction.
func (r *Recorder) Flush() error {
	if len(r.dirBatch) == 0 && len(r.documentBatch) == 0 && len(r.rollupBatch) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	dirStmt := tx.Stmt(r.dirStmt)
	for _, d := range r.dirBatch {
		if _, err := dirStmt.Exec(d.id, d.path, d.name, d.parentID, d.depth, d.role); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert dir %q: %w", d.path, err)
		}
	}

	documentStmt := tx.Stmt(r.documentStmt)
	for _, d := range r.documentBatch {
		if _, err := documentStmt.Exec(d.dirID, d.name, d.fileName, d.size, d.volume); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert document %q: %w", d.fileName, err)
		}
	}

	rollupStmt := tx.Stmt(r.rollupStmt)
	for _, ru := range r.rollupBatch {
		if _, err := rollupStmt.Exec(ru.dirID, ru.agg.Documents, ru.agg.Volume, ru.agg.Bytes); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert rollup %d: %w", ru.dirID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.dirBatch = r.dirBatch[:0]
	r.documentBatch = r.documentBatch[:0]
	r.rollupBatch = r.rollupBatch[:0]
	return nil
}

// WriteMeta flushes queued rows and stores the run metadata.
func (r *Recorder) WriteMeta(meta entry.RunMeta) error {
	if err := r.Flush(); err != nil {
		return err
	}
	_, err := r.db.Exec(
		`INSERT OR REPLACE INTO run_meta (id, root_path, collection, start_time, end_time, documents, dirs, volume, bytes, pages, error_count)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.RootPath, meta.Collection, meta.StartTime.Unix(), meta.EndTime.Unix(),
		meta.Documents, meta.Dirs, meta.Volume, meta.Bytes, meta.Pages, meta.ErrorCount,
	)
	if err != nil {
		return fmt.Errorf("failed to write run metadata: %w", err)
	}
	return nil
}

// Close releases the prepared statements.
func (r *Recorder) Close() error {
	for _, stmt := range []*sql.Stmt{r.dirStmt, r.documentStmt, r.rollupStmt, r.errorStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
