package snapshot

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/michaelscutari/docstat/internal/catalog"
	"github.com/michaelscutari/docstat/internal/entry"

	_ "modernc.org/sqlite"
)

const (
	snapshotPrefix = "docstat-"
	snapshotSuffix = ".db"
	latestName     = "latest.db"
	lockName       = ".docstat.lock"
)

// ErrLocked is returned when another run holds the catalog directory.
var ErrLocked = errors.New("another run is in progress")

// Manager handles the catalog lifecycle including locking and retention.
type Manager struct {
	outputDir string
	retention int
	logger    *log.Logger
	lockFile  *os.File
}

// NewManager creates a new snapshot manager.
func NewManager(outputDir string, retention int, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		outputDir: outputDir,
		retention: retention,
		logger:    logger,
	}
}

// Session is an open catalog being written by one run. It records every
// emitted directory and becomes a snapshot on Commit.
type Session struct {
	*catalog.Recorder

	mgr      *Manager
	db       *sql.DB
	tempPath string
	done     bool
}

// Begin locks the output directory and opens a temporary catalog.
func (m *Manager) Begin() (*Session, error) {
	if err := os.MkdirAll(m.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := m.acquireLock(); err != nil {
		return nil, err
	}

	tempPath := filepath.Join(m.outputDir, fmt.Sprintf(".docstat-temp-%d.db", time.Now().UnixNano()))
	database, err := sql.Open("sqlite", tempPath)
	if err != nil {
		m.releaseLock()
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	database.SetMaxOpenConns(1)

	fail := func(err error) (*Session, error) {
		database.Close()
		removeTemp(tempPath)
		m.releaseLock()
		return nil, err
	}

	if err := catalog.InitSchema(database); err != nil {
		return fail(fmt.Errorf("failed to initialize schema: %w", err))
	}
	if err := catalog.ApplyWritePragmas(database); err != nil {
		return fail(fmt.Errorf("failed to apply pragmas: %w", err))
	}
	rec, err := catalog.NewRecorder(database, catalog.DefaultBatchSize)
	if err != nil {
		return fail(err)
	}

	return &Session{
		Recorder: rec,
		mgr:      m,
		db:       database,
		tempPath: tempPath,
	}, nil
}

// Commit writes the run metadata, finalizes the catalog, publishes it as
// the latest snapshot and prunes old ones. It returns the snapshot path.
func (s *Session) Commit(meta entry.RunMeta) (string, error) {
	if s.done {
		return "", fmt.Errorf("session already closed")
	}
	s.done = true
	m := s.mgr
	defer m.releaseLock()

	fail := func(err error) (string, error) {
		s.Recorder.Close()
		s.db.Close()
		removeTemp(s.tempPath)
		return "", err
	}

	if err := s.WriteMeta(meta); err != nil {
		return fail(err)
	}
	s.Recorder.Close()
	if err := catalog.BuildIndexes(s.db); err != nil {
		return fail(fmt.Errorf("failed to build indexes: %w", err))
	}
	if err := catalog.Finalize(s.db); err != nil {
		return fail(fmt.Errorf("failed to finalize database: %w", err))
	}
	s.db.Close()

	finalName := m.nextName(time.Now())
	finalPath := filepath.Join(m.outputDir, finalName)
	if err := os.Rename(s.tempPath, finalPath); err != nil {
		removeTemp(s.tempPath)
		return "", fmt.Errorf("failed to rename database: %w", err)
	}

	// Swap latest.db via temp symlink + rename
	latestPath := filepath.Join(m.outputDir, latestName)
	tempLink := filepath.Join(m.outputDir, ".latest.db.tmp")
	os.Remove(tempLink)
	if err := os.Symlink(finalName, tempLink); err == nil {
		if err := os.Rename(tempLink, latestPath); err != nil {
			os.Remove(tempLink)
			m.logger.Warn("failed to update latest.db symlink", "err", err)
		}
	} else {
		m.logger.Warn("failed to create latest.db symlink", "err", err)
	}

	if err := m.pruneOldSnapshots(); err != nil {
		m.logger.Warn("failed to prune old snapshots", "err", err)
	}

	m.logger.Debug("catalog written", "path", finalPath)
	return finalPath, nil
}

// Abort discards the temporary catalog and releases the lock.
func (s *Session) Abort() {
	if s.done {
		return
	}
	s.done = true
	s.Recorder.Close()
	s.db.Close()
	removeTemp(s.tempPath)
	s.mgr.releaseLock()
}

func removeTemp(path string) {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		os.Remove(p)
	}
}

// nextName picks a snapshot file name for t that does not exist yet.
func (m *Manager) nextName(t time.Time) string {
	base := snapshotPrefix + t.Format("20060102-150405")
	name := base + snapshotSuffix
	for i := 1; ; i++ {
		if _, err := os.Lstat(filepath.Join(m.outputDir, name)); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("%s_%d%s", base, i, snapshotSuffix)
	}
}

func (m *Manager) acquireLock() error {
	lockPath := filepath.Join(m.outputDir, lockName)
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return ErrLocked
	}

	m.lockFile = f
	return nil
}

func (m *Manager) releaseLock() {
	if m.lockFile != nil {
		syscall.Flock(int(m.lockFile.Fd()), syscall.LOCK_UN)
		m.lockFile.Close()
		m.lockFile = nil
	}
}

func isSnapshot(name string) bool {
	return strings.HasPrefix(name, snapshotPrefix) && strings.HasSuffix(name, snapshotSuffix)
}

func (m *Manager) pruneOldSnapshots() error {
	if m.retention <= 0 {
		return nil
	}

	snapshots, err := m.ListSnapshots()
	if err != nil {
		return err
	}

	for len(snapshots) > m.retention {
		if err := os.Remove(snapshots[0]); err != nil {
			return fmt.Errorf("failed to remove %s: %w", snapshots[0], err)
		}
		m.logger.Debug("pruned snapshot", "path", snapshots[0])
		snapshots = snapshots[1:]
	}

	return nil
}

// GetLatest returns the path to the latest snapshot.
func (m *Manager) GetLatest() (string, error) {
	latestPath := filepath.Join(m.outputDir, latestName)
	resolved, err := filepath.EvalSymlinks(latestPath)
	if err != nil {
		return "", fmt.Errorf("no latest snapshot found: %w", err)
	}
	return resolved, nil
}

// ListSnapshots returns all available snapshots, oldest first.
func (m *Manager) ListSnapshots() ([]string, error) {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return nil, err
	}

	var snapshots []string
	for _, e := range entries {
		if !e.IsDir() && isSnapshot(e.Name()) {
			snapshots = append(snapshots, filepath.Join(m.outputDir, e.Name()))
		}
	}

	sort.Strings(snapshots)
	return snapshots, nil
}

// Open opens a snapshot read-only for browsing.
func Open(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	if err := catalog.ApplyReadPragmas(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	return database, nil
}
