package scan

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/michaelscutari/docstat/internal/config"
	"github.com/michaelscutari/docstat/internal/entry"
	"github.com/michaelscutari/docstat/internal/fsys"
	"github.com/michaelscutari/docstat/internal/metrics"
	"github.com/michaelscutari/docstat/internal/pathutil"
)

var (
	// ErrRootNotFound is returned when the scan root does not exist.
	ErrRootNotFound = errors.New("root path does not exist")
	// ErrRootNotDir is returned when the scan root is not a directory.
	ErrRootNotDir = errors.New("root path is not a directory")
)

// ProgressFunc reports scan progress.
type ProgressFunc func(dirs, documents int64)

// Scanner builds the in-memory document tree.
type Scanner struct {
	cfg      config.Config
	fs       fsys.FS
	logger   *log.Logger
	progress ProgressFunc

	dirs      int64
	documents int64
	errors    []entry.ScanError
}

// NewScanner creates a new scanner. A nil logger discards output.
func NewScanner(cfg config.Config, fs fsys.FS, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scanner{
		cfg:    cfg,
		fs:     fs,
		logger: logger,
	}
}

// SetProgressFunc sets a callback invoked after each directory is listed.
func (s *Scanner) SetProgressFunc(f ProgressFunc) {
	s.progress = f
}

// Run scans root. A missing root is fatal; anything missing below it is not.
func (s *Scanner) Run(root string) (*entry.DirNode, error) {
	root = pathutil.Normalize(root)
	isDir, err := s.fs.IsDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}
	if !isDir {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDir, root)
	}
	return s.Scan(root, 0), nil
}

// Scan lists path and recursively scans its sub-directories. If path cannot
// be listed, an empty node is returned and a warning is recorded.
func (s *Scanner) Scan(path string, depth int) *entry.DirNode {
	node := &entry.DirNode{
		Name:  filepath.Base(path),
		Path:  path,
		Depth: depth,
	}

	entries, err := s.fs.ListEntries(path)
	if err != nil {
		s.logger.Warn("cannot list directory", "path", path, "err", err)
		s.errors = append(s.errors, entry.ScanError{Path: path, Op: "list", Message: err.Error()})
		return node
	}
	s.dirs++

	var docs, subdirs []string
	for _, e := range entries {
		childPath := filepath.Join(path, e.Name)
		if s.cfg.ShouldExclude(childPath) {
			s.logger.Debug("excluded", "path", childPath)
			continue
		}
		switch {
		case e.IsDir:
			subdirs = append(subdirs, e.Name)
		case s.cfg.IsDocument(e.Name):
			docs = append(docs, e.Name)
		}
	}

	sort.Strings(docs)
	sort.Strings(subdirs)

	for _, name := range docs {
		docPath := filepath.Join(path, name)
		m := metrics.MeasureFile(s.fs, docPath)
		node.Files = append(node.Files, &entry.FileNode{
			Name:          s.cfg.DocumentName(name),
			FileName:      name,
			Path:          docPath,
			Depth:         depth + 1,
			Size:          m.Size,
			FormattedSize: m.FormattedSize,
			Volume:        m.Volume,
		})
		s.documents++
	}

	if s.progress != nil {
		s.progress(s.dirs, s.documents)
	}

	for _, name := range subdirs {
		node.Dirs = append(node.Dirs, s.Scan(filepath.Join(path, name), depth+1))
	}

	return node
}

// Errors returns the non-fatal errors recorded so far.
func (s *Scanner) Errors() []entry.ScanError {
	return s.errors
}

// Counts returns the number of directories listed and documents measured.
func (s *Scanner) Counts() (dirs, documents int64) {
	return s.dirs, s.documents
}
