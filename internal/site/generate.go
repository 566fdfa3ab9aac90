package site

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/michaelscutari/docstat/internal/config"
	"github.com/michaelscutari/docstat/internal/emit"
	"github.com/michaelscutari/docstat/internal/entry"
	"github.com/michaelscutari/docstat/internal/fsys"
	"github.com/michaelscutari/docstat/internal/role"
	"github.com/michaelscutari/docstat/internal/rollup"
	"github.com/michaelscutari/docstat/internal/scan"
)

// ErrRecord is returned when the run catalog could not record a directory
// or the run errors. The catalog is discarded in that case.
var ErrRecord = errors.New("failed to record")

// Recorder receives every emitted directory, e.g. to persist a run report.
type Recorder interface {
	RecordDir(node *entry.DirNode, r role.Role, agg entry.Aggregate) error
	RecordErrors(errs []entry.ScanError) error
}

// Catalog is a Recorder that is published by Commit or discarded by Abort.
type Catalog interface {
	Recorder
	Commit(meta entry.RunMeta) (string, error)
	Abort()
}

// StageFunc is called when the generation stage changes.
type StageFunc func(stage string)

// Options configures a generation run.
type Options struct {
	Logger *log.Logger
	// OpenCatalog is called once the root has been scanned. Nil disables
	// the catalog.
	OpenCatalog func() (Catalog, error)
	Stage       StageFunc
	Progress    func(dirs, documents int64)
}

// Report summarizes a generation run.
type Report struct {
	Meta        entry.RunMeta
	Errors      []entry.ScanError
	CatalogPath string // Empty unless a catalog snapshot was committed
}

// Generate scans cfg.Root and writes an index page and a sidebar into every
// directory. A missing root aborts before anything is written; every other
// failure is reported and the run continues.
func Generate(cfg config.Config, fs fsys.FS, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	stage := func(s string) {
		if opts.Stage != nil {
			opts.Stage(s)
		}
	}

	start := time.Now()
	stage("scan")
	scanner := scan.NewScanner(cfg, fs, logger.WithPrefix("scan"))
	if opts.Progress != nil {
		scanner.SetProgressFunc(opts.Progress)
	}
	tree, err := scanner.Run(cfg.Root)
	if err != nil {
		return nil, err
	}

	dirs, _ := scanner.Counts()
	agg, err := rollup.NewAggregator(cfg, fs, cacheSize(dirs, len(scanner.Errors())))
	if err != nil {
		return nil, fmt.Errorf("failed to create aggregator: %w", err)
	}

	var cat Catalog
	if opts.OpenCatalog != nil {
		if cat, err = opts.OpenCatalog(); err != nil {
			return nil, fmt.Errorf("failed to open catalog: %w", err)
		}
	}

	// Totals are taken before any page is written.
	total := agg.Aggregate(tree.Path)

	stage("emit")
	em := emit.New(cfg, fs, agg, logger.WithPrefix("emit"))
	var recordErr error
	if cat != nil {
		em.SetVisitFunc(func(node *entry.DirNode, r role.Role) {
			if recordErr != nil {
				return
			}
			if err := cat.RecordDir(node, r, agg.Aggregate(node.Path)); err != nil {
				recordErr = fmt.Errorf("%w %s: %w", ErrRecord, node.Path, err)
			}
		})
	}
	writeErr := em.Run(tree)

	report := &Report{
		Meta: entry.RunMeta{
			RootPath:   tree.Path,
			Collection: cfg.Collection,
			StartTime:  start,
			EndTime:    time.Now(),
			Documents:  total.Documents,
			Dirs:       em.Dirs(),
			Volume:     total.Volume,
			Bytes:      total.Bytes,
			Pages:      em.Pages(),
		},
	}
	report.Errors = append(report.Errors, scanner.Errors()...)
	report.Errors = append(report.Errors, em.Errors()...)
	report.Meta.ErrorCount = int64(len(report.Errors))

	if writeErr != nil {
		logger.Warn("some pages could not be written", "count", len(em.Errors()))
	}

	if cat != nil {
		if recordErr == nil {
			if err := cat.RecordErrors(report.Errors); err != nil {
				recordErr = fmt.Errorf("%w errors: %w", ErrRecord, err)
			}
		}
		if recordErr != nil {
			cat.Abort()
			return report, recordErr
		}
		path, err := cat.Commit(report.Meta)
		if err != nil {
			return report, fmt.Errorf("failed to commit catalog: %w", err)
		}
		report.CatalogPath = path
	}
	return report, writeErr
}

// cacheSize returns an aggregate cache large enough to hold every scanned
// directory, so that no aggregate is recomputed after pages are written.
func cacheSize(dirs int64, unlisted int) int {
	n := int(dirs) + unlisted
	if n < rollup.DefaultCacheSize {
		return rollup.DefaultCacheSize
	}
	return n
}
