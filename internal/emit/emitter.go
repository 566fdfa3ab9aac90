package emit

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/michaelscutari/docstat/internal/config"
	"github.com/michaelscutari/docstat/internal/entry"
	"github.com/michaelscutari/docstat/internal/fsys"
	"github.com/michaelscutari/docstat/internal/render"
	"github.com/michaelscutari/docstat/internal/role"
)

// VisitFunc is called once per directory after its pages were written.
type VisitFunc func(node *entry.DirNode, r role.Role)

// ProgressFunc reports the number of directories emitted so far.
type ProgressFunc func(done int64)

// Emitter walks the scanned tree and writes an index page and a sidebar
// into every directory.
type Emitter struct {
	cfg     config.Config
	fs      fsys.FS
	builder *render.Builder
	logger  *log.Logger

	visit    VisitFunc
	progress ProgressFunc

	dirs   int64
	pages  int64
	errors []entry.ScanError
}

// New creates an emitter for the tree rooted at cfg.Root.
func New(cfg config.Config, fs fsys.FS, agg render.Aggregates, logger *log.Logger) *Emitter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Emitter{
		cfg:     cfg,
		fs:      fs,
		builder: render.NewBuilder(cfg, agg, cfg.Root),
		logger:  logger,
	}
}

// SetVisitFunc sets a callback invoked for every emitted directory.
func (e *Emitter) SetVisitFunc(f VisitFunc) {
	e.visit = f
}

// SetProgressFunc sets a callback for emit progress updates.
func (e *Emitter) SetProgressFunc(f ProgressFunc) {
	e.progress = f
}

// Run emits root and everything below it. Write failures do not stop the
// walk; they are returned joined once every directory was visited.
func (e *Emitter) Run(root *entry.DirNode) error {
	e.Emit(root, true)
	if len(e.errors) == 0 {
		return nil
	}
	errs := make([]error, 0, len(e.errors))
	for _, se := range e.errors {
		errs = append(errs, fmt.Errorf("failed to %s %s: %s", se.Op, se.Path, se.Message))
	}
	return errors.Join(errs...)
}

// Emit classifies node, writes its index page then its sidebar, and recurses
// into its sub-directories, parents before children.
func (e *Emitter) Emit(node *entry.DirNode, isRoot bool) {
	r := role.Classify(node, isRoot, e.cfg.Collection)
	index, sidebar := e.builder.RenderNode(node, r)

	e.write(e.cfg.IndexPath(node.Path), index)
	e.write(e.cfg.SidebarPath(node.Path), sidebar)
	e.logger.Debug("emitted", "path", node.Path, "role", r)

	e.dirs++
	if e.visit != nil {
		e.visit(node, r)
	}
	if e.progress != nil {
		e.progress(e.dirs)
	}

	for _, sub := range node.Dirs {
		e.Emit(sub, false)
	}
}

func (e *Emitter) write(path, text string) {
	if err := e.fs.WriteFile(path, []byte(text)); err != nil {
		e.logger.Warn("cannot write page", "path", path, "err", err)
		e.errors = append(e.errors, entry.ScanError{Path: path, Op: "write", Message: err.Error()})
		return
	}
	e.pages++
}

// Pages returns the number of pages written.
func (e *Emitter) Pages() int64 {
	return e.pages
}

// Dirs returns the number of directories visited.
func (e *Emitter) Dirs() int64 {
	return e.dirs
}

// Errors returns the write failures recorded so far.
func (e *Emitter) Errors() []entry.ScanError {
	return e.errors
}
