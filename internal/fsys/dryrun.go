package fsys

import "sync"

// DryRun wraps an FS and records writes instead of performing them.
type DryRun struct {
	FS

	mu     sync.Mutex
	writes []Write
}

// Write is a write that DryRun skipped.
type Write struct {
	Path  string
	Bytes int
}

// NewDryRun returns a DryRun reading through base.
func NewDryRun(base FS) *DryRun {
	return &DryRun{FS: base}
}

func (d *DryRun) WriteFile(path string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes = append(d.writes, Write{Path: path, Bytes: len(data)})
	return nil
}

// Writes returns the skipped writes in the order they were requested.
func (d *DryRun) Writes() []Write {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Write, len(d.writes))
	copy(out, d.writes)
	return out
}
