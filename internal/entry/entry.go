package entry

import "time"

// Kind represents the type of a tree entry.
type Kind uint8

const (
	KindDocument Kind = 0
	KindDir      Kind = 1
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindDir:
		return "dir"
	default:
		return "other"
	}
}

// FileNode is one document found by the scanner. It is never modified after
// the scan that built it.
type FileNode struct {
	Name          string // Filename without the document extension
	FileName      string // Filename as found on disk
	Path          string
	Depth         int
	Size          int64
	FormattedSize string
	Volume        int64 // Estimated content units
}

// DirNode is one scanned directory. Files and Dirs are each sorted by name.
type DirNode struct {
	Name  string
	Path  string
	Depth int
	Files []*FileNode
	Dirs  []*DirNode
}

// HasDirs reports whether the directory has at least one sub-directory.
func (d *DirNode) HasDirs() bool {
	return len(d.Dirs) > 0
}

// Dir returns the direct sub-directory with the given name, or nil.
func (d *DirNode) Dir(name string) *DirNode {
	for _, sub := range d.Dirs {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

// Walk visits d and every directory below it, parents before children.
func (d *DirNode) Walk(fn func(*DirNode)) {
	fn(d)
	for _, sub := range d.Dirs {
		sub.Walk(fn)
	}
}

// Aggregate holds recursive totals for a directory.
type Aggregate struct {
	Documents int64
	Volume    int64
	Bytes     int64 // All files, not only documents
}

// Add returns the sum of a and o.
func (a Aggregate) Add(o Aggregate) Aggregate {
	return Aggregate{
		Documents: a.Documents + o.Documents,
		Volume:    a.Volume + o.Volume,
		Bytes:     a.Bytes + o.Bytes,
	}
}

// ScanError represents a non-fatal failure encountered during a run.
type ScanError struct {
	Path    string
	Op      string
	Message string
}

// RunMeta holds metadata about a generation run.
type RunMeta struct {
	RootPath   string
	Collection string
	StartTime  time.Time
	EndTime    time.Time
	Documents  int64
	Dirs       int64
	Volume     int64
	Bytes      int64
	Pages      int64
	ErrorCount int64
}
