package fsys

import (
	"os"
	"path/filepath"
)

// Entry is one immediate child of a listed directory.
type Entry struct {
	Name  string
	IsDir bool
}

// FS is the file-system capability the generator reads documents through and
// writes pages to. Implementations must return entries sorted by name.
type FS interface {
	// ListEntries returns the immediate entries of a directory.
	ListEntries(path string) ([]Entry, error)

	// ReadBytes returns the full content of a file.
	ReadBytes(path string) ([]byte, error)

	// ByteSize returns the size of a file from its metadata.
	ByteSize(path string) (int64, error)

	// IsDir reports whether path exists and is a directory.
	IsDir(path string) (bool, error)

	// WriteFile creates or truncates path and writes data to it.
	WriteFile(path string, data []byte) error
}

// OS implements FS on the host file system.
type OS struct{}

// ListEntries uses os.ReadDir, which sorts by filename. Symlinks are not
// followed when deciding whether an entry is a directory.
func (OS) ListEntries(path string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entries = append(entries, Entry{Name: de.Name(), IsDir: de.IsDir()})
	}
	return entries, nil
}

func (OS) ReadBytes(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OS) ByteSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (OS) IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (OS) WriteFile(path string, data []byte) error {
	return os.WriteFile(filepath.Clean(path), data, 0644)
}
