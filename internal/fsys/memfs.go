package fsys

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
)

// MemFS is an in-memory FS. Read and write failures can be injected per path.
type MemFS struct {
	mu        sync.Mutex
	files     map[string][]byte
	dirs      map[string]struct{}
	readErrs  map[string]error
	writeErrs map[string]error
}

// NewMemFS returns an empty MemFS containing only the filesystem root.
func NewMemFS() *MemFS {
	return &MemFS{
		files:     make(map[string][]byte),
		dirs:      map[string]struct{}{string(filepath.Separator): {}},
		readErrs:  make(map[string]error),
		writeErrs: make(map[string]error),
	}
}

// AddDir creates path and any missing parents.
func (m *MemFS) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirAll(filepath.Clean(path))
}

// AddFile creates a file with data, creating parent directories as needed.
func (m *MemFS) AddFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.mkdirAll(filepath.Dir(path))
	m.files[path] = data
}

// FailRead makes every read or stat of path fail with err.
func (m *MemFS) FailRead(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErrs[filepath.Clean(path)] = err
}

// FailWrite makes every write to path fail with err.
func (m *MemFS) FailWrite(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErrs[filepath.Clean(path)] = err
}

// File returns the content of path and whether it exists.
func (m *MemFS) File(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(path)]
	return data, ok
}

func (m *MemFS) mkdirAll(path string) {
	for {
		if _, ok := m.dirs[path]; ok {
			return
		}
		m.dirs[path] = struct{}{}
		parent := filepath.Dir(path)
		if parent == path {
			return
		}
		path = parent
	}
}

func (m *MemFS) ListEntries(path string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err, ok := m.readErrs[path]; ok {
		return nil, err
	}
	if _, ok := m.dirs[path]; !ok {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
	}

	var entries []Entry
	for p := range m.dirs {
		if p != path && filepath.Dir(p) == path {
			entries = append(entries, Entry{Name: filepath.Base(p), IsDir: true})
		}
	}
	for p := range m.files {
		if filepath.Dir(p) == path {
			entries = append(entries, Entry{Name: filepath.Base(p)})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (m *MemFS) ReadBytes(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err, ok := m.readErrs[path]; ok {
		return nil, err
	}
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemFS) ByteSize(path string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err, ok := m.readErrs[path]; ok {
		return 0, err
	}
	data, ok := m.files[path]
	if !ok {
		return 0, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return int64(len(data)), nil
}

func (m *MemFS) IsDir(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err, ok := m.readErrs[path]; ok {
		return false, err
	}
	if _, ok := m.dirs[path]; ok {
		return true, nil
	}
	if _, ok := m.files[path]; ok {
		return false, nil
	}
	return false, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

func (m *MemFS) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err, ok := m.writeErrs[path]; ok {
		return &fs.PathError{Op: "write", Path: path, Err: err}
	}
	if _, ok := m.dirs[filepath.Dir(path)]; !ok {
		return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if _, ok := m.dirs[path]; ok {
		return &fs.PathError{Op: "open", Path: path, Err: errors.New("is a directory")}
	}
	out := make([]byte, len(data))
	copy(out, data)
	m.files[path] = out
	return nil
}
