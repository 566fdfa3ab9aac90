package fsys

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSListEntriesSortedWithKinds(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "b"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c.md"), []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("hi"), 0644))

	entries, err := OS{}.ListEntries(root)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "a.md"}, {Name: "b", IsDir: true}, {Name: "c.md"}}, entries)

	size, err := OS{}.ByteSize(filepath.Join(root, "c.md"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	isDir, err := OS{}.IsDir(filepath.Join(root, "b"))
	require.NoError(t, err)
	assert.True(t, isDir)

	_, err = OS{}.IsDir(filepath.Join(root, "missing"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestOSWriteFileTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, OS{}.WriteFile(path, []byte("a long first version")))
	require.NoError(t, OS{}.WriteFile(path, []byte("short")))

	data, err := OS{}.ReadBytes(path)
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}

func TestMemFSListing(t *testing.T) {
	m := NewMemFS()
	m.AddFile("/site/library/a.md", []byte("abc"))
	m.AddDir("/site/empty")

	entries, err := m.ListEntries("/site")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "empty", IsDir: true}, {Name: "library", IsDir: true}}, entries)

	_, err = m.ListEntries("/nowhere")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	size, err := m.ByteSize("/site/library/a.md")
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)
}

func TestMemFSInjectedFailures(t *testing.T) {
	m := NewMemFS()
	m.AddFile("/site/a.md", []byte("abc"))
	denied := errors.New("permission denied")
	m.FailRead("/site/a.md", denied)
	m.FailWrite("/site/README.md", denied)

	_, err := m.ReadBytes("/site/a.md")
	assert.ErrorIs(t, err, denied)

	err = m.WriteFile("/site/README.md", []byte("x"))
	assert.ErrorIs(t, err, denied)

	err = m.WriteFile("/missing/README.md", []byte("x"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestDryRunRecordsWrites(t *testing.T) {
	m := NewMemFS()
	m.AddFile("/site/a.md", []byte("abc"))
	d := NewDryRun(m)

	require.NoError(t, d.WriteFile("/site/README.md", []byte("# site\n")))
	data, err := d.ReadBytes("/site/a.md")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	assert.Equal(t, []Write{{Path: "/site/README.md", Bytes: 7}}, d.Writes())
	_, ok := m.File("/site/README.md")
	assert.False(t, ok)
}
