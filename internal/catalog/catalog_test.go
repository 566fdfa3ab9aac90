package catalog

import (
	"database/sql"
	"testing"
	"time"

	"github.com/michaelscutari/docstat/internal/entry"
	"github.com/michaelscutari/docstat/internal/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	t.Cleanup(func() {
		ForgetCache(database)
		database.Close()
	})
	require.NoError(t, InitSchema(database))
	return database
}

func fixtureTree() *entry.DirNode {
	a := &entry.DirNode{
		Name:  "A",
		Path:  "/site/library/A",
		Depth: 2,
		Files: []*entry.FileNode{
			{Name: "one", FileName: "one.md", Path: "/site/library/A/one.md", Depth: 3, Size: 500, Volume: 167},
			{Name: "two", FileName: "two.md", Path: "/site/library/A/two.md", Depth: 3, Size: 2000, Volume: 667},
		},
	}
	b := &entry.DirNode{Name: "B", Path: "/site/library/B", Depth: 2}
	lib := &entry.DirNode{Name: "library", Path: "/site/library", Depth: 1, Dirs: []*entry.DirNode{a, b}}
	return &entry.DirNode{Name: "site", Path: "/site", Depth: 0, Dirs: []*entry.DirNode{lib}}
}

func record(t *testing.T, database *sql.DB, batchSize int) {
	t.Helper()
	rec, err := NewRecorder(database, batchSize)
	require.NoError(t, err)
	defer rec.Close()

	tree := fixtureTree()
	lib := tree.Dirs[0]
	require.NoError(t, rec.RecordDir(tree, role.Root, entry.Aggregate{Documents: 2, Volume: 834, Bytes: 2600}))
	require.NoError(t, rec.RecordDir(lib, role.DesignatedCollection, entry.Aggregate{Documents: 2, Volume: 834, Bytes: 2500}))
	require.NoError(t, rec.RecordDir(lib.Dirs[0], role.Leaf, entry.Aggregate{Documents: 2, Volume: 834, Bytes: 2500}))
	require.NoError(t, rec.RecordDir(lib.Dirs[1], role.Leaf, entry.Aggregate{}))
	require.NoError(t, rec.RecordErrors([]entry.ScanError{{Path: "/site/locked", Op: "list", Message: "permission denied"}}))
	require.NoError(t, rec.WriteMeta(entry.RunMeta{
		RootPath:   "/site",
		Collection: "library",
		StartTime:  time.Unix(1700000000, 0),
		EndTime:    time.Unix(1700000005, 0),
		Documents:  2,
		Dirs:       4,
		Volume:     834,
		Bytes:      2600,
		Pages:      8,
		ErrorCount: 1,
	}))
}

func TestRecorderRoundTrip(t *testing.T) {
	for _, batchSize := range []int{1, DefaultBatchSize} {
		database := openTestDB(t)
		record(t, database, batchSize)

		agg, err := GetRollup(database, "/site/library/")
		require.NoError(t, err)
		require.NotNil(t, agg)
		assert.Equal(t, entry.Aggregate{Documents: 2, Volume: 834, Bytes: 2500}, *agg)

		r, err := GetRole(database, "/site/library")
		require.NoError(t, err)
		assert.Equal(t, "collection", r)

		meta, err := GetRunMeta(database)
		require.NoError(t, err)
		assert.Equal(t, "library", meta.Collection)
		assert.Equal(t, int64(8), meta.Pages)
		assert.Equal(t, int64(1700000005), meta.EndTime.Unix())

		errs, err := GetErrors(database, 10)
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, "list", errs[0].Op)
	}
}

func TestRecorderLinksParents(t *testing.T) {
	database := openTestDB(t)
	record(t, database, DefaultBatchSize)

	var parent string
	err := database.QueryRow(`
		SELECT p.path FROM dirs d JOIN dirs p ON p.id = d.parent_id WHERE d.path = ?
	`, "/site/library/A").Scan(&parent)
	require.NoError(t, err)
	assert.Equal(t, "/site/library", parent)
}

func TestLoadChildrenSortsDocumentsAndDirs(t *testing.T) {
	database := openTestDB(t)
	record(t, database, DefaultBatchSize)

	children, err := LoadChildren(database, "/site/library/A", "size", 10)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "two", children[0].Name)
	assert.Equal(t, "/site/library/A/two.md", children[0].Path)
	assert.Equal(t, entry.KindDocument, children[0].Kind)
	assert.Equal(t, int64(1), children[0].Documents)

	children, err = LoadChildren(database, "/site/library", "name", 10)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "A", children[0].Name)
	assert.Equal(t, entry.KindDir, children[0].Kind)
	assert.Equal(t, "leaf", children[0].Role)
	assert.Equal(t, "B", children[1].Name)

	children, err = LoadChildren(database, "/site/library", "docs", 1)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "A", children[0].Name)
}

func TestLoadChildrenUnknownParent(t *testing.T) {
	database := openTestDB(t)
	_, err := LoadChildren(database, "/nowhere", "size", 10)
	assert.Error(t, err)

	agg, err := GetRollup(database, "/nowhere")
	require.NoError(t, err)
	assert.Nil(t, agg)
}

func TestRecordErrorsSamplesAtLimit(t *testing.T) {
	database := openTestDB(t)
	rec, err := NewRecorder(database, 0)
	require.NoError(t, err)
	defer rec.Close()

	errs := make([]entry.ScanError, maxErrorsSampled+5)
	for i := range errs {
		errs[i] = entry.ScanError{Path: "/x", Op: "write", Message: "boom"}
	}
	require.NoError(t, rec.RecordErrors(errs))

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM run_errors`).Scan(&count))
	assert.Equal(t, maxErrorsSampled, count)
}
