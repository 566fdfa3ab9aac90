package role

import (
	"testing"

	"github.com/michaelscutari/docstat/internal/entry"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	leaf := &entry.DirNode{Name: "A", Files: []*entry.FileNode{{Name: "x"}}}
	empty := &entry.DirNode{Name: "E"}
	mid := &entry.DirNode{Name: "B", Dirs: []*entry.DirNode{empty}}
	lib := &entry.DirNode{Name: "library", Dirs: []*entry.DirNode{leaf, mid}}
	root := &entry.DirNode{Name: "site", Dirs: []*entry.DirNode{lib}}

	assert.Equal(t, Root, Classify(root, true, "library"))
	assert.Equal(t, DesignatedCollection, Classify(lib, false, "library"))
	assert.Equal(t, Intermediate, Classify(mid, false, "library"))
	assert.Equal(t, Leaf, Classify(leaf, false, "library"))
	assert.Equal(t, Leaf, Classify(empty, false, "library"))

	// A root named like the collection is still the root.
	assert.Equal(t, Root, Classify(&entry.DirNode{Name: "library"}, true, "library"))
	// Without a collection name nothing is designated.
	assert.Equal(t, Intermediate, Classify(lib, false, ""))
}

func TestClassifyIsTotal(t *testing.T) {
	tree := &entry.DirNode{Name: "site", Dirs: []*entry.DirNode{
		{Name: "library", Dirs: []*entry.DirNode{
			{Name: "A", Files: []*entry.FileNode{{Name: "a"}}},
			{Name: "B", Dirs: []*entry.DirNode{{Name: "B1"}}},
		}},
		{Name: "misc"},
	}}

	counts := map[Role]int{}
	tree.Walk(func(n *entry.DirNode) {
		r := Classify(n, n == tree, "library")
		assert.Contains(t, []Role{Root, DesignatedCollection, Intermediate, Leaf}, r)
		counts[r]++
	})

	assert.Equal(t, 1, counts[Root])
	assert.Equal(t, 1, counts[DesignatedCollection])
	assert.Equal(t, 1, counts[Intermediate])
	assert.Equal(t, 3, counts[Leaf])
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "root", Root.String())
	assert.Equal(t, "collection", DesignatedCollection.String())
	assert.Equal(t, "intermediate", Intermediate.String())
	assert.Equal(t, "leaf", Leaf.String())
	assert.Equal(t, "unknown", Role(42).String())
}
