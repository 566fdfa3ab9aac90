package render

import (
	"bytes"
	"testing"

	"github.com/michaelscutari/docstat/internal/config"
	"github.com/michaelscutari/docstat/internal/entry"
	"github.com/michaelscutari/docstat/internal/fsys"
	"github.com/michaelscutari/docstat/internal/role"
	"github.com/michaelscutari/docstat/internal/rollup"
	"github.com/michaelscutari/docstat/internal/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture builds:
//
//	/site/library/A/one.md     500 B
//	/site/library/A/two.md    2000 B
//	/site/library/B/B1/three.md 10 B
func fixture(t *testing.T) (*Builder, *entry.DirNode) {
	t.Helper()
	mem := fsys.NewMemFS()
	mem.AddFile("/site/library/A/one.md", bytes.Repeat([]byte("a"), 500))
	mem.AddFile("/site/library/A/two.md", bytes.Repeat([]byte("b"), 2000))
	mem.AddFile("/site/library/B/B1/three.md", bytes.Repeat([]byte("c"), 10))

	cfg := config.Default().WithRoot("/site")
	tree, err := scan.NewScanner(cfg, mem, nil).Run("/site")
	require.NoError(t, err)
	agg, err := rollup.NewAggregator(cfg, mem, 0)
	require.NoError(t, err)
	return NewBuilder(cfg, agg, "/site"), tree
}

func TestRootPage(t *testing.T) {
	b, tree := fixture(t)

	want := "# site\n\n" +
		"| Category | Documents | Words (est.) | Size |\n" +
		"| :--- | ---: | ---: | ---: |\n" +
		"| [**library**](library/README.md) | 3 | 837 | 2.45 KB |\n" +
		"| [A](library/A/README.md) | 2 | 834 | 2.44 KB |\n" +
		"| [B](library/B/README.md) | 1 | 3 | 10 B |\n" +
		"\n---\n\n" +
		config.DefaultFooter + "\n"
	assert.Equal(t, want, Render(b.Page(tree, role.Root)))
}

func TestRootPageWithoutCollection(t *testing.T) {
	mem := fsys.NewMemFS()
	mem.AddFile("/site/other/a.md", []byte("abc"))
	cfg := config.Default().WithRoot("/site").WithTitle("Handbook")
	tree, err := scan.NewScanner(cfg, mem, nil).Run("/site")
	require.NoError(t, err)
	agg, err := rollup.NewAggregator(cfg, mem, 0)
	require.NoError(t, err)
	b := NewBuilder(cfg, agg, "/site")

	page := b.Page(tree, role.Root).(RootPage)
	assert.Nil(t, page.Collection)
	assert.Equal(t, "# Handbook\n\n---\n\n"+config.DefaultFooter+"\n", Render(page))

	assert.Equal(t, "- [Home](README.md)\n\n---\n\n", RenderSidebar(b.Sidebar(tree, role.Root)))
}

func TestCollectionPage(t *testing.T) {
	b, tree := fixture(t)
	lib := tree.Dir("library")
	require.NotNil(t, lib)

	page := b.Page(lib, role.DesignatedCollection).(CollectionPage)
	require.Len(t, page.Sections, 2)
	assert.Len(t, page.Sections[0].Documents, 2)
	assert.Nil(t, page.Sections[0].Rollup)
	require.NotNil(t, page.Sections[1].Rollup)
	assert.Equal(t, "B/README.md", page.Sections[1].Rollup.Link)
	assert.Equal(t, int64(1), page.Sections[1].Rollup.Documents)

	want := "# library\n\n" +
		"| Collection | Documents | Words (est.) | Size |\n" +
		"| :--- | ---: | ---: | ---: |\n" +
		"| library | 3 | 837 | 2.45 KB |\n\n" +
		"## [A](A/README.md)\n\n" +
		"| Document | Words (est.) | Size |\n" +
		"| :--- | ---: | ---: |\n" +
		"| [one](A/one.md) | 167 | 500 B |\n" +
		"| [two](A/two.md) | 667 | 1.95 KB |\n\n" +
		"## [B](B/README.md)\n\n" +
		"| Directory | Documents | Words (est.) | Size |\n" +
		"| :--- | ---: | ---: | ---: |\n" +
		"| [B](B/README.md) | 1 | 3 | 10 B |\n\n"
	assert.Equal(t, want, Render(page))
}

func TestIntermediateAndLeafPages(t *testing.T) {
	b, tree := fixture(t)
	bDir := tree.Dir("library").Dir("B")
	b1 := bDir.Dir("B1")

	wantB := "# B\n\n" +
		"Documents: 1 · Words (est.): 3 · Size: 10 B\n\n" +
		"## Directories\n\n" +
		"| Directory | Documents | Words (est.) | Size |\n" +
		"| :--- | ---: | ---: | ---: |\n" +
		"| [B1](B1/README.md) | 1 | 3 | 10 B |\n\n"
	assert.Equal(t, wantB, Render(b.Page(bDir, role.Intermediate)))

	wantB1 := "# B1\n\n" +
		"Documents: 1 · Words (est.): 3 · Size: 10 B\n\n" +
		"## Documents\n\n" +
		"| Document | Words (est.) | Size |\n" +
		"| :--- | ---: | ---: |\n" +
		"| [three](three.md) | 3 | 10 B |\n\n"
	assert.Equal(t, wantB1, Render(b.Page(b1, role.Leaf)))
}

func TestEmptyLeafPage(t *testing.T) {
	page := LeafPage{Title: "empty", Totals: Totals{Size: "0 B"}}
	assert.Equal(t, "# empty\n\nDocuments: 0 · Words (est.): 0 · Size: 0 B\n\n## Documents\n\n_No documents._\n\n", Render(page))
}

func TestSidebars(t *testing.T) {
	b, tree := fixture(t)

	wantRoot := "- [Home](README.md)\n" +
		"- [library](library/README.md)\n" +
		"\n---\n\n" +
		"- [A](library/A/README.md)\n" +
		"- [B](library/B/README.md)\n"
	assert.Equal(t, wantRoot, RenderSidebar(b.Sidebar(tree, role.Root)))

	lib := tree.Dir("library")
	wantLib := "- [Home](../README.md)\n" +
		"- [Up](../README.md)\n" +
		"- [library](README.md)\n" +
		"\n---\n\n" +
		"- [A](A/README.md)\n" +
		"- [B](B/README.md)\n"
	assert.Equal(t, wantLib, RenderSidebar(b.Sidebar(lib, role.DesignatedCollection)))

	b1 := lib.Dir("B").Dir("B1")
	wantB1 := "- [Home](../../../README.md)\n" +
		"- [Up](../README.md)\n" +
		"- [library/B/B1](README.md)\n" +
		"\n---\n\n" +
		"- [three](three.md)\n"
	assert.Equal(t, wantB1, RenderSidebar(b.Sidebar(b1, role.Leaf)))
}

func TestRenderNodeMatchesParts(t *testing.T) {
	b, tree := fixture(t)
	a := tree.Dir("library").Dir("A")

	index, sidebar := b.RenderNode(a, role.Leaf)
	assert.Equal(t, Render(b.Page(a, role.Leaf)), index)
	assert.Equal(t, RenderSidebar(b.Sidebar(a, role.Leaf)), sidebar)
	assert.Contains(t, sidebar, "- [one](one.md)\n- [two](two.md)\n")
}

func TestEscapesTableCells(t *testing.T) {
	page := LeafPage{
		Title:     "x",
		Totals:    Totals{Documents: 1234567, Volume: 1000, Size: "1 B"},
		Documents: []DocRow{{Name: "a|b [c]", Link: "a%7Cb.md", Volume: 1, Size: "1 B"}},
	}
	out := Render(page)
	assert.Contains(t, out, `| [a\|b \[c\]](a%7Cb.md) | 1 | 1 B |`)
	assert.Contains(t, out, "Documents: 1,234,567 · Words (est.): 1,000")
}

func TestRenderUnknownPagePanics(t *testing.T) {
	assert.Panics(t, func() { Render(nil) })
}

func TestLinksEncodeSpecialNames(t *testing.T) {
	mem := fsys.NewMemFS()
	mem.AddFile("/site/library/C#/a|b (v2).md", []byte("abc"))

	cfg := config.Default().WithRoot("/site")
	tree, err := scan.NewScanner(cfg, mem, nil).Run("/site")
	require.NoError(t, err)
	agg, err := rollup.NewAggregator(cfg, mem, 0)
	require.NoError(t, err)
	b := NewBuilder(cfg, agg, "/site")

	library := tree.Dir("library")
	index, _ := b.RenderNode(library, role.DesignatedCollection)
	assert.Contains(t, index, "](C%23/README.md)")

	leaf := library.Dir("C#")
	index, sidebar := b.RenderNode(leaf, role.Leaf)
	assert.Contains(t, index, "](a%7Cb%20%28v2%29.md)")
	assert.Contains(t, sidebar, "](a%7Cb%20%28v2%29.md)")
	assert.NotContains(t, index, "(v2).md)")

	_, rootSidebar := b.RenderNode(tree, role.Root)
	assert.Contains(t, rootSidebar, "- [C#](library/C%23/README.md)\n")
}
