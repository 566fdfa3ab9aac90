package render

import (
	"path/filepath"

	"github.com/michaelscutari/docstat/internal/config"
	"github.com/michaelscutari/docstat/internal/entry"
	"github.com/michaelscutari/docstat/internal/metrics"
	"github.com/michaelscutari/docstat/internal/pathutil"
	"github.com/michaelscutari/docstat/internal/role"
)

// Aggregates supplies recursive totals for any directory path.
type Aggregates interface {
	Aggregate(path string) entry.Aggregate
}

// Builder turns scanned directories into pages. Links on every page are
// relative to the directory the page is written to.
type Builder struct {
	cfg  config.Config
	agg  Aggregates
	root string
}

// NewBuilder creates a builder for the tree rooted at root.
func NewBuilder(cfg config.Config, agg Aggregates, root string) *Builder {
	return &Builder{
		cfg:  cfg,
		agg:  agg,
		root: pathutil.Normalize(root),
	}
}

// RenderNode returns the index and sidebar text for node.
func (b *Builder) RenderNode(node *entry.DirNode, r role.Role) (index, sidebar string) {
	return Render(b.Page(node, r)), RenderSidebar(b.Sidebar(node, r))
}

// Page builds the page data for node according to its role.
func (b *Builder) Page(node *entry.DirNode, r role.Role) Page {
	switch r {
	case role.Root:
		return b.rootPage(node)
	case role.DesignatedCollection:
		return b.collectionPage(node)
	case role.Intermediate:
		return IntermediatePage{
			Title:     node.Name,
			Totals:    b.totals(node.Path),
			Documents: b.docRows(node.Path, node.Files),
			Dirs:      b.dirRows(node.Path, node.Dirs),
		}
	default:
		return LeafPage{
			Title:     node.Name,
			Totals:    b.totals(node.Path),
			Documents: b.docRows(node.Path, node.Files),
		}
	}
}

func (b *Builder) rootPage(node *entry.DirNode) RootPage {
	p := RootPage{
		Title:  b.cfg.Title,
		Footer: b.cfg.Footer,
	}
	if p.Title == "" {
		p.Title = node.Name
	}

	collection := node.Dir(b.cfg.Collection)
	if collection == nil {
		return p
	}
	row := b.dirRow(node.Path, collection)
	p.Collection = &row
	p.Categories = b.dirRows(node.Path, collection.Dirs)
	return p
}

func (b *Builder) collectionPage(node *entry.DirNode) CollectionPage {
	p := CollectionPage{
		Title:     node.Name,
		Overview:  DirRow{Name: node.Name, Totals: b.totals(node.Path)},
		Documents: b.docRows(node.Path, node.Files),
	}
	for _, sub := range node.Dirs {
		s := Section{
			Name: sub.Name,
			Link: b.indexLink(node.Path, sub.Path),
		}
		if len(sub.Files) > 0 {
			s.Documents = b.docRows(node.Path, sub.Files)
		} else {
			row := b.dirRow(node.Path, sub)
			s.Rollup = &row
		}
		p.Sections = append(p.Sections, s)
	}
	return p
}

func (b *Builder) totals(path string) Totals {
	agg := b.agg.Aggregate(path)
	return Totals{
		Documents: agg.Documents,
		Volume:    agg.Volume,
		Size:      metrics.FormatSize(agg.Bytes),
	}
}

func (b *Builder) dirRow(pageDir string, dir *entry.DirNode) DirRow {
	return DirRow{
		Name:   dir.Name,
		Link:   b.indexLink(pageDir, dir.Path),
		Totals: b.totals(dir.Path),
	}
}

func (b *Builder) dirRows(pageDir string, dirs []*entry.DirNode) []DirRow {
	rows := make([]DirRow, 0, len(dirs))
	for _, d := range dirs {
		rows = append(rows, b.dirRow(pageDir, d))
	}
	return rows
}

func (b *Builder) docRows(pageDir string, files []*entry.FileNode) []DocRow {
	rows := make([]DocRow, 0, len(files))
	for _, f := range files {
		rows = append(rows, DocRow{
			Name:   f.Name,
			Link:   pathutil.Link(pageDir, f.Path),
			Volume: f.Volume,
			Size:   f.FormattedSize,
		})
	}
	return rows
}

func (b *Builder) indexLink(pageDir, dir string) string {
	return pathutil.Link(pageDir, b.cfg.IndexPath(dir))
}

func (b *Builder) parentOf(node *entry.DirNode) string {
	if node.Depth <= 1 {
		return b.root
	}
	return filepath.Dir(node.Path)
}
