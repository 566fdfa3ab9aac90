package render

import (
	"fmt"
	"strings"

	"github.com/michaelscutari/docstat/internal/entry"
	"github.com/michaelscutari/docstat/internal/pathutil"
	"github.com/michaelscutari/docstat/internal/role"
)

// Link is one sidebar entry.
type Link struct {
	Label  string
	Target string
}

// Sidebar is a fixed header, a separator, then one item per child.
type Sidebar struct {
	Header []Link
	Items  []Link
}

// Sidebar builds the navigation for node. Every non-root node, including
// the designated collection, shares one layout.
func (b *Builder) Sidebar(node *entry.DirNode, r role.Role) Sidebar {
	if r == role.Root {
		return b.rootSidebar(node)
	}

	s := Sidebar{
		Header: []Link{
			{Label: "Home", Target: b.indexLink(node.Path, b.root)},
			{Label: "Up", Target: b.indexLink(node.Path, b.parentOf(node))},
			{Label: pathutil.Display(b.root, node.Path), Target: b.indexLink(node.Path, node.Path)},
		},
	}
	for _, f := range node.Files {
		s.Items = append(s.Items, Link{Label: f.Name, Target: pathutil.Link(node.Path, f.Path)})
	}
	for _, d := range node.Dirs {
		s.Items = append(s.Items, Link{Label: d.Name, Target: b.indexLink(node.Path, d.Path)})
	}
	return s
}

func (b *Builder) rootSidebar(node *entry.DirNode) Sidebar {
	s := Sidebar{
		Header: []Link{{Label: "Home", Target: b.indexLink(node.Path, node.Path)}},
	}
	collection := node.Dir(b.cfg.Collection)
	if collection == nil {
		return s
	}
	s.Header = append(s.Header, Link{Label: collection.Name, Target: b.indexLink(node.Path, collection.Path)})
	for _, d := range collection.Dirs {
		s.Items = append(s.Items, Link{Label: d.Name, Target: b.indexLink(node.Path, d.Path)})
	}
	return s
}

// RenderSidebar returns the Markdown text of a sidebar.
func RenderSidebar(s Sidebar) string {
	var b strings.Builder
	for _, l := range s.Header {
		fmt.Fprintf(&b, "- %s\n", link(l.Label, l.Target))
	}
	b.WriteString("\n---\n\n")
	for _, l := range s.Items {
		fmt.Fprintf(&b, "- %s\n", link(l.Label, l.Target))
	}
	return b.String()
}
