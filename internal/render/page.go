package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/michaelscutari/docstat/internal/role"
)

// Page is the data behind one index page. Each role has its own page type
// carrying only what its template needs.
type Page interface {
	Role() role.Role
	page()
}

// Totals are the recursive statistics shown for a directory.
type Totals struct {
	Documents int64
	Volume    int64
	Size      string
}

// DirRow is a table row linking to a directory's index page.
type DirRow struct {
	Name string
	Link string
	Totals
}

// DocRow is a table row linking to a document.
type DocRow struct {
	Name   string
	Link   string
	Volume int64
	Size   string
}

// RootPage summarizes the designated collection and its categories.
type RootPage struct {
	Title      string
	Collection *DirRow // nil when the collection is absent
	Categories []DirRow
	Footer     string
}

// CollectionPage is the designated collection's index.
type CollectionPage struct {
	Title     string
	Overview  DirRow
	Documents []DocRow
	Sections  []Section
}

// Section is one sub-directory of the designated collection. It lists the
// sub-directory's documents when it has any, otherwise a single roll-up row.
type Section struct {
	Name      string
	Link      string
	Documents []DocRow
	Rollup    *DirRow
}

// IntermediatePage is a directory with sub-directories.
type IntermediatePage struct {
	Title     string
	Totals    Totals
	Documents []DocRow
	Dirs      []DirRow
}

// LeafPage is a directory holding only documents.
type LeafPage struct {
	Title     string
	Totals    Totals
	Documents []DocRow
}

func (RootPage) Role() role.Role         { return role.Root }
func (CollectionPage) Role() role.Role   { return role.DesignatedCollection }
func (IntermediatePage) Role() role.Role { return role.Intermediate }
func (LeafPage) Role() role.Role         { return role.Leaf }

func (RootPage) page()         {}
func (CollectionPage) page()   {}
func (IntermediatePage) page() {}
func (LeafPage) page()         {}

// Render returns the Markdown text of an index page.
func Render(p Page) string {
	var b strings.Builder
	switch p := p.(type) {
	case RootPage:
		renderRoot(&b, p)
	case CollectionPage:
		renderCollection(&b, p)
	case IntermediatePage:
		renderIntermediate(&b, p)
	case LeafPage:
		renderLeaf(&b, p)
	default:
		panic(fmt.Sprintf("render: unknown page type %T", p))
	}
	return b.String()
}

const (
	colVolume = "Words (est.)"
	colSize   = "Size"
	colDocs   = "Documents"
)

func renderRoot(b *strings.Builder, p RootPage) {
	heading(b, 1, p.Title)

	if p.Collection != nil {
		dirTableHeader(b, "Category")
		c := *p.Collection
		labeledDirRow(b, rawLink("**"+escape(c.Name)+"**", c.Link), c.Totals)
		for _, row := range p.Categories {
			dirRow(b, row)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	b.WriteString(strings.TrimRight(p.Footer, "\n"))
	b.WriteString("\n")
}

func renderCollection(b *strings.Builder, p CollectionPage) {
	heading(b, 1, p.Title)

	dirTableHeader(b, "Collection")
	dirRow(b, p.Overview)
	b.WriteString("\n")

	if len(p.Documents) > 0 {
		heading(b, 2, colDocs)
		docTable(b, p.Documents)
	}

	for _, s := range p.Sections {
		heading(b, 2, link(s.Name, s.Link))
		if len(s.Documents) > 0 {
			docTable(b, s.Documents)
			continue
		}
		if s.Rollup != nil {
			dirTableHeader(b, "Directory")
			dirRow(b, *s.Rollup)
			b.WriteString("\n")
		}
	}
}

func renderIntermediate(b *strings.Builder, p IntermediatePage) {
	heading(b, 1, p.Title)
	totalsLine(b, p.Totals)

	if len(p.Documents) > 0 {
		heading(b, 2, colDocs)
		docTable(b, p.Documents)
	}

	heading(b, 2, "Directories")
	dirTableHeader(b, "Directory")
	for _, row := range p.Dirs {
		dirRow(b, row)
	}
	b.WriteString("\n")
}

func renderLeaf(b *strings.Builder, p LeafPage) {
	heading(b, 1, p.Title)
	totalsLine(b, p.Totals)

	heading(b, 2, colDocs)
	if len(p.Documents) == 0 {
		b.WriteString("_No documents._\n\n")
		return
	}
	docTable(b, p.Documents)
}

func heading(b *strings.Builder, level int, text string) {
	fmt.Fprintf(b, "%s %s\n\n", strings.Repeat("#", level), text)
}

func totalsLine(b *strings.Builder, t Totals) {
	fmt.Fprintf(b, "%s: %s · %s: %s · %s: %s\n\n",
		colDocs, humanize.Comma(t.Documents),
		colVolume, humanize.Comma(t.Volume),
		colSize, t.Size)
}

func dirTableHeader(b *strings.Builder, first string) {
	fmt.Fprintf(b, "| %s | %s | %s | %s |\n", first, colDocs, colVolume, colSize)
	b.WriteString("| :--- | ---: | ---: | ---: |\n")
}

func dirRow(b *strings.Builder, row DirRow) {
	labeledDirRow(b, link(row.Name, row.Link), row.Totals)
}

func labeledDirRow(b *strings.Builder, label string, t Totals) {
	fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
		label,
		humanize.Comma(t.Documents),
		humanize.Comma(t.Volume),
		t.Size)
}

func docTable(b *strings.Builder, docs []DocRow) {
	fmt.Fprintf(b, "| Document | %s | %s |\n", colVolume, colSize)
	b.WriteString("| :--- | ---: | ---: |\n")
	for _, d := range docs {
		fmt.Fprintf(b, "| %s | %s | %s |\n", link(d.Name, d.Link), humanize.Comma(d.Volume), d.Size)
	}
	b.WriteString("\n")
}

func link(label, target string) string {
	return rawLink(escape(label), target)
}

func rawLink(label, target string) string {
	if target == "" {
		return label
	}
	return fmt.Sprintf("[%s](%s)", label, target)
}

var escaper = strings.NewReplacer(`|`, `\|`, `[`, `\[`, `]`, `\]`)

func escape(s string) string {
	return escaper.Replace(s)
}
