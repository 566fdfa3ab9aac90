package tui

import (
	"database/sql"
	"strings"

	"github.com/michaelscutari/docstat/internal/catalog"
	"github.com/michaelscutari/docstat/internal/entry"

	tea "github.com/charmbracelet/bubbletea"
)

// SortColumn represents the current sort field.
type SortColumn int

const (
	SortBySize SortColumn = iota
	SortByDocuments
	SortByVolume
	SortByName
)

func (s SortColumn) String() string {
	switch s {
	case SortByDocuments:
		return "documents"
	case SortByVolume:
		return "volume"
	case SortByName:
		return "name"
	default:
		return "size"
	}
}

// PreviewFunc renders the index page of dir for a terminal of the given width.
type PreviewFunc func(dir string, width int) (string, error)

// Model holds the TUI state.
type Model struct {
	db           *sql.DB
	currentPath  string
	allEntries   []catalog.DisplayEntry
	entries      []catalog.DisplayEntry
	cursor       int
	sort         SortColumn
	width        int
	height       int
	runMeta      *entry.RunMeta
	rollup       *entry.Aggregate
	filter       string
	filterActive bool
	err          error

	preview       PreviewFunc
	previewText   []string
	previewOffset int
	previewOpen   bool
}

// NewModel creates a new TUI model.
func NewModel(database *sql.DB) *Model {
	return &Model{
		db:   database,
		sort: SortBySize,
	}
}

// SetPreviewFunc enables page previews.
func (m *Model) SetPreviewFunc(f PreviewFunc) {
	m.preview = f
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadInitialData
}

type dataLoadedMsg struct {
	runMeta *entry.RunMeta
	entries []catalog.DisplayEntry
	rollup  *entry.Aggregate
	err     error
}

func (m *Model) loadInitialData() tea.Msg {
	meta, err := catalog.GetRunMeta(m.db)
	if err != nil {
		return dataLoadedMsg{err: err}
	}

	entries, err := catalog.LoadChildren(m.db, meta.RootPath, m.sort.String(), 1000)
	if err != nil {
		return dataLoadedMsg{err: err}
	}

	rollup, err := catalog.GetRollup(m.db, meta.RootPath)
	if err != nil {
		return dataLoadedMsg{err: err}
	}

	return dataLoadedMsg{
		runMeta: meta,
		entries: entries,
		rollup:  rollup,
	}
}

type entriesLoadedMsg struct {
	entries []catalog.DisplayEntry
	rollup  *entry.Aggregate
	err     error
}

func (m *Model) loadEntries(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := catalog.LoadChildren(m.db, path, m.sort.String(), 1000)
		if err != nil {
			return entriesLoadedMsg{err: err}
		}

		rollup, _ := catalog.GetRollup(m.db, path)

		return entriesLoadedMsg{
			entries: entries,
			rollup:  rollup,
		}
	}
}

type previewLoadedMsg struct {
	text string
	err  error
}

func (m *Model) loadPreview(dir string) tea.Cmd {
	preview, width := m.preview, m.width
	return func() tea.Msg {
		text, err := preview(dir, width)
		return previewLoadedMsg{text: text, err: err}
	}
}

func (m *Model) helpLine() string {
	if m.previewOpen {
		return "↑/↓ scroll | p/Esc: close | q: quit"
	}
	if m.filterActive {
		return "Type to filter | Enter: apply | Esc: clear | q: quit"
	}
	help := "↑/↓ move | Enter: open | Backspace: close | s/d/w/n: sort | /: filter"
	if m.preview != nil {
		help += " | p: preview"
	}
	return help + " | q: quit"
}

func (m *Model) setEntries(entries []catalog.DisplayEntry) {
	m.allEntries = entries
	m.applyFilter()
}

func (m *Model) applyFilter() {
	if m.filter == "" {
		m.entries = m.allEntries
	} else {
		filtered := make([]catalog.DisplayEntry, 0, len(m.allEntries))
		needle := strings.ToLower(m.filter)
		for _, e := range m.allEntries {
			if strings.Contains(strings.ToLower(e.Name), needle) {
				filtered = append(filtered, e)
			}
		}
		m.entries = filtered
	}
	m.cursor = 0
}
