package tui

import (
	"path/filepath"
	"strings"

	"github.com/michaelscutari/docstat/internal/entry"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.previewOpen {
			return m.handlePreviewKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.runMeta = msg.runMeta
		m.currentPath = msg.runMeta.RootPath
		m.filter = ""
		m.filterActive = false
		m.setEntries(msg.entries)
		m.rollup = msg.rollup
		return m, nil

	case entriesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.filter = ""
		m.filterActive = false
		m.setEntries(msg.entries)
		m.rollup = msg.rollup
		return m, nil

	case previewLoadedMsg:
		text := msg.text
		if msg.err != nil {
			text = "Preview unavailable: " + msg.err.Error()
		}
		m.previewText = strings.Split(strings.TrimRight(text, "\n"), "\n")
		m.previewOffset = 0
		m.previewOpen = true
		return m, nil
	}

	return m, nil
}

func (m *Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "p", "esc":
		m.previewOpen = false
		m.previewText = nil
		return m, nil

	case "up", "k":
		if m.previewOffset > 0 {
			m.previewOffset--
		}
		return m, nil

	case "down", "j":
		if m.previewOffset < len(m.previewText)-1 {
			m.previewOffset++
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filterActive {
		switch msg.String() {
		case "enter":
			m.filterActive = false
			return m, nil

		case "esc":
			m.filterActive = false
			m.filter = ""
			m.applyFilter()
			return m, nil

		case "backspace":
			if len(m.filter) > 0 {
				runes := []rune(m.filter)
				m.filter = string(runes[:len(runes)-1])
				m.applyFilter()
			}
			return m, nil

		case "ctrl+c":
			return m, tea.Quit
		}

		if msg.Type == tea.KeyRunes {
			m.filter += msg.String()
			m.applyFilter()
			return m, nil
		}

		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
		return m, nil

	case "enter", "l", "right":
		if len(m.entries) > 0 && m.cursor < len(m.entries) {
			selected := m.entries[m.cursor]
			if selected.Kind == entry.KindDir {
				m.currentPath = selected.Path
				m.filter = ""
				m.filterActive = false
				return m, m.loadEntries(selected.Path)
			}
		}
		return m, nil

	case "backspace", "h", "left":
		if m.runMeta != nil && m.currentPath != m.runMeta.RootPath {
			parent := filepath.Dir(m.currentPath)
			m.currentPath = parent
			m.filter = ""
			m.filterActive = false
			return m, m.loadEntries(parent)
		}
		return m, nil

	case "p":
		if m.preview == nil {
			return m, nil
		}
		dir := m.currentPath
		if len(m.entries) > 0 && m.cursor < len(m.entries) && m.entries[m.cursor].Kind == entry.KindDir {
			dir = m.entries[m.cursor].Path
		}
		return m, m.loadPreview(dir)

	case "s":
		m.sort = SortBySize
		return m, m.loadEntries(m.currentPath)

	case "d":
		m.sort = SortByDocuments
		return m, m.loadEntries(m.currentPath)

	case "w":
		m.sort = SortByVolume
		return m, m.loadEntries(m.currentPath)

	case "n":
		m.sort = SortByName
		return m, m.loadEntries(m.currentPath)

	case "/":
		m.filterActive = true
		return m, nil

	case "home", "g":
		m.cursor = 0
		return m, nil

	case "end", "G":
		if len(m.entries) > 0 {
			m.cursor = len(m.entries) - 1
		}
		return m, nil

	case "pgup":
		m.cursor -= 10
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case "pgdown":
		m.cursor += 10
		if m.cursor >= len(m.entries) {
			m.cursor = len(m.entries) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil
	}

	return m, nil
}
