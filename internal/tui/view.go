package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/michaelscutari/docstat/internal/catalog"
	"github.com/michaelscutari/docstat/internal/entry"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	if m.runMeta == nil {
		return "Loading..."
	}

	if m.previewOpen {
		return m.previewView()
	}

	var b strings.Builder
	headerLines := 0

	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\n")
		headerLines++
	}

	writeLine(titleStyle.Render("docstat - Collection Browser"))

	runInfo := fmt.Sprintf("Run: %s | Collection: %s | Documents: %s | Words (est.): %s | Size: %s",
		m.runMeta.StartTime.Format("2006-01-02 15:04"),
		m.runMeta.Collection,
		FormatCount(m.runMeta.Documents),
		FormatCount(m.runMeta.Volume),
		FormatSize(m.runMeta.Bytes),
	)
	writeLine(statsStyle.Render(runInfo))

	pathLabel := fmt.Sprintf("Path: %s", truncateMiddle(m.currentPath, max(10, m.width-6)))
	writeLine(breadcrumbStyle.Render(pathLabel))

	dirInfo := ""
	if m.rollup != nil {
		dirInfo = fmt.Sprintf("Documents: %s | Words (est.): %s | Size: %s",
			FormatCount(m.rollup.Documents),
			FormatCount(m.rollup.Volume),
			FormatSize(m.rollup.Bytes),
		)
	}

	status := fmt.Sprintf("Items: %s", FormatCount(int64(len(m.entries))))
	if m.filter != "" {
		status += fmt.Sprintf(" | Filter: %q", m.filter)
	}
	if len(m.entries) > 0 && m.cursor < len(m.entries) {
		sel := m.entries[m.cursor]
		status += fmt.Sprintf(" | Sel: %s (%s)", sel.Name, FormatSize(sel.Bytes))
		if sel.Role != "" {
			status += " | Role: " + sel.Role
		}
	}
	writeLine(statusStyle.Render(status))

	if m.filterActive {
		writeLine(filterStyle.Render(fmt.Sprintf("Filter: %s_", m.filter)))
	} else if m.filter != "" {
		writeLine(filterStyle.Render(fmt.Sprintf("Filter: %s", m.filter)))
	}

	sizeLabel := headerLabel("SIZE", m.sort == SortBySize, "v")
	docsLabel := headerLabel("DOCS", m.sort == SortByDocuments, "v")
	wordsLabel := headerLabel("WORDS", m.sort == SortByVolume, "v")
	nameLabel := headerLabel("NAME", m.sort == SortByName, "^")

	footerLines := 2
	if dirInfo != "" {
		footerLines = 3
	}
	visibleRows := m.height - headerLines - footerLines
	if visibleRows < 5 {
		visibleRows = 5
	}

	startIdx := 0
	if m.cursor >= visibleRows {
		startIdx = m.cursor - visibleRows + 1
	}
	endIdx := min(len(m.entries), startIdx+visibleRows)

	widths := calcColumnWidths(m.entries, startIdx, endIdx, sizeLabel, docsLabel, wordsLabel)
	nameWidth := calcNameWidth(m.width, widths)
	gap := strings.Repeat(" ", colGap)
	nameGap := strings.Repeat(" ", nameGapWidth)

	barLabel := barHeaderLabel(m.sort)
	nameLabel = truncateRight(nameLabel, nameWidth)
	namePad := nameWidth - len(nameLabel)
	if namePad < 0 {
		namePad = 0
	}
	header := fmt.Sprintf("%*s%s%*s%s%*s%s%s%s%s%*s",
		widths.size, sizeLabel,
		gap,
		widths.documents, docsLabel,
		gap,
		widths.volume, wordsLabel,
		nameGap,
		nameLabel,
		strings.Repeat(" ", namePad),
		gap,
		barColWidth, barLabel,
	)
	writeLine(headerStyle.Render(header))

	for i := startIdx; i < endIdx; i++ {
		b.WriteString(m.formatEntry(m.entries[i], i == m.cursor, widths, nameWidth))
		b.WriteString("\n")
	}

	displayedRows := min(len(m.entries)-startIdx, visibleRows)
	for i := displayedRows; i < visibleRows; i++ {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if dirInfo != "" {
		b.WriteString(statsStyle.Render(dirInfo))
		b.WriteString("\n")
	}
	help := m.helpLine()
	if len(m.entries) > 0 {
		help = fmt.Sprintf("%s [%d/%d]", help, m.cursor+1, len(m.entries))
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m *Model) previewView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Preview"))
	b.WriteString("\n")

	rows := m.height - 4
	if rows < 5 {
		rows = 5
	}
	end := min(len(m.previewText), m.previewOffset+rows)
	for _, line := range m.previewText[m.previewOffset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

type columnWidths struct {
	size      int
	documents int
	volume    int
}

const (
	colGap        = 2
	nameGapWidth  = 2
	minNameWidth  = 10
	barBlockWidth = 10
	barPctWidth   = 4
	barGapWidth   = 1
	barColWidth   = barBlockWidth + barGapWidth + barPctWidth
)

func calcColumnWidths(entries []catalog.DisplayEntry, startIdx, endIdx int, sizeLabel, docsLabel, wordsLabel string) columnWidths {
	w := columnWidths{
		size:      len(sizeLabel),
		documents: len(docsLabel),
		volume:    len(wordsLabel),
	}

	for i := startIdx; i < endIdx; i++ {
		e := entries[i]
		w.size = max(w.size, len(FormatSize(e.Bytes)))
		w.documents = max(w.documents, len(FormatCount(e.Documents)))
		w.volume = max(w.volume, len(FormatCount(e.Volume)))
	}

	return w
}

func calcNameWidth(totalWidth int, w columnWidths) int {
	used := w.size + w.documents + w.volume + (colGap * 3) + nameGapWidth + barColWidth
	nameWidth := totalWidth - used
	if nameWidth < minNameWidth {
		nameWidth = minNameWidth
	}
	return nameWidth
}

func truncateRight(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func (m *Model) formatEntry(e catalog.DisplayEntry, selected bool, widths columnWidths, nameWidth int) string {
	rawName := e.Name
	if e.Kind == entry.KindDir {
		rawName += "/"
	}
	rawName = truncateRight(rawName, nameWidth)

	var styledName string
	switch {
	case e.Kind == entry.KindDir && e.Role == "collection":
		styledName = collectionStyle.Render(rawName)
	case e.Kind == entry.KindDir:
		styledName = dirStyle.Render(rawName)
	default:
		styledName = documentStyle.Render(rawName)
	}

	pad := nameWidth - len(rawName)
	if pad < 0 {
		pad = 0
	}
	paddedName := styledName + strings.Repeat(" ", pad)

	entryVal, parentTotal := barValues(m.sort, e, m.rollup)
	bar := formatBar(entryVal, parentTotal)

	gap := strings.Repeat(" ", colGap)
	nameGap := strings.Repeat(" ", nameGapWidth)
	line := fmt.Sprintf("%*s%s%*s%s%*s%s%s%s%s",
		widths.size, FormatSize(e.Bytes),
		gap,
		widths.documents, FormatCount(e.Documents),
		gap,
		widths.volume, FormatCount(e.Volume),
		nameGap,
		paddedName,
		gap,
		bar,
	)

	if selected {
		return selectedStyle.Render(line)
	}
	return line
}

func barHeaderLabel(sort SortColumn) string {
	switch sort {
	case SortByDocuments:
		return "DOCS%"
	case SortByVolume:
		return "WORD%"
	default:
		return "SIZE%"
	}
}

func barValues(sort SortColumn, e catalog.DisplayEntry, rollup *entry.Aggregate) (int64, int64) {
	if rollup == nil {
		return 0, 0
	}
	switch sort {
	case SortByDocuments:
		return e.Documents, rollup.Documents
	case SortByVolume:
		return e.Volume, rollup.Volume
	default:
		return e.Bytes, rollup.Bytes
	}
}

func formatBar(entryVal, parentTotal int64) string {
	if parentTotal <= 0 || entryVal <= 0 {
		empty := strings.Repeat("░", barBlockWidth)
		return barEmptyStyle.Render(empty) + fmt.Sprintf("  %3d%%", 0)
	}

	pct := float64(entryVal) / float64(parentTotal) * 100
	if pct > 100 {
		pct = 100
	}

	filled := int(math.Round(pct / 100 * float64(barBlockWidth)))
	if filled < 1 {
		filled = 1
	}
	if filled > barBlockWidth {
		filled = barBlockWidth
	}

	filledStr := barFilledStyle.Render(strings.Repeat("█", filled))
	emptyStr := barEmptyStyle.Render(strings.Repeat("░", barBlockWidth-filled))
	return filledStr + emptyStr + fmt.Sprintf("  %3d%%", int(math.Round(pct)))
}

func headerLabel(label string, active bool, dir string) string {
	if active {
		return label + dir
	}
	return label
}

func truncateMiddle(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	head := (maxLen - 3) / 2
	tail := maxLen - 3 - head
	return s[:head] + "..." + s[len(s)-tail:]
}
