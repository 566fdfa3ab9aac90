package preview

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/michaelscutari/docstat/internal/config"
	"github.com/michaelscutari/docstat/internal/fsys"
)

// DefaultTheme selects a style from the terminal background.
const DefaultTheme = "auto"

// Renderer renders generated pages for the terminal.
type Renderer struct {
	theme string
	width int
}

// NewRenderer creates a renderer. An empty theme means DefaultTheme and a
// width of zero disables word wrapping.
func NewRenderer(theme string, width int) *Renderer {
	if theme == "" {
		theme = DefaultTheme
	}
	return &Renderer{theme: theme, width: width}
}

// WithWidth returns a copy of r wrapping at width.
func (r *Renderer) WithWidth(width int) *Renderer {
	return &Renderer{theme: r.theme, width: width}
}

// Render renders Markdown content.
func (r *Renderer) Render(content string) (string, error) {
	var opts []glamour.TermRendererOption
	if r.theme == DefaultTheme {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(r.theme))
	}
	if r.width > 0 {
		opts = append(opts, glamour.WithWordWrap(r.width))
	}

	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := tr.Render(content)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// RenderIndex renders the index page of dir.
func (r *Renderer) RenderIndex(fs fsys.FS, dir string) (string, error) {
	return r.RenderFile(fs, filepath.Join(dir, config.IndexName))
}

// RenderSidebar renders the sidebar of dir.
func (r *Renderer) RenderSidebar(fs fsys.FS, dir string) (string, error) {
	return r.RenderFile(fs, filepath.Join(dir, config.SidebarName))
}

// RenderFile renders the Markdown file at path.
func (r *Renderer) RenderFile(fs fsys.FS, path string) (string, error) {
	data, err := fs.ReadBytes(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return r.Render(string(data))
}
