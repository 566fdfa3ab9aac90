package main

import (
	"fmt"

	"github.com/michaelscutari/docstat/internal/fsys"
	"github.com/michaelscutari/docstat/internal/preview"
	"github.com/michaelscutari/docstat/internal/tui"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"
)

var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"tui"},
	Short:   "Browse a catalog interactively",
	Long:    `Open an interactive TUI to browse the document tree recorded in a catalog.`,
	RunE:    runBrowse,
}

var (
	browseDB        string
	browseTheme     string
	browseNoPreview bool
)

func init() {
	addCatalogFlags(browseCmd, &browseDB)
	browseCmd.Flags().StringVar(&browseTheme, "theme", preview.DefaultTheme, "Preview style (auto, dark, light, notty)")
	browseCmd.Flags().BoolVar(&browseNoPreview, "no-preview", false, "Disable page previews")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	database, err := openCatalog(browseDB)
	if err != nil {
		return err
	}
	defer closeCatalog(database)

	model := tui.NewModel(database)
	if !browseNoPreview {
		renderer := preview.NewRenderer(browseTheme, 0)
		model.SetPreviewFunc(func(dir string, width int) (string, error) {
			return renderer.WithWidth(width).RenderIndex(fsys.OS{}, dir)
		})
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
