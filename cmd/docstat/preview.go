package main

import (
	"fmt"
	"path/filepath"

	"github.com/michaelscutari/docstat/internal/fsys"
	"github.com/michaelscutari/docstat/internal/preview"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview [dir]",
	Short: "Render a generated page in the terminal",
	Long:  `Render the README.md (or, with --sidebar, the _sidebar.md) of a directory.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPreview,
}

var (
	previewSidebar bool
	previewTheme   string
	previewWidth   int
)

func init() {
	previewCmd.Flags().BoolVar(&previewSidebar, "sidebar", false, "Render the sidebar instead of the index page")
	previewCmd.Flags().StringVar(&previewTheme, "theme", preview.DefaultTheme, "Style (auto, dark, light, notty)")
	previewCmd.Flags().IntVarP(&previewWidth, "width", "w", 100, "Word wrap width (0 disables wrapping)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	r := preview.NewRenderer(previewTheme, previewWidth)
	var out string
	if previewSidebar {
		out, err = r.RenderSidebar(fsys.OS{}, dir)
	} else {
		out, err = r.RenderIndex(fsys.OS{}, dir)
	}
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
