package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/michaelscutari/docstat/internal/catalog"
	"github.com/michaelscutari/docstat/internal/metrics"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display run metadata",
	Long:  `Print metadata about a generation run stored in a catalog snapshot.`,
	RunE:  runInfo,
}

var (
	infoDB     string
	infoErrors int
)

func init() {
	addCatalogFlags(infoCmd, &infoDB)
	infoCmd.Flags().IntVar(&infoErrors, "errors", 10, "Number of recorded errors to list")
}

func runInfo(cmd *cobra.Command, args []string) error {
	database, err := openCatalog(infoDB)
	if err != nil {
		return err
	}
	defer closeCatalog(database)

	meta, err := catalog.GetRunMeta(database)
	if err != nil {
		return fmt.Errorf("failed to read run metadata: %w", err)
	}

	fmt.Printf("Run Information\n")
	fmt.Printf("===============\n\n")
	fmt.Printf("Root Path:    %s\n", meta.RootPath)
	fmt.Printf("Collection:   %s\n", meta.Collection)
	fmt.Printf("Start Time:   %s\n", meta.StartTime.Format(time.RFC3339))
	if !meta.EndTime.IsZero() {
		fmt.Printf("End Time:     %s\n", meta.EndTime.Format(time.RFC3339))
		fmt.Printf("Duration:     %s\n", meta.EndTime.Sub(meta.StartTime).Round(time.Millisecond))
	}
	fmt.Printf("\nStatistics\n")
	fmt.Printf("----------\n")
	fmt.Printf("Documents:     %s\n", humanize.Comma(meta.Documents))
	fmt.Printf("Words (est.):  %s\n", humanize.Comma(meta.Volume))
	fmt.Printf("Size:          %s (%s)\n", metrics.FormatSize(meta.Bytes), humanize.Bytes(uint64(meta.Bytes)))
	fmt.Printf("Directories:   %s\n", humanize.Comma(meta.Dirs))
	fmt.Printf("Pages:         %s\n", humanize.Comma(meta.Pages))
	if meta.ErrorCount > 0 {
		fmt.Printf("Errors:        %s\n", humanize.Comma(meta.ErrorCount))
	}

	if infoErrors > 0 && meta.ErrorCount > 0 {
		errs, err := catalog.GetErrors(database, infoErrors)
		if err != nil {
			return fmt.Errorf("failed to read errors: %w", err)
		}
		fmt.Printf("\nErrors\n")
		fmt.Printf("------\n")
		for _, e := range errs {
			fmt.Printf("%-6s %s: %s\n", e.Op, e.Path, e.Message)
		}
	}

	return nil
}
