package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/michaelscutari/docstat/internal/config"
	"github.com/michaelscutari/docstat/internal/fsys"
	"github.com/michaelscutari/docstat/internal/metrics"
	"github.com/michaelscutari/docstat/internal/site"
	"github.com/michaelscutari/docstat/internal/snapshot"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var generateCmd = &cobra.Command{
	Use:   "generate [root] [collection]",
	Short: "Write index pages and sidebars for a document tree",
	Long: `Scan a document tree and write README.md and _sidebar.md into every
directory. The root defaults to the current directory and the designated
collection to "library".`,
	Args:    cobra.MaximumNArgs(2),
	PreRunE: bindGenerateFlags,
	RunE:    runGenerate,
}

// generateFlagKeys maps generate flags to config keys.
var generateFlagKeys = map[string]string{
	"title":          config.KeyTitle,
	"exclude":        config.KeyExclude,
	"exclude-glob":   config.KeyExcludeGlob,
	"catalog":        config.KeyCatalogDir,
	"retention":      config.KeyRetention,
	"dry-run":        config.KeyDryRun,
	"include-hidden": config.KeyHidden,
}

var generateProgress time.Duration

func init() {
	addGenerateFlags(generateCmd)
}

func addGenerateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("title", "", "Root page heading (default is the root directory name)")
	f.StringSliceP("exclude", "e", nil, "Regex patterns to exclude (can be repeated)")
	f.StringSlice("exclude-glob", nil, "Glob patterns relative to the root to exclude (can be repeated)")
	f.String("catalog", "", "Directory for run catalog snapshots (empty disables the catalog)")
	f.Int("retention", config.DefaultRetention, "Number of catalog snapshots to retain (0 = unlimited)")
	f.Bool("dry-run", false, "Render every page without writing any")
	f.Bool("include-hidden", false, "Index files and directories whose name starts with a dot")
	f.DurationVar(&generateProgress, "progress-interval", 30*time.Second, "Emit progress lines to stderr at this interval when not a TTY (0 to disable)")
}

// bindGenerateFlags binds the flags of the command being run, so that the
// root command and generate share config keys.
func bindGenerateFlags(cmd *cobra.Command, args []string) error {
	for flag, key := range generateFlagKeys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	if len(args) > 0 {
		viper.Set(config.KeyRoot, args[0])
	}
	if len(args) > 1 {
		viper.Set(config.KeyCollection, args[1])
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	var fs fsys.FS = fsys.OS{}
	var dry *fsys.DryRun
	if cfg.DryRun {
		dry = fsys.NewDryRun(fs)
		fs = dry
	}

	opener, err := catalogOpener(cfg)
	if err != nil {
		return err
	}
	opts := site.Options{Logger: logger, OpenCatalog: opener}

	logger.Info("generating", "root", cfg.Root, "collection", cfg.Collection, "dry_run", cfg.DryRun)
	startTime := time.Now()

	var lastDirs, lastDocuments int64
	var stage atomic.Value
	stage.Store("scan")
	opts.Progress = func(dirs, documents int64) {
		atomic.StoreInt64(&lastDirs, dirs)
		atomic.StoreInt64(&lastDocuments, documents)
	}
	opts.Stage = func(s string) {
		if s != "" {
			stage.Store(s)
		}
	}

	isTTY := isTerminal()
	progressDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		lastNonTTY := time.Now()
		spinnerIdx := 0
		for {
			select {
			case <-progressDone:
				return
			case <-ticker.C:
				stageStr, _ := stage.Load().(string)
				dirs := atomic.LoadInt64(&lastDirs)
				documents := atomic.LoadInt64(&lastDocuments)
				elapsed := time.Since(startTime).Round(time.Millisecond)
				if isTTY {
					spinner := spinnerFrames[spinnerIdx%len(spinnerFrames)]
					spinnerIdx++
					if stageStr != "scan" {
						fmt.Fprintf(os.Stderr, "\r\033[K%s %s... | %s", spinner, stageStr, elapsed)
					} else {
						fmt.Fprintf(os.Stderr, "\r\033[K%s Scanning... %s dirs | %s documents | %s",
							spinner, humanize.Comma(dirs), humanize.Comma(documents), elapsed)
					}
				} else if generateProgress > 0 && time.Since(lastNonTTY) >= generateProgress {
					fmt.Fprintf(os.Stderr, "PROGRESS stage=%s dirs=%d documents=%d elapsed=%s\n",
						stageStr, dirs, documents, elapsed)
					lastNonTTY = time.Now()
				}
			}
		}
	}()

	report, genErr := site.Generate(cfg, fs, opts)
	close(progressDone)
	if isTTY {
		fmt.Fprintf(os.Stderr, "\r\033[K")
	}

	if report == nil {
		return fmt.Errorf("generation failed: %w", genErr)
	}
	if report.CatalogPath != "" {
		fmt.Printf("Catalog: %s\n", report.CatalogPath)
	}

	fmt.Printf("Generated in %s\n", time.Since(startTime).Round(time.Millisecond))
	printSummary(report)

	if dry != nil {
		fmt.Printf("\nDry run, %d pages not written:\n", len(dry.Writes()))
		for _, w := range dry.Writes() {
			fmt.Printf("  %s (%s)\n", w.Path, metrics.FormatSize(int64(w.Bytes)))
		}
	}

	if genErr != nil {
		return fmt.Errorf("generation finished with errors: %w", genErr)
	}
	return nil
}

// catalogOpener returns the function that begins a catalog snapshot, or nil
// when the catalog is disabled. Nothing is created on disk until it is called.
func catalogOpener(cfg config.Config) (func() (site.Catalog, error), error) {
	if cfg.CatalogDir == "" || cfg.DryRun {
		return nil, nil
	}
	catalogDir, err := filepath.Abs(cfg.CatalogDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog path: %w", err)
	}
	mgr := snapshot.NewManager(catalogDir, cfg.Retention, logger.WithPrefix("catalog"))
	return func() (site.Catalog, error) {
		sess, err := mgr.Begin()
		if err != nil {
			return nil, err
		}
		return sess, nil
	}, nil
}

func printSummary(report *site.Report) {
	meta := report.Meta
	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Documents: %s\n", humanize.Comma(meta.Documents))
	fmt.Printf("  Words (est.): %s\n", humanize.Comma(meta.Volume))
	fmt.Printf("  Size: %s\n", metrics.FormatSize(meta.Bytes))
	fmt.Printf("  Directories: %s\n", humanize.Comma(meta.Dirs))
	fmt.Printf("  Pages: %s\n", humanize.Comma(meta.Pages))
	if meta.ErrorCount > 0 {
		fmt.Printf("  Errors: %s\n", humanize.Comma(meta.ErrorCount))
		for _, e := range report.Errors {
			logger.Warn("run error", "op", e.Op, "path", e.Path, "err", e.Message)
		}
	}
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
