package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
)

const (
	// IndexName is the generated index page in every directory.
	IndexName = "README.md"
	// SidebarName is the generated navigation sidebar in every directory.
	SidebarName = "_sidebar.md"
	// NavbarName is a hand-maintained companion page, never regenerated.
	NavbarName = "_navbar.md"
	// CoverName is a hand-maintained companion page, never regenerated.
	CoverName = "_coverpage.md"
	// DocumentExt is the only extension treated as a document.
	DocumentExt = ".md"
	// DefaultCollection is the designated collection name when none is given.
	DefaultCollection = "library"
	// DefaultRetention is the number of catalog snapshots kept.
	DefaultRetention = 5
)

// DefaultFooter is appended to the root index page.
const DefaultFooter = `> This page is generated automatically. Manual edits are overwritten on the next run.

Corrections and questions: open an issue in the repository that hosts this collection.
Each document remains under the license chosen by its author.`

// Config is the immutable configuration threaded through every component.
// The With* methods return modified copies.
type Config struct {
	// Root is the directory being indexed.
	Root string

	// Collection names the designated top-level collection directory.
	Collection string

	// Title is the root page heading. Empty means the root directory name.
	Title string

	// Footer is copied verbatim below the root page.
	Footer string

	// ExcludePatterns are regular expressions matched against absolute paths.
	ExcludePatterns []*regexp.Regexp

	// ExcludeGlobs are doublestar patterns matched against root-relative,
	// slash-separated paths.
	ExcludeGlobs []string

	// CatalogDir enables run snapshots when non-empty.
	CatalogDir string

	// Retention is the number of catalog snapshots kept (0 = unlimited).
	Retention int

	// DryRun renders every page without writing any.
	DryRun bool

	// IncludeHidden indexes entries whose name starts with a dot.
	IncludeHidden bool
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Root:       ".",
		Collection: DefaultCollection,
		Footer:     DefaultFooter,
		Retention:  DefaultRetention,
	}
}

// WithRoot sets the directory to index.
func (c Config) WithRoot(root string) Config {
	c.Root = root
	return c
}

// WithCollection sets the designated collection name.
func (c Config) WithCollection(name string) Config {
	c.Collection = name
	return c
}

// WithTitle sets the root page heading.
func (c Config) WithTitle(title string) Config {
	c.Title = title
	return c
}

// WithDryRun sets dry-run behavior.
func (c Config) WithDryRun(dryRun bool) Config {
	c.DryRun = dryRun
	return c
}

// WithIncludeHidden sets whether dot-prefixed entries are indexed.
func (c Config) WithIncludeHidden(include bool) Config {
	c.IncludeHidden = include
	return c
}

// WithCatalog enables run snapshots in dir.
func (c Config) WithCatalog(dir string, retention int) Config {
	c.CatalogDir = dir
	c.Retention = retention
	return c
}

// AddExcludePattern returns a copy that also excludes paths matching pattern.
func (c Config) AddExcludePattern(pattern string) (Config, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return c, err
	}
	patterns := make([]*regexp.Regexp, 0, len(c.ExcludePatterns)+1)
	patterns = append(patterns, c.ExcludePatterns...)
	c.ExcludePatterns = append(patterns, re)
	return c, nil
}

// AddExcludeGlob returns a copy that also excludes paths matching glob.
func (c Config) AddExcludeGlob(glob string) (Config, error) {
	if !doublestar.ValidatePattern(glob) {
		return c, fmt.Errorf("invalid glob %q", glob)
	}
	globs := make([]string, 0, len(c.ExcludeGlobs)+1)
	globs = append(globs, c.ExcludeGlobs...)
	c.ExcludeGlobs = append(globs, glob)
	return c, nil
}

// ShouldExclude checks if a path is hidden or matches any exclude pattern
// or glob.
func (c Config) ShouldExclude(path string) bool {
	if !c.IncludeHidden && IsHidden(filepath.Base(path)) {
		return true
	}
	for _, re := range c.ExcludePatterns {
		if re.MatchString(path) {
			return true
		}
	}
	if len(c.ExcludeGlobs) == 0 {
		return false
	}
	rel, err := filepath.Rel(c.Root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, glob := range c.ExcludeGlobs {
		if ok, err := doublestar.Match(glob, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// IsHidden reports whether name is a dot-prefixed entry such as .git.
func IsHidden(name string) bool {
	return len(name) > 1 && name[0] == '.' && name != ".."
}

// IsReserved reports whether name is a generated or companion page.
func (c Config) IsReserved(name string) bool {
	switch name {
	case IndexName, SidebarName, NavbarName, CoverName:
		return true
	}
	return false
}

// IsDocument reports whether name is a document that is not reserved.
func (c Config) IsDocument(name string) bool {
	return !c.IsReserved(name) && strings.EqualFold(filepath.Ext(name), DocumentExt)
}

// DocumentName strips the document extension from a filename.
func (c Config) DocumentName(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// IndexPath returns the index page path for dir.
func (c Config) IndexPath(dir string) string {
	return filepath.Join(dir, IndexName)
}

// SidebarPath returns the sidebar path for dir.
func (c Config) SidebarPath(dir string) string {
	return filepath.Join(dir, SidebarName)
}

// Keys used in config files, the environment and flag bindings.
const (
	KeyRoot        = "root"
	KeyCollection  = "collection"
	KeyTitle       = "title"
	KeyFooter      = "footer"
	KeyExclude     = "exclude"
	KeyExcludeGlob = "exclude_glob"
	KeyCatalogDir  = "catalog.dir"
	KeyRetention   = "catalog.retention"
	KeyDryRun      = "dry_run"
	KeyHidden      = "include_hidden"
	KeyLogLevel    = "log.level"
)

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyRoot, d.Root)
	v.SetDefault(KeyCollection, d.Collection)
	v.SetDefault(KeyTitle, d.Title)
	v.SetDefault(KeyFooter, d.Footer)
	v.SetDefault(KeyExclude, []string{})
	v.SetDefault(KeyExcludeGlob, []string{})
	v.SetDefault(KeyCatalogDir, d.CatalogDir)
	v.SetDefault(KeyRetention, d.Retention)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyHidden, false)
	v.SetDefault(KeyLogLevel, "info")
}

// Load builds a Config from v. The root is resolved to an absolute path.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default().
		WithCollection(v.GetString(KeyCollection)).
		WithTitle(v.GetString(KeyTitle)).
		WithCatalog(v.GetString(KeyCatalogDir), v.GetInt(KeyRetention)).
		WithDryRun(v.GetBool(KeyDryRun)).
		WithIncludeHidden(v.GetBool(KeyHidden))

	if footer := v.GetString(KeyFooter); footer != "" {
		cfg.Footer = footer
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	root := v.GetString(KeyRoot)
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return cfg, fmt.Errorf("failed to resolve root path: %w", err)
	}
	cfg = cfg.WithRoot(filepath.Clean(abs))

	for _, pattern := range v.GetStringSlice(KeyExclude) {
		if cfg, err = cfg.AddExcludePattern(pattern); err != nil {
			return cfg, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}
	for _, glob := range v.GetStringSlice(KeyExcludeGlob) {
		if cfg, err = cfg.AddExcludeGlob(glob); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}
