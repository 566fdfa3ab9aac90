package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultCollection, cfg.Collection)
	assert.Equal(t, DefaultFooter, cfg.Footer)
	assert.Equal(t, DefaultRetention, cfg.Retention)
	assert.False(t, cfg.DryRun)
}

func TestWithMethodsDoNotMutate(t *testing.T) {
	base := Default()
	changed := base.WithCollection("notes").WithRoot("/srv/docs").WithDryRun(true)

	assert.Equal(t, DefaultCollection, base.Collection)
	assert.Equal(t, ".", base.Root)
	assert.Equal(t, "notes", changed.Collection)
	assert.True(t, changed.DryRun)

	withPattern, err := base.AddExcludePattern(`/drafts(/|$)`)
	require.NoError(t, err)
	assert.Empty(t, base.ExcludePatterns)
	assert.Len(t, withPattern.ExcludePatterns, 1)
}

func TestReservedAndDocumentNames(t *testing.T) {
	cfg := Default()
	for _, name := range []string{IndexName, SidebarName, NavbarName, CoverName} {
		assert.True(t, cfg.IsReserved(name), name)
		assert.False(t, cfg.IsDocument(name), name)
	}
	assert.True(t, cfg.IsDocument("guide.md"))
	assert.True(t, cfg.IsDocument("GUIDE.MD"))
	assert.False(t, cfg.IsDocument("image.png"))
	assert.False(t, cfg.IsDocument("md"))
	assert.Equal(t, "guide", cfg.DocumentName("guide.md"))
	assert.Equal(t, "v1.2 notes", cfg.DocumentName("v1.2 notes.md"))
}

func TestShouldExclude(t *testing.T) {
	cfg := Default().WithRoot("/srv/docs")
	cfg, err := cfg.AddExcludePattern(`/\.git(/|$)`)
	require.NoError(t, err)
	cfg, err = cfg.AddExcludeGlob("**/drafts/**")
	require.NoError(t, err)
	cfg, err = cfg.AddExcludeGlob("scratch.md")
	require.NoError(t, err)

	assert.True(t, cfg.ShouldExclude("/srv/docs/.git"))
	assert.True(t, cfg.ShouldExclude("/srv/docs/library/drafts/a.md"))
	assert.True(t, cfg.ShouldExclude("/srv/docs/scratch.md"))
	assert.False(t, cfg.ShouldExclude("/srv/docs/library/a.md"))
	assert.False(t, cfg.ShouldExclude("/srv/docs/library/scratch.md"))
}

func TestShouldExcludeHidden(t *testing.T) {
	cfg := Default().WithRoot("/srv/docs")
	assert.True(t, cfg.ShouldExclude("/srv/docs/.git"))
	assert.True(t, cfg.ShouldExclude("/srv/docs/library/.obsidian"))
	assert.True(t, cfg.ShouldExclude("/srv/docs/library/.draft.md"))
	assert.False(t, cfg.ShouldExclude("/srv/docs/library/a.md"))

	cfg = cfg.WithIncludeHidden(true)
	assert.False(t, cfg.ShouldExclude("/srv/docs/.git"))
	assert.False(t, cfg.ShouldExclude("/srv/docs/library/.draft.md"))

	assert.False(t, IsHidden("."))
	assert.False(t, IsHidden(".."))
	assert.True(t, IsHidden(".docstat"))
}

func TestInvalidExcludes(t *testing.T) {
	_, err := Default().AddExcludePattern("([")
	assert.Error(t, err)
	_, err = Default().AddExcludeGlob("[")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	root := t.TempDir()

	v := viper.New()
	SetDefaults(v)
	v.Set(KeyRoot, root)
	v.Set(KeyCollection, "notes")
	v.Set(KeyExclude, []string{`\.tmp$`})
	v.Set(KeyExcludeGlob, []string{"private/**"})
	v.Set(KeyCatalogDir, "/var/lib/docstat")
	v.Set(KeyRetention, 2)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(root), cfg.Root)
	assert.Equal(t, "notes", cfg.Collection)
	assert.Equal(t, DefaultFooter, cfg.Footer)
	assert.Len(t, cfg.ExcludePatterns, 1)
	assert.Equal(t, []string{"private/**"}, cfg.ExcludeGlobs)
	assert.Equal(t, "/var/lib/docstat", cfg.CatalogDir)
	assert.Equal(t, 2, cfg.Retention)
	assert.False(t, cfg.IncludeHidden)

	v.Set(KeyHidden, true)
	cfg, err = Load(v)
	require.NoError(t, err)
	assert.True(t, cfg.IncludeHidden)
}

func TestLoadRejectsBadPattern(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyExclude, []string{"(("})

	_, err := Load(v)
	assert.Error(t, err)
}

func TestLoadEmptyCollectionFallsBack(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyCollection, "")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultCollection, cfg.Collection)
}
