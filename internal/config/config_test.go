package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  title: Paste\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Paste", cfg.Site.Title)
	require.Equal(t, "content", cfg.Content.Dir)
	require.Equal(t, "layouts", cfg.Content.LayoutsDir)
	require.Equal(t, "public", cfg.Output.Dir)
	require.Equal(t, "single", cfg.Site.DefaultLayout)
	require.Equal(t, ":8080", cfg.Server.Listen)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("SITE_TITLE", "From Env")
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  title: ${SITE_TITLE}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "From Env", cfg.Site.Title)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.True(t, serrors.IsCategory(err, serrors.CategoryConfig))
}

func TestValidate_OutputMustDifferFromContent(t *testing.T) {
	cfg := Default()
	cfg.Output.Dir = cfg.Content.Dir
	err := cfg.Validate()
	require.Error(t, err)
	require.True(t, serrors.IsCategory(err, serrors.CategoryConfig))
}

func TestInit_ScaffoldsConfigAndContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")

	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "My Site", cfg.Site.Title)

	_, err = os.Stat(filepath.Join(dir, "content", "hello.md"))
	require.NoError(t, err)

	// Second init without force refuses to overwrite.
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))
}
