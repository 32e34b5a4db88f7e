package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitThenBuild(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "site.yaml")

	root := &CLI{Config: configPath}
	initCmd := &InitCmd{}
	require.NoError(t, initCmd.Run(&Global{}, root))
	require.FileExists(t, configPath)
	require.FileExists(t, filepath.Join(dir, "content", "hello.md"))

	// Config paths are relative to the working directory, so run from the
	// scaffolded site root.
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })

	buildCmd := &BuildCmd{}
	require.NoError(t, buildCmd.Run(&Global{}, root))

	require.FileExists(t, filepath.Join(dir, "public", "hello", "index.html"))
	require.FileExists(t, filepath.Join(dir, "public", "index.html"))
}

func TestInitRefusesOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("site:\n  title: Existing\n"), 0o644))

	root := &CLI{Config: configPath}
	err := (&InitCmd{}).Run(&Global{}, root)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, root))
}

func TestBuildFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")
	outDir := filepath.Join(dir, "rendered")
	require.NoError(t, os.MkdirAll(contentDir, 0o755))
	post := "---\ntitle: Draft Post\ndraft: true\n---\n\nNot done yet.\n"
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "wip.md"), []byte(post), 0o644))

	root := &CLI{Config: filepath.Join(dir, "missing.yaml")}
	buildCmd := &BuildCmd{Content: contentDir, Output: outDir, Drafts: true}
	require.NoError(t, buildCmd.Run(&Global{}, root))

	require.FileExists(t, filepath.Join(outDir, "wip", "index.html"))
}

func TestBuildFailsOnDistinctDirsViolation(t *testing.T) {
	dir := t.TempDir()
	root := &CLI{Config: filepath.Join(dir, "missing.yaml")}
	buildCmd := &BuildCmd{Content: dir, Output: dir}
	require.Error(t, buildCmd.Run(&Global{}, root))
}
