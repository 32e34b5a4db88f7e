package layout

import (
	"html/template"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

func writeLayout(t *testing.T, dir, name, source string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(source), 0o644))
}

func TestLoad_ExtendsChainRendersParentAndChildRegions(t *testing.T) {
	dir := t.TempDir()
	writeLayout(t, dir, "base.html", `<html><head><title>{{ block "title" . }}default title{{ end }}</title></head><body>{{ block "content" . }}{{ end }}<footer>base footer</footer></body></html>`)
	writeLayout(t, dir, "single.html", `{{/* extends "base" */}}
{{ define "content" }}<article>{{ .Content }}</article>{{ end }}`)

	reg, err := Load(dir)
	require.NoError(t, err)

	out, err := reg.Render("single", Page{Content: template.HTML("<p>Hello, Paste!</p>")})
	require.NoError(t, err)

	html := string(out)
	// child block
	require.Contains(t, html, "<article><p>Hello, Paste!</p></article>")
	// parent's non-overridden regions survive
	require.Contains(t, html, "default title")
	require.Contains(t, html, "base footer")
}

func TestLoad_ChainIsOutermostFirst(t *testing.T) {
	dir := t.TempDir()
	writeLayout(t, dir, "base.html", `{{ block "content" . }}{{ end }}`)
	writeLayout(t, dir, "mid.html", `{{/* extends "base" */}}`)
	writeLayout(t, dir, "leaf.html", `{{/* extends "mid" */}}
{{ define "content" }}leaf{{ end }}`)

	reg, err := Load(dir)
	require.NoError(t, err)

	chain, err := reg.Chain("leaf")
	require.NoError(t, err)
	names := make([]string, 0, len(chain))
	for _, m := range chain {
		names = append(names, m.Name)
	}
	require.Equal(t, []string{"base", "mid", "leaf"}, names)

	out, err := reg.Render("leaf", Page{})
	require.NoError(t, err)
	require.Equal(t, "leaf", string(out))
}

func TestLoad_CycleIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeLayout(t, dir, "a.html", `{{/* extends "b" */}}`)
	writeLayout(t, dir, "b.html", `{{/* extends "a" */}}`)

	_, err := Load(dir)
	require.Error(t, err)
	require.True(t, serrors.IsCategory(err, serrors.CategoryTemplate))
	require.False(t, serrors.IsSkippable(err))
}

func TestLoad_DanglingParentIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeLayout(t, dir, "single.html", `{{/* extends "missing" */}}`)

	_, err := Load(dir)
	require.Error(t, err)
	require.True(t, serrors.IsCategory(err, serrors.CategoryTemplate))
}

func TestLoad_MissingDirFallsBackToBuiltins(t *testing.T) {
	reg, err := Load(filepath.Join(t.TempDir(), "no-such-dir"))
	require.NoError(t, err)
	require.True(t, reg.Has(DefaultLayout))
	require.True(t, reg.Has(ListLayout))

	out, err := reg.Render(DefaultLayout, Page{
		Site:    SiteInfo{Title: "My Site"},
		Title:   "Hello",
		Content: template.HTML("<p>body</p>"),
	})
	require.NoError(t, err)
	require.Contains(t, string(out), "<p>body</p>")
	require.Contains(t, string(out), "My Site")
}

func TestRender_UnknownLayout(t *testing.T) {
	dir := t.TempDir()
	writeLayout(t, dir, "base.html", `ok`)

	reg, err := Load(dir)
	require.NoError(t, err)

	_, err = reg.Render("nope", Page{})
	require.Error(t, err)
	require.True(t, serrors.IsCategory(err, serrors.CategoryTemplate))
}

func TestParseExtends(t *testing.T) {
	require.Equal(t, "base", parseExtends([]byte(`{{/* extends "base" */}}`)))
	require.Equal(t, "base", parseExtends([]byte("\n  {{/* extends base */}}\nrest")))
	require.Equal(t, "", parseExtends([]byte(`{{ block "content" . }}{{ end }}`)))
}
