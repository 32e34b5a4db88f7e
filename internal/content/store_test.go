package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestListDocuments_ParsesFrontmatterAndDerivesSlug(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "hello.md", "---\ntitle: Hello\ntags: [go]\n---\nHello, Paste!\n")
	writeFile(t, root, "posts/My Post.md", "---\ndraft: true\n---\nbody\n")

	store := NewStore(root)
	docs, warnings, err := store.ListDocuments()
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, docs, 2)

	// sorted by slug
	require.Equal(t, "hello", docs[0].Slug)
	require.Equal(t, "Hello", docs[0].Title)
	require.True(t, docs[0].Tags.Has("go"))
	require.False(t, docs[0].Draft)
	require.Equal(t, []byte("Hello, Paste!\n"), docs[0].Body)

	require.Equal(t, "posts/my-post", docs[1].Slug)
	require.True(t, docs[1].Draft)
	require.Equal(t, "My Post", docs[1].Title)
}

func TestListDocuments_IndexFileCollapsesIntoDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "guides/index.md", "---\ntitle: Guides\n---\nbody\n")

	store := NewStore(root)
	docs, _, err := store.ListDocuments()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "guides", docs[0].Slug)
	require.Equal(t, "guides/index.html", docs[0].OutputPath())
}

func TestListDocuments_RootIndexLivesAtSiteRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.md", "---\ntitle: Home\n---\nwelcome\n")

	store := NewStore(root)
	docs, _, err := store.ListDocuments()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "", docs[0].Slug)
	require.Equal(t, "index.html", docs[0].OutputPath())
	require.Equal(t, "/", docs[0].Permalink())
}

func TestListDocuments_MalformedFrontmatterSkippedWithWarning(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "good.md", "---\ntitle: Good\n---\nok\n")
	writeFile(t, root, "bad.md", "---\ntitle: [unclosed\n---\nbroken\n")

	store := NewStore(root)
	docs, warnings, err := store.ListDocuments()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "good", docs[0].Slug)

	require.Len(t, warnings, 1)
	require.True(t, serrors.IsCategory(warnings[0], serrors.CategoryParse))
	require.True(t, serrors.IsSkippable(warnings[0]))
}

func TestListDocuments_MissingRootIsFatal(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope"))
	_, _, err := store.ListDocuments()
	require.Error(t, err)
	require.True(t, serrors.IsCategory(err, serrors.CategoryFileSystem))
}

func TestListDocuments_ExplicitSlugOverridesLocation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "deep/nested/file.md", "---\nslug: shallow\n---\nbody\n")

	store := NewStore(root)
	docs, _, err := store.ListDocuments()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "shallow", docs[0].Slug)
}

func TestListAssets_SkipsMarkdownAndHiddenDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "post.md", "body")
	writeFile(t, root, "img/logo.png", "\x89PNG")
	writeFile(t, root, "style.css", "body{}")
	writeFile(t, root, ".git/config", "hidden")

	store := NewStore(root)
	assets, err := store.ListAssets()
	require.NoError(t, err)
	require.Len(t, assets, 2)
	require.Equal(t, "img/logo.png", assets[0].RelativePath)
	require.Equal(t, "style.css", assets[1].RelativePath)
}
