package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/util/sets"
)

var titleCaser = cases.Title(language.English)

// Store enumerates documents and static assets from a source content tree.
// It performs read-only filesystem access.
type Store struct {
	root string
}

// Asset is a non-document file under the content tree, copied byte-for-byte
// into the output.
type Asset struct {
	RelativePath string // path relative to the content root, slash-separated
	SourcePath   string // absolute path on disk
}

// NewStore creates a store over the given content root directory.
func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

// Root returns the content root directory.
func (s *Store) Root() string { return s.root }

// ListDocuments walks the content tree and parses every Markdown file into a
// Document. Files with malformed frontmatter are skipped and reported as
// warnings; the walk itself failing is fatal.
//
// The returned slice is sorted by slug so every build processes documents in
// the same order.
func (s *Store) ListDocuments() ([]Document, []*serrors.SiteError, error) {
	if st, err := os.Stat(s.root); err != nil || !st.IsDir() {
		return nil, nil, serrors.IOFailure("stat", s.root, fmt.Errorf("content root not found or not a directory"))
	}

	var docs []Document
	var warnings []*serrors.SiteError

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		doc, perr := s.loadDocument(p, rel)
		if perr != nil {
			slog.Warn("Skipping document with malformed frontmatter", "path", rel, "error", perr)
			warnings = append(warnings, serrors.FrontmatterParseError(rel, perr))
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, warnings, serrors.IOFailure("walk", s.root, err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Slug < docs[j].Slug })

	slog.Debug("Content discovery completed", "documents", len(docs), "skipped", len(warnings))
	return docs, warnings, nil
}

// ListAssets enumerates every non-Markdown file under the content tree.
func (s *Store) ListAssets() ([]Asset, error) {
	var assets []Asset
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		assets = append(assets, Asset{RelativePath: filepath.ToSlash(rel), SourcePath: p})
		return nil
	})
	if err != nil {
		return nil, serrors.IOFailure("walk", s.root, err)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].RelativePath < assets[j].RelativePath })
	return assets, nil
}

// loadDocument reads and parses one content file.
func (s *Store) loadDocument(absPath, relPath string) (Document, error) {
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return Document{}, err
	}

	fm, body, _, err := frontmatter.Split(raw)
	if err != nil {
		return Document{}, err
	}
	meta, err := frontmatter.Parse(fm)
	if err != nil {
		return Document{}, err
	}

	slug := meta.Slug
	if slug == "" {
		slug = defaultSlug(relPath)
	}
	slug = Slugify(slug)

	title := meta.Title
	if title == "" {
		title = defaultTitle(relPath)
	}

	return Document{
		Slug:       slug,
		Title:      title,
		Date:       meta.Date,
		Draft:      meta.Draft,
		Tags:       sets.New(meta.Tags...),
		Categories: sets.New(meta.Categories...),
		Layout:     meta.Layout,
		Body:       body,
		SourcePath: relPath,
	}, nil
}

// defaultSlug derives the slug source from the file location: the path with
// extension dropped, index/_index files collapsing into their directory.
func defaultSlug(relPath string) string {
	p := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	base := filepath.Base(p)
	if base == "index" || base == "_index" {
		p = filepath.Dir(p)
		if p == "." {
			p = ""
		}
	}
	return filepath.ToSlash(p)
}

func defaultTitle(relPath string) string {
	base := strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))
	return titleCaser.String(strings.ReplaceAll(base, "-", " "))
}
