package builder

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"git.home.luguber.info/inful/sitegen/internal/content"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/layout"
	"git.home.luguber.info/inful/sitegen/internal/util/sets"
)

// stageGenerateIndexes emits the home page plus tag and category listings
// through the list layout. A document may claim the root output path itself
// (a top-level index.md); the generated home page yields in that case.
// Generated listings colliding with a document path is a real collision.
func stageGenerateIndexes(_ context.Context, bs *BuildState) error {
	if !bs.Registry.Has(layout.ListLayout) {
		return newWarnStageError(StageGenerateIndexes, fmt.Errorf("no %q layout registered, skipping index pages", layout.ListLayout))
	}

	cfg := bs.Generator.cfg

	var published []content.Document
	tagged := map[string][]content.Document{}
	categorized := map[string][]content.Document{}
	for _, doc := range bs.Docs {
		if doc.Draft && !cfg.Build.IncludeDrafts {
			continue
		}
		published = append(published, doc)
		for _, tag := range sets.Sorted(doc.Tags) {
			tagged[tag] = append(tagged[tag], doc)
		}
		for _, cat := range sets.Sorted(doc.Categories) {
			categorized[cat] = append(categorized[cat], doc)
		}
	}

	// Home page, unless a document already owns the root.
	if _, taken := bs.outputs["index.html"]; !taken {
		if err := writeIndexPage(bs, "index.html", cfg.Site.Title, published); err != nil {
			return err
		}
	} else {
		slog.Debug("Root index owned by a document, skipping generated home page")
	}

	for _, tag := range sortedKeys(tagged) {
		out := path.Join("tags", content.Slugify(tag), "index.html")
		if err := writeIndexPage(bs, out, "Tag: "+tag, tagged[tag]); err != nil {
			return err
		}
	}
	for _, cat := range sortedKeys(categorized) {
		out := path.Join("categories", content.Slugify(cat), "index.html")
		if err := writeIndexPage(bs, out, "Category: "+cat, categorized[cat]); err != nil {
			return err
		}
	}
	return nil
}

func writeIndexPage(bs *BuildState, outputPath, title string, docs []content.Document) error {
	source := "generated:" + outputPath
	if prior, ok := bs.claimOutput(outputPath, source); !ok {
		return newFatalStageError(StageGenerateIndexes, serrors.OutputCollision(outputPath, prior, source))
	}

	cfg := bs.Generator.cfg
	refs := make([]layout.PageRef, 0, len(docs))
	for _, d := range docs {
		refs = append(refs, layout.PageRef{Title: d.Title, Permalink: d.Permalink(), Date: d.Date})
	}
	sortPageRefs(refs)

	page := layout.Page{
		Site:  layout.SiteInfo{Title: cfg.Site.Title, BaseURL: cfg.Site.BaseURL},
		Title: title,
		Pages: refs,
	}
	html, err := bs.Registry.Render(layout.ListLayout, page)
	if err != nil {
		return newFatalStageError(StageGenerateIndexes, err)
	}
	if err := bs.Generator.writeStaged(outputPath, html); err != nil {
		return newFatalStageError(StageGenerateIndexes, serrors.IOFailure("write", outputPath, err))
	}
	bs.Report.IndexPages++
	return nil
}

func sortedKeys(m map[string][]content.Document) []string {
	s := sets.New[string]()
	for k := range m {
		s.Add(k)
	}
	return sets.Sorted(s)
}
