package builder

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/layout"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/util/sets"
)

// stageLoadLayouts loads and validates the template registry. Graph errors
// (cycles, dangling parents) abort the build: they can affect many documents.
func stageLoadLayouts(_ context.Context, bs *BuildState) error {
	reg, err := layout.Load(bs.Generator.cfg.Content.LayoutsDir)
	if err != nil {
		return newFatalStageError(StageLoadLayouts, err)
	}
	bs.Registry = reg
	slog.Debug("Loaded layouts", "layouts", reg.Names())
	return nil
}

// stageLoadContent enumerates documents and assets. Per-document frontmatter
// errors were already isolated by the store; they surface as a single warning
// so the operator sees them without the build aborting.
func stageLoadContent(_ context.Context, bs *BuildState) error {
	store := content.NewStore(bs.Generator.cfg.Content.Dir)

	docs, warnings, err := store.ListDocuments()
	if err != nil {
		return newFatalStageError(StageLoadContent, err)
	}
	bs.Docs = docs

	assets, err := store.ListAssets()
	if err != nil {
		return newFatalStageError(StageLoadContent, err)
	}
	bs.Assets = assets

	// Per-document failures were already logged by the store; the report
	// carries a single summary entry, appended by the stage runner.
	if len(warnings) > 0 {
		return newWarnStageError(StageLoadContent, fmt.Errorf("%d document(s) skipped due to malformed frontmatter", len(warnings)))
	}
	return nil
}

type renderedPage struct {
	outputPath string
	source     string
	html       []byte
}

// stageRenderPages renders every publishable document in parallel, then
// checks for output-path collisions before any page is written. Documents are
// independent, so rendering order is irrelevant; the deterministic slug sort
// from the store keeps collision reports stable.
func stageRenderPages(ctx context.Context, bs *BuildState) error {
	cfg := bs.Generator.cfg

	var publishable []content.Document
	for _, doc := range bs.Docs {
		if doc.Draft && !cfg.Build.IncludeDrafts {
			bs.Report.DraftsSkipped++
			slog.Debug("Skipping draft", "slug", doc.Slug, "source", doc.SourcePath)
			continue
		}
		publishable = append(publishable, doc)
	}

	pages := make([]renderedPage, len(publishable))
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for i, doc := range publishable {
		eg.Go(func() error {
			html, err := renderDocument(bs.Registry, cfg, doc)
			if err != nil {
				return err
			}
			pages[i] = renderedPage{outputPath: doc.OutputPath(), source: doc.SourcePath, html: html}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return newFatalStageError(StageRenderPages, err)
	}

	// Collision check over the complete mapping, before any write.
	for _, p := range pages {
		if prior, ok := bs.claimOutput(p.outputPath, p.source); !ok {
			return newFatalStageError(StageRenderPages, serrors.OutputCollision(p.outputPath, prior, p.source))
		}
	}

	for _, p := range pages {
		if err := bs.Generator.writeStaged(p.outputPath, p.html); err != nil {
			return newFatalStageError(StageRenderPages, serrors.IOFailure("write", p.outputPath, err))
		}
		bs.Report.Pages++
	}
	return nil
}

// renderDocument renders one document's Markdown body into its layout chain.
func renderDocument(reg *layout.Registry, cfg *config.Config, doc content.Document) ([]byte, error) {
	name := doc.Layout
	if name == "" {
		name = cfg.Site.DefaultLayout
	}
	if !reg.Has(name) {
		return nil, serrors.TemplateNotFound(name).WithContext("document", doc.SourcePath)
	}

	body, err := markdown.Render(doc.Body)
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryParse, serrors.SeverityFatal, "markdown rendering failed").
			WithContext("document", doc.SourcePath)
	}

	page := layout.Page{
		Site:       layout.SiteInfo{Title: cfg.Site.Title, BaseURL: cfg.Site.BaseURL},
		Title:      doc.Title,
		Date:       doc.Date,
		Tags:       sets.Sorted(doc.Tags),
		Categories: sets.Sorted(doc.Categories),
		Permalink:  doc.Permalink(),
		Content:    template.HTML(body),
	}
	return reg.Render(name, page)
}

// sortPageRefs orders list entries newest first, ties broken by title.
func sortPageRefs(refs []layout.PageRef) {
	sort.Slice(refs, func(i, j int) bool {
		if !refs[i].Date.Equal(refs[j].Date) {
			return refs[i].Date.After(refs[j].Date)
		}
		return refs[i].Title < refs[j].Title
	})
}
