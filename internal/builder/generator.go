// Package builder transforms the content store into a static output tree.
//
// A build runs a fixed sequence of stages against an isolated staging
// directory; only a fully successful build is promoted to the output
// location, so concurrent readers never observe a half-written tree.
package builder

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// Generator runs the build pipeline for one site.
type Generator struct {
	cfg       *config.Config
	outputDir string // final output dir
	stageDir  string // ephemeral staging dir for current build
	recorder  metrics.Recorder
}

// NewGenerator creates a generator writing to outputDir.
func NewGenerator(cfg *config.Config, outputDir string) *Generator {
	return &Generator{
		cfg:       cfg,
		outputDir: filepath.Clean(outputDir),
		recorder:  metrics.NoopRecorder{},
	}
}

// SetRecorder injects a metrics recorder (optional). Returns the generator for chaining.
func (g *Generator) SetRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		g.recorder = metrics.NoopRecorder{}
		return g
	}
	g.recorder = r
	return g
}

// OutputDir returns the final output directory.
func (g *Generator) OutputDir() string { return g.outputDir }

// Build runs the full pipeline and atomically promotes the result. The
// returned report is non-nil even when the build fails.
func (g *Generator) Build(ctx context.Context) (*BuildReport, error) {
	slog.Info("Starting site build",
		"content", g.cfg.Content.Dir,
		"output", g.outputDir,
		"include_drafts", g.cfg.Build.IncludeDrafts)

	report := newBuildReport()
	// Every return path below finishes the report first, so the recorded
	// duration and outcome are final. This includes a failed promote.
	defer func() {
		g.recorder.ObserveBuildDuration(report.End.Sub(report.Start))
		g.recorder.IncBuildOutcome(string(report.Outcome))
	}()

	if err := g.beginStaging(); err != nil {
		report.Errors = append(report.Errors, err.Error())
		report.finish(false)
		return report, err
	}

	bs := newBuildState(g, report)

	stages := []struct {
		name string
		fn   Stage
	}{
		{StageLoadLayouts, stageLoadLayouts},
		{StageLoadContent, stageLoadContent},
		{StageRenderPages, stageRenderPages},
		{StageGenerateIndexes, stageGenerateIndexes},
		{StageCopyAssets, stageCopyAssets},
	}

	if err := runStages(ctx, bs, stages, g.recorder); err != nil {
		g.abortStaging()
		var se *StageError
		canceled := errors.As(err, &se) && se.Kind == StageErrorCanceled
		report.finish(canceled)
		return report, err
	}

	report.finish(false)
	if err := g.finalizeStaging(); err != nil {
		report.Outcome = OutcomeFailed
		return report, err
	}

	// Persist report (best effort) inside the final output directory.
	if err := report.Persist(g.outputDir); err != nil {
		slog.Warn("Failed to persist build report", "error", err)
	}

	slog.Info("Site build completed",
		"output", g.outputDir,
		"pages", report.Pages,
		"indexes", report.IndexPages,
		"assets", report.AssetsCopied,
		"warnings", len(report.Warnings))
	return report, nil
}

// beginStaging creates an isolated staging directory for atomic build output.
func (g *Generator) beginStaging() error {
	stage := g.outputDir + "_stage"
	// A stale staging dir from an interrupted build must not leak into this one.
	if err := os.RemoveAll(stage); err != nil {
		return err
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return err
	}
	g.stageDir = stage
	slog.Debug("Initialized staging directory", "staging", stage, "final", g.outputDir)
	return nil
}

// finalizeStaging atomically promotes the staging directory to the final
// output location: move the existing output aside, rename staging into place,
// then drop the backup.
func (g *Generator) finalizeStaging() error {
	if g.stageDir == "" {
		return errors.New("no staging directory initialized")
	}

	prev := g.outputDir + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return err
	}
	if _, err := os.Stat(g.outputDir); err == nil {
		if err := os.Rename(g.outputDir, prev); err != nil {
			return err
		}
	}
	if err := os.Rename(g.stageDir, g.outputDir); err != nil {
		return err
	}
	g.stageDir = ""
	if err := os.RemoveAll(prev); err != nil {
		slog.Warn("Failed to remove previous output backup", "path", prev, "error", err)
	}
	slog.Debug("Promoted staging directory", "output", g.outputDir)
	return nil
}

// abortStaging removes the staging directory after a failed build so no
// orphaned temp dirs accumulate.
func (g *Generator) abortStaging() {
	if g.stageDir == "" {
		return
	}
	dir := g.stageDir
	g.stageDir = "" // prevent double cleanup
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("Failed to remove staging directory after abort", "staging", dir, "error", err)
	}
}

// writeStaged writes a file under the staging directory, creating parents.
func (g *Generator) writeStaged(relPath string, data []byte) error {
	p := filepath.Join(g.stageDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}
