package builder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/content"
	"git.home.luguber.info/inful/sitegen/internal/layout"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *BuildState) error

// Stage names, in pipeline order.
const (
	StageLoadLayouts     = "load_layouts"
	StageLoadContent     = "load_content"
	StageRenderPages     = "render_pages"
	StageGenerateIndexes = "generate_indexes"
	StageCopyAssets      = "copy_assets"
)

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newWarnStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}
func newCanceledStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// BuildState carries mutable state across stages.
type BuildState struct {
	Generator *Generator
	Registry  *layout.Registry
	Docs      []content.Document
	Assets    []content.Asset
	Report    *BuildReport

	// outputs maps output path -> source description, for collision detection
	// across page, index and asset emission.
	outputs map[string]string
}

func newBuildState(g *Generator, report *BuildReport) *BuildState {
	return &BuildState{
		Generator: g,
		Report:    report,
		outputs:   make(map[string]string),
	}
}

// claimOutput registers an output path, reporting the prior claimant on collision.
func (bs *BuildState) claimOutput(outputPath, source string) (string, bool) {
	if prior, ok := bs.outputs[outputPath]; ok {
		return prior, false
	}
	bs.outputs[outputPath] = source
	return "", true
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal error. Warning stage errors accumulate in the report and the
// pipeline continues.
func runStages(ctx context.Context, bs *BuildState, stages []struct {
	name string
	fn   Stage
}, recorder metrics.Recorder) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.name, ctx.Err())
			bs.Report.Errors = append(bs.Report.Errors, se.Error())
			return se
		default:
		}
		t0 := time.Now()
		err := st.fn(ctx, bs)
		dur := time.Since(t0)
		bs.Report.StageDurations[st.name] = dur
		recorder.ObserveStageDuration(st.name, dur)

		if err == nil {
			recorder.IncStageResult(st.name, metrics.ResultSuccess)
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			// Wrap unknown errors as fatal by default.
			se = newFatalStageError(st.name, err)
		}
		switch se.Kind {
		case StageErrorWarning:
			recorder.IncStageResult(st.name, metrics.ResultWarning)
			bs.Report.Warnings = append(bs.Report.Warnings, se.Error())
		case StageErrorCanceled:
			recorder.IncStageResult(st.name, metrics.ResultCanceled)
			bs.Report.Errors = append(bs.Report.Errors, se.Error())
			return se
		default:
			recorder.IncStageResult(st.name, metrics.ResultFatal)
			bs.Report.Errors = append(bs.Report.Errors, se.Error())
			return se
		}
	}
	return nil
}
