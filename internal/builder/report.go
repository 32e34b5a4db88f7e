package builder

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// BuildOutcome labels the final status of a build.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// BuildReport captures metrics and diagnostics for one build invocation. It is
// persisted as build-report.json inside the output tree.
type BuildReport struct {
	ID              string                   `json:"id"`
	Start           time.Time                `json:"start"`
	End             time.Time                `json:"end"`
	Outcome         BuildOutcome             `json:"outcome"`
	Pages           int                      `json:"pages"`
	IndexPages      int                      `json:"index_pages"`
	DraftsSkipped   int                      `json:"drafts_skipped"`
	AssetsCopied    int                      `json:"assets_copied"`
	AssetsUnchanged int                      `json:"assets_unchanged"`
	StageDurations  map[string]time.Duration `json:"stage_durations"`
	Warnings        []string                 `json:"warnings,omitempty"`
	Errors          []string                 `json:"errors,omitempty"`
}

func newBuildReport() *BuildReport {
	return &BuildReport{
		ID:             uuid.NewString(),
		Start:          time.Now(),
		StageDurations: make(map[string]time.Duration),
	}
}

// finish stamps the end time and derives the outcome from accumulated
// warnings and errors.
func (r *BuildReport) finish(canceled bool) {
	r.End = time.Now()
	switch {
	case canceled:
		r.Outcome = OutcomeCanceled
	case len(r.Errors) > 0:
		r.Outcome = OutcomeFailed
	case len(r.Warnings) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Persist writes the report into the output directory (best effort).
func (r *BuildReport) Persist(outputDir string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "build-report.json"), data, 0o644)
}
