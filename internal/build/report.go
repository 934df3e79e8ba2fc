package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Outcome is the typed enumeration of final build result states.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// DocumentFailure records one document whose processing failed without
// aborting the build.
type DocumentFailure struct {
	Source  string `json:"source"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Report captures high-level metrics about one site build.
type Report struct {
	SchemaVersion int
	BuildID       string
	Start         time.Time
	End           time.Time
	Documents     int // documents discovered
	Rendered      int // documents rendered and placed in the output tree
	Skipped       int // documents excluded for malformed front matter
	Assets        int // static assets copied

	FailedDocuments []DocumentFailure
	Errors          []error // fatal errors causing build abortion
	Warnings        []error // non-fatal issues
	StageDurations  map[string]time.Duration
	Outcome         Outcome
}

func newReport(buildID string) *Report {
	return &Report{
		SchemaVersion:  1,
		BuildID:        buildID,
		Start:          time.Now(),
		StageDurations: make(map[string]time.Duration),
	}
}

func (r *Report) finish() { r.End = time.Now() }

// deriveOutcome sets the Outcome field based on recorded errors and failures.
func (r *Report) deriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.FailedDocuments) > 0 || len(r.Warnings) > 0 || r.Skipped > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("documents=%d rendered=%d skipped=%d failed=%d assets=%d duration=%s outcome=%s",
		r.Documents, r.Rendered, r.Skipped, len(r.FailedDocuments), r.Assets, dur.Truncate(time.Millisecond), r.Outcome)
}

// Persist writes the report atomically into the destination root:
//
//	build-report.json  (machine readable)
//	build-report.txt   (human summary)
//
// Best effort; errors are returned for caller logging but do not change the
// build outcome.
func (r *Report) Persist(root string) error {
	if r.End.IsZero() {
		r.finish()
		r.deriveOutcome()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}

	jb, err := json.MarshalIndent(r.serializable(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	jsonPath := filepath.Join(root, "build-report.json")
	tmpJSON := jsonPath + ".tmp"
	if err := os.WriteFile(tmpJSON, jb, 0o644); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmpJSON, jsonPath); err != nil {
		return fmt.Errorf("atomic rename json: %w", err)
	}

	summaryPath := filepath.Join(root, "build-report.txt")
	tmpTxt := summaryPath + ".tmp"
	if err := os.WriteFile(tmpTxt, []byte(r.Summary()+"\n"), 0o644); err != nil {
		return fmt.Errorf("write temp report summary: %w", err)
	}
	if err := os.Rename(tmpTxt, summaryPath); err != nil {
		return fmt.Errorf("atomic rename summary: %w", err)
	}
	return nil
}

// serializable mirrors Report with error fields converted to strings for
// JSON friendliness.
type serializable struct {
	SchemaVersion   int                      `json:"schema_version"`
	BuildID         string                   `json:"build_id"`
	Start           time.Time                `json:"start"`
	End             time.Time                `json:"end"`
	Documents       int                      `json:"documents"`
	Rendered        int                      `json:"rendered"`
	Skipped         int                      `json:"skipped"`
	Assets          int                      `json:"assets"`
	FailedDocuments []DocumentFailure        `json:"failed_documents"`
	Errors          []string                 `json:"errors"`
	Warnings        []string                 `json:"warnings"`
	StageDurations  map[string]time.Duration `json:"stage_durations"`
	Outcome         Outcome                  `json:"outcome"`
}

func (r *Report) serializable() *serializable {
	s := &serializable{
		SchemaVersion:   r.SchemaVersion,
		BuildID:         r.BuildID,
		Start:           r.Start,
		End:             r.End,
		Documents:       r.Documents,
		Rendered:        r.Rendered,
		Skipped:         r.Skipped,
		Assets:          r.Assets,
		FailedDocuments: r.FailedDocuments,
		Errors:          make([]string, len(r.Errors)),
		Warnings:        make([]string, len(r.Warnings)),
		StageDurations:  r.StageDurations,
		Outcome:         r.Outcome,
	}
	if s.FailedDocuments == nil {
		s.FailedDocuments = []DocumentFailure{}
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}
