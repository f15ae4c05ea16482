/*
report.go - Run states and the end-of-run report

PURPOSE:
  Every ingestion run must account for every row it saw. Per-row parse
  failures are collected here instead of aborting the run, so silent data
  loss cannot occur: a completed run always reports rows read, rows
  normalized, rows failed (with samples), and rows merged vs deduplicated.

STATE MACHINE (per run, per feed):
  Idle -> Reading -> Normalizing -> (Expanding | Merging) -> Writing -> Done
  Failed is terminal, reachable from Reading or Normalizing on a structural
  error (missing columns, unreadable source). Row-level errors never
  transition to Failed.
*/
package ingest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FEED STATES
// =============================================================================

type FeedState string

const (
	StateIdle        FeedState = "idle"
	StateReading     FeedState = "reading"
	StateNormalizing FeedState = "normalizing"
	StateExpanding   FeedState = "expanding"
	StateMerging     FeedState = "merging"
	StateWriting     FeedState = "writing"
	StateDone        FeedState = "done"
	StateFailed      FeedState = "failed"
)

// legal transitions; Failed is only reachable from Reading/Normalizing.
var feedTransitions = map[FeedState][]FeedState{
	StateIdle:        {StateReading},
	StateReading:     {StateNormalizing, StateFailed},
	StateNormalizing: {StateExpanding, StateMerging, StateFailed},
	StateExpanding:   {StateWriting},
	StateMerging:     {StateWriting},
	StateWriting:     {StateDone},
}

// =============================================================================
// FEED REPORT - Per-feed accounting
// =============================================================================

// maxErrorSamples bounds how many row errors a report retains verbatim.
// The count is always exact; only the samples are truncated.
const maxErrorSamples = 25

type FeedReport struct {
	Feed  string    `json:"feed"`
	State FeedState `json:"state"`

	RowsRead       int `json:"rows_read"`
	RowsNormalized int `json:"rows_normalized"`
	RowsFailed     int `json:"rows_failed"`

	// Absence feed only.
	FactsExpanded int `json:"facts_expanded,omitempty"`

	// Timesheet feed only.
	RowsMerged       int `json:"rows_merged,omitempty"`
	RowsDeduplicated int `json:"rows_deduplicated,omitempty"`

	ErrorSamples []string `json:"error_samples,omitempty"`

	// Set when State == Failed.
	Failure string `json:"failure,omitempty"`

	OutputPath string `json:"output_path,omitempty"`
}

func NewFeedReport(feed string) *FeedReport {
	return &FeedReport{Feed: feed, State: StateIdle}
}

// Transition moves the feed to the next state, panicking on an illegal move.
// Transitions are driven by the pipeline only; an illegal one is a bug, not
// an input condition.
func (r *FeedReport) Transition(next FeedState) {
	for _, allowed := range feedTransitions[r.State] {
		if allowed == next {
			r.State = next
			return
		}
	}
	panic(fmt.Sprintf("illegal feed state transition %s -> %s", r.State, next))
}

// Fail records a structural failure and moves to the Failed state. Unlike
// Transition it never panics: any state can fail on an IO error even though
// the expected failure points are Reading and Normalizing.
func (r *FeedReport) Fail(err error) {
	r.Failure = err.Error()
	r.State = StateFailed
}

// AddRowError counts one recovered row-level error, retaining it as a sample
// while under the cap.
func (r *FeedReport) AddRowError(err error) {
	r.RowsFailed++
	if len(r.ErrorSamples) < maxErrorSamples {
		r.ErrorSamples = append(r.ErrorSamples, err.Error())
	}
}

// =============================================================================
// RUN REPORT - One ingestion invocation, up to two feeds
// =============================================================================

type RunReport struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Absence   *FeedReport `json:"absence,omitempty"`
	Timesheet *FeedReport `json:"timesheet,omitempty"`
}

func NewRunReport() *RunReport {
	return &RunReport{RunID: uuid.NewString(), StartedAt: time.Now().UTC()}
}

// Finish stamps the end time.
func (r *RunReport) Finish() { r.FinishedAt = time.Now().UTC() }

// Failed reports whether any requested feed ended in the Failed state.
func (r *RunReport) Failed() bool {
	for _, f := range []*FeedReport{r.Absence, r.Timesheet} {
		if f != nil && f.State == StateFailed {
			return true
		}
	}
	return false
}
