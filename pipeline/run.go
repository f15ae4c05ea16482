/*
Package pipeline orchestrates one ingestion run across both feeds.

PURPOSE:
  A run reads one raw absence file and/or one raw timesheet file to
  completion, synchronously: read, normalize, expand-or-merge, write. The
  feeds are independent - a structural failure in one must not stop the
  other - and a feed either completes and writes its output or fails
  before writing anything.

FEED SEMANTICS:
  Absence:   full replace. Cases and daily facts are rebuilt from scratch
             and the fact table overwrites the previous output.
  Timesheet: cumulative by default. The normalized delta merges into the
             store (load -> merge -> snapshot). With accumulation opted
             out, the delta is written as a fresh snapshot instead.

SEE ALSO:
  - ingest/report.go: per-feed state machine and accounting
  - absence, timesheet: feed normalization
*/
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/warp/ingest-engine/absence"
	"github.com/warp/ingest-engine/ingest"
	"github.com/warp/ingest-engine/store/csvfile"
	"github.com/warp/ingest-engine/tabular"
	"github.com/warp/ingest-engine/timesheet"
)

// =============================================================================
// OPTIONS AND RESULT
// =============================================================================

type Options struct {
	// AbsencePath is the raw absence export. Blank skips the feed.
	AbsencePath string
	// AbsenceOutPath receives the daily fact table (.csv or .xlsx).
	AbsenceOutPath string

	// TimesheetPath is the raw timesheet export. Blank skips the feed.
	TimesheetPath string
	// Store is the cumulative store the delta merges into.
	Store timesheet.Store
	// Append opts into cumulative accumulation. When false the normalized
	// delta is written to TimesheetOutPath as a fresh snapshot instead.
	Append           bool
	TimesheetOutPath string

	Log *logrus.Logger
}

// Result is everything one run produced, kept for the read-only API surface.
type Result struct {
	Report *ingest.RunReport
	Cases  []absence.Case
	Facts  []absence.DailyFact
	Rows   []timesheet.Record
}

// =============================================================================
// RUN
// =============================================================================

// Run executes one ingestion run. The returned error is non-nil only when
// every requested feed failed; partial success returns the report with the
// failed feed marked.
func Run(ctx context.Context, opts Options) (*Result, error) {
	log := opts.Log
	if log == nil {
		log = logrus.New()
	}

	res := &Result{Report: ingest.NewRunReport()}
	defer res.Report.Finish()

	requested := 0
	failed := 0

	if opts.AbsencePath != "" {
		requested++
		res.Report.Absence = ingest.NewFeedReport("absence")
		if err := runAbsence(opts, res, log); err != nil {
			res.Report.Absence.Fail(err)
			log.WithError(err).Error("absence feed failed")
			failed++
		}
	}

	if opts.TimesheetPath != "" {
		requested++
		res.Report.Timesheet = ingest.NewFeedReport("timesheet")
		if err := runTimesheet(ctx, opts, res, log); err != nil {
			res.Report.Timesheet.Fail(err)
			log.WithError(err).Error("timesheet feed failed")
			failed++
		}
	}

	if requested == 0 {
		return nil, errors.New("no input files given")
	}
	if failed == requested {
		return res, errors.New("all requested feeds failed")
	}
	return res, nil
}

// =============================================================================
// ABSENCE FEED - full replace
// =============================================================================

func runAbsence(opts Options, res *Result, log *logrus.Logger) error {
	report := res.Report.Absence

	report.Transition(ingest.StateReading)
	table, err := tabular.ReadFile(opts.AbsencePath)
	if err != nil {
		return err
	}
	if table.Len() == 0 {
		return fmt.Errorf("%s: %w", opts.AbsencePath, ingest.ErrEmptyInput)
	}

	report.Transition(ingest.StateNormalizing)
	cases, err := absence.Normalize(table, report)
	if err != nil {
		return err
	}

	report.Transition(ingest.StateExpanding)
	facts := absence.ExpandAll(cases)
	report.FactsExpanded = len(facts)

	report.Transition(ingest.StateWriting)
	if opts.AbsenceOutPath != "" {
		if err := writeFacts(opts.AbsenceOutPath, facts); err != nil {
			return err
		}
		report.OutputPath = opts.AbsenceOutPath
	}
	report.Transition(ingest.StateDone)

	res.Cases = cases
	res.Facts = facts
	log.WithFields(logrus.Fields{
		"rows_read":  report.RowsRead,
		"cases":      report.RowsNormalized,
		"facts":      report.FactsExpanded,
		"row_errors": report.RowsFailed,
	}).Info("absence feed done")
	return nil
}

var factHeader = []string{
	"Date", "Employee", "Team", "Country", "Organisation", "Suborganisation",
	"Absence Category", "Case ID", "Is Weekday", "Week Start", "ISO Week",
}

func writeFacts(path string, facts []absence.DailyFact) error {
	t := &tabular.Table{Header: factHeader, Rows: make([][]string, 0, len(facts))}
	for _, f := range facts {
		t.Rows = append(t.Rows, []string{
			f.Date.String(), f.Employee, f.Team, f.Country,
			f.Organisation, f.Suborganisation,
			string(f.Category), f.CaseID,
			strconv.FormatBool(f.IsWeekday),
			f.WeekStart.String(), f.ISOWeek,
		})
	}
	return tabular.WriteFile(path, t)
}

// =============================================================================
// TIMESHEET FEED - cumulative merge (or opt-out fresh snapshot)
// =============================================================================

func runTimesheet(ctx context.Context, opts Options, res *Result, log *logrus.Logger) error {
	report := res.Report.Timesheet

	report.Transition(ingest.StateReading)
	table, err := tabular.ReadFile(opts.TimesheetPath, timesheet.HeaderProbes...)
	if err != nil {
		return err
	}
	if table.Len() == 0 {
		return fmt.Errorf("%s: %w", opts.TimesheetPath, ingest.ErrEmptyInput)
	}

	report.Transition(ingest.StateNormalizing)
	delta, err := timesheet.Normalize(table, report)
	if err != nil {
		return err
	}

	report.Transition(ingest.StateMerging)
	if opts.Append {
		if opts.Store == nil {
			return errors.New("append mode requires a cumulative store")
		}
		result, err := timesheet.MergeInto(ctx, opts.Store, delta)
		if err != nil {
			return err
		}
		report.RowsMerged = result.Appended
		report.RowsDeduplicated = result.Deduplicated
		res.Rows = result.Rows

		report.Transition(ingest.StateWriting) // snapshot already persisted by the store
		report.Transition(ingest.StateDone)
	} else {
		res.Rows = delta
		report.RowsMerged = len(delta)

		report.Transition(ingest.StateWriting)
		if opts.TimesheetOutPath != "" {
			if err := csvfile.New(opts.TimesheetOutPath).Snapshot(ctx, delta); err != nil {
				return err
			}
			report.OutputPath = opts.TimesheetOutPath
		}
		report.Transition(ingest.StateDone)
	}

	log.WithFields(logrus.Fields{
		"rows_read":    report.RowsRead,
		"normalized":   report.RowsNormalized,
		"appended":     report.RowsMerged,
		"deduplicated": report.RowsDeduplicated,
		"row_errors":   report.RowsFailed,
	}).Info("timesheet feed done")
	return nil
}
