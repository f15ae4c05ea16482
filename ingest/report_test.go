package ingest_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ingest-engine/ingest"
)

// =============================================================================
// STATE MACHINE
// =============================================================================

func TestFeedReport_HappyPathTransitions(t *testing.T) {
	// Absence path: Idle -> Reading -> Normalizing -> Expanding -> Writing -> Done
	r := ingest.NewFeedReport("absence")

	r.Transition(ingest.StateReading)
	r.Transition(ingest.StateNormalizing)
	r.Transition(ingest.StateExpanding)
	r.Transition(ingest.StateWriting)
	r.Transition(ingest.StateDone)

	assert.Equal(t, ingest.StateDone, r.State)
}

func TestFeedReport_MergingPath(t *testing.T) {
	r := ingest.NewFeedReport("timesheet")

	r.Transition(ingest.StateReading)
	r.Transition(ingest.StateNormalizing)
	r.Transition(ingest.StateMerging)
	r.Transition(ingest.StateWriting)
	r.Transition(ingest.StateDone)

	assert.Equal(t, ingest.StateDone, r.State)
}

func TestFeedReport_IllegalTransition_Panics(t *testing.T) {
	// Skipping Normalizing is a pipeline bug, not an input condition.
	r := ingest.NewFeedReport("absence")
	r.Transition(ingest.StateReading)

	assert.Panics(t, func() { r.Transition(ingest.StateExpanding) })
}

func TestFeedReport_Fail_RecordsFailure(t *testing.T) {
	r := ingest.NewFeedReport("absence")
	r.Transition(ingest.StateReading)

	r.Fail(errors.New("file unreadable"))

	assert.Equal(t, ingest.StateFailed, r.State)
	assert.Equal(t, "file unreadable", r.Failure)
}

// =============================================================================
// ROW ERROR ACCOUNTING
// =============================================================================

func TestFeedReport_RowErrors_ExactCountTruncatedSamples(t *testing.T) {
	// GIVEN: More row errors than the sample cap
	// WHEN: Recording all of them
	// THEN: The count is exact while samples stay bounded
	r := ingest.NewFeedReport("timesheet")
	for i := 0; i < 40; i++ {
		r.AddRowError(fmt.Errorf("row %d broken", i))
	}

	assert.Equal(t, 40, r.RowsFailed)
	assert.Len(t, r.ErrorSamples, 25)
}

func TestRunReport_Failed(t *testing.T) {
	rep := ingest.NewRunReport()
	require.False(t, rep.Failed())

	rep.Absence = ingest.NewFeedReport("absence")
	rep.Timesheet = ingest.NewFeedReport("timesheet")
	rep.Absence.Transition(ingest.StateReading)
	rep.Absence.Fail(errors.New("boom"))

	assert.True(t, rep.Failed())
}
