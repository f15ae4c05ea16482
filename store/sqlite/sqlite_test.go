package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ingest-engine/ingest"
	"github.com/warp/ingest-engine/store/sqlite"
	"github.com/warp/ingest-engine/timesheet"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "cumulative.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(employee, inTime string, day ingest.Day) timesheet.Record {
	dur := decimal.RequireFromString("8.5")
	worked := decimal.NewFromInt(8)
	out := day.Time.Add(17*time.Hour + 30*time.Minute)
	return timesheet.Record{
		Employee:      employee,
		Team:          "Operations",
		JobTitle:      "Analyst",
		BlipType:      timesheet.BlipShift,
		ClockInDate:   day,
		ClockInTime:   inTime,
		ClockIn:       day.Time.Add(9 * time.Hour),
		ClockOut:      &out,
		DurationText:  "8:30",
		WorkedText:    "8:00",
		DurationHours: &dur,
		WorkedHours:   &worked,
		BreakHours:    decimal.RequireFromString("0.5"),
	}
}

func TestStore_EmptyDatabaseLoadsNothing(t *testing.T) {
	s := newTestStore(t)

	rows, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	original := record("Jane Doe", "09:00", ingest.NewDay(2024, 1, 15))
	require.NoError(t, s.Snapshot(ctx, []timesheet.Record{original}))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	r := loaded[0]
	assert.Equal(t, "Jane Doe", r.Employee)
	assert.Equal(t, "Operations", r.Team)
	assert.Equal(t, timesheet.BlipShift, r.BlipType)
	assert.Equal(t, "2024-01-15", r.ClockInDate.String())
	assert.Equal(t, "09:00", r.ClockInTime)
	assert.True(t, r.ClockIn.Equal(original.ClockIn))
	require.NotNil(t, r.ClockOut)
	assert.True(t, r.ClockOut.Equal(*original.ClockOut))
	require.NotNil(t, r.DurationHours)
	assert.True(t, r.DurationHours.Equal(decimal.RequireFromString("8.5")))
	assert.True(t, r.BreakHours.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, original.Identity(), r.Identity())
}

func TestStore_UnknownHoursStayUnknown(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	open := timesheet.Record{
		Employee:    "John Roe",
		BlipType:    timesheet.BlipShift,
		ClockInDate: ingest.NewDay(2024, 1, 16),
		ClockInTime: "08:45",
		ClockIn:     ingest.NewDay(2024, 1, 16).Time.Add(8*time.Hour + 45*time.Minute),
	}
	require.NoError(t, s.Snapshot(ctx, []timesheet.Record{open}))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Nil(t, loaded[0].ClockOut)
	assert.Nil(t, loaded[0].DurationHours)
	assert.Nil(t, loaded[0].WorkedHours)
}

func TestStore_LoadPreservesPositionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rows := []timesheet.Record{
		record("C", "09:00", ingest.NewDay(2024, 1, 17)),
		record("A", "09:00", ingest.NewDay(2024, 1, 15)),
		record("B", "09:00", ingest.NewDay(2024, 1, 16)),
	}
	require.NoError(t, s.Snapshot(ctx, rows))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "C", loaded[0].Employee)
	assert.Equal(t, "A", loaded[1].Employee)
	assert.Equal(t, "B", loaded[2].Employee)
}

func TestStore_SnapshotReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Snapshot(ctx, []timesheet.Record{
		record("Jane Doe", "09:00", ingest.NewDay(2024, 1, 15)),
		record("John Roe", "09:05", ingest.NewDay(2024, 1, 15)),
	}))
	require.NoError(t, s.Snapshot(ctx, []timesheet.Record{
		record("Jane Doe", "09:00", ingest.NewDay(2024, 1, 15)),
	}))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestStore_MergeIntoAcrossRuns(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	week1 := []timesheet.Record{
		record("Jane Doe", "09:00", ingest.NewDay(2024, 1, 15)),
		record("John Roe", "09:05", ingest.NewDay(2024, 1, 15)),
	}
	week2 := []timesheet.Record{
		record("John Roe", "09:05", ingest.NewDay(2024, 1, 15)), // overlap
		record("Jane Doe", "08:58", ingest.NewDay(2024, 1, 16)), // novel
	}

	_, err := timesheet.MergeInto(ctx, s, week1)
	require.NoError(t, err)
	result, err := timesheet.MergeInto(ctx, s, week2)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Appended)
	assert.Equal(t, 1, result.Deduplicated)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 3)
}
