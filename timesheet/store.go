/*
store.go - Cumulative store persistence contract

PURPOSE:
  The cumulative dataset outlives any single run, so its persistence is an
  explicit load -> merge -> snapshot contract rather than a file rewritten
  ad hoc. Implementations:

    timesheet/store.Memory   - in-memory, for tests and dry runs
    store/csvfile.Store      - CSV snapshot file (the operational default)
    store/sqlite.Store       - SQLite database

CONCURRENCY:
  A run owns exclusive read/modify/write access to its store for the whole
  run. Concurrent runs against the same store are not supported and must be
  serialized by the invoking process.
*/
package timesheet

import "context"

// Store persists the cumulative timesheet dataset between runs.
type Store interface {
	// Load returns every stored record in stable position order. A store
	// that has never been written returns an empty slice, not an error.
	Load(ctx context.Context) ([]Record, error)

	// Snapshot replaces the persisted dataset with the complete merged
	// result. Implementations must not partially apply: either the whole
	// snapshot lands or the previous one survives.
	Snapshot(ctx context.Context, rows []Record) error
}
