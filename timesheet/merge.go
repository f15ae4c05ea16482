/*
merge.go - Cumulative merge of a weekly delta

PURPOSE:
  Weekly exports overlap the previous week's date range - that is an
  operational reality, not an error. The merge absorbs a freshly-normalized
  delta into the cumulative store so that re-submitted events vanish and
  novel events append, making weekly ingestion idempotent and retry-safe.

CRITICAL INVARIANTS:
  1. NO DUPLICATES: no two rows in the merged result share an identity key.
  2. STORED WINS: a delta row whose key already exists is discarded, never
     treated as an update.
  3. STABLE ORDER: existing rows keep their positions; novel rows append in
     delta-internal order. Prior row order is never interleaved.
  4. FULL SNAPSHOT: the persisted artifact is always the complete merged
     dataset, computed in memory BEFORE any write, so a failed run cannot
     leave a partially-merged store behind.

  Merge is a pure function over row slices. Persistence lives behind the
  Store interface (store.go) so the merge is testable with a fake store.
*/
package timesheet

import "context"

// =============================================================================
// MERGE - Pure dedup over identity keys
// =============================================================================

// MergeResult carries the merged rows plus the accounting the run report
// surfaces.
type MergeResult struct {
	Rows         []Record
	Appended     int // novel identity keys added from the delta
	Deduplicated int // delta rows discarded as re-submissions
}

// Merge deduplicates delta against existing. Existing rows are returned
// first, unchanged and in order; novel delta rows follow in delta order.
func Merge(existing, delta []Record) MergeResult {
	known := make(map[Key]bool, len(existing)+len(delta))
	for _, r := range existing {
		known[r.Identity()] = true
	}

	out := MergeResult{Rows: append([]Record{}, existing...)}
	for _, r := range delta {
		k := r.Identity()
		if known[k] {
			out.Deduplicated++
			continue
		}
		known[k] = true
		out.Rows = append(out.Rows, r)
		out.Appended++
	}
	return out
}

// MergeInto runs the load -> merge -> snapshot cycle against a store.
// The new snapshot is fully computed before the store is written.
func MergeInto(ctx context.Context, store Store, delta []Record) (MergeResult, error) {
	existing, err := store.Load(ctx)
	if err != nil {
		return MergeResult{}, err
	}
	result := Merge(existing, delta)
	if err := store.Snapshot(ctx, result.Rows); err != nil {
		return MergeResult{}, err
	}
	return result, nil
}
