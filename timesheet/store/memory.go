// Package store provides the in-memory Store implementation.
package store

import (
	"context"
	"sync"

	"github.com/warp/ingest-engine/timesheet"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dry runs)
// =============================================================================

type Memory struct {
	mu   sync.RWMutex
	rows []timesheet.Record
}

func NewMemory() *Memory {
	return &Memory{}
}

// Load returns a copy of the stored rows in position order.
func (m *Memory) Load(_ context.Context) ([]timesheet.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]timesheet.Record, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

// Snapshot replaces the stored dataset wholesale.
func (m *Memory) Snapshot(_ context.Context, rows []timesheet.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = make([]timesheet.Record, len(rows))
	copy(m.rows, rows)
	return nil
}

var _ timesheet.Store = (*Memory)(nil)
