/*
Package tabular reads and writes the tabular files the ingestion pipeline
lives on: CSV and XLSX raw exports in, CSV and XLSX normalized outputs back.

PURPOSE:
  Both feeds arrive as header-plus-rows tables whose column NAMES carry the
  contract, not column positions. Table wraps raw cells with name-based,
  case-insensitive column access so feed code never touches indexes.

BANNER ROWS:
  Some biometric exports prepend a one-line banner above the real header
  ("Export generated ..."). NewTable probes candidate header rows so callers
  do not need to know whether a given week's file has the banner.

SEE ALSO:
  - reader.go: file loading (encoding/csv, excelize)
  - writer.go: output snapshots
*/
package tabular

import (
	"strings"
)

// Table is an immutable header-plus-rows view of one sheet or CSV file.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewTable builds a Table from raw rows. If probes are given and none of
// them matches the first row but at least one matches the second, the first
// row is treated as a banner and skipped.
func NewTable(rows [][]string, probes ...string) *Table {
	if len(rows) > 1 && len(probes) > 0 && !rowContainsAny(rows[0], probes) && rowContainsAny(rows[1], probes) {
		rows = rows[1:]
	}
	t := &Table{}
	if len(rows) > 0 {
		t.Header = trimAll(rows[0])
		t.Rows = rows[1:]
	}
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		t.index[normalizeName(h)] = i
	}
	return t
}

// ColumnIndex returns the position of a column by name, case-insensitively.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[normalizeName(name)]
	return i, ok
}

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// MissingColumns returns the subset of names absent from the header.
func (t *Table) MissingColumns(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !t.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// Get returns the trimmed cell at (row, column name); blank when the column
// is absent or the row is ragged short.
func (t *Table) Get(row int, name string) string {
	i, ok := t.ColumnIndex(name)
	if !ok || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][i])
}

// GetFirst returns the first non-blank cell among candidate column names.
// Used for detail columns that vary across export versions.
func (t *Table) GetFirst(row int, names ...string) string {
	for _, n := range names {
		if v := t.Get(row, n); v != "" {
			return v
		}
	}
	return ""
}

// Column returns one whole column as a slice aligned with Rows. Cells for
// ragged rows are blank.
func (t *Table) Column(name string) []string {
	out := make([]string, len(t.Rows))
	i, ok := t.ColumnIndex(name)
	if !ok {
		return out
	}
	for r, row := range t.Rows {
		if i < len(row) {
			out[r] = strings.TrimSpace(row[i])
		}
	}
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rowContainsAny(row []string, probes []string) bool {
	for _, cell := range row {
		for _, p := range probes {
			if normalizeName(cell) == normalizeName(p) {
				return true
			}
		}
	}
	return false
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
