package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/warp/ingest-engine/ingest"
)

// =============================================================================
// WRITERS - Full-snapshot outputs
// =============================================================================
// Outputs are always complete snapshots written atomically: the file is
// staged under a temporary name and renamed into place, so a failed run
// never leaves a truncated output behind.

// WriteFile writes a Table to CSV or XLSX, dispatching on extension.
func WriteFile(path string, t *Table) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return WriteCSV(path, t)
	case ".xlsx":
		return WriteXLSX(path, t, "")
	default:
		return fmt.Errorf("%w: %s", ingest.ErrUnsupportedFormat, path)
	}
}

// WriteCSV writes header plus rows as plain CSV.
func WriteCSV(path string, t *Table) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err == nil {
		err = w.WriteAll(t.Rows)
	}
	w.Flush()
	if err == nil {
		err = w.Error()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// WriteXLSX writes a workbook with an optional one-line banner above the
// header, mirroring the layout the downstream dashboard expects.
func WriteXLSX(path string, t *Table, banner string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	start := 1
	if banner != "" {
		if err := f.SetCellValue(sheet, "A1", banner); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		start = 2
	}

	if err := writeRow(f, sheet, start, t.Header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for i, row := range t.Rows {
		if err := writeRow(f, sheet, start+1+i, row); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return nil
}
