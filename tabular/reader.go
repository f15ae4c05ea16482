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
// READERS - CSV and XLSX into raw rows
// =============================================================================

// ReadFile loads a CSV or XLSX file into a Table, dispatching on extension.
// Probes are forwarded to NewTable for banner-row detection.
func ReadFile(path string, probes ...string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path, probes)
	case ".xlsx":
		return readXLSX(path, probes)
	default:
		return nil, fmt.Errorf("%w: %s", ingest.ErrUnsupportedFormat, path)
	}
}

func readCSV(path string, probes []string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // raw exports are occasionally ragged
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewTable(rows, probes...), nil
}

func readXLSX(path string, probes []string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewTable(rows, probes...), nil
}
