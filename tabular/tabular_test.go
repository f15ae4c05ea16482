package tabular_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ingest-engine/ingest"
	"github.com/warp/ingest-engine/tabular"
)

// =============================================================================
// TABLE ACCESS
// =============================================================================

func TestNewTable_CaseInsensitiveColumnAccess(t *testing.T) {
	table := tabular.NewTable([][]string{
		{"First name", "Team names"},
		{"Ada", "Engineering"},
	})

	assert.Equal(t, "Ada", table.Get(0, "first NAME"))
	assert.Equal(t, "Engineering", table.Get(0, "Team names"))
	assert.True(t, table.HasColumn("team names"))
}

func TestNewTable_BannerRowDetectedAndSkipped(t *testing.T) {
	// GIVEN: An export with a one-line banner above the real header
	rows := [][]string{
		{"Export generated for Dashboard"},
		{"First Name", "Clock In Date"},
		{"Ada", "13/02/2024"},
	}

	table := tabular.NewTable(rows, "First Name", "Clock In Date")

	require.Equal(t, 1, table.Len())
	assert.Equal(t, "Ada", table.Get(0, "First Name"))
}

func TestNewTable_NoBanner_HeaderKept(t *testing.T) {
	rows := [][]string{
		{"First Name", "Clock In Date"},
		{"Ada", "13/02/2024"},
	}

	table := tabular.NewTable(rows, "First Name")

	require.Equal(t, 1, table.Len())
	assert.Equal(t, "13/02/2024", table.Get(0, "Clock In Date"))
}

func TestTable_MissingColumnsAndRaggedRows(t *testing.T) {
	table := tabular.NewTable([][]string{
		{"A", "B"},
		{"only-a"},
	})

	assert.Equal(t, []string{"C"}, table.MissingColumns("A", "C"))
	assert.Equal(t, "", table.Get(0, "B")) // ragged short row reads blank
}

func TestTable_GetFirst_PrefersEarlierCandidates(t *testing.T) {
	table := tabular.NewTable([][]string{
		{"Description", "Notes"},
		{"", "fallback"},
	})

	assert.Equal(t, "fallback", table.GetFirst(0, "Description", "Notes"))
}

// =============================================================================
// FILE ROUND TRIPS
// =============================================================================

func TestCSV_WriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	in := &tabular.Table{
		Header: []string{"Employee", "Hours"},
		Rows:   [][]string{{"Ada Lovelace", "7.5"}, {"Grace Hopper", "8"}},
	}

	require.NoError(t, tabular.WriteCSV(path, in))

	out, err := tabular.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, "7.5", out.Get(0, "Hours"))
	assert.Equal(t, "Grace Hopper", out.Get(1, "Employee"))
}

func TestXLSX_WriteReadRoundTrip_WithBanner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	in := &tabular.Table{
		Header: []string{"First Name", "Blip Type"},
		Rows:   [][]string{{"Ada", "Shift"}},
	}

	require.NoError(t, tabular.WriteXLSX(path, in, "Export generated for Dashboard"))

	out, err := tabular.ReadFile(path, "First Name")
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "Ada", out.Get(0, "First Name"))
}

func TestWriteCSV_StagedRename_NoPartialFileOnExistingOutput(t *testing.T) {
	// GIVEN: An existing snapshot
	path := filepath.Join(t.TempDir(), "snapshot.csv")
	first := &tabular.Table{Header: []string{"A"}, Rows: [][]string{{"1"}}}
	require.NoError(t, tabular.WriteCSV(path, first))

	// WHEN: Writing a replacement
	second := &tabular.Table{Header: []string{"A"}, Rows: [][]string{{"2"}}}
	require.NoError(t, tabular.WriteCSV(path, second))

	// THEN: Only the complete new snapshot exists; no .tmp leftovers
	out, err := tabular.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2", out.Get(0, "A"))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestReadFile_UnsupportedExtension(t *testing.T) {
	_, err := tabular.ReadFile("input.txt")

	assert.ErrorIs(t, err, ingest.ErrUnsupportedFormat)
}
