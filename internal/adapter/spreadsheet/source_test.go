package spreadsheet

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/extrame/xls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PescoJ/tracking-dashboard/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

var testHeader = []string{"ID", "Crime_Tendency", "Terror_Tendency", "Location_1", "Location_2"}

func TestSource_XLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracking.xlsx")
	require.NoError(t, WriteXLSX(path, "People", testHeader, [][]any{
		{"p1", 42, 17.5, "33T E12345 N67890", nil},
		{"p2", 90, 3, nil, "33TWN1234567890"},
	}))

	tbl, err := NewSource(path, "", discardLogger()).LoadTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, testHeader, tbl.Columns())
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, domain.StringCell("p1"), tbl.Cell(0, "ID"))
	assert.Equal(t, "42", tbl.Cell(0, "Crime_Tendency").Value)
	assert.Equal(t, "17.5", tbl.Cell(0, "Terror_Tendency").Value)
	assert.False(t, tbl.Cell(0, "Location_2").Valid)
	assert.False(t, tbl.Cell(1, "Location_1").Valid)
	assert.Equal(t, "33TWN1234567890", tbl.Cell(1, "Location_2").Value)
}

func TestSource_XLSXNamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracking.xlsx")
	require.NoError(t, WriteXLSX(path, "People", testHeader, [][]any{{"p1", 1, 2, "1234567890", nil}}))

	_, err := NewSource(path, "People", discardLogger()).LoadTable(context.Background())
	require.NoError(t, err)

	_, err = NewSource(path, "Missing", discardLogger()).LoadTable(context.Background())
	require.Error(t, err)
}

func TestSource_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracking.csv")
	content := "\ufeffID, Crime_Tendency ,Terror_Tendency,Location_1,Location_2\n" +
		"p1,10,20,E12345 N67890,\n" +
		"p2,30,40\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tbl, err := NewSource(path, "", discardLogger()).LoadTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, testHeader, tbl.Columns())
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, "E12345 N67890", tbl.Cell(0, "Location_1").Value)
	assert.False(t, tbl.Cell(0, "Location_2").Valid)
	assert.False(t, tbl.Cell(1, "Location_1").Valid)
}

func TestSource_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := NewSource(filepath.Join(dir, "tracking.json"), "", discardLogger()).LoadTable(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported file extension")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewSource(filepath.Join(dir, "nope.csv"), "", discardLogger()).LoadTable(context.Background())
		require.Error(t, err)
	})

	t.Run("empty csv", func(t *testing.T) {
		path := filepath.Join(dir, "empty.csv")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		_, err := NewSource(path, "", discardLogger()).LoadTable(context.Background())
		require.ErrorIs(t, err, ErrEmptySheet)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewSource(filepath.Join(dir, "x.csv"), "", discardLogger()).LoadTable(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestNormalizeHeaderRow(t *testing.T) {
	got := normalizeHeaderRow([]string{"\ufeffID", " Location_1 ", ""})
	assert.Equal(t, []string{"ID", "Location_1", "Unnamed: 2"}, got)
}

func TestParseCSV_RaggedRows(t *testing.T) {
	rows, err := parseCSV(strings.NewReader("a,b,c\n1\n1,2,3,4\n"))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Len(t, rows[1], 1)
}

func TestWorksheetRows_BlankRows(t *testing.T) {
	// A sheet whose rows are all absent, as with spacer rows or an empty sheet.
	ws := &xls.WorkSheet{Name: "Sheet1", MaxRow: 2}

	var rows [][]string
	require.NotPanics(t, func() { rows = worksheetRows(ws, maxXLSRows) })
	assert.Empty(t, rows)
	assert.Nil(t, sheetRow(ws, 1))
}

func TestWorksheetRows_EmptySheet(t *testing.T) {
	for _, maxRow := range []uint16{0, 50} {
		ws := &xls.WorkSheet{Name: "Sheet1", MaxRow: maxRow}
		var rows [][]string
		require.NotPanics(t, func() { rows = worksheetRows(ws, 3) })
		assert.Empty(t, rows)
	}
}
