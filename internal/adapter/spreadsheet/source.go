// Package spreadsheet loads the person tracking table from .xlsx, .xls or
// .csv files.
package spreadsheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/PescoJ/tracking-dashboard/internal/domain"
)

// maxXLSRows bounds legacy workbook reads; the tracking sheet is far smaller.
const maxXLSRows = 100000

// ErrEmptySheet is returned when the selected worksheet has no header row.
var ErrEmptySheet = errors.New("worksheet is empty")

// Source reads a person table from a file on disk.
// It implements pipeline.TableSource.
type Source struct {
	path   string
	sheet  string
	logger *slog.Logger
}

// NewSource creates a Source for path. sheet selects a worksheet by name for
// workbook formats; empty means the first sheet.
func NewSource(path, sheet string, logger *slog.Logger) *Source {
	return &Source{path: path, sheet: sheet, logger: logger}
}

// Name returns the path the source reads from.
func (s *Source) Name() string {
	return s.path
}

// LoadTable reads the file and returns its contents as a table. The first
// row is the header.
func (s *Source) LoadTable(ctx context.Context) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := readRows(s.path, s.sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("read %s: %w", s.path, ErrEmptySheet)
	}

	header := normalizeHeaderRow(rows[0])
	t, err := domain.TableFromRows(header, rows[1:])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	s.logger.Debug("table loaded", "path", s.path, "rows", t.Len(), "columns", len(header))
	return t, nil
}

func readRows(path, sheet string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xls":
		return readXLS(path, sheet)
	case ".xlsx", ".xlsm":
		return readXLSX(path, sheet)
	default:
		return nil, fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, errors.New("no worksheet found")
	}
	return f.GetRows(sheet)
}

func readXLS(path, sheet string) ([][]string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("no worksheet found")
	}

	var ws *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		candidate := wb.GetSheet(i)
		if candidate == nil {
			continue
		}
		if sheet == "" || candidate.Name == sheet {
			ws = candidate
			break
		}
	}
	if ws == nil {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	return worksheetRows(ws, maxXLSRows), nil
}

// worksheetRows reads up to limit rows of ws. Blank rows are skipped.
func worksheetRows(ws *xls.WorkSheet, limit int) [][]string {
	var rows [][]string
	for i := 0; i <= int(ws.MaxRow) && i < limit; i++ {
		row := sheetRow(ws, i)
		if row == nil {
			continue
		}
		// LastCol is one past the last used column.
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return rows
}

// sheetRow returns row i of ws, or nil when the row is absent. xls.WorkSheet.Row
// dereferences absent rows instead of returning nil.
func sheetRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseCSV(f)
}

func parseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// normalizeHeaderRow trims header cells, strips a UTF-8 byte order mark left
// by spreadsheet CSV exports and names blank headers by position, as pandas
// does for unnamed columns.
func normalizeHeaderRow(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		out[i] = h
	}
	return out
}
