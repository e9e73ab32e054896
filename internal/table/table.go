// Package table reads record lists and writes metric rows in .xlsx or .csv
// workbooks. Rows and columns are 1-based, as in a spreadsheet.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for paths that are neither .xlsx nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// Record is one input line: an identifier and the URL to fetch.
type Record struct {
	ID  string
	URL string
}

// Workbook is a single-sheet table held in memory until Save.
type Workbook struct {
	path  string
	xlsx  *excelize.File
	sheet string
	rows  [][]string
}

type format int

const (
	formatXLSX format = iota
	formatCSV
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return formatXLSX, nil
	case ".csv":
		return formatCSV, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Open loads a workbook. For .xlsx files the active sheet is used.
func Open(path string) (*Workbook, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening table: %w", err)
	}

	w := &Workbook{path: path}
	switch f {
	case formatXLSX:
		x, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("opening workbook %s: %w", path, err)
		}
		w.xlsx = x
		w.sheet = x.GetSheetName(x.GetActiveSheetIndex())
	case formatCSV:
		rows, err := readCSV(path)
		if err != nil {
			return nil, err
		}
		w.rows = rows
	}
	return w, nil
}

// Seed creates a new, unsaved workbook at path with a header row followed by
// one id/URL row per record.
func Seed(path string, header []string, records []Record) (*Workbook, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	w := &Workbook{path: path}
	switch f {
	case formatXLSX:
		x := excelize.NewFile()
		w.xlsx = x
		w.sheet = x.GetSheetName(x.GetActiveSheetIndex())
		hdr := make([]any, len(header))
		for i, h := range header {
			hdr[i] = h
		}
		if err := x.SetSheetRow(w.sheet, "A1", &hdr); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
		for i, r := range records {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return nil, err
			}
			if err := x.SetSheetRow(w.sheet, cell, &[]any{r.ID, r.URL}); err != nil {
				return nil, fmt.Errorf("writing record %s: %w", r.ID, err)
			}
		}
	case formatCSV:
		w.rows = append(w.rows, append([]string(nil), header...))
		for _, r := range records {
			w.rows = append(w.rows, []string{r.ID, r.URL})
		}
	}
	return w, nil
}

// Path returns the file the workbook saves to.
func (w *Workbook) Path() string {
	return w.path
}

// Rows returns every row of the sheet, header included, as display strings.
func (w *Workbook) Rows() ([][]string, error) {
	if w.xlsx != nil {
		rows, err := w.xlsx.GetRows(w.sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", w.sheet, err)
		}
		return rows, nil
	}
	return w.rows, nil
}

// Header returns the first row.
func (w *Workbook) Header() ([]string, error) {
	rows, err := w.Rows()
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// Records returns the id/URL pairs from row 2 onward. Fully blank rows are skipped.
func (w *Workbook) Records() ([]Record, error) {
	rows, err := w.Rows()
	if err != nil {
		return nil, err
	}
	var records []Record
	for i := 1; i < len(rows); i++ {
		r := Record{ID: cell(rows[i], 0), URL: cell(rows[i], 1)}
		if r.ID == "" && r.URL == "" {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// RowIndex maps each identifier in column 1 (from row 2) to its row number.
// When an identifier repeats, the first row wins and the id is reported in dups.
func (w *Workbook) RowIndex() (index map[string]int, dups []string, err error) {
	rows, err := w.Rows()
	if err != nil {
		return nil, nil, err
	}
	index = make(map[string]int, len(rows))
	for i := 1; i < len(rows); i++ {
		id := cell(rows[i], 0)
		if id == "" {
			continue
		}
		if _, seen := index[id]; seen {
			dups = append(dups, id)
			continue
		}
		index[id] = i + 1
	}
	return index, dups, nil
}

// SetValues writes values into consecutive cells of row starting at col.
func (w *Workbook) SetValues(row, col int, values []float64) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell position row=%d col=%d", row, col)
	}
	if w.xlsx != nil {
		for i, v := range values {
			name, err := excelize.CoordinatesToCellName(col+i, row)
			if err != nil {
				return err
			}
			if err := w.xlsx.SetCellValue(w.sheet, name, v); err != nil {
				return fmt.Errorf("writing %s: %w", name, err)
			}
		}
		return nil
	}

	for len(w.rows) < row {
		w.rows = append(w.rows, nil)
	}
	r := w.rows[row-1]
	for len(r) < col-1+len(values) {
		r = append(r, "")
	}
	for i, v := range values {
		r[col-1+i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	w.rows[row-1] = r
	return nil
}

// Save writes the workbook to a temporary file next to its path and renames
// it into place, so the previous file survives a failed save.
func (w *Workbook) Save() error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := w.writeTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", w.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replacing %s: %w", w.path, err)
	}
	return nil
}

func (w *Workbook) writeTo(out io.Writer) error {
	if w.xlsx != nil {
		_, err := w.xlsx.WriteTo(out)
		return err
	}
	cw := csv.NewWriter(out)
	if err := cw.WriteAll(w.rows); err != nil {
		return err
	}
	return cw.Error()
}

// Close releases workbook resources.
func (w *Workbook) Close() error {
	if w.xlsx != nil {
		return w.xlsx.Close()
	}
	return nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rows, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
