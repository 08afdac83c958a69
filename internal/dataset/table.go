package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ColumnOptions names the columns holding X and Y values. When TimeLayout is
// set, X cells are parsed as times and stored as Unix seconds.
type ColumnOptions struct {
	X          string `yaml:"x"`
	Y          string `yaml:"y"`
	TimeLayout string `yaml:"timeLayout,omitempty"`
}

// ExcelOptions configures LoadExcel. Sheet defaults to the first sheet.
type ExcelOptions struct {
	ColumnOptions `yaml:",inline"`
	Sheet         string `yaml:"sheet,omitempty"`
}

// LoadCSV reads a series from comma-separated values with a header row
func LoadCSV(name string, r io.Reader, opts ColumnOptions) (Series, error) {
	return loadCSVWithComma(name, r, opts, 0)
}

func loadCSVWithComma(name string, r io.Reader, opts ColumnOptions, comma rune) (Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if comma != 0 {
		reader.Comma = comma
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return Series{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	return seriesFromRows(name, rows, opts)
}

// LoadExcel reads a series from an Excel workbook with a header row
func LoadExcel(name, path string, opts ExcelOptions) (Series, error) {
	rows, err := readSheet(path, opts.Sheet)
	if err != nil {
		return Series{}, err
	}
	return seriesFromRows(name, rows, opts.ColumnOptions)
}

// readSheet returns the raw cell values of a sheet so that dates stay as
// serial numbers regardless of the cell's number format
func readSheet(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func seriesFromRows(name string, rows [][]string, opts ColumnOptions) (Series, error) {
	if len(rows) == 0 {
		return Series{Name: name}, nil
	}

	header := rows[0]
	xCol, err := columnIndex(header, opts.X)
	if err != nil {
		return Series{}, err
	}
	yCol, err := columnIndex(header, opts.Y)
	if err != nil {
		return Series{}, err
	}

	s := Series{Name: name}
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rowNum := i + 2

		x, err := parseX(cell(row, xCol), opts.TimeLayout)
		if err != nil {
			return Series{}, &ParseError{Row: rowNum, Column: opts.X, Err: err}
		}
		y, err := ParseNumber(cell(row, yCol))
		if err != nil {
			return Series{}, &ParseError{Row: rowNum, Column: opts.Y, Err: err}
		}
		s.Points = append(s.Points, Point{X: x, Y: y})
	}
	return s, nil
}

func parseX(value, layout string) (float64, error) {
	if layout == "" {
		return ParseNumber(value)
	}
	t, err := time.Parse(layout, strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	return float64(t.Unix()), nil
}

// ParseNumber parses a decimal number written with either a dot or a comma
// as decimal separator. When both appear, the last one is the decimal
// separator and the other groups thousands.
func ParseNumber(value string) (float64, error) {
	v := normalizeNumber(strings.TrimSpace(value))
	if v == "" {
		return 0, errors.New("empty number")
	}
	return strconv.ParseFloat(v, 64)
}

func normalizeNumber(v string) string {
	comma := strings.LastIndex(v, ",")
	dot := strings.LastIndex(v, ".")
	switch {
	case comma < 0:
		return v
	case dot < 0:
		return strings.ReplaceAll(v, ",", ".")
	case comma > dot:
		return strings.ReplaceAll(strings.ReplaceAll(v, ".", ""), ",", ".")
	default:
		return strings.ReplaceAll(v, ",", "")
	}
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
