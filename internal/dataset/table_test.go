package dataset

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{input: "12.5", expected: 12.5},
		{input: "12,5", expected: 12.5},
		{input: " -3 ", expected: -3},
		{input: "1.234,56", expected: 1234.56},
		{input: "1,234.56", expected: 1234.56},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseNumber(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	t.Run("numeric columns", func(t *testing.T) {
		t.Parallel()

		input := "flightHours,amplitude,notes\n4320000,\"5000,5\",ok\n\n4323600,5100,\n"
		s, err := LoadCSV("tvm", strings.NewReader(input), ColumnOptions{X: "flightHours", Y: "Amplitude"})
		require.NoError(t, err)

		assert.Equal(t, "tvm", s.Name)
		assert.Equal(t, []Point{{X: 4320000, Y: 5000.5}, {X: 4323600, Y: 5100}}, s.Points)
	})

	t.Run("time column", func(t *testing.T) {
		t.Parallel()

		input := "timestamp,amplitude\n2024-03-01T10:00:00Z,1\n2024-03-01T11:00:00Z,2\n"
		s, err := LoadCSV("tvm", strings.NewReader(input), ColumnOptions{
			X:          "timestamp",
			Y:          "amplitude",
			TimeLayout: time.RFC3339,
		})
		require.NoError(t, err)

		first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, []float64{float64(first.Unix()), float64(first.Add(time.Hour).Unix())}, s.Domain())
	})

	t.Run("missing column", func(t *testing.T) {
		t.Parallel()

		_, err := LoadCSV("tvm", strings.NewReader("a,b\n1,2\n"), ColumnOptions{X: "a", Y: "c"})
		require.ErrorIs(t, err, ErrColumnNotFound)
	})

	t.Run("bad cell reports its row", func(t *testing.T) {
		t.Parallel()

		_, err := LoadCSV("tvm", strings.NewReader("x,y\n1,2\n2,oops\n"), ColumnOptions{X: "x", Y: "y"})

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 3, parseErr.Row)
		assert.Equal(t, "y", parseErr.Column)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		s, err := LoadCSV("tvm", strings.NewReader(""), ColumnOptions{X: "x", Y: "y"})
		require.NoError(t, err)
		assert.Zero(t, s.Len())
	})
}

func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadExcel(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, "Sheet1", [][]any{
		{"flightHours", "amplitude"},
		{4320000, 5000.25},
		{4323600, 5100},
	})

	s, err := LoadExcel("tvm", path, ExcelOptions{ColumnOptions: ColumnOptions{X: "flightHours", Y: "amplitude"}})
	require.NoError(t, err)
	assert.Equal(t, []Point{{X: 4320000, Y: 5000.25}, {X: 4323600, Y: 5100}}, s.Points)

	_, err = LoadExcel("tvm", path, ExcelOptions{
		ColumnOptions: ColumnOptions{X: "flightHours", Y: "amplitude"},
		Sheet:         "Missing",
	})
	assert.Error(t, err)

	_, err = LoadExcel("tvm", filepath.Join(t.TempDir(), "absent.xlsx"), ExcelOptions{})
	assert.Error(t, err)
}
