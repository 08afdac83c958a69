package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// SourceType identifies where a series comes from
type SourceType string

const (
	// SourceSample generates vibration samples
	SourceSample SourceType = "sample"
	// SourceCSV reads X/Y columns from a CSV file
	SourceCSV SourceType = "csv"
	// SourceExcel reads X/Y columns from an Excel workbook
	SourceExcel SourceType = "excel"
	// SourceStatement reads a bank statement (CSV or Excel by extension)
	SourceStatement SourceType = "statement"
)

// StatementView selects the series derived from a statement
type StatementView string

const (
	// StatementExpenses plots each debit
	StatementExpenses StatementView = "expenses"
	// StatementBalance plots the running balance
	StatementBalance StatementView = "balance"
	// StatementSalary plots the salary left after each debit
	StatementSalary StatementView = "salary"
)

// Source describes one series to load
type Source struct {
	Type   SourceType     `yaml:"type"`
	Path   string         `yaml:"path,omitempty"`
	Sheet  string         `yaml:"sheet,omitempty"`
	Comma  string         `yaml:"comma,omitempty"`
	Sample *SampleOptions `yaml:"sample,omitempty"`
	View   StatementView  `yaml:"view,omitempty"`

	ColumnOptions `yaml:",inline"`
}

// Validate checks that the source has what its type requires
func (s *Source) Validate() error {
	switch s.Type {
	case SourceSample:
		if s.Sample != nil {
			if _, err := ParseAxis(string(s.Sample.Axis)); err != nil {
				return err
			}
		}
		return nil
	case SourceCSV, SourceExcel:
		if s.Path == "" {
			return fmt.Errorf("%s source requires a path", s.Type)
		}
		if s.X == "" || s.Y == "" {
			return fmt.Errorf("%s source requires x and y columns", s.Type)
		}
	case SourceStatement:
		if s.Path == "" {
			return fmt.Errorf("%s source requires a path", s.Type)
		}
		switch s.View {
		case "", StatementExpenses, StatementBalance, StatementSalary:
		default:
			return fmt.Errorf("unknown statement view %q", s.View)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedSource, s.Type)
	}

	if len([]rune(s.Comma)) > 1 {
		return fmt.Errorf("comma must be a single character, got %q", s.Comma)
	}
	return nil
}

// Load produces the series described by src
func Load(ctx context.Context, name string, src Source) (Series, error) {
	if err := ctx.Err(); err != nil {
		return Series{}, err
	}
	if err := src.Validate(); err != nil {
		return Series{}, fmt.Errorf("source %s: %w", name, err)
	}

	var (
		s   Series
		err error
	)
	switch src.Type {
	case SourceSample:
		opts := SampleOptions{}
		if src.Sample != nil {
			opts = *src.Sample
		}
		s, err = Generate(name, opts)
	case SourceCSV:
		s, err = loadCSVFile(name, src)
	case SourceExcel:
		s, err = LoadExcel(name, src.Path, ExcelOptions{ColumnOptions: src.ColumnOptions, Sheet: src.Sheet})
	case SourceStatement:
		s, err = loadStatementSeries(name, src)
	}
	if err != nil {
		return Series{}, fmt.Errorf("source %s: %w", name, err)
	}

	slog.Debug("Series loaded", "series", name, "type", src.Type, "points", s.Len())
	return s, nil
}

// NamedSource pairs a source with the name of the series it produces
type NamedSource struct {
	Name   string
	Source Source
}

// LoadAll loads every source concurrently. Results keep the input order. The
// first failure cancels the remaining loads.
func LoadAll(ctx context.Context, sources []NamedSource) ([]Series, error) {
	out := make([]Series, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, ns := range sources {
		g.Go(func() error {
			s, err := Load(gctx, ns.Name, ns.Source)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadStatement reads the statement at path, choosing the parser by extension
func LoadStatement(path, sheet, comma string) (*Statement, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return LoadStatementExcel(path, sheet)
	default:
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("failed to open statement: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		return LoadStatementCSV(f, commaRune(comma))
	}
}

func loadStatementSeries(name string, src Source) (Series, error) {
	st, err := LoadStatement(src.Path, src.Sheet, src.Comma)
	if err != nil {
		return Series{}, err
	}
	switch src.View {
	case StatementBalance:
		return st.BalanceSeries(name), nil
	case StatementSalary:
		return st.SalarySeries(name), nil
	default:
		return st.ExpenseSeries(name), nil
	}
}

func loadCSVFile(name string, src Source) (Series, error) {
	f, err := os.Open(filepath.Clean(src.Path))
	if err != nil {
		return Series{}, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return loadCSVWithComma(name, f, src.ColumnOptions, commaRune(src.Comma))
}

func commaRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
