package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  Source
		wantErr string
	}{
		{
			name:   "sample without options",
			source: Source{Type: SourceSample},
		},
		{
			name:    "sample with unknown axis",
			source:  Source{Type: SourceSample, Sample: &SampleOptions{Axis: "category"}},
			wantErr: "unknown axis",
		},
		{
			name:    "csv without path",
			source:  Source{Type: SourceCSV, ColumnOptions: ColumnOptions{X: "x", Y: "y"}},
			wantErr: "requires a path",
		},
		{
			name:    "excel without columns",
			source:  Source{Type: SourceExcel, Path: "data.xlsx"},
			wantErr: "requires x and y columns",
		},
		{
			name:    "statement with unknown view",
			source:  Source{Type: SourceStatement, Path: "conto.csv", View: "pie"},
			wantErr: "unknown statement view",
		},
		{
			name:    "multi-character comma",
			source:  Source{Type: SourceStatement, Path: "conto.csv", Comma: ";;"},
			wantErr: "single character",
		},
		{
			name:    "unknown type",
			source:  Source{Type: "parquet"},
			wantErr: "unsupported source type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.source.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "tvm.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("x;y\n1;2,5\n2;3\n"), 0o600))

	statementPath := filepath.Join(dir, "conto.csv")
	require.NoError(t, os.WriteFile(statementPath, []byte(
		"Data,Operazione,Dettagli,Importo\n"+
			"02/01/2024,Stipendio O Pensione,,1000\n"+
			"03/01/2024,Bonifico,Affitto,-400\n"), 0o600))

	ctx := context.Background()

	t.Run("sample", func(t *testing.T) {
		t.Parallel()

		s, err := Load(ctx, "tvm1", Source{Type: SourceSample, Sample: &SampleOptions{Count: 10, Seed: 1}})
		require.NoError(t, err)
		assert.Equal(t, 10, s.Len())
		assert.Equal(t, "tvm1", s.Name)
	})

	t.Run("csv with custom separator", func(t *testing.T) {
		t.Parallel()

		s, err := Load(ctx, "file", Source{
			Type:          SourceCSV,
			Path:          csvPath,
			Comma:         ";",
			ColumnOptions: ColumnOptions{X: "x", Y: "y"},
		})
		require.NoError(t, err)
		assert.Equal(t, []Point{{X: 1, Y: 2.5}, {X: 2, Y: 3}}, s.Points)
	})

	t.Run("statement balance", func(t *testing.T) {
		t.Parallel()

		s, err := Load(ctx, "saldo", Source{Type: SourceStatement, Path: statementPath, View: StatementBalance})
		require.NoError(t, err)
		require.Equal(t, 2, s.Len())
		assert.Equal(t, 600.0, s.Points[1].Y)
	})

	t.Run("statement salary", func(t *testing.T) {
		t.Parallel()

		s, err := Load(ctx, "stipendio", Source{Type: SourceStatement, Path: statementPath, View: StatementSalary})
		require.NoError(t, err)
		require.Equal(t, 1, s.Len())
		assert.Equal(t, 600.0, s.Points[0].Y)
	})

	t.Run("statement expenses by default", func(t *testing.T) {
		t.Parallel()

		s, err := Load(ctx, "spese", Source{Type: SourceStatement, Path: statementPath})
		require.NoError(t, err)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Load(ctx, "file", Source{
			Type:          SourceCSV,
			Path:          filepath.Join(dir, "absent.csv"),
			ColumnOptions: ColumnOptions{X: "x", Y: "y"},
		})
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Load(cancelled, "tvm1", Source{Type: SourceSample})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoadAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	series, err := LoadAll(ctx, []NamedSource{
		{Name: "a", Source: Source{Type: SourceSample, Sample: &SampleOptions{Count: 5}}},
		{Name: "b", Source: Source{Type: SourceSample, Sample: &SampleOptions{Count: 7}}},
	})
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "a", series[0].Name)
	assert.Equal(t, 5, series[0].Len())
	assert.Equal(t, "b", series[1].Name)
	assert.Equal(t, 7, series[1].Len())

	_, err = LoadAll(ctx, []NamedSource{
		{Name: "ok", Source: Source{Type: SourceSample}},
		{Name: "bad", Source: Source{Type: "parquet"}},
	})
	require.ErrorIs(t, err, ErrUnsupportedSource)
}
