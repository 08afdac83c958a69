// Package helpers writes the data and configuration files used by the
// integration tests.
package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ChartSpec describes one chart of a generated configuration
type ChartSpec struct {
	ID     string
	Source string // YAML body of the chart's source, indented by the caller
}

// WriteConfigYAML writes a single-group configuration and returns its path
func WriteConfigYAML(dir, groupKey string, charts []ChartSpec) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "name: integration\ngroups:\n  - key: %s\n    charts:\n", groupKey)
	for _, c := range charts {
		fmt.Fprintf(&b, "      - id: %s\n        source:\n", c.ID)
		for _, line := range strings.Split(strings.TrimSpace(c.Source), "\n") {
			fmt.Fprintf(&b, "          %s\n", strings.TrimSpace(line))
		}
	}
	return writeFile(dir, "config.yaml", b.String())
}

// WriteTVMCSV writes n readings one flight hour apart, starting at the given
// flight time in seconds
func WriteTVMCSV(dir, name string, start float64, n int) (string, error) {
	var b strings.Builder
	b.WriteString("flightHours,amplitude\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%.0f,%d\n", start+float64(i)*3600, 5000+i*10)
	}
	return writeFile(dir, name, b.String())
}

// WriteTVMWorkbook writes the same readings as WriteTVMCSV to an Excel sheet
func WriteTVMWorkbook(dir, name, sheet string, start float64, n int) (string, error) {
	rows := [][]any{{"flightHours", "amplitude"}}
	for i := 0; i < n; i++ {
		rows = append(rows, []any{start + float64(i)*3600, 5000 + i*10})
	}
	return writeWorkbook(dir, name, sheet, rows)
}

// WriteStatementWorkbook writes a bank statement with a preamble above the
// header row, as exported by the bank
func WriteStatementWorkbook(dir, name string) (string, error) {
	rows := [][]any{
		{"Estratto conto"},
		{},
		{"Data", "Operazione", "Dettagli", "Categoria", "Importo"},
		{"02/01/2024", "Stipendio O Pensione", "Azienda", "", "2.000,00"},
		{"05/01/2024", "Pagamento POS", "Supermercato", "Spesa", "-80,00"},
		{"10/01/2024", "Bonifico", "Affitto", "Casa", "-700,00"},
		{"20/01/2024", "Pagamento POS", "Farmacia", "", "-20,00"},
	}
	return writeWorkbook(dir, name, "Movimenti", rows)
}

func writeWorkbook(dir, name, sheet string, rows [][]any) (string, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return "", err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", err
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}

func writeFile(dir, name, content string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", err
	}
	return path, nil
}
