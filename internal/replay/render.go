package replay

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/tvmdash/chartsync/internal/chart"
)

// RangeFormatter renders one bound of a visible range
type RangeFormatter func(v float64) string

// DefaultRangeFormatter prints bounds in the shortest exact form
func DefaultRangeFormatter(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Render writes the results as a table with one column per chart
func Render(w io.Writer, results []StepResult, chartIDs []string, format RangeFormatter) error {
	if format == nil {
		format = DefaultRangeFormatter
	}

	header := []any{"#", "Step", "Outcome", "Mode"}
	for _, id := range chartIDs {
		header = append(header, id)
	}

	// Headers carry chart ids verbatim
	table := tablewriter.NewTable(w, tablewriter.WithHeaderAutoFormat(tw.Off))
	table.Header(header...)

	for _, res := range results {
		outcome := res.Outcome
		if res.Failed > 0 {
			outcome = fmt.Sprintf("%s (%d failed)", outcome, res.Failed)
		}
		row := []any{strconv.Itoa(res.Index), res.Step.String(), outcome, string(res.Mode)}
		for _, id := range chartIDs {
			row = append(row, formatRange(res.Ranges[id], format))
		}
		if err := table.Append(row...); err != nil {
			return fmt.Errorf("failed to append replay row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render replay table: %w", err)
	}
	return nil
}

func formatRange(r chart.Range, format RangeFormatter) string {
	return format(r.Min) + " .. " + format(r.Max)
}
