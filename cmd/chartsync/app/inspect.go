package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tvmdash/chartsync/internal/app"
	"github.com/tvmdash/chartsync/internal/chart"
	"github.com/tvmdash/chartsync/internal/dataset"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load every chart and summarize its data",
	Long: `Load every configured chart and print, per group, the number of points and
the full range of each chart. Bank statement sources also get a summary and an
expense breakdown per category. Any of the transaction filters lists the
matching statement transactions as well.`,
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, _ []string) error {
		planned, err := decimal.NewFromString(viper.GetString("planned"))
		if err != nil {
			return fmt.Errorf("invalid planned expenses: %w", err)
		}
		filter, err := transactionFilter(
			viper.GetString("operation"),
			viper.GetString("min-amount"),
			viper.GetString("max-amount"),
			viper.GetString("from"),
			viper.GetString("to"),
		)
		if err != nil {
			return err
		}
		return runInspect(cmd.Context(), cmd.OutOrStdout(), inspectOptions{
			configPath: viper.GetString("config"),
			planned:    planned,
			filter:     filter,
		})
	},
}

func init() {
	addConfigFlag(inspectCmd)
	inspectCmd.Flags().String("planned", "0", "Planned expenses subtracted from the salary in statement summaries")
	inspectCmd.Flags().String("operation", "", "List statement transactions whose operation contains this text")
	inspectCmd.Flags().String("min-amount", "", "List statement transactions with at least this amount")
	inspectCmd.Flags().String("max-amount", "", "List statement transactions with at most this amount")
	inspectCmd.Flags().String("from", "", "List statement transactions on or after this date (YYYY-MM-DD)")
	inspectCmd.Flags().String("to", "", "List statement transactions on or before this date (YYYY-MM-DD)")
}

type inspectOptions struct {
	configPath string
	planned    decimal.Decimal
	filter     dataset.TransactionFilter
}

// transactionFilter builds a statement filter from flag values. Empty values
// leave the matching constraint unset.
func transactionFilter(operation, minAmount, maxAmount, from, to string) (dataset.TransactionFilter, error) {
	filter := dataset.TransactionFilter{Operation: operation}

	for _, bound := range []struct {
		flag  string
		value string
		dst   **decimal.Decimal
	}{
		{"min-amount", minAmount, &filter.MinAmount},
		{"max-amount", maxAmount, &filter.MaxAmount},
	} {
		if bound.value == "" {
			continue
		}
		d, err := decimal.NewFromString(bound.value)
		if err != nil {
			return filter, fmt.Errorf("invalid --%s: %w", bound.flag, err)
		}
		*bound.dst = &d
	}

	var err error
	if from != "" {
		if filter.From, err = time.Parse(time.DateOnly, from); err != nil {
			return filter, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if to != "" {
		if filter.To, err = time.Parse(time.DateOnly, to); err != nil {
			return filter, fmt.Errorf("invalid --to: %w", err)
		}
	}
	return filter, nil
}

func runInspect(ctx context.Context, w io.Writer, opts inspectOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	dash, err := app.NewDashboardApp(ctx, app.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}
	defer dash.Close()

	if err := renderCharts(w, dash); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, g := range dash.Groups() {
		for _, p := range g.Panels() {
			if p.Source.Type != dataset.SourceStatement || seen[p.Source.Path] {
				continue
			}
			seen[p.Source.Path] = true

			st, err := dataset.LoadStatement(p.Source.Path, p.Source.Sheet, p.Source.Comma)
			if err != nil {
				return err
			}
			if err := renderStatement(w, p.Source.Path, st, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderCharts(w io.Writer, dash *app.DashboardApp) error {
	table := tablewriter.NewWriter(w)
	table.Header("Group", "Mode", "Chart", "Title", "Source", "Points", "X range", "Y range")

	for _, g := range dash.Groups() {
		for _, p := range g.Panels() {
			formatX := axisFormatter(p.Source)
			xRange, yRange := "-", "-"
			if r, ok := p.Series.FullRange(); ok {
				xRange = formatX(r.Min) + " .. " + formatX(r.Max)
			}
			if r, ok := p.Series.YRange(); ok {
				yRange = formatValue(r.Min) + " .. " + formatValue(r.Max)
			}

			err := table.Append(g.Key(), string(g.Registry().Mode()), p.ID, p.Title,
				string(p.Source.Type), strconv.Itoa(p.Series.Len()), xRange, yRange)
			if err != nil {
				return fmt.Errorf("failed to append chart row: %w", err)
			}
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render chart table: %w", err)
	}
	return nil
}

func renderStatement(w io.Writer, path string, st *dataset.Statement, opts inspectOptions) error {
	summary := st.Summarize(opts.planned)
	if _, err := fmt.Fprintf(w, "\nStatement %s (%d transactions)\n", path, len(st.Transactions)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Salary", "Expenses", "Planned", "Remaining")
	err := table.Append(summary.Salary.StringFixed(2), summary.Expenses.StringFixed(2),
		summary.Planned.StringFixed(2), summary.Remaining.StringFixed(2))
	if err != nil {
		return fmt.Errorf("failed to append summary row: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render statement summary: %w", err)
	}

	breakdown := tablewriter.NewWriter(w)
	breakdown.Header("Category", "Total")
	for _, c := range st.Breakdown() {
		if err := breakdown.Append(c.Name, c.Total.StringFixed(2)); err != nil {
			return fmt.Errorf("failed to append breakdown row: %w", err)
		}
	}
	if err := breakdown.Render(); err != nil {
		return fmt.Errorf("failed to render statement breakdown: %w", err)
	}

	if opts.filter.IsZero() {
		return nil
	}
	return renderTransactions(w, st.Filter(opts.filter))
}

func renderTransactions(w io.Writer, txs []dataset.Transaction) error {
	if _, err := fmt.Fprintf(w, "\nMatching transactions: %d\n", len(txs)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Date", "Operation", "Details", "Category", "Amount")
	for _, tx := range txs {
		date := "-"
		if !tx.Date.IsZero() {
			date = tx.Date.Format(time.DateOnly)
		}
		if err := table.Append(date, tx.Operation, tx.Details, tx.Category, tx.Amount.StringFixed(2)); err != nil {
			return fmt.Errorf("failed to append transaction row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render transactions: %w", err)
	}
	return nil
}

// axisFormatter picks how X values of a source are displayed
func axisFormatter(src dataset.Source) func(float64) string {
	switch src.Type {
	case dataset.SourceSample:
		if src.Sample != nil && src.Sample.Axis == dataset.AxisFlightHours {
			return dataset.FormatFlightHours
		}
		return formatUnix
	case dataset.SourceStatement:
		return formatUnixDate
	default:
		if src.TimeLayout != "" {
			return formatUnix
		}
		return formatValue
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatUnix(v float64) string {
	return time.Unix(int64(v), 0).UTC().Format(time.DateTime)
}

func formatUnixDate(v float64) string {
	return time.Unix(int64(v), 0).UTC().Format(time.DateOnly)
}

// chartRangeFormatter adapts a value formatter to a full range
func chartRangeFormatter(format func(float64) string) func(chart.Range) string {
	return func(r chart.Range) string {
		return format(r.Min) + " .. " + format(r.Max)
	}
}
