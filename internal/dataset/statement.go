package dataset

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SalaryOperation is the operation label of salary and pension credits
const SalaryOperation = "Stipendio O Pensione"

// statementHeader is the leading sequence of header cells of a statement
var statementHeader = []string{"Data", "Operazione", "Dettagli"}

// statementDateLayouts are tried in order for dates that are not Excel serials
var statementDateLayouts = []string{"02/01/2006", "2/1/2006", "2006-01-02"}

const (
	colDate      = "data"
	colOperation = "operazione"
	colDetails   = "dettagli"
	colCategory  = "categoria"
	colAmount    = "importo"
)

// Transaction is one line of a bank statement. Amounts are negative for
// expenses.
type Transaction struct {
	Date      time.Time
	Operation string
	Details   string
	Category  string
	Amount    decimal.Decimal

	// Fields holds every cell of the row keyed by lower-cased header
	Fields map[string]string
}

// Statement is a parsed bank statement
type Statement struct {
	// HeaderRow is the 1-based row holding the column headers
	HeaderRow    int
	Transactions []Transaction
}

// CategoryTotal is the amount spent in one category
type CategoryTotal struct {
	Name  string
	Total decimal.Decimal
}

// Summary compares expenses with the salary credited in the statement
type Summary struct {
	Salary    decimal.Decimal
	Expenses  decimal.Decimal
	Planned   decimal.Decimal
	Remaining decimal.Decimal
}

// LoadStatementCSV parses a statement exported as CSV. A zero comma selects ','.
func LoadStatementCSV(r io.Reader, comma rune) (*Statement, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if comma != 0 {
		reader.Comma = comma
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read statement CSV: %w", err)
	}
	return ParseStatement(rows)
}

// LoadStatementExcel parses a statement exported as an Excel workbook. Sheet
// defaults to the first sheet.
func LoadStatementExcel(path, sheet string) (*Statement, error) {
	rows, err := readSheet(path, sheet)
	if err != nil {
		return nil, err
	}
	return ParseStatement(rows)
}

// ParseStatement locates the header row and parses every non-blank row below
// it into a transaction
func ParseStatement(rows [][]string) (*Statement, error) {
	headerIdx := findHeaderRow(rows)
	if headerIdx < 0 {
		return nil, fmt.Errorf("%w: expected %s in the first columns",
			ErrHeaderNotFound, strings.Join(statementHeader, ", "))
	}

	header := make([]string, len(rows[headerIdx]))
	for i, h := range rows[headerIdx] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	amountCol := slices.Index(header, colAmount)
	if amountCol < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, colAmount)
	}

	st := &Statement{HeaderRow: headerIdx + 1}
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}

		tx, err := parseTransaction(header, row, i+1)
		if err != nil {
			return nil, err
		}
		st.Transactions = append(st.Transactions, tx)
	}
	return st, nil
}

func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		if len(row) < len(statementHeader) {
			continue
		}
		match := true
		for j, want := range statementHeader {
			if strings.TrimSpace(row[j]) != want {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func parseTransaction(header, row []string, rowNum int) (Transaction, error) {
	tx := Transaction{Fields: make(map[string]string, len(header))}
	for i, key := range header {
		if key == "" {
			continue
		}
		tx.Fields[key] = strings.TrimSpace(cell(row, i))
	}

	tx.Operation = tx.Fields[colOperation]
	tx.Details = tx.Fields[colDetails]
	tx.Category = tx.Fields[colCategory]

	amount, err := ParseAmount(tx.Fields[colAmount])
	if err != nil {
		return Transaction{}, &ParseError{Row: rowNum, Column: colAmount, Err: err}
	}
	tx.Amount = amount

	if raw := tx.Fields[colDate]; raw != "" {
		date, err := ParseStatementDate(raw)
		if err != nil {
			return Transaction{}, &ParseError{Row: rowNum, Column: colDate, Err: err}
		}
		tx.Date = date
	}
	return tx, nil
}

// ParseAmount parses a statement amount. Currency symbols, spaces and any
// other non-numeric characters are dropped before parsing.
func ParseAmount(value string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, value)
	if cleaned == "" {
		return decimal.Zero, errors.New("empty amount")
	}
	return decimal.NewFromString(normalizeNumber(cleaned))
}

// ParseStatementDate parses an Excel serial date or a dd/mm/yyyy date
func ParseStatementDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	for _, layout := range statementDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// Expenses returns the sum of the absolute values of all debits
func (s *Statement) Expenses() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range s.Transactions {
		if tx.Amount.IsNegative() {
			total = total.Add(tx.Amount.Abs())
		}
	}
	return total
}

// Salary returns the amount of the first salary credit
func (s *Statement) Salary() (decimal.Decimal, bool) {
	for _, tx := range s.Transactions {
		if tx.Operation == SalaryOperation {
			return tx.Amount, true
		}
	}
	return decimal.Zero, false
}

// Summarize compares salary with statement expenses plus planned expenses
func (s *Statement) Summarize(planned decimal.Decimal) Summary {
	salary, _ := s.Salary()
	expenses := s.Expenses()
	return Summary{
		Salary:    salary,
		Expenses:  expenses,
		Planned:   planned,
		Remaining: salary.Sub(expenses).Sub(planned),
	}
}

// Breakdown sums expenses per category, falling back to the operation label
// for uncategorized rows. Totals are sorted largest first.
func (s *Statement) Breakdown() []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range s.Transactions {
		if !tx.Amount.IsNegative() {
			continue
		}
		key := tx.Category
		if key == "" {
			key = tx.Operation
		}
		totals[key] = totals[key].Add(tx.Amount.Abs())
	}

	out := make([]CategoryTotal, 0, len(totals))
	for name, total := range totals {
		out = append(out, CategoryTotal{Name: name, Total: total})
	}
	slices.SortFunc(out, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// ExpenseSeries returns one point per debit, ordered by date, with the
// absolute amount as Y
func (s *Statement) ExpenseSeries(name string) Series {
	series := Series{Name: name}
	for _, tx := range s.Transactions {
		if tx.Amount.IsNegative() {
			series.Points = append(series.Points, Point{
				X: float64(tx.Date.Unix()),
				Y: tx.Amount.Abs().InexactFloat64(),
			})
		}
	}
	series.Sort()
	return series
}

// BalanceSeries returns the running balance after each transaction, ordered
// by date
func (s *Statement) BalanceSeries(name string) Series {
	txs := slices.Clone(s.Transactions)
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		return a.Date.Compare(b.Date)
	})

	series := Series{Name: name, Points: make([]Point, len(txs))}
	balance := decimal.Zero
	for i, tx := range txs {
		balance = balance.Add(tx.Amount)
		series.Points[i] = Point{X: float64(tx.Date.Unix()), Y: balance.InexactFloat64()}
	}
	return series
}

// TransactionFilter selects statement transactions. Zero fields do not
// constrain the selection.
type TransactionFilter struct {
	// Operation matches a case-insensitive substring of the operation label
	Operation string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	// From and To bound the transaction date, both inclusive
	From time.Time
	To   time.Time
}

// IsZero reports whether the filter selects every transaction
func (f TransactionFilter) IsZero() bool {
	return f.Operation == "" && f.MinAmount == nil && f.MaxAmount == nil &&
		f.From.IsZero() && f.To.IsZero()
}

// Match reports whether tx passes every constraint of the filter
func (f TransactionFilter) Match(tx Transaction) bool {
	if f.Operation != "" &&
		!strings.Contains(strings.ToLower(tx.Operation), strings.ToLower(f.Operation)) {
		return false
	}
	if f.MinAmount != nil && tx.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && tx.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if !f.From.IsZero() && tx.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && tx.Date.After(f.To) {
		return false
	}
	return true
}

// Filter returns the transactions matching f in statement order
func (s *Statement) Filter(f TransactionFilter) []Transaction {
	out := make([]Transaction, 0, len(s.Transactions))
	for _, tx := range s.Transactions {
		if f.Match(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// SalarySeries returns what is left of the salary after each debit, ordered
// by date. The remainder never drops below zero.
func (s *Statement) SalarySeries(name string) Series {
	var debits []Transaction
	for _, tx := range s.Transactions {
		if tx.Amount.IsNegative() {
			debits = append(debits, tx)
		}
	}
	slices.SortStableFunc(debits, func(a, b Transaction) int {
		return a.Date.Compare(b.Date)
	})

	salary, _ := s.Salary()
	series := Series{Name: name, Points: make([]Point, len(debits))}
	remaining := salary
	for i, tx := range debits {
		remaining = decimal.Max(decimal.Zero, remaining.Add(tx.Amount))
		series.Points[i] = Point{X: float64(tx.Date.Unix()), Y: remaining.InexactFloat64()}
	}
	return series
}
