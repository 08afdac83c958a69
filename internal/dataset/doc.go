// Package dataset loads and generates the series plotted by synchronized
// charts.
//
// Series come from three kinds of source: generated transmission vibration
// (TVM) samples, tabular files (CSV or Excel) with named X and Y columns, and
// bank statements exported as CSV or Excel. Statements are parsed into
// transactions whose amounts are kept as decimals; they can be summarized,
// broken down by category, or turned into expense and balance series.
//
// Load dispatches a single Source and LoadAll loads several concurrently.
package dataset
