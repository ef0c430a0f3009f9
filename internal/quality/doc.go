// Package quality analyzes a table and produces a diagnostics report: basic
// shape statistics, an empty-cell inventory with spreadsheet coordinates,
// duplicate detection, per-column statistics, IQR outlier detection, a
// weighted 0-100 quality score, and a one-line summary.
//
// Analysis is a pure computation. The analyzer performs no I/O, keeps no
// state between calls, and caps list-valued findings so the report stays
// bounded regardless of table size (1000 empty cells, 1000 duplicate row
// indices, 100 outlier columns, 5 sample values per column).
//
// The score weights are fixed: missing values 30%, duplicate rows 20%,
// outliers 10%, column completeness 40%. Downstream consumers compare scores
// across datasets, so the coefficients must not change.
package quality
