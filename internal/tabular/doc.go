// Package tabular defines the in-memory table model shared by the analysis,
// cleaning, and visualization packages.
//
// # Overview
//
// A Table is an ordered set of named, typed columns with aligned rows. The
// package provides the Table and Column interfaces, a columnar MemTable
// implementation, spreadsheet-style cell addressing, and value sanitization
// for JSON output.
//
// # Columns
//
// Every column carries one of four kinds: numeric, text, boolean, or
// timestamp. Cells are nullable. Typed accessors (Float, Text, Bool, Time)
// return the value and a presence flag; Value boxes the cell as a native Go
// value with nil marking a null. Columns are immutable once constructed, so
// tables can be shared freely between goroutines.
//
// Numeric columns never store NaN or infinities. Constructors map non-finite
// inputs to nulls so that every cell is representable in an interchange
// format without special cases.
//
// # Addressing
//
// Diagnostics reference cells in spreadsheet convention: column letters plus
// a 1-based row number offset by the header row, so the first data row is
// row 2. ColumnLetters, CellAddress, and ParseAddress convert between this
// convention and the zero-based indices used by Table.
//
// # Construction
//
// Concrete columns are built with NewFloatColumn and friends, from boxed
// values with ColumnFromValues, or inferred from raw strings with
// InferColumn. FromRows assembles a MemTable from row-oriented data, which
// is the common path for decoded uploads.
package tabular
