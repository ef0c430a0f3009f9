package cleaning

import "fmt"

// Operation names accepted by Apply.
const (
	OpRemoveDuplicates        = "remove_duplicates"
	OpFillEmptyCells          = "fill_empty_cells"
	OpFillEmptyCellsByAddress = "fill_empty_cells_by_address"
	OpRemoveWhitespace        = "remove_whitespace"
	OpNormalizeColumnNames    = "normalize_column_names"
	OpConvertTypes            = "convert_types"
	OpHandleMissingValues     = "handle_missing_values"
)

// Missing-value strategies accepted by HandleMissingValues.
const (
	StrategyMean        = "mean"
	StrategyMedian      = "median"
	StrategyForwardFill = "forward_fill"
	StrategyDrop        = "drop"
	StrategyDropColumn  = "drop_column"
)

// Operations returns the operation names Apply dispatches on.
func Operations() []string {
	return []string{
		OpRemoveDuplicates,
		OpFillEmptyCells,
		OpFillEmptyCellsByAddress,
		OpRemoveWhitespace,
		OpNormalizeColumnNames,
		OpConvertTypes,
		OpHandleMissingValues,
	}
}

// Strategies returns the strategy names HandleMissingValues accepts.
func Strategies() []string {
	return []string{
		StrategyMean,
		StrategyMedian,
		StrategyForwardFill,
		StrategyDrop,
		StrategyDropColumn,
	}
}

// ColumnFill records how many empty cells a fill operation set in one
// column, and the value used.
type ColumnFill struct {
	Value       string `json:"value"`
	CellsFilled int    `json:"cells_filled"`
}

// CellChange records one cell set by an address-targeted fill. Row is the
// zero-based data row index.
type CellChange struct {
	Cell   string `json:"cell"`
	Column string `json:"column"`
	Row    int    `json:"row"`
	Value  string `json:"value"`
}

// Conversion records one column type conversion.
type Conversion struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MissingFill records how a missing-value strategy filled one column.
type MissingFill struct {
	Method string `json:"method"`
	Filled int    `json:"filled"`
}

// ChangeReport describes what a cleaning operation did. The base fields are
// set by every operation; the remaining fields are populated by the
// operations they belong to.
type ChangeReport struct {
	Operation     string `json:"operation"`
	RowsBefore    int    `json:"rows_before"`
	RowsAfter     int    `json:"rows_after"`
	ColumnsBefore int    `json:"columns_before"`
	ColumnsAfter  int    `json:"columns_after"`

	// RemoveDuplicates.
	DuplicatesRemoved int `json:"duplicates_removed,omitempty"`

	// FillEmptyCells and FillEmptyCellsByAddress.
	TotalCellsFilled int                   `json:"total_cells_filled,omitempty"`
	ColumnFills      map[string]ColumnFill `json:"columns_filled,omitempty"`
	CellChanges      []CellChange          `json:"cell_changes,omitempty"`

	// RemoveWhitespace.
	ColumnsTrimmed []string `json:"columns_trimmed,omitempty"`

	// NormalizeColumnNames: old name to new name, changed names only.
	ColumnsRenamed map[string]string `json:"columns_renamed,omitempty"`

	// ConvertTypes.
	Conversions map[string]Conversion `json:"conversions,omitempty"`

	// HandleMissingValues.
	Strategy       string                 `json:"strategy,omitempty"`
	FilledColumns  map[string]MissingFill `json:"filled_columns,omitempty"`
	DroppedRows    int                    `json:"dropped_rows,omitempty"`
	DroppedColumns int                    `json:"dropped_columns,omitempty"`

	// Per-unit problems that did not abort the operation.
	Warnings []string `json:"warnings,omitempty"`
}

func newReport(op string, rowsBefore, colsBefore int) *ChangeReport {
	return &ChangeReport{
		Operation:     op,
		RowsBefore:    rowsBefore,
		RowsAfter:     rowsBefore,
		ColumnsBefore: colsBefore,
		ColumnsAfter:  colsBefore,
	}
}

func (r *ChangeReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
