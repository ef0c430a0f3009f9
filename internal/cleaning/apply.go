package cleaning

import (
	"errors"
	"fmt"

	"tabiq/internal/tabular"
)

// ErrUnknownOperation is returned by Apply for an operation name it does
// not dispatch.
var ErrUnknownOperation = errors.New("cleaning: unknown operation")

// Params carries the operation-specific arguments of a cleaning request.
// Each operation reads only its own fields.
type Params struct {
	// Subset restricts RemoveDuplicates to the named columns.
	Subset []string `json:"subset,omitempty"`

	// FillValues maps column names to FillEmptyCells fill values.
	FillValues map[string]any `json:"fill_values,omitempty"`

	// Cells maps spreadsheet addresses to FillEmptyCellsByAddress values.
	Cells map[string]any `json:"cells,omitempty"`

	// Types maps column names to ConvertTypes targets.
	Types map[string]string `json:"types,omitempty"`

	// Strategy selects the HandleMissingValues strategy.
	Strategy string `json:"strategy,omitempty"`
}

// Apply dispatches a named cleaning operation. The operation names are the
// Op constants.
func Apply(t tabular.Table, operation string, p Params) (*tabular.MemTable, *ChangeReport, error) {
	switch operation {
	case OpRemoveDuplicates:
		return RemoveDuplicates(t, p.Subset)
	case OpFillEmptyCells:
		return FillEmptyCells(t, p.FillValues)
	case OpFillEmptyCellsByAddress:
		return FillEmptyCellsByAddress(t, p.Cells)
	case OpRemoveWhitespace:
		return RemoveWhitespace(t)
	case OpNormalizeColumnNames:
		return NormalizeColumnNames(t)
	case OpConvertTypes:
		return ConvertTypes(t, p.Types)
	case OpHandleMissingValues:
		return HandleMissingValues(t, p.Strategy)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownOperation, operation)
	}
}
