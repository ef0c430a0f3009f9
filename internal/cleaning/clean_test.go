package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiq/internal/tabular"
)

func mustTable(t *testing.T, names []string, kinds []tabular.Kind, rows [][]any) *tabular.MemTable {
	t.Helper()
	tbl, err := tabular.FromRows(names, kinds, rows)
	require.NoError(t, err)
	return tbl
}

func TestRemoveDuplicatesKeepFirst(t *testing.T) {
	tbl := mustTable(t,
		[]string{"id", "name"},
		[]tabular.Kind{tabular.KindNumeric, tabular.KindText},
		[][]any{
			{1.0, "a"},
			{2.0, "b"},
			{1.0, "a"},
			{3.0, "c"},
			{1.0, "a"},
		},
	)

	out, report, err := RemoveDuplicates(tbl, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, out.NumRows())
	assert.Equal(t, 5, report.RowsBefore)
	assert.Equal(t, 3, report.RowsAfter)
	assert.Equal(t, 2, report.DuplicatesRemoved)

	// First occurrences survive in their original order.
	names := out.Column(1)
	v0, _ := names.Text(0)
	v1, _ := names.Text(1)
	v2, _ := names.Text(2)
	assert.Equal(t, []string{"a", "b", "c"}, []string{v0, v1, v2})
}

func TestRemoveDuplicatesSubset(t *testing.T) {
	tbl := mustTable(t,
		[]string{"id", "name"},
		[]tabular.Kind{tabular.KindNumeric, tabular.KindText},
		[][]any{
			{1.0, "a"},
			{1.0, "b"},
			{2.0, "c"},
		},
	)

	out, report, err := RemoveDuplicates(tbl, []string{"id"})
	require.NoError(t, err)

	assert.Equal(t, 2, out.NumRows())
	assert.Equal(t, 1, report.DuplicatesRemoved)
	name, _ := out.Column(1).Text(0)
	assert.Equal(t, "a", name, "keep-first keeps the earlier row")
}

func TestRemoveDuplicatesUnknownSubsetColumn(t *testing.T) {
	tbl := mustTable(t, []string{"id"}, []tabular.Kind{tabular.KindNumeric}, [][]any{{1.0}})
	_, _, err := RemoveDuplicates(tbl, []string{"missing"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestRemoveDuplicatesNilTable(t *testing.T) {
	_, _, err := RemoveDuplicates(nil, nil)
	assert.ErrorIs(t, err, ErrNilTable)
}

func TestFillEmptyCells(t *testing.T) {
	tbl := mustTable(t,
		[]string{"score", "note"},
		[]tabular.Kind{tabular.KindNumeric, tabular.KindText},
		[][]any{
			{1.0, "x"},
			{nil, ""},
			{3.0, "  "},
		},
	)

	out, report, err := FillEmptyCells(tbl, map[string]any{
		"score":   0.0,
		"note":    "none",
		"missing": 1.0,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalCellsFilled)
	assert.Equal(t, ColumnFill{Value: "0", CellsFilled: 1}, report.ColumnFills["score"])
	assert.Equal(t, ColumnFill{Value: "none", CellsFilled: 2}, report.ColumnFills["note"])
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "missing")

	score, _ := out.ColumnByName("score")
	v, ok := score.Float(1)
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	note, _ := out.ColumnByName("note")
	s, _ := note.Text(2)
	assert.Equal(t, "none", s, "whitespace-only text counts as empty")
}

func TestFillEmptyCellsWidensMismatchedColumn(t *testing.T) {
	tbl := mustTable(t,
		[]string{"v"},
		[]tabular.Kind{tabular.KindNumeric},
		[][]any{{1.0}, {nil}, {3.0}},
	)

	out, report, err := FillEmptyCells(tbl, map[string]any{"v": "unknown"})
	require.NoError(t, err)

	col, _ := out.ColumnByName("v")
	assert.Equal(t, tabular.KindText, col.Kind())
	s, _ := col.Text(1)
	assert.Equal(t, "unknown", s)
	s, _ = col.Text(0)
	assert.Equal(t, "1", s)
	assert.Equal(t, 1, report.TotalCellsFilled)
}

func TestFillEmptyCellsByAddress(t *testing.T) {
	tbl := mustTable(t,
		[]string{"col0", "col1"},
		[]tabular.Kind{tabular.KindText, tabular.KindNumeric},
		[][]any{
			{"a", 1.0},
			{"b", 2.0},
			{"c", 3.0},
		},
	)

	out, report, err := FillEmptyCellsByAddress(tbl, map[string]any{
		"A4":    "x",
		"Z9999": "lost",
	})
	require.NoError(t, err)

	// A4 is column 0, data row 4-2=2.
	col, _ := out.ColumnByName("col0")
	s, _ := col.Text(2)
	assert.Equal(t, "x", s)

	assert.Equal(t, 1, report.TotalCellsFilled)
	require.Len(t, report.CellChanges, 1)
	assert.Equal(t, CellChange{Cell: "A4", Column: "col0", Row: 2, Value: "x"}, report.CellChanges[0])
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "Z9999")
}

func TestFillEmptyCellsByAddressMalformed(t *testing.T) {
	tbl := mustTable(t, []string{"a"}, []tabular.Kind{tabular.KindText}, [][]any{{"x"}})

	out, report, err := FillEmptyCellsByAddress(tbl, map[string]any{
		"4A": "v",
		"A1": "v",
	})
	require.NoError(t, err)

	assert.Len(t, report.Warnings, 2)
	assert.Empty(t, report.CellChanges)
	assert.True(t, tabular.Equal(tbl, out))
}

func TestRemoveWhitespace(t *testing.T) {
	tbl := mustTable(t,
		[]string{"name", "tag", "n"},
		[]tabular.Kind{tabular.KindText, tabular.KindText, tabular.KindNumeric},
		[][]any{
			{" a ", "x", 1.0},
			{"b\t", "y", 2.0},
			{nil, "z", 3.0},
		},
	)

	out, report, err := RemoveWhitespace(tbl)
	require.NoError(t, err)

	assert.Equal(t, []string{"name"}, report.ColumnsTrimmed)
	assert.Equal(t, tbl.NumRows(), out.NumRows())

	col, _ := out.ColumnByName("name")
	s, _ := col.Text(0)
	assert.Equal(t, "a", s)
	assert.True(t, col.IsNull(2), "nulls stay null")
}

func TestNormalizeColumnNames(t *testing.T) {
	tbl := mustTable(t,
		[]string{"First Name", "last-name", "_age_", "ok"},
		[]tabular.Kind{tabular.KindText, tabular.KindText, tabular.KindNumeric, tabular.KindBool},
		[][]any{{"a", "b", 1.0, true}},
	)

	out, report, err := NormalizeColumnNames(tbl)
	require.NoError(t, err)

	assert.Equal(t, []string{"first_name", "last_name", "age", "ok"}, out.ColumnNames())
	assert.Equal(t, map[string]string{
		"First Name": "first_name",
		"last-name":  "last_name",
		"_age_":      "age",
	}, report.ColumnsRenamed, "rename map lists changed names only")
}

func TestNormalizeColumnNamesIdempotent(t *testing.T) {
	tbl := mustTable(t,
		[]string{"Col One", "COL-TWO", "col_three"},
		[]tabular.Kind{tabular.KindNumeric, tabular.KindNumeric, tabular.KindNumeric},
		[][]any{{1.0, 2.0, 3.0}},
	)

	once, _, err := NormalizeColumnNames(tbl)
	require.NoError(t, err)
	twice, report, err := NormalizeColumnNames(once)
	require.NoError(t, err)

	assert.True(t, tabular.Equal(once, twice))
	assert.Empty(t, report.ColumnsRenamed)
}

func TestNormalizeColumnNamesCollision(t *testing.T) {
	tbl := mustTable(t,
		[]string{"a b", "a_b"},
		[]tabular.Kind{tabular.KindNumeric, tabular.KindNumeric},
		[][]any{{1.0, 2.0}},
	)

	out, _, err := NormalizeColumnNames(tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"a_b", "a_b_2"}, out.ColumnNames())

	// A second pass has nothing left to rename.
	again, report, err := NormalizeColumnNames(out)
	require.NoError(t, err)
	assert.True(t, tabular.Equal(out, again))
	assert.Empty(t, report.ColumnsRenamed)
}

func TestRowCountConservation(t *testing.T) {
	tbl := mustTable(t,
		[]string{"name", "score"},
		[]tabular.Kind{tabular.KindText, tabular.KindNumeric},
		[][]any{
			{" a ", 1.0},
			{nil, nil},
			{"c", 3.0},
		},
	)

	ops := []struct {
		name string
		run  func() (*tabular.MemTable, *ChangeReport, error)
	}{
		{"remove_whitespace", func() (*tabular.MemTable, *ChangeReport, error) {
			return RemoveWhitespace(tbl)
		}},
		{"fill_empty_cells", func() (*tabular.MemTable, *ChangeReport, error) {
			return FillEmptyCells(tbl, map[string]any{"score": 0.0})
		}},
		{"fill_empty_cells_by_address", func() (*tabular.MemTable, *ChangeReport, error) {
			return FillEmptyCellsByAddress(tbl, map[string]any{"A3": "b"})
		}},
		{"convert_types", func() (*tabular.MemTable, *ChangeReport, error) {
			return ConvertTypes(tbl, map[string]string{"score": "string"})
		}},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			out, report, err := op.run()
			require.NoError(t, err)
			assert.Equal(t, tbl.NumRows(), out.NumRows())
			assert.Equal(t, report.RowsBefore, report.RowsAfter)
		})
	}
}

func TestOperationsCompose(t *testing.T) {
	tbl := mustTable(t,
		[]string{"Name ", "Score"},
		[]tabular.Kind{tabular.KindText, tabular.KindNumeric},
		[][]any{
			{" a ", 1.0},
			{" a ", 1.0},
			{"b", nil},
		},
	)

	step1, _, err := NormalizeColumnNames(tbl)
	require.NoError(t, err)
	step2, _, err := RemoveWhitespace(step1)
	require.NoError(t, err)
	step3, _, err := RemoveDuplicates(step2, nil)
	require.NoError(t, err)
	out, report, err := HandleMissingValues(step3, StrategyDrop)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "score"}, out.ColumnNames())
	assert.Equal(t, 1, out.NumRows())
	assert.Equal(t, 1, report.DroppedRows)
}

func TestApplyDispatch(t *testing.T) {
	tbl := mustTable(t,
		[]string{"A Col"},
		[]tabular.Kind{tabular.KindText},
		[][]any{{" x "}, {" x "}},
	)

	tests := []struct {
		operation string
		params    Params
	}{
		{OpRemoveDuplicates, Params{}},
		{OpFillEmptyCells, Params{FillValues: map[string]any{"A Col": "v"}}},
		{OpFillEmptyCellsByAddress, Params{Cells: map[string]any{"A2": "v"}}},
		{OpRemoveWhitespace, Params{}},
		{OpNormalizeColumnNames, Params{}},
		{OpConvertTypes, Params{Types: map[string]string{"A Col": "string"}}},
		{OpHandleMissingValues, Params{Strategy: StrategyForwardFill}},
	}

	for _, tt := range tests {
		t.Run(tt.operation, func(t *testing.T) {
			out, report, err := Apply(tbl, tt.operation, tt.params)
			require.NoError(t, err)
			require.NotNil(t, out)
			assert.Equal(t, tt.operation, report.Operation)
		})
	}
}

func TestApplyUnknownOperation(t *testing.T) {
	tbl := mustTable(t, []string{"a"}, []tabular.Kind{tabular.KindText}, [][]any{{"x"}})
	_, _, err := Apply(tbl, "transmogrify", Params{})
	assert.ErrorIs(t, err, ErrUnknownOperation)
}
