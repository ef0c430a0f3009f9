package tabular

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemTable(t *testing.T) {
	a := NewFloatColumn("a", []float64{1, 2}, nil)
	b := NewTextColumn("b", []string{"x", "y"}, nil)

	tbl, err := NewMemTable(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumCols())
	assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())

	col, ok := tbl.ColumnByName("b")
	require.True(t, ok)
	assert.Equal(t, KindText, col.Kind())

	_, ok = tbl.ColumnByName("missing")
	assert.False(t, ok)
}

func TestNewMemTableValidation(t *testing.T) {
	t.Run("duplicate names", func(t *testing.T) {
		_, err := NewMemTable(
			NewFloatColumn("a", []float64{1}, nil),
			NewTextColumn("a", []string{"x"}, nil),
		)
		assert.ErrorContains(t, err, "duplicate column name")
	})

	t.Run("ragged lengths", func(t *testing.T) {
		_, err := NewMemTable(
			NewFloatColumn("a", []float64{1, 2}, nil),
			NewTextColumn("b", []string{"x"}, nil),
		)
		assert.ErrorContains(t, err, "rows")
	})

	t.Run("empty table", func(t *testing.T) {
		tbl, err := NewMemTable()
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.NumRows())
		assert.Equal(t, 0, tbl.NumCols())
	})
}

func TestFromRows(t *testing.T) {
	tbl, err := FromRows(
		[]string{"name", "score"},
		[]Kind{KindText, KindNumeric},
		[][]any{
			{"alpha", 1.5},
			{"beta", nil},
			{nil, 3},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.NumRows())

	assert.Equal(t, []any{"alpha", 1.5}, tbl.Row(0))
	assert.Equal(t, []any{"beta", nil}, tbl.Row(1))

	score, _ := tbl.ColumnByName("score")
	v, ok := score.Float(2)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	_, err = FromRows([]string{"a"}, []Kind{KindText}, [][]any{{"x", "extra"}})
	assert.Error(t, err)
}

func TestSelectAndHead(t *testing.T) {
	tbl, err := FromRows(
		[]string{"n", "s"},
		[]Kind{KindNumeric, KindText},
		[][]any{{1.0, "a"}, {2.0, "b"}, {3.0, nil}},
	)
	require.NoError(t, err)

	sub := tbl.Select([]int{2, 0})
	assert.Equal(t, 2, sub.NumRows())
	assert.Equal(t, []any{3.0, nil}, sub.Row(0))
	assert.Equal(t, []any{1.0, "a"}, sub.Row(1))

	head := tbl.Head(2)
	assert.Equal(t, 2, head.NumRows())
	assert.Equal(t, 3, tbl.Head(10).NumRows())
	assert.Equal(t, 0, tbl.Head(0).NumRows())
}

func TestEmptyCell(t *testing.T) {
	text := NewTextColumn("t", []string{"x", "", "  ", "y"}, []bool{false, false, false, true})
	num := NewFloatColumn("n", []float64{1, 0}, []bool{false, true})

	assert.False(t, EmptyCell(text, 0))
	assert.True(t, EmptyCell(text, 1), "empty string")
	assert.True(t, EmptyCell(text, 2), "whitespace only")
	assert.True(t, EmptyCell(text, 3), "null")

	assert.False(t, EmptyCell(num, 0))
	assert.True(t, EmptyCell(num, 1))
}

func TestRowKey(t *testing.T) {
	tbl, err := FromRows(
		[]string{"a", "b"},
		[]Kind{KindText, KindText},
		[][]any{
			{"ab", "c"},
			{"a", "bc"},
			{"ab", "c"},
			{nil, "c"},
		},
	)
	require.NoError(t, err)

	assert.NotEqual(t, RowKey(tbl, 0, nil), RowKey(tbl, 1, nil), "cell boundaries must be preserved")
	assert.Equal(t, RowKey(tbl, 0, nil), RowKey(tbl, 2, nil))
	assert.NotEqual(t, RowKey(tbl, 0, nil), RowKey(tbl, 3, nil))

	// Keys over a subset ignore the other columns.
	assert.Equal(t, RowKey(tbl, 0, []int{1}), RowKey(tbl, 3, []int{1}))
}

func TestColumnConstructors(t *testing.T) {
	t.Run("non-finite floats become nulls", func(t *testing.T) {
		c := NewFloatColumn("n", []float64{1, math.NaN(), math.Inf(1)}, nil)
		assert.False(t, c.IsNull(0))
		assert.True(t, c.IsNull(1))
		assert.True(t, c.IsNull(2))
	})

	t.Run("typed accessors reject other kinds", func(t *testing.T) {
		c := NewTextColumn("t", []string{"x"}, nil)
		_, ok := c.Float(0)
		assert.False(t, ok)
		_, ok = c.Bool(0)
		assert.False(t, ok)
		_, ok = c.Time(0)
		assert.False(t, ok)
	})

	t.Run("constructors copy input slices", func(t *testing.T) {
		values := []float64{1, 2}
		c := NewFloatColumn("n", values, nil)
		values[0] = 99
		v, _ := c.Float(0)
		assert.Equal(t, 1.0, v)
	})
}

func TestColumnFromValues(t *testing.T) {
	t.Run("numeric accepts integer types", func(t *testing.T) {
		c, err := ColumnFromValues("n", KindNumeric, []any{1, int64(2), 3.5, nil})
		require.NoError(t, err)
		assert.Equal(t, 4, c.Len())
		v, _ := c.Float(1)
		assert.Equal(t, 2.0, v)
		assert.True(t, c.IsNull(3))
	})

	t.Run("kind mismatch errors", func(t *testing.T) {
		_, err := ColumnFromValues("n", KindNumeric, []any{"nope"})
		assert.ErrorContains(t, err, "cannot store")

		_, err = ColumnFromValues("t", KindText, []any{1.0})
		assert.ErrorContains(t, err, "cannot store")
	})

	t.Run("timestamp", func(t *testing.T) {
		now := time.Now()
		c, err := ColumnFromValues("ts", KindTime, []any{now, nil})
		require.NoError(t, err)
		v, ok := c.Time(0)
		assert.True(t, ok)
		assert.True(t, v.Equal(now))
	})
}

func TestFloats(t *testing.T) {
	c := NewFloatColumn("n", []float64{5, 0, 7}, []bool{false, true, false})
	values, rows := Floats(c)
	assert.Equal(t, []float64{5, 7}, values)
	assert.Equal(t, []int{0, 2}, rows)
}

func TestApproxBytes(t *testing.T) {
	tbl, err := FromRows(
		[]string{"n", "s"},
		[]Kind{KindNumeric, KindText},
		[][]any{{1.0, "hello"}},
	)
	require.NoError(t, err)
	assert.Greater(t, tbl.ApproxBytes(), int64(0))
}
