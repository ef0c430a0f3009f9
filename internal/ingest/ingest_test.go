package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tabiq/internal/tabular"
)

func columnKind(t *testing.T, tbl *tabular.MemTable, name string) tabular.Kind {
	t.Helper()
	col, ok := tbl.ColumnByName(name)
	require.True(t, ok, "column %q", name)
	return col.Kind()
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{filename: "sales.csv", want: FormatCSV},
		{filename: "SALES.CSV", want: FormatCSV},
		{filename: "regions.tsv", want: FormatTSV},
		{filename: "rows.json", want: FormatJSON},
		{filename: "book.xlsx", want: FormatExcel},
		{filename: "macros.xlsm", want: FormatExcel},
		{filename: "notes.txt", wantErr: true},
		{filename: "noextension", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := DetectFormat(tt.filename)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCSVInfersColumnTypes(t *testing.T) {
	src := "city,sales,active,day\n" +
		"baghdad,1200.5,true,2024-01-15\n" +
		"basra,N/A,false,2024-01-16\n" +
		"erbil,900,true,2024-01-17\n"

	tbl, err := DecodeCSV(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, []string{"city", "sales", "active", "day"}, tbl.ColumnNames())

	assert.Equal(t, tabular.KindText, columnKind(t, tbl, "city"))
	assert.Equal(t, tabular.KindNumeric, columnKind(t, tbl, "sales"))
	assert.Equal(t, tabular.KindBool, columnKind(t, tbl, "active"))
	assert.Equal(t, tabular.KindTime, columnKind(t, tbl, "day"))

	sales, _ := tbl.ColumnByName("sales")
	assert.True(t, sales.IsNull(1))
	v, ok := sales.Float(0)
	require.True(t, ok)
	assert.InDelta(t, 1200.5, v, 1e-9)
}

func TestDecodeCSVMissingTokens(t *testing.T) {
	src := "v\nN/A\nna\nNULL\nNone\n  \n3.5\n"

	tbl, err := DecodeCSV(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 6, tbl.NumRows())

	col, ok := tbl.ColumnByName("v")
	require.True(t, ok)
	assert.Equal(t, tabular.KindNumeric, col.Kind())
	for i := 0; i < 5; i++ {
		assert.True(t, col.IsNull(i), "row %d should be null", i)
	}
	assert.False(t, col.IsNull(5))
}

func TestDecodeCSVRaggedRows(t *testing.T) {
	src := "a,b\n1\n2,3,4\n"

	tbl, err := DecodeCSV(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 2, tbl.NumRows())
	require.Equal(t, 2, tbl.NumCols())

	b, ok := tbl.ColumnByName("b")
	require.True(t, ok)
	assert.True(t, b.IsNull(0), "short row pads with nulls")
	v, okF := b.Float(1)
	require.True(t, okF)
	assert.Equal(t, 3.0, v)
}

func TestDecodeCSVHeaderFixups(t *testing.T) {
	src := " name ,,name\nx,y,z\n"

	tbl, err := DecodeCSV(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "column_2", "name_2"}, tbl.ColumnNames())
}

func TestDecodeCSVHeaderOnly(t *testing.T) {
	tbl, err := DecodeCSV(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumCols())
}

func TestDecodeCSVEmpty(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestDecodeTSV(t *testing.T) {
	src := "region\tsales\nnorth\t10\nsouth\t20\n"

	tbl, err := DecodeTSV(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, tabular.KindNumeric, columnKind(t, tbl, "sales"))
}

func TestDecodeJSONRecords(t *testing.T) {
	src := `[
		{"city": "baghdad", "sales": 1200.5, "tags": ["a", "b"]},
		{"city": "basra", "sales": null, "extra": true},
		{"city": "N/A", "sales": 900}
	]`

	tbl, err := DecodeJSON(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, []string{"city", "sales", "tags", "extra"}, tbl.ColumnNames())

	city, _ := tbl.ColumnByName("city")
	assert.Equal(t, tabular.KindText, city.Kind())
	assert.True(t, city.IsNull(2), "missing token inside a json string")

	sales, _ := tbl.ColumnByName("sales")
	assert.Equal(t, tabular.KindNumeric, sales.Kind())
	assert.True(t, sales.IsNull(1))

	tags, _ := tbl.ColumnByName("tags")
	require.Equal(t, tabular.KindText, tags.Kind())
	raw, ok := tags.Text(0)
	require.True(t, ok)
	assert.JSONEq(t, `["a","b"]`, raw)
	assert.True(t, tags.IsNull(1))
	assert.True(t, tags.IsNull(2))

	extra, _ := tbl.ColumnByName("extra")
	assert.Equal(t, tabular.KindBool, extra.Kind())
	assert.True(t, extra.IsNull(0))
	assert.True(t, extra.IsNull(2))
	b, ok := extra.Bool(1)
	require.True(t, ok)
	assert.True(t, b)
}

func TestDecodeJSONColumnMap(t *testing.T) {
	src := `{"city": ["baghdad", "basra"], "sales": [10, null]}`

	tbl, err := DecodeJSON(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []string{"city", "sales"}, tbl.ColumnNames())

	sales, _ := tbl.ColumnByName("sales")
	assert.Equal(t, tabular.KindNumeric, sales.Kind())
	assert.True(t, sales.IsNull(1))
}

func TestDecodeJSONColumnMapLengthMismatch(t *testing.T) {
	src := `{"a": [1, 2], "b": [1]}`

	_, err := DecodeJSON(strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"b"`)
}

func TestDecodeJSONEmptyDocuments(t *testing.T) {
	for _, src := range []string{"", "[]", "{}"} {
		_, err := DecodeJSON(strings.NewReader(src))
		assert.ErrorIs(t, err, ErrNoData, "source %q", src)
	}
}

func TestDecodeJSONRejectsScalars(t *testing.T) {
	_, err := DecodeJSON(strings.NewReader(`42`))
	require.Error(t, err)

	_, err = DecodeJSON(strings.NewReader(`[1, 2]`))
	require.Error(t, err)
}

func TestDecodeExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"city", "sales"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"baghdad", 1200.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"basra", "N/A"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tbl, err := DecodeExcel(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []string{"city", "sales"}, tbl.ColumnNames())

	sales, ok := tbl.ColumnByName("sales")
	require.True(t, ok)
	assert.Equal(t, tabular.KindNumeric, sales.Kind())
	v, okF := sales.Float(0)
	require.True(t, okF)
	assert.InDelta(t, 1200.5, v, 1e-9)
	assert.True(t, sales.IsNull(1))
}

func TestDecodeExcelSkipsEmptySheets(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("Data")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Data", "A1", &[]any{"v"}))
	require.NoError(t, f.SetSheetRow("Data", "A2", &[]any{"7"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tbl, err := DecodeExcel(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.NumRows())
	assert.Equal(t, []string{"v"}, tbl.ColumnNames())
}

func TestDecodeExcelNoData(t *testing.T) {
	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = DecodeExcel(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,x\n"), 0o644))

	tbl, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.NumRows())

	_, err = DecodeFile(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)

	_, err = DecodeFile(filepath.Join(dir, "notes.txt"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, err := Decode(strings.NewReader("x"), Format("parquet"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
