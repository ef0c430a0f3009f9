package quality

// Report is the full diagnostics output for one table. All list fields are
// capped; the Total* counters always carry the true counts.
type Report struct {
	BasicStats    BasicStats                `json:"basic_stats"`
	EmptyCells    EmptyCellReport           `json:"empty_cells"`
	Duplicates    DuplicateReport           `json:"duplicates"`
	ColumnStats   []ColumnStats             `json:"column_stats"`
	DataTypes     map[string]string         `json:"data_types"`
	MissingValues map[string]int            `json:"missing_values"`
	Outliers      []ColumnOutliers          `json:"outliers"`
	Summary       string                    `json:"summary"`
	QualityScore  float64                   `json:"data_quality_score"`
}

// BasicStats describes the table shape.
type BasicStats struct {
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	ColumnNames []string `json:"column_names"`
	SizeBytes   int64    `json:"size_bytes"`
}

// EmptyCell locates a single missing cell. Cell is the spreadsheet-style
// address; Row is the zero-based data row index.
type EmptyCell struct {
	Cell     string `json:"cell"`
	Row      int    `json:"row"`
	Column   string `json:"column"`
	ColIndex int    `json:"col_index"`
}

// EmptyCellReport inventories missing cells, fully empty rows, and fully
// empty columns.
type EmptyCellReport struct {
	TotalEmptyCells  int         `json:"total_empty_cells"`
	EmptyCells       []EmptyCell `json:"empty_cells"`
	TotalEmptyRows   int         `json:"total_empty_rows"`
	EmptyRowIndices  []int       `json:"empty_row_indices"`
	TotalEmptyCols   int         `json:"total_empty_columns"`
	EmptyColumnNames []string    `json:"empty_column_names"`
}

// DuplicateReport covers whole-row duplicates and repeated values per
// column. TotalDuplicateRows counts rows minus distinct rows, so a group of
// three identical rows contributes two. DuplicateRowIndices lists every
// member of each duplicate group. The two metrics count different things
// and are deliberately separate.
type DuplicateReport struct {
	TotalDuplicateRows     int                       `json:"total_duplicate_rows"`
	DuplicateRowIndices    []int                     `json:"duplicate_row_indices"`
	DuplicateValuesByCol   map[string]map[string]int `json:"duplicate_values_by_column"`
}

// ColumnStats summarizes one column. The numeric fields are present only
// for numeric columns with enough non-null values; Std is the sample
// standard deviation (n-1 denominator).
type ColumnStats struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	NonNull int      `json:"non_null_count"`
	Nulls   int      `json:"null_count"`
	Unique  int      `json:"unique_count"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Mean    *float64 `json:"mean,omitempty"`
	Median  *float64 `json:"median,omitempty"`
	Std     *float64 `json:"std,omitempty"`
}

// Bounds is the IQR outlier fence for one column.
type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// ColumnOutliers reports rows outside the IQR fence for one numeric column,
// with up to five sample values.
type ColumnOutliers struct {
	Column       string    `json:"column"`
	Count        int       `json:"count"`
	Bounds       Bounds    `json:"bounds"`
	SampleValues []float64 `json:"sample_values"`
}
