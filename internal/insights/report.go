package insights

// Caps applied to emitted index and value lists.
const (
	maxAnomalyEntries  = 100
	maxOutlierIndices  = 200
	maxTopValues       = 5
	minAnomalyValues   = 3
	minEnsembleRows    = 10
	minEnsembleColumns = 2
)

// Severity labels for anomaly ratios.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Correlation strength labels.
const (
	StrengthStrong   = "strong"
	StrengthModerate = "moderate"
	StrengthWeak     = "weak"
)

// Distribution shape labels.
const (
	ShapeSymmetric   = "symmetric"
	ShapeRightSkewed = "right_skewed"
	ShapeLeftSkewed  = "left_skewed"
)

// Report bundles every sub-analysis for one table.
type Report struct {
	SummaryStats  *SummaryStats               `json:"summary_stats"`
	Anomalies     map[string]*ColumnAnomalies `json:"anomalies"`
	Outliers      *OutlierReport              `json:"outliers"`
	Relationships map[string]*Relationship    `json:"relationships"`
	Distributions map[string]*Distribution    `json:"distributions"`
	MissingData   *MissingData                `json:"missing_data"`
}

// SummaryStats holds table shape and per-column descriptive statistics.
type SummaryStats struct {
	Rows       int                    `json:"rows"`
	Columns    int                    `json:"columns"`
	MemoryMB   float64                `json:"memory_usage_mb"`
	ColumnInfo map[string]*ColumnInfo `json:"column_info"`
}

// ColumnInfo describes one column. The numeric statistics are present for
// numeric columns with at least one value; TopValues is present for
// non-numeric columns.
type ColumnInfo struct {
	DType          string  `json:"dtype"`
	NullCount      int     `json:"null_count"`
	NullPercentage float64 `json:"null_percentage"`
	UniqueValues   int     `json:"unique_values"`

	Mean   *float64 `json:"mean,omitempty"`
	Median *float64 `json:"median,omitempty"`
	Std    *float64 `json:"std,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Q1     *float64 `json:"q1,omitempty"`
	Q3     *float64 `json:"q3,omitempty"`

	TopValues []ValueCount `json:"top_values,omitempty"`
}

// ValueCount is one entry of a non-numeric column's most frequent values.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnAnomalies reports the union of z-score and IQR anomalies for one
// numeric column. Indices refer to table rows; Indices and Values are
// truncated to the same cap, Count and Percentage cover the full set.
type ColumnAnomalies struct {
	Count      int       `json:"count"`
	Percentage float64   `json:"percentage"`
	Indices    []int     `json:"indices"`
	Values     []float64 `json:"values"`
	Severity   string    `json:"severity"`
}

// OutlierReport is the result of the ensemble detector. A table below the
// minimum size yields a zero-valued report with a nil Summary.
type OutlierReport struct {
	Summary        *OutlierSummary `json:"summary,omitempty"`
	OutlierIndices []int           `json:"outlier_indices,omitempty"`
}

// OutlierSummary aggregates the flagged rows across detection methods.
type OutlierSummary struct {
	TotalOutliers     int      `json:"total_outliers"`
	OutlierPercentage float64  `json:"outlier_percentage"`
	MethodsUsed       []string `json:"methods_used"`
}

// Relationship is one significant pairwise correlation.
type Relationship struct {
	Feature1    string  `json:"feature_1"`
	Feature2    string  `json:"feature_2"`
	Correlation float64 `json:"correlation"`
	Strength    string  `json:"strength"`
	Direction   string  `json:"direction"`
}

// Distribution characterizes the shape of one numeric column. IsNormal is
// nil when the column has too few values for the normality test.
type Distribution struct {
	Skewness         float64 `json:"skewness"`
	Kurtosis         float64 `json:"kurtosis"`
	IsNormal         *bool   `json:"is_normal"`
	DistributionType string  `json:"distribution_type"`
}

// MissingData summarizes missing cells table-wide and per column.
type MissingData struct {
	TotalMissingPercentage float64         `json:"total_missing_percentage"`
	ByColumn               []ColumnMissing `json:"by_column"`
	ColumnsWithMissing     []string        `json:"columns_with_missing"`
}

// ColumnMissing is one column's missing percentage. MissingData.ByColumn is
// sorted by percentage descending.
type ColumnMissing struct {
	Column     string  `json:"column"`
	Percentage float64 `json:"percentage"`
}
