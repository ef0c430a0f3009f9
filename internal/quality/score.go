package quality

import (
	"fmt"
	"math"
)

// Score component weights. Fixed for compatibility with persisted scores.
const (
	weightMissing      = 0.30
	weightDuplicates   = 0.20
	weightOutliers     = 0.10
	weightCompleteness = 0.40
)

// score combines the four quality components into a 0-100 score rounded to
// two decimals. The outlier component can drive the raw sum below zero on
// tables with many outlier-heavy numeric columns, so the result is clamped.
func score(missingPct, duplicatePct float64, outlierPcts []float64, fullyNullCols, totalCols int) float64 {
	missingScore := math.Max(0, 100-missingPct*3)
	duplicateScore := math.Max(0, 100-duplicatePct*2)

	outlierScore := 100.0
	for _, pct := range outlierPcts {
		outlierScore -= math.Min(10, pct)
	}

	completenessScore := math.Max(0, 100-float64(fullyNullCols)/float64(totalCols)*100)

	total := missingScore*weightMissing +
		duplicateScore*weightDuplicates +
		outlierScore*weightOutliers +
		completenessScore*weightCompleteness

	total = math.Max(0, math.Min(100, total))
	return math.Round(total*100) / 100
}

// qualityLabel classifies the table. The thresholds are evaluated in this
// fixed order with strict comparisons; a table at exactly 5% missing is
// still "Good".
func qualityLabel(missingPct, duplicatePct float64) string {
	switch {
	case missingPct > 20 || duplicatePct > 10:
		return "Needs Cleaning"
	case missingPct > 5 || duplicatePct > 5:
		return "Fair"
	default:
		return "Good"
	}
}

func buildSummary(rows, cols int, missingPct, duplicatePct float64) string {
	return fmt.Sprintf(
		"Dataset with %d rows and %d columns. Missing values: %.1f%%. Duplicate rows: %.1f%%. Overall quality: %s.",
		rows, cols, missingPct, duplicatePct, qualityLabel(missingPct, duplicatePct),
	)
}
