// Package insights generates statistical findings from a table: descriptive
// summaries, per-column anomaly detection, an ensemble outlier detector,
// pairwise relationship analysis, distribution characterization, and
// missing-data patterns.
//
// Generate runs every sub-analysis and assembles a Report; each sub-analysis
// is also independently callable. Sub-analyses degrade to empty structures
// when their preconditions are unmet (too few rows, columns, or values) and
// never panic on degenerate input. The ensemble detector is seeded, so
// results are deterministic for a given table.
//
// All emitted index lists and value samples are capped so reports stay
// bounded regardless of table size.
package insights
