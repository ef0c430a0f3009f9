// Package chartconfig produces declarative Chart.js configurations from
// tables. The generator picks sensible default axes per chart family when
// none are given, renders a placeholder config when no table is available,
// and can suggest a chart type from the table's column mix. Every emitted
// value passes through the tabular sanitizer, so configs marshal to JSON
// without non-finite numbers.
package chartconfig
