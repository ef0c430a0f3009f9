// Package ingest decodes uploaded tabular files into tables.
//
// Three source formats are supported: delimited text (CSV and TSV),
// JSON (either an array of row objects or a map of column arrays), and
// Excel workbooks (the first sheet holding data). Every cell passes
// through the same missing-token normalization before column types are
// inferred, so "N/A", "null", "None", empty and whitespace-only cells
// all land as nulls regardless of the source format.
package ingest
