// Package cleaning provides the table transformation operations: duplicate
// removal, empty-cell filling, whitespace trimming, column-name
// normalization, type conversion, and missing-value handling.
//
// Every operation is a stateless function taking a tabular.Table and
// returning a fresh *tabular.MemTable together with a ChangeReport
// describing what was altered. Inputs are never mutated, so operations
// compose: the output of one is a valid input to the next and to the
// quality analyzer.
//
// Per-cell and per-column failures inside an operation are recorded as
// warnings on the ChangeReport and never abort the rest of the batch. Only
// malformed requests, an unknown operation name, an unknown strategy, or a
// subset column that does not exist, fail the call itself.
package cleaning
