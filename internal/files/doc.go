// Package files discovers dataset files on disk.
//
// Discovery walks directories for files in the formats the ingest
// package can decode (CSV, TSV, Excel, JSON) so callers can expand a
// directory argument into the datasets it holds.
package files
