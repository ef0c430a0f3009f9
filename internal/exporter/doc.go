// Package exporter renders tables to CSV, TSV, JSON and Excel.
//
// Writer-based functions (WriteCSV, WriteJSON, WriteExcel) serve the
// HTTP layer; ExportFile picks the encoder from the file extension for
// CLI output. CSV output carries a UTF-8 BOM by default so Excel opens
// it correctly. StreamWriter appends records one at a time for exports
// too large to assemble in memory.
package exporter
