// Package ingest reads batch calculator rows from CSV, XLSX, JSON and
// NDJSON sources.
//
// Every format is first read into raw Records of column name to text,
// then MapRecord turns each Record into an engine.Row. Columns absent from
// a record take their value from Options.Defaults.
package ingest
