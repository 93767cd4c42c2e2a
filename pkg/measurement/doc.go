// Package measurement holds the pure core behind the clinical measurement
// widget: per-type unit tables, unit conversion, range classification and the
// {value, unit} model exchanged with the form engine. Nothing in this package
// performs I/O or keeps state between calls.
package measurement
