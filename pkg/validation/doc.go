// Package validation checks schema documents and submitted form values
// against their JSON Schema. Measurement values are converted to the base
// unit before schema bounds apply, so a schema can state "maximum: 500" for
// a weight in kilograms and still accept 1000 lb.
package validation
