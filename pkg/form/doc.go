// Package form is the minimal host side of the widget contract: an in-memory
// value store keyed by dotted paths that widgets update through OnChange, and
// a decoder that turns posted HTML forms back into that store.
package form
