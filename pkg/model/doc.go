// Package model defines the typed form model consumed by renderers and
// widgets. Schema extensions under the `x-formgen` namespace, plus the
// clinical `x-measurement-type` keyword, flow into Field metadata while the
// curated UIHints map carries renderer-facing directives such as `widget`,
// `measurementType`, `placeholder`, `helpText` and `step`.
package model
