// Package uischema loads rjsf-style UI schema documents (`ui:widget`,
// `ui:measurementType`, `ui:help`, `ui:order`, ...) from JSON or YAML and
// applies them to form models as a decorator, keeping the schema builder
// unaware of presentation overrides.
package uischema
