// Package orchestrator wires the schema loader, form builder, UI schema
// decorators, theme selection, value validation and renderers into a single
// Generate call.
package orchestrator
