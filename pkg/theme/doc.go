// Package theme is the clinical design-system theme for the form renderer.
//
// A theme Registry maps abstract roles to implementations: widget names
// ("measurement", "slider", "select", ...) to widget functions, and template
// roles ("field", "field-errors", "object", "form") to pongo2 template
// names. BuildRegistry combines a host's default registry with overrides
// using a shallow, last-writer-wins merge.
//
// Theme manifests from github.com/goliatone/go-theme can retarget template
// roles, supply design tokens and resolve asset URLs; see ResolveSelection.
package theme
