package theme

import (
	"slices"
	"strings"

	"github.com/goliatone/go-formgen-clinical/pkg/widgets"
)

// Template roles rendered by the host renderer.
const (
	TemplateField       = "field"
	TemplateFieldErrors = "field-errors"
	TemplateObject      = "object"
	TemplateForm        = "form"
)

// Template names a template understood by the renderer's template engine.
type Template string

// Registry maps widget names and template roles to implementations. The zero
// value is an empty registry.
type Registry struct {
	Widgets   map[string]widgets.Widget
	Templates map[string]Template
}

// Widget looks up a widget by name.
func (r Registry) Widget(name string) (widgets.Widget, bool) {
	w, ok := r.Widgets[strings.TrimSpace(name)]
	return w, ok && w != nil
}

// Template looks up the template bound to role.
func (r Registry) Template(role string) (Template, bool) {
	tpl, ok := r.Templates[strings.TrimSpace(role)]
	return tpl, ok && tpl != ""
}

// WidgetNames returns the registered widget names sorted.
func (r Registry) WidgetNames() []string {
	return sortedKeys(r.Widgets)
}

// TemplateRoles returns the registered template roles sorted.
func (r Registry) TemplateRoles() []string {
	return sortedKeys(r.Templates)
}

// Clone returns a registry with copies of both maps.
func (r Registry) Clone() Registry {
	return Registry{
		Widgets:   Merge(r.Widgets),
		Templates: Merge(r.Templates),
	}
}

// BuildRegistry shallow-merges overrides onto base. Keys present in overrides
// win; no entry is validated and neither input is modified.
func BuildRegistry(base, overrides Registry) Registry {
	return Registry{
		Widgets:   Merge(base.Widgets, overrides.Widgets),
		Templates: Merge(base.Templates, overrides.Templates),
	}
}

// Merge combines maps left to right, later maps winning per key. The result
// is always a fresh, non-nil map.
func Merge[K comparable, V any](maps ...map[K]V) map[K]V {
	size := 0
	for _, m := range maps {
		size += len(m)
	}
	out := make(map[K]V, size)
	for _, m := range maps {
		for key, value := range m {
			out[key] = value
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
