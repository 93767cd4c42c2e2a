package render

import (
	"strings"

	gotheme "github.com/goliatone/go-theme"
)

// RenderOptions carry per-request data renderers use without mutating the
// form model.
type RenderOptions struct {
	// Values pre-populates controls. Keys may be dotted paths
	// ("vitals.weight") or nested maps; see LookupValue.
	Values map[string]any
	// Errors holds validation messages keyed by dotted field path. They reach
	// widgets as RawErrors.
	Errors map[string][]string
	// FormErrors are messages not tied to any field.
	FormErrors []string
	// OnChange, when set, is wired into every widget's Props.OnChange with the
	// field path bound.
	OnChange func(path string, value any)
	// Theme is the resolved go-theme configuration. Partials retarget template
	// roles; tokens become CSS variables.
	Theme *gotheme.RendererConfig
	// Locale is a BCP 47 tag used for localized readings.
	Locale string
	// Action is the form's submit URL.
	Action string
	// SubmitLabel overrides the submit button text.
	SubmitLabel string
	// HiddenFields are emitted as hidden inputs.
	HiddenFields map[string]string
}

// LookupValue resolves path in values. A flat dotted key wins over walking
// nested maps.
func LookupValue(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if value, ok := values[path]; ok {
		return value, true
	}
	segments := strings.Split(path, ".")
	var current any = values
	for _, segment := range segments {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
