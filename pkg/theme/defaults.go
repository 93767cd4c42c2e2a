package theme

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-formgen-clinical/pkg/widgets"
	"github.com/goliatone/go-formgen-clinical/pkg/widgets/measurement"
	"github.com/goliatone/go-formgen-clinical/pkg/widgets/slider"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Templates exposes the bundled pongo2 templates rooted at their directory.
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Option customises the registry returned by New.
type Option func(*Registry)

// WithWidget registers or replaces a widget.
func WithWidget(name string, widget widgets.Widget) Option {
	return func(r *Registry) {
		if name == "" || widget == nil {
			return
		}
		r.Widgets[name] = widget
	}
}

// WithTemplate binds a template role to a template name.
func WithTemplate(role string, tpl Template) Option {
	return func(r *Registry) {
		if role == "" || tpl == "" {
			return
		}
		r.Templates[role] = tpl
	}
}

// WithOverrides merges a whole registry on top of the defaults.
func WithOverrides(overrides Registry) Option {
	return func(r *Registry) {
		*r = BuildRegistry(*r, overrides)
	}
}

// Defaults returns the package's own widget and template maps.
func Defaults() Registry {
	return Registry{
		Widgets: map[string]widgets.Widget{
			widgets.WidgetText:        widgets.Text,
			widgets.WidgetNumber:      widgets.Number,
			widgets.WidgetTextarea:    widgets.Textarea,
			widgets.WidgetSelect:      widgets.Select,
			widgets.WidgetToggle:      widgets.Toggle,
			widgets.WidgetMeasurement: measurement.Widget,
			widgets.WidgetSlider:      slider.Widget,
		},
		Templates: map[string]Template{
			TemplateField:       "field.tmpl",
			TemplateFieldErrors: "field-errors.tmpl",
			TemplateObject:      "object.tmpl",
			TemplateForm:        "form.tmpl",
		},
	}
}

// New returns the default registry with opts applied.
func New(opts ...Option) Registry {
	reg := Defaults()
	for _, opt := range opts {
		if opt != nil {
			opt(&reg)
		}
	}
	return reg
}
