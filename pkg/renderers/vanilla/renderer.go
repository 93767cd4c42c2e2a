// Package vanilla renders form models to server-side HTML using the theme
// registry's widgets and pongo2 layout templates.
package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formgen-clinical/pkg/model"
	"github.com/goliatone/go-formgen-clinical/pkg/render"
	rendertemplate "github.com/goliatone/go-formgen-clinical/pkg/render/template"
	"github.com/goliatone/go-formgen-clinical/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formgen-clinical/pkg/theme"
	"github.com/goliatone/go-formgen-clinical/pkg/uischema"
	"github.com/goliatone/go-formgen-clinical/pkg/widgets"
)

const (
	// Name identifies the renderer in a render.Registry.
	Name = "vanilla"

	defaultFormID      = "formgen"
	defaultSubmitLabel = "Submit"
	stylesheetAsset    = "stylesheet"
)

type Option func(*config)

type config struct {
	theme            *theme.Registry
	widgets          *widgets.Registry
	templateFS       fs.FS
	templateDirs     []string
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTheme replaces the default theme registry.
func WithTheme(reg theme.Registry) Option {
	return func(cfg *config) {
		cfg.theme = &reg
	}
}

// WithWidgetRegistry replaces the matcher registry used to pick a widget when
// a field names none.
func WithWidgetRegistry(reg *widgets.Registry) Option {
	return func(cfg *config) {
		if reg != nil {
			cfg.widgets = reg
		}
	}
}

// WithTemplatesFS layers a template bundle over the built-in templates.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir layers a directory on disk over the built-in templates.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path = strings.TrimSpace(path); path != "" {
			cfg.templateDirs = append(cfg.templateDirs, path)
		}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	theme     theme.Registry
	widgets   *widgets.Registry
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	var cfg config
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	reg := theme.New()
	if cfg.theme != nil {
		reg = theme.BuildRegistry(reg, *cfg.theme)
	}
	matcher := cfg.widgets
	if matcher == nil {
		matcher = widgets.NewRegistry()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engineOpts := make([]gotemplate.Option, 0, len(cfg.templateDirs)+2)
		for _, dir := range cfg.templateDirs {
			engineOpts = append(engineOpts, gotemplate.WithBaseDir(dir))
		}
		engineOpts = append(engineOpts, gotemplate.WithFS(cfg.templateFS, theme.Templates()))
		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{templates: templates, theme: reg, widgets: matcher}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the complete <form> markup for form. Values, errors and
// theme come from options; the form model is not modified.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pass := &renderPass{
		ctx:      ctx,
		renderer: r,
		theme:    r.theme.WithRendererConfig(options.Theme),
		options:  options,
	}

	body, err := pass.fields(form.Fields, "")
	if err != nil {
		return nil, err
	}
	formErrors, err := pass.errors(options.FormErrors)
	if err != nil {
		return nil, err
	}

	result, err := pass.template(theme.TemplateForm, map[string]any{
		"form": map[string]any{
			"id":           firstNonEmpty(form.ID, defaultFormID),
			"action":       options.Action,
			"title":        form.Title,
			"description":  form.Description,
			"submit_label": firstNonEmpty(options.SubmitLabel, form.UIHints[uischema.HintSubmitLabel], defaultSubmitLabel),
		},
		"theme":         themeContext(options),
		"errors":        formErrors,
		"hidden_fields": hiddenFields(options.HiddenFields),
		"body":          body,
	})
	if err != nil {
		return nil, err
	}
	return []byte(result), nil
}

type renderPass struct {
	ctx      context.Context
	renderer *Renderer
	theme    theme.Registry
	options  render.RenderOptions
}

func (p *renderPass) fields(fields []model.Field, parent string) (string, error) {
	var out strings.Builder
	for _, field := range fields {
		if err := p.ctx.Err(); err != nil {
			return "", err
		}
		path := joinPath(parent, field.Name)

		var (
			markup string
			err    error
		)
		if field.Type == model.FieldTypeObject && len(field.Nested) > 0 {
			markup, err = p.object(field, path)
		} else {
			markup, err = p.field(field, path)
		}
		if err != nil {
			return "", err
		}
		out.WriteString(markup)
		out.WriteByte('\n')
	}
	return out.String(), nil
}

func (p *renderPass) object(field model.Field, path string) (string, error) {
	children, err := p.fields(field.Nested, path)
	if err != nil {
		return "", err
	}
	errorsMarkup, err := p.errors(p.options.Errors[path])
	if err != nil {
		return "", err
	}
	props := widgets.FromField(path, field)
	return p.template(theme.TemplateObject, map[string]any{
		"field": map[string]any{
			"id":          props.ControlID(),
			"name":        path,
			"label":       field.Label,
			"description": field.Description,
		},
		"errors":   errorsMarkup,
		"children": children,
	})
}

func (p *renderPass) field(field model.Field, path string) (string, error) {
	name, ok := p.renderer.widgets.Resolve(field)
	if !ok {
		name = widgets.WidgetText
	}
	widget, ok := p.theme.Widget(name)
	if !ok {
		return "", fmt.Errorf("vanilla renderer: widget %q not registered for field %q", name, path)
	}

	props := widgets.FromField(path, field)
	if value, ok := render.LookupValue(p.options.Values, path); ok {
		props.Value = value
	} else if field.Default != nil {
		props.Value = field.Default
	}
	props.RawErrors = p.options.Errors[path]
	props.Locale = p.options.Locale
	if onChange := p.options.OnChange; onChange != nil {
		props.OnChange = func(value any) { onChange(path, value) }
	}

	var control bytes.Buffer
	if err := widget(&control, props); err != nil {
		return "", fmt.Errorf("vanilla renderer: render %q for field %q: %w", name, path, err)
	}

	return p.template(theme.TemplateField, map[string]any{
		"field": map[string]any{
			"widget":      name,
			"class":       widgets.SanitizeClassList(props.Hint(model.HintClass)),
			"name":        path,
			"label":       props.Label,
			"hide_label":  props.Hint(model.HintHideLabel) == "true",
			"label_id":    props.LabelID(),
			"id":          props.ControlID(),
			"icon":        uischema.SanitizeIcon(props.Hint(model.HintIcon)),
			"required":    props.Required,
			"description": field.Description,
			"help":        uischema.SanitizeHelp(props.Hint(model.HintHelpText)),
		},
		"control": control.String(),
	})
}

func (p *renderPass) errors(messages []string) (string, error) {
	messages = render.MergeFormErrors(nil, messages...)
	if len(messages) == 0 {
		return "", nil
	}
	return p.template(theme.TemplateFieldErrors, map[string]any{"errors": messages})
}

func (p *renderPass) template(role string, data map[string]any) (string, error) {
	name, ok := p.theme.Template(role)
	if !ok {
		return "", fmt.Errorf("vanilla renderer: no template bound to role %q", role)
	}
	out, err := p.renderer.templates.RenderTemplate(string(name), data)
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render %s template: %w", role, err)
	}
	return out, nil
}

func themeContext(options render.RenderOptions) map[string]any {
	cfg := options.Theme
	if cfg == nil {
		return map[string]any{}
	}
	out := map[string]any{
		"name":           cfg.Theme,
		"variant":        cfg.Variant,
		"css_vars_style": theme.CSSVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		out["stylesheet"] = cfg.AssetURL(stylesheetAsset)
	}
	return out
}

func hiddenFields(fields map[string]string) []map[string]any {
	sorted := render.SortedHiddenFields(fields)
	out := make([]map[string]any, 0, len(sorted))
	for _, field := range sorted {
		out = append(out, map[string]any{"name": field.Name, "value": field.Value})
	}
	return out
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
