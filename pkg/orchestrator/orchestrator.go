package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formgen-clinical/pkg/model"
	"github.com/goliatone/go-formgen-clinical/pkg/render"
	"github.com/goliatone/go-formgen-clinical/pkg/renderers/vanilla"
	"github.com/goliatone/go-formgen-clinical/pkg/schema"
	"github.com/goliatone/go-formgen-clinical/pkg/theme"
	"github.com/goliatone/go-formgen-clinical/pkg/uischema"
	"github.com/goliatone/go-formgen-clinical/pkg/validation"
)

const defaultRendererName = vanilla.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a schema loader.
func WithLoader(loader *schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithBuilder injects a form model builder.
func WithBuilder(builder *schema.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that runs before UI decorators.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithUIDecorators registers decorators that run against the generated form
// model before rendering.
func WithUIDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithUISchemaFS supplies UI schema documents keyed by form id (file stem).
func WithUISchemaFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.uiSchemaFS = fsys
	}
}

// WithThemeSelector enables theme selection for requests naming a theme.
func WithThemeSelector(selector gotheme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeFallbacks sets the partials used when a manifest does not
// override a template role. Defaults to the built-in theme templates.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = theme.Merge(fallbacks)
	}
}

// Orchestrator coordinates the pipeline from schema document to rendered
// output.
type Orchestrator struct {
	loader          *schema.Loader
	builder         *schema.Builder
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	decorators      []model.Decorator
	uiSchemaFS      fs.FS
	themeSelector   gotheme.ThemeSelector
	themeFallbacks  map[string]string
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies fall back to the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{defaultRenderer: defaultRendererName}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	o.applyDefaults()
	return o
}

// Request describes a single generation.
type Request struct {
	// Source identifies where the schema lives. Optional when Document is set.
	Source schema.Source

	// Document bypasses the loader.
	Document *schema.Document

	// Renderer names the renderer to use; empty means the default.
	Renderer string

	// ThemeName and ThemeVariant select a theme when a selector is
	// configured and RenderOptions.Theme is nil.
	ThemeName    string
	ThemeVariant string

	// Validate checks RenderOptions.Values against the schema and merges the
	// resulting messages into RenderOptions.Errors.
	Validate bool

	RenderOptions render.RenderOptions
}

// Generate runs load, build, decorate, theme, validate and render.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	form, parsed, err := o.Form(ctx, req)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil && o.themeSelector != nil && req.ThemeName != "" {
		cfg, err := theme.Select(o.themeSelector, req.ThemeName, req.ThemeVariant, o.themeFallbacks)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
		opts.Theme = cfg
	}
	if req.Validate {
		opts.Errors = mergeErrors(opts.Errors, validation.New(form, parsed).Validate(opts.Values))
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, form, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Form loads and builds the decorated form model without rendering it. The
// parsed schema is returned for callers that validate values themselves.
func (o *Orchestrator) Form(ctx context.Context, req Request) (model.FormModel, *schema.Parsed, error) {
	if ctx == nil {
		return model.FormModel{}, nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, nil, err
	}
	if err := o.initialiseErr; err != nil {
		return model.FormModel{}, nil, err
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return model.FormModel{}, nil, err
	}
	form, parsed, err := o.builder.Build(ctx, doc)
	if err != nil {
		return model.FormModel{}, nil, fmt.Errorf("orchestrator: build form model: %w", err)
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &form); err != nil {
			return model.FormModel{}, nil, fmt.Errorf("orchestrator: transform form: %w", err)
		}
	}
	if err := model.Apply(&form, o.decorators...); err != nil {
		return model.FormModel{}, nil, fmt.Errorf("orchestrator: decorate form: %w", err)
	}
	return form, parsed, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (schema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return schema.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	renderer, err := o.registry.Get(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = schema.NewLoader()
	}
	if o.builder == nil {
		o.builder = schema.NewBuilder()
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = theme.Defaults().Fallbacks()
	}
	if o.registry == nil {
		registry, err := render.NewRegistry()
		if err == nil {
			var renderer *vanilla.Renderer
			renderer, err = vanilla.New()
			if err == nil {
				err = registry.Register(renderer)
			}
		}
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry = registry
	}
	if o.uiSchemaFS != nil {
		store, err := uischema.LoadFS(o.uiSchemaFS)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load ui schema: %w", err)
			return
		}
		o.decorators = append(o.decorators, store.Decorator())
	}
}

func mergeErrors(base, extra map[string][]string) map[string][]string {
	if len(extra) == 0 {
		return base
	}
	out := make(map[string][]string, len(base)+len(extra))
	for path, messages := range base {
		out[path] = append([]string(nil), messages...)
	}
	for path, messages := range extra {
		out[path] = append(out[path], messages...)
	}
	return out
}
