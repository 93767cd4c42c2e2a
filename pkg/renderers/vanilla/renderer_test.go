package vanilla_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formgen-clinical/pkg/model"
	"github.com/goliatone/go-formgen-clinical/pkg/render"
	"github.com/goliatone/go-formgen-clinical/pkg/renderers/vanilla"
	"github.com/goliatone/go-formgen-clinical/pkg/testsupport"
	"github.com/goliatone/go-formgen-clinical/pkg/theme"
	"github.com/goliatone/go-formgen-clinical/pkg/widgets"
)

func newRenderer(t *testing.T, opts ...vanilla.Option) *vanilla.Renderer {
	t.Helper()
	renderer, err := vanilla.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func renderString(t *testing.T, renderer *vanilla.Renderer, form model.FormModel, opts render.RenderOptions) string {
	t.Helper()
	out, err := renderer.Render(testsupport.Context(), form, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, out string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, out)
		}
	}
}

func TestRenderer_RendersEveryWidget(t *testing.T) {
	out := renderString(t, newRenderer(t), testsupport.VitalsForm(), render.RenderOptions{
		Values: map[string]any{
			"weight":           map[string]any{"value": 150.0, "unit": "lb"},
			"cardio.heartRate": 45,
			"pain":             4,
			"position":         "sitting",
			"fasting":          true,
		},
	})

	assertContains(t, out,
		`<form class="fg-form" id="vitals"`,
		`<h2 class="fg-form__title">Vitals</h2>`,
		`for="fg-weight"`,
		`id="fg-weight-measurement"`,
		`data-measurement-type="weight"`,
		`id="fg-weight" name="weight.value" value="150"`,
		`<fieldset class="fg-object" id="fg-cardio"`,
		`name="cardio.heartRate.value"`,
		`fg-badge--warning`,
		`type="range"`,
		`<option value="sitting" selected>`,
		`role="switch"`,
		`name="notes"`,
		`>Submit</button>`,
	)
}

func TestRenderer_FieldAndFormErrors(t *testing.T) {
	out := renderString(t, newRenderer(t), testsupport.VitalsForm(), render.RenderOptions{
		Errors: map[string][]string{
			"notes":  {"Notes are required"},
			"cardio": {"Cardio section incomplete"},
		},
		FormErrors: []string{"Could not save", " ", "Could not save"},
	})

	assertContains(t, out,
		`<li>Notes are required</li>`,
		`aria-invalid="true"`,
		`<li>Cardio section incomplete</li>`,
		`<div class="fg-form-errors" role="alert">`,
	)
	if strings.Count(out, "Could not save") != 1 {
		t.Fatalf("expected de-duplicated form errors\n%s", out)
	}
}

func TestRenderer_ThemeConfig(t *testing.T) {
	cfg := &gotheme.RendererConfig{
		Theme:   "clinic",
		Variant: "dark",
		CSSVars: map[string]string{"--fg-accent": "#0a7"},
		AssetURL: func(key string) string {
			if key == "stylesheet" {
				return "/static/clinic.css"
			}
			return ""
		},
	}

	out := renderString(t, newRenderer(t), testsupport.VitalsForm(), render.RenderOptions{Theme: cfg})

	assertContains(t, out,
		`data-theme="clinic"`,
		`data-variant="dark"`,
		`<link rel="stylesheet" href="/static/clinic.css">`,
		`--fg-accent: #0a7;`,
	)
}

func TestRenderer_PartialOverrideFromTemplatesFS(t *testing.T) {
	renderer := newRenderer(t, vanilla.WithTemplatesFS(fstest.MapFS{
		"compact-field.tmpl": {Data: []byte(`<div class="compact" data-field="{{ field.name }}">{{ control|safe }}</div>`)},
	}))

	out := renderString(t, renderer, testsupport.VitalsForm(), render.RenderOptions{
		Theme: &gotheme.RendererConfig{Partials: map[string]string{theme.TemplateField: "compact-field.tmpl"}},
	})

	assertContains(t, out, `<div class="compact" data-field="notes">`)
	if strings.Contains(out, `class="fg-field`) {
		t.Fatalf("expected default field template to be replaced\n%s", out)
	}
}

func TestRenderer_WidgetOverrideReceivesBoundOnChange(t *testing.T) {
	var gotPath string
	var gotValue any
	stamp := func(buf *bytes.Buffer, props widgets.Props) error {
		props.Emit("changed")
		buf.WriteString(`<span class="stamp">` + props.Name + `</span>`)
		return nil
	}

	renderer := newRenderer(t, vanilla.WithTheme(theme.Registry{
		Widgets: map[string]widgets.Widget{widgets.WidgetText: stamp},
	}))
	form := model.FormModel{ID: "notes", Fields: []model.Field{{Name: "notes", Type: model.FieldTypeString}}}

	out := renderString(t, renderer, form, render.RenderOptions{
		OnChange: func(path string, value any) {
			gotPath, gotValue = path, value
		},
	})

	assertContains(t, out, `<span class="stamp">notes</span>`)
	if gotPath != "notes" || gotValue != "changed" {
		t.Fatalf("expected OnChange(notes, changed), got (%q, %v)", gotPath, gotValue)
	}
}

func TestRenderer_UnknownWidgetFails(t *testing.T) {
	form := model.FormModel{ID: "x", Fields: []model.Field{{
		Name:    "signature",
		Type:    model.FieldTypeString,
		UIHints: map[string]string{model.HintWidget: "signature-pad"},
	}}}

	_, err := newRenderer(t).Render(testsupport.Context(), form, render.RenderOptions{})
	if err == nil || !strings.Contains(err.Error(), "signature-pad") {
		t.Fatalf("expected unknown widget error, got %v", err)
	}
}

func TestRenderer_SanitizesHelpAndKeepsHiddenFields(t *testing.T) {
	form := model.FormModel{
		ID:      "intake",
		UIHints: map[string]string{"submitLabel": "Save intake"},
		Fields: []model.Field{{
			Name:  "notes",
			Type:  model.FieldTypeString,
			Label: "Notes",
			UIHints: map[string]string{
				model.HintHelpText: `Use <em>plain</em> words<script>alert(1)</script>`,
				model.HintClass:    "wide fg-hijack",
			},
		}},
	}

	out := renderString(t, newRenderer(t), form, render.RenderOptions{
		HiddenFields: map[string]string{"csrf": "token-1"},
		Action:       "/intake",
	})

	assertContains(t, out,
		`Use <em>plain</em> words`,
		`<input type="hidden" name="csrf" value="token-1">`,
		`action="/intake"`,
		`>Save intake</button>`,
		`class="fg-field fg-field--text wide"`,
	)
	if strings.Contains(out, "<script>") || strings.Contains(out, "fg-hijack") {
		t.Fatalf("unsafe markup survived\n%s", out)
	}
}

func TestRenderer_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRenderer(t).Render(ctx, testsupport.VitalsForm(), render.RenderOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderer_Registry(t *testing.T) {
	reg, err := render.NewRegistry(newRenderer(t))
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	got, err := reg.Get(vanilla.Name)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", got.ContentType())
	}
}
