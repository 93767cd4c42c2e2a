package theme

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	gotheme "github.com/goliatone/go-theme"
)

type stubSelector struct {
	selection *gotheme.Selection
	err       error
	calls     [][2]string
}

func (s *stubSelector) Select(name, variant string, _ ...gotheme.QueryOption) (*gotheme.Selection, error) {
	s.calls = append(s.calls, [2]string{name, variant})
	return s.selection, s.err
}

func clinicalManifest() *gotheme.Manifest {
	return &gotheme.Manifest{
		Name:    "clinic",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#0b6e4f", "alert": "#b00020"},
		Templates: map[string]string{
			TemplateField: "clinic/field.tmpl",
		},
		Assets: gotheme.Assets{
			Prefix: "/assets/clinic",
			Files:  map[string]string{"stylesheet": "clinic.css", "logo": "logo.svg"},
		},
		Variants: map[string]gotheme.Variant{
			"dark": {
				Tokens:    map[string]string{"brand": "#7fd1b9"},
				Templates: map[string]string{TemplateForm: "clinic/dark/form.tmpl"},
				Assets:    gotheme.Assets{Files: map[string]string{"stylesheet": "clinic.dark.css"}},
			},
		},
	}
}

func TestResolveSelection_LayersManifestAndVariant(t *testing.T) {
	selection := &gotheme.Selection{Theme: "clinic", Variant: "dark", Manifest: clinicalManifest()}

	cfg := ResolveSelection(selection, Defaults().Fallbacks())

	wantPartials := map[string]string{
		TemplateField:       "clinic/field.tmpl",
		TemplateFieldErrors: "field-errors.tmpl",
		TemplateObject:      "object.tmpl",
		TemplateForm:        "clinic/dark/form.tmpl",
	}
	if diff := cmp.Diff(wantPartials, cfg.Partials); diff != "" {
		t.Fatalf("partials mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"brand": "#7fd1b9", "alert": "#b00020"}, cfg.Tokens); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.CSSVars["--brand"]; got != "#7fd1b9" {
		t.Fatalf("expected css var for brand, got %q", got)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/clinic/clinic.dark.css" {
		t.Fatalf("expected variant stylesheet, got %q", got)
	}
	if got := cfg.AssetURL("logo"); got != "/assets/clinic/logo.svg" {
		t.Fatalf("expected manifest logo, got %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}
}

func TestResolveSelection_Nil(t *testing.T) {
	if cfg := ResolveSelection(nil, nil); cfg != nil {
		t.Fatalf("expected nil config, got %+v", cfg)
	}
}

func TestSelect_WrapsSelectorErrors(t *testing.T) {
	boom := errors.New("boom")
	selector := &stubSelector{err: boom}

	_, err := Select(selector, "clinic", "dark", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped selector error, got %v", err)
	}
	if diff := cmp.Diff([][2]string{{"clinic", "dark"}}, selector.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_WithRendererConfig(t *testing.T) {
	cfg := &gotheme.RendererConfig{Partials: map[string]string{TemplateObject: "clinic/object.tmpl", TemplateForm: ""}}

	reg := Defaults().WithRendererConfig(cfg)

	if tpl, _ := reg.Template(TemplateObject); tpl != "clinic/object.tmpl" {
		t.Fatalf("expected object partial override, got %q", tpl)
	}
	if tpl, _ := reg.Template(TemplateForm); tpl != "form.tmpl" {
		t.Fatalf("expected blank partial to be ignored, got %q", tpl)
	}
}

func TestManifestSelector(t *testing.T) {
	manifest, err := ParseManifest([]byte(`
name: clinic
version: 1.0.0
tokens:
  brand: "#0b6e4f"
templates:
  field: clinic/field.tmpl
assets:
  prefix: /assets/clinic
  files:
    stylesheet: clinic.css
variants:
  dark:
    tokens:
      brand: "#7fd1b9"
`))
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}

	selector := NewManifestSelector("", "")
	if err := selector.Add(manifest); err != nil {
		t.Fatalf("add manifest: %v", err)
	}

	cfg, err := Select(selector, "", "dark", Defaults().Fallbacks())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if cfg.Theme != "clinic" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Tokens["brand"] != "#7fd1b9" {
		t.Fatalf("expected variant token, got %v", cfg.Tokens)
	}

	if _, err := selector.Select("unknown", ""); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	if _, err := selector.Select("clinic", "sepia"); err == nil {
		t.Fatalf("expected unknown variant to fail")
	}
}

func TestCSSVarsStyle(t *testing.T) {
	got := CSSVarsStyle(map[string]string{"--b": "2", "--a": "1"})
	if got != ":root {\n--a: 1;\n--b: 2;\n}" {
		t.Fatalf("unexpected style block %q", got)
	}
}
