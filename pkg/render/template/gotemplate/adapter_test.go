package gotemplate

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formgen-clinical/pkg/testsupport"
)

func newEngine(t *testing.T, layers ...fstest.MapFS) *Engine {
	t.Helper()
	opts := []Option{}
	for _, layer := range layers {
		opts = append(opts, WithFS(layer))
	}
	engine, err := New(opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestNew_RequiresLoader(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without loaders")
	}
}

func TestRenderTemplate_AppendsExtensionAndWritesOut(t *testing.T) {
	engine := newEngine(t, fstest.MapFS{
		"hello.tmpl": {Data: []byte(`Hello {{ name }}`)},
	})

	got, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	if got != "Hello Ada" || written != got {
		t.Fatalf("unexpected output %q / %q", got, written)
	}
}

func TestRenderTemplate_FirstLayerWins(t *testing.T) {
	override := fstest.MapFS{"field.tmpl": {Data: []byte(`override`)}}
	bundled := fstest.MapFS{
		"field.tmpl": {Data: []byte(`bundled`)},
		"form.tmpl":  {Data: []byte(`form`)},
	}
	engine := newEngine(t, override, bundled)

	if got, _ := engine.RenderTemplate("field.tmpl", nil); got != "override" {
		t.Fatalf("expected override layer, got %q", got)
	}
	if got, _ := engine.RenderTemplate("form.tmpl", nil); got != "form" {
		t.Fatalf("expected fallback layer, got %q", got)
	}
}

func TestRenderTemplate_StructDataAndEscaping(t *testing.T) {
	engine := newEngine(t, fstest.MapFS{
		"item.tmpl": {Data: []byte(`{{ Label }}|{{ Value|fixed:1 }}`)},
	})

	got, err := engine.RenderTemplate("item", struct {
		Label string
		Value float64
	}{Label: "<b>Pulse</b>", Value: 72.04})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "&lt;b&gt;Pulse&lt;/b&gt;|72.0" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestGlobalContextAndFilter(t *testing.T) {
	engine := newEngine(t, fstest.MapFS{"x.tmpl": {Data: []byte(``)}})
	if err := engine.GlobalContext(map[string]any{"clinic": "North"}); err != nil {
		t.Fatalf("global context: %v", err)
	}
	name := fmt.Sprintf("shout_%p", engine)
	if err := engine.RegisterFilter(name, func(input any, _ any) (any, error) {
		return strings.ToUpper(fmt.Sprint(input)) + "!", nil
	}); err != nil {
		t.Fatalf("register filter: %v", err)
	}

	got, err := engine.RenderString(`{{ clinic|`+name+` }}`, nil)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "NORTH!" {
		t.Fatalf("unexpected output %q", got)
	}
	if err := engine.RegisterFilter(name, func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}
}
