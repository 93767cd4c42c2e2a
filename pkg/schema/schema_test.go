package schema

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formgen-clinical/pkg/model"
)

const vitalsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Vitals",
  "description": "Observations taken at triage.",
  "type": "object",
  "required": ["weight"],
  "properties": {
    "weight": {
      "type": "object",
      "x-measurement-type": "weight",
      "properties": {
        "value": { "type": "number", "minimum": 0, "maximum": 500 },
        "unit": { "type": "string" }
      }
    },
    "pain": {
      "type": "number",
      "title": "Pain score",
      "minimum": 0,
      "maximum": 10,
      "multipleOf": 1,
      "x-formgen": { "widget": "slider" }
    },
    "cardio": {
      "type": "object",
      "properties": {
        "heartRate": { "$ref": "#/$defs/heartRate" }
      }
    },
    "position": { "type": "string", "enum": ["sitting", "standing"], "default": "sitting" },
    "notes": { "type": "string", "maxLength": 500, "readOnly": true }
  },
  "$defs": {
    "heartRate": { "type": "number", "title": "Heart rate", "x-measurement-type": "heart_rate" }
  }
}`

const visitOpenAPI = `
openapi: 3.0.3
info:
  title: Clinic
  version: "1.0"
paths: {}
components:
  schemas:
    Cardio:
      type: object
      properties:
        systolic:
          type: integer
        diastolic:
          type: integer
    Visit:
      type: object
      properties:
        temperature:
          type: number
          x-measurement-type: temperature
        cardio:
          $ref: '#/components/schemas/Cardio'
`

func buildForm(t *testing.T, name, raw string, options ...Option) (model.FormModel, *Parsed) {
	t.Helper()
	doc := MustNewDocument(SourceFromData(name), []byte(raw))
	form, parsed, err := NewBuilder(options...).Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return form, parsed
}

func fieldNames(fields []model.Field) []string {
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Name)
	}
	return out
}

func TestBuild_JSONSchemaKeepsDeclaredOrder(t *testing.T) {
	form, _ := buildForm(t, "schemas/vitals.schema.json", vitalsSchema)

	if form.ID != "vitals" || form.Title != "Vitals" || form.Description != "Observations taken at triage." {
		t.Fatalf("unexpected form header: %+v", form)
	}
	want := []string{"weight", "pain", "cardio", "position", "notes"}
	if diff := cmp.Diff(want, fieldNames(form.Fields)); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_MeasurementFieldIsALeaf(t *testing.T) {
	form, _ := buildForm(t, "vitals.json", vitalsSchema)

	weight, ok := form.Lookup("weight")
	if !ok {
		t.Fatalf("weight field missing")
	}
	if weight.Type != model.FieldTypeObject || len(weight.Nested) != 0 {
		t.Fatalf("expected a leaf object field, got %+v", weight)
	}
	if !weight.Required || weight.Label != "Weight" {
		t.Fatalf("unexpected weight flags: %+v", weight)
	}
	if got := weight.Meta(model.MetaMeasurementType); got != "weight" {
		t.Fatalf("expected measurement type weight, got %q", got)
	}
	if max, ok := weight.NumericRule(model.ValidationRuleMax); !ok || max != 500 {
		t.Fatalf("expected value bounds to carry over, got %v %v", max, ok)
	}

	hr, ok := form.Lookup("cardio.heartRate")
	if !ok {
		t.Fatalf("heart rate field missing")
	}
	if hr.Label != "Heart rate" || hr.Meta(model.MetaMeasurementType) != "heart_rate" || hr.Type != model.FieldTypeObject {
		t.Fatalf("unexpected heart rate field: %+v", hr)
	}
}

func TestBuild_SliderAndScalars(t *testing.T) {
	form, _ := buildForm(t, "vitals.json", vitalsSchema)

	pain, _ := form.Lookup("pain")
	if pain.Label != "Pain score" || pain.Hint(model.HintWidget) != "slider" {
		t.Fatalf("unexpected pain field: %+v", pain)
	}
	if got := pain.Meta(model.MetaMultipleOf); got != "1" {
		t.Fatalf("expected multipleOf metadata, got %q", got)
	}
	wantRules := []model.ValidationRule{
		{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "0"}},
		{Kind: model.ValidationRuleMax, Params: map[string]string{"value": "10"}},
		{Kind: model.ValidationRuleMultipleOf, Params: map[string]string{"value": "1"}},
	}
	if diff := cmp.Diff(wantRules, pain.Validations); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}

	position, _ := form.Lookup("position")
	if diff := cmp.Diff([]any{"sitting", "standing"}, position.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
	if position.Default != "sitting" {
		t.Fatalf("expected default sitting, got %v", position.Default)
	}

	notes, _ := form.Lookup("notes")
	if !notes.Readonly {
		t.Fatalf("expected notes to be readonly")
	}
	if max, ok := notes.NumericRule(model.ValidationRuleMaxLength); !ok || max != 500 {
		t.Fatalf("expected maxLength 500, got %v", max)
	}
}

func TestBuild_OpenAPIComponentFollowsReferences(t *testing.T) {
	form, parsed := buildForm(t, "clinic.yaml", visitOpenAPI, WithParseOptions(WithComponent("Visit")))

	if diff := cmp.Diff([]string{"temperature", "cardio"}, fieldNames(form.Fields)); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	cardio, _ := form.Lookup("cardio")
	if diff := cmp.Diff([]string{"systolic", "diastolic"}, fieldNames(cardio.Nested)); diff != "" {
		t.Fatalf("nested order mismatch (-want +got):\n%s", diff)
	}
	if cardio.Nested[0].Type != model.FieldTypeInteger {
		t.Fatalf("expected integer systolic, got %s", cardio.Nested[0].Type)
	}

	temp, ok := parsed.Lookup("temperature")
	if !ok || temp.Extensions["x-measurement-type"] != "temperature" {
		t.Fatalf("expected parsed lookup to reach temperature, got %+v", temp)
	}
	if _, ok := parsed.Lookup("cardio.pulse"); ok {
		t.Fatalf("expected unknown path to miss")
	}
}

func TestBuild_Decorators(t *testing.T) {
	stamp := model.DecoratorFunc(func(form *model.FormModel) error {
		form.Title = strings.ToUpper(form.Title)
		return nil
	})
	form, _ := buildForm(t, "vitals.json", vitalsSchema, WithDecorators(stamp), WithLabeler(strings.ToUpper))

	if form.Title != "VITALS" {
		t.Fatalf("expected decorator to run, got %q", form.Title)
	}
	weight, _ := form.Lookup("weight")
	if weight.Label != "WEIGHT" {
		t.Fatalf("expected custom labeler, got %q", weight.Label)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		options []ParseOption
		want    string
	}{
		{name: "not an object", raw: `- a`, want: "must be an object"},
		{name: "bad yaml", raw: "type: [object", want: "decode"},
		{name: "unresolved ref", raw: `{"type":"object","properties":{"a":{"$ref":"#/$defs/missing"}}}`, want: "unresolved reference"},
		{name: "recursive", raw: `{"type":"object","properties":{"self":{"$ref":"#"}}}`, want: "recursive"},
		{name: "ambiguous component", raw: "openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths: {}\ncomponents:\n  schemas:\n    A: {type: object}\n    B: {type: object}\n", want: "WithComponent"},
		{name: "missing component", raw: "openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths: {}\ncomponents:\n  schemas:\n    A: {type: object}\n", options: []ParseOption{WithComponent("B")}, want: `"B" not found`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := MustNewDocument(SourceFromData(tc.name), []byte(tc.raw))
			_, err := Parse(context.Background(), doc, tc.options...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestBuild_RootMustBeObject(t *testing.T) {
	doc := MustNewDocument(SourceFromData("scalar.json"), []byte(`{"type":"string"}`))
	_, _, err := NewBuilder().Build(context.Background(), doc)
	if err == nil || !strings.Contains(err.Error(), "root schema must be an object") {
		t.Fatalf("expected root object error, got %v", err)
	}
}

func TestDocument_ID(t *testing.T) {
	cases := map[string]string{
		"schemas/vitals.schema.json": "vitals",
		"intake.yaml":                "intake",
		"":                           "",
	}
	for location, want := range cases {
		doc := Document{source: SourceFromData(location)}
		if got := doc.ID(); got != want {
			t.Fatalf("ID(%q) = %q, want %q", location, got, want)
		}
	}
	if _, err := NewDocument(SourceFromData("x"), []byte("  ")); err == nil {
		t.Fatalf("expected empty payload error")
	}
}

func TestLoader_Sources(t *testing.T) {
	ctx := context.Background()

	files := fstest.MapFS{"forms/vitals.json": {Data: []byte(vitalsSchema)}}
	doc, err := NewLoader(WithFileSystem(files)).Load(ctx, SourceFromFS("forms/vitals.json"))
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if doc.ID() != "vitals" {
		t.Fatalf("unexpected id %q", doc.ID())
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "intake.yaml")
	if err := os.WriteFile(path, []byte(visitOpenAPI), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewLoader().Load(ctx, SourceFromFile(path)); err != nil {
		t.Fatalf("load file: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vitals.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(vitalsSchema))
	}))
	defer server.Close()

	src, err := SourceFromURL(server.URL + "/vitals.json")
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if _, err := NewLoader().Load(ctx, src); err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected http to be disabled by default, got %v", err)
	}
	doc, err = NewLoader(WithHTTPFallback(time.Second)).Load(ctx, src)
	if err != nil {
		t.Fatalf("load url: %v", err)
	}
	if doc.Source().Kind() != SourceKindURL {
		t.Fatalf("unexpected kind %s", doc.Source().Kind())
	}

	missing, _ := SourceFromURL(server.URL + "/missing.json")
	if _, err := NewLoader(WithHTTPClient(server.Client())).Load(ctx, missing); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
	if _, err := SourceFromURL("ftp://example.com/x.json"); err == nil {
		t.Fatalf("expected unsupported scheme error")
	}
}
