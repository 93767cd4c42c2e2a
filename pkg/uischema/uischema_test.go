package uischema

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	pkgmodel "github.com/goliatone/go-formgen-clinical/pkg/model"
)

const vitalsYAML = `
ui:title: Vitals
ui:submitLabel: Save vitals
ui:order: [temperature, "*", notes]
weight:
  ui:widget: measurement
  ui:measurementType: weight
  ui:help: "Measured <strong>without</strong> shoes"
  ui:options:
    step: 0.1
    hideLabel: false
temperature:
  ui:title: Body temperature
  ui:readonly: true
vitals:
  ui:order: [spo2]
  spo2:
    ui:measurementType: oxygen_saturation
`

func vitalsForm() *pkgmodel.FormModel {
	return &pkgmodel.FormModel{
		ID: "vitals",
		Fields: []pkgmodel.Field{
			{Name: "notes", Type: pkgmodel.FieldTypeString},
			{Name: "weight", Type: pkgmodel.FieldTypeNumber},
			{Name: "temperature", Type: pkgmodel.FieldTypeNumber},
			{Name: "vitals", Type: pkgmodel.FieldTypeObject, Nested: []pkgmodel.Field{
				{Name: "hr", Type: pkgmodel.FieldTypeNumber},
				{Name: "spo2", Type: pkgmodel.FieldTypeNumber},
			}},
		},
	}
}

func fieldNames(fields []pkgmodel.Field) []string {
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Name)
	}
	return out
}

func TestParse_YAMLDocument(t *testing.T) {
	node, err := Parse([]byte(vitalsYAML), "vitals.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if node.Title != "Vitals" || node.SubmitLabel != "Save vitals" {
		t.Fatalf("unexpected root: %+v", node)
	}
	if diff := cmp.Diff([]string{"temperature", "*", "notes"}, node.Order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	weight := node.Child("weight")
	if weight == nil || weight.Widget != "measurement" || weight.MeasurementType != "weight" {
		t.Fatalf("unexpected weight node: %+v", weight)
	}
	if diff := cmp.Diff(map[string]string{"step": "0.1", "hideLabel": "false"}, weight.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if temp := node.Child("temperature"); temp.Readonly == nil || !*temp.Readonly {
		t.Fatalf("expected readonly temperature, got %+v", temp)
	}
	if spo2 := node.Child("vitals").Child("spo2"); spo2 == nil || spo2.MeasurementType != "oxygen_saturation" {
		t.Fatalf("unexpected nested node: %+v", spo2)
	}
}

func TestParse_JSONDocument(t *testing.T) {
	node, err := Parse([]byte(`{"glucose":{"ui:widget":"measurement","ui:measurementType":"blood_glucose"}}`), "glucose.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := node.Child("glucose").MeasurementType; got != "blood_glucose" {
		t.Fatalf("expected blood_glucose, got %q", got)
	}
}

func TestParse_RejectsWrongTypes(t *testing.T) {
	cases := map[string]string{
		"widget not string":  "weight:\n  ui:widget: [a]\n",
		"readonly not bool":  "weight:\n  ui:readonly: yes please\n",
		"order not list":     "ui:order: weight\n",
		"duplicate in order": "ui:order: [a, a]\n",
		"child not object":   "weight: 3\n",
		"nested option":      "weight:\n  ui:options:\n    step: {a: 1}\n",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc), "bad.yaml"); err == nil {
				t.Fatalf("expected error for %q", doc)
			}
		})
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	node, err := Parse([]byte("  \n"), "empty.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !node.Empty() {
		t.Fatalf("expected empty node, got %+v", node)
	}
}

func TestDecorator_AppliesHintsAndOrder(t *testing.T) {
	node, err := Parse([]byte(vitalsYAML), "vitals.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	form := vitalsForm()

	if err := NewDecorator(node).Decorate(form); err != nil {
		t.Fatalf("decorate: %v", err)
	}

	if form.Title != "Vitals" || form.UIHints[HintSubmitLabel] != "Save vitals" {
		t.Fatalf("unexpected form: %+v", form)
	}
	if diff := cmp.Diff([]string{"temperature", "weight", "vitals", "notes"}, fieldNames(form.Fields)); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	weight, _ := form.Lookup("weight")
	want := map[string]string{
		pkgmodel.HintWidget:          "measurement",
		pkgmodel.HintMeasurementType: "weight",
		pkgmodel.HintHelpText:        "Measured <strong>without</strong> shoes",
		pkgmodel.HintStep:            "0.1",
		pkgmodel.HintHideLabel:       "false",
	}
	if diff := cmp.Diff(want, weight.UIHints); diff != "" {
		t.Fatalf("weight hints mismatch (-want +got):\n%s", diff)
	}

	temperature, _ := form.Lookup("temperature")
	if temperature.Label != "Body temperature" || !temperature.Readonly {
		t.Fatalf("unexpected temperature field: %+v", temperature)
	}

	vitals, _ := form.Lookup("vitals")
	if diff := cmp.Diff([]string{"spo2", "hr"}, fieldNames(vitals.Nested)); diff != "" {
		t.Fatalf("nested order mismatch (-want +got):\n%s", diff)
	}
	if spo2, _ := form.Lookup("vitals.spo2"); spo2.Hint(pkgmodel.HintMeasurementType) != "oxygen_saturation" {
		t.Fatalf("expected nested measurement type, got %+v", spo2.UIHints)
	}
}

func TestDecorator_UnknownFieldFails(t *testing.T) {
	node, err := Parse([]byte("bmi:\n  ui:widget: number\n"), "vitals.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	err = NewDecorator(node).Decorate(vitalsForm())
	if err == nil || !strings.Contains(err.Error(), `"bmi"`) {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestDecorator_UnknownOrderEntryFails(t *testing.T) {
	node, err := Parse([]byte("ui:order: [weight, bmi]\n"), "vitals.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if err := NewDecorator(node).Decorate(vitalsForm()); err == nil {
		t.Fatal("expected error for unknown order entry")
	}
}

func TestDecorator_NilNodeIsNoop(t *testing.T) {
	form := vitalsForm()
	if err := NewDecorator(nil).Decorate(form); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if diff := cmp.Diff(vitalsForm(), form); diff != "" {
		t.Fatalf("form changed (-want +got):\n%s", diff)
	}
}

func TestLoadFS_DecoratesByFormID(t *testing.T) {
	fsys := fstest.MapFS{
		"ui/vitals.yaml":  {Data: []byte("weight:\n  ui:measurementType: weight\n")},
		"ui/intake.json":  {Data: []byte(`{"ui:title":"Intake"}`)},
		"ui/README.md":    {Data: []byte("# ignored")},
		"ui/nested/x.yml": {Data: []byte("ui:title: X\n")},
	}

	store, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"intake", "vitals", "x"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	form := vitalsForm()
	if err := pkgmodel.Apply(form, store.Decorator()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	weight, _ := form.Lookup("weight")
	if weight.Hint(pkgmodel.HintMeasurementType) != "weight" {
		t.Fatalf("expected decorator to apply vitals.yaml, got %+v", weight.UIHints)
	}

	other := &pkgmodel.FormModel{ID: "unknown"}
	if err := store.Decorator().Decorate(other); err != nil || other.Title != "" {
		t.Fatalf("expected untouched form, got %+v err=%v", other, err)
	}
}

func TestLoadFS_DuplicateIDFails(t *testing.T) {
	fsys := fstest.MapFS{
		"a/vitals.yaml": {Data: []byte("ui:title: A\n")},
		"b/vitals.json": {Data: []byte(`{"ui:title":"B"}`)},
	}
	if _, err := LoadFS(fsys); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestSanitizeHelp(t *testing.T) {
	got := SanitizeHelp(`Use <strong>fasting</strong> values <script>alert(1)</script><a href="javascript:alert(1)">x</a>`)
	if strings.Contains(got, "<script") || strings.Contains(got, "javascript:") {
		t.Fatalf("unsafe markup survived: %q", got)
	}
	if !strings.Contains(got, "<strong>fasting</strong>") {
		t.Fatalf("expected inline formatting to survive: %q", got)
	}
	if SanitizeHelp("   ") != "" {
		t.Fatal("expected blank help to stay blank")
	}
}

func TestSanitizeIcon(t *testing.T) {
	raw := `<svg viewBox="0 0 24 24" onload="alert(1)"><path d="M0 0h24v24H0z"/><script>x</script></svg>`
	got := SanitizeIcon(raw)
	if strings.Contains(got, "onload") || strings.Contains(got, "<script") {
		t.Fatalf("unsafe svg survived: %q", got)
	}
	lower := strings.ToLower(got)
	if !strings.Contains(lower, `viewbox="0 0 24 24"`) || !strings.Contains(got, `d="M0 0h24v24H0z"`) {
		t.Fatalf("expected svg geometry to survive: %q", got)
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText(`Fasting <strong>8h</strong> &amp; rested<script>x</script>`)
	if got != "Fasting 8h & rested" {
		t.Fatalf("unexpected plain text %q", got)
	}
}
