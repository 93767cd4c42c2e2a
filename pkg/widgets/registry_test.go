package widgets

import (
	"testing"

	"github.com/goliatone/go-formgen-clinical/pkg/model"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	field := model.Field{
		Type:    model.FieldTypeBoolean,
		UIHints: map[string]string{"widget": "custom-toggle"},
	}

	if got, ok := reg.Resolve(field); !ok || got != "custom-toggle" {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()
	bounds := []model.ValidationRule{
		{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "0"}},
		{Kind: model.ValidationRuleMax, Params: map[string]string{"value": "1"}},
	}

	cases := []struct {
		name   string
		field  model.Field
		expect string
	}{
		{
			name: "measurement from schema metadata",
			field: model.Field{
				Type:     model.FieldTypeObject,
				Metadata: map[string]string{"measurementType": "heart_rate"},
			},
			expect: WidgetMeasurement,
		},
		{
			name: "measurement from ui hint",
			field: model.Field{
				Type:    model.FieldTypeNumber,
				UIHints: map[string]string{"measurementType": "weight"},
			},
			expect: WidgetMeasurement,
		},
		{
			name: "slider needs bounds and step",
			field: model.Field{
				Type:        model.FieldTypeNumber,
				Validations: bounds,
				UIHints:     map[string]string{"step": "0.1"},
			},
			expect: WidgetSlider,
		},
		{
			name: "bounded number without step stays numeric",
			field: model.Field{
				Type:        model.FieldTypeNumber,
				Validations: bounds,
			},
			expect: WidgetNumber,
		},
		{
			name:   "boolean toggle",
			field:  model.Field{Type: model.FieldTypeBoolean},
			expect: WidgetToggle,
		},
		{
			name:   "select enum",
			field:  model.Field{Type: model.FieldTypeString, Enum: []any{"a"}},
			expect: WidgetSelect,
		},
		{
			name:   "textarea format",
			field:  model.Field{Type: model.FieldTypeString, Format: "textarea"},
			expect: WidgetTextarea,
		},
		{
			name:   "plain string",
			field:  model.Field{Type: model.FieldTypeString},
			expect: WidgetText,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := reg.Resolve(tc.field)
			if !ok || got != tc.expect {
				t.Fatalf("expected %q, got %q (ok=%v)", tc.expect, got, ok)
			}
		})
	}
}

func TestResolve_PriorityAndOrder(t *testing.T) {
	reg := &Registry{}
	reg.Register("first", 10, func(model.Field) bool { return true })
	reg.Register("second", 10, func(model.Field) bool { return true })
	reg.Register("high", 20, func(f model.Field) bool { return f.Type == model.FieldTypeNumber })

	if got, _ := reg.Resolve(model.Field{Type: model.FieldTypeString}); got != "first" {
		t.Fatalf("expected registration order tie-break, got %q", got)
	}
	if got, _ := reg.Resolve(model.Field{Type: model.FieldTypeNumber}); got != "high" {
		t.Fatalf("expected higher priority to win, got %q", got)
	}
}

func TestDecorate_SetsWidgetHints(t *testing.T) {
	reg := NewRegistry()
	form := &model.FormModel{Fields: []model.Field{
		{Name: "vitals", Type: model.FieldTypeObject, Nested: []model.Field{
			{Name: "pulse", Type: model.FieldTypeObject, Metadata: map[string]string{"measurementType": "heart_rate"}},
		}},
	}}

	if err := reg.Decorate(form); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	pulse := form.Fields[0].Nested[0]
	if pulse.UIHints["widget"] != WidgetMeasurement {
		t.Fatalf("expected measurement widget hint, got %v", pulse.UIHints)
	}
}
