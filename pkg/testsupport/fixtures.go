// Package testsupport holds fixtures shared by renderer and form tests.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	pkgmodel "github.com/goliatone/go-formgen-clinical/pkg/model"
)

// VitalsForm returns a small clinical form exercising every bundled widget:
// a weight measurement, a heart rate measurement nested under an object, a
// pain score slider, a select, a toggle and free text.
func VitalsForm() pkgmodel.FormModel {
	return pkgmodel.FormModel{
		ID:    "vitals",
		Title: "Vitals",
		Fields: []pkgmodel.Field{
			{
				Name:     "weight",
				Type:     pkgmodel.FieldTypeObject,
				Label:    "Weight",
				Required: true,
				Metadata: map[string]string{pkgmodel.MetaMeasurementType: "weight"},
			},
			{
				Name:  "cardio",
				Type:  pkgmodel.FieldTypeObject,
				Label: "Cardio",
				Nested: []pkgmodel.Field{
					{
						Name:     "heartRate",
						Type:     pkgmodel.FieldTypeObject,
						Label:    "Heart rate",
						Metadata: map[string]string{pkgmodel.MetaMeasurementType: "heart_rate"},
					},
				},
			},
			{
				Name:  "pain",
				Type:  pkgmodel.FieldTypeNumber,
				Label: "Pain score",
				Validations: []pkgmodel.ValidationRule{
					{Kind: pkgmodel.ValidationRuleMin, Params: map[string]string{"value": "0"}},
					{Kind: pkgmodel.ValidationRuleMax, Params: map[string]string{"value": "10"}},
					{Kind: pkgmodel.ValidationRuleMultipleOf, Params: map[string]string{"value": "1"}},
				},
				Metadata: map[string]string{pkgmodel.MetaMultipleOf: "1"},
				UIHints:  map[string]string{pkgmodel.HintWidget: "slider"},
			},
			{
				Name:  "position",
				Type:  pkgmodel.FieldTypeString,
				Label: "Position",
				Enum:  []any{"sitting", "standing", "supine"},
			},
			{
				Name:  "fasting",
				Type:  pkgmodel.FieldTypeBoolean,
				Label: "Fasting",
			},
			{
				Name:  "notes",
				Type:  pkgmodel.FieldTypeString,
				Label: "Notes",
			},
		},
	}
}

// MustLoadFormModel loads a JSON fixture into a FormModel.
func MustLoadFormModel(t *testing.T, path string) pkgmodel.FormModel {
	t.Helper()

	form, err := LoadFormModel(path)
	if err != nil {
		t.Fatalf("load form model: %v", err)
	}
	return form
}

// LoadFormModel reads a JSON fixture into a FormModel, returning an error for
// callers managing setup outside of *testing.T.
func LoadFormModel(path string) (pkgmodel.FormModel, error) {
	if path == "" {
		return pkgmodel.FormModel{}, errors.New("testsupport: form model path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pkgmodel.FormModel{}, fmt.Errorf("testsupport: read form model: %w", err)
	}
	var out pkgmodel.FormModel
	if err := json.Unmarshal(data, &out); err != nil {
		return pkgmodel.FormModel{}, fmt.Errorf("testsupport: unmarshal form model: %w", err)
	}
	return out, nil
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
