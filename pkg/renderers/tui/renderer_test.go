package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formgen-clinical/pkg/model"
	"github.com/goliatone/go-formgen-clinical/pkg/render"
	"github.com/goliatone/go-formgen-clinical/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputConfigs []InputConfig
	inputErr     error
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputConfigs = append(s.inputConfigs, cfg)
	if s.inputErr != nil {
		return "", s.inputErr
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func decodeJSON(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal output: %v\n%s", err, data)
	}
	return out
}

func TestRender_VitalsSession(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{1, 0},
		inputs:    []string{"150", "45", "7.4", "seen in clinic"},
		confirm:   []bool{true},
	}
	var changed []string
	renderer := New(WithPromptDriver(driver))

	out, err := renderer.Render(testsupport.Context(), testsupport.VitalsForm(), render.RenderOptions{
		OnChange: func(path string, _ any) { changed = append(changed, path) },
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := map[string]any{
		"weight": map[string]any{"value": 150.0, "unit": "lb"},
		"cardio": map[string]any{
			"heartRate": map[string]any{"value": 45.0, "unit": "bpm"},
		},
		"pain":     7.0,
		"position": "sitting",
		"fasting":  true,
		"notes":    "seen in clinic",
	}
	if diff := cmp.Diff(want, decodeJSON(t, out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	for _, msg := range []string{
		"== Vitals",
		"== Cardio",
		"! Heart rate 45 bpm: Outside the normal range of 60 to 100 bpm.",
		"- Pain score: using 7",
	} {
		if !contains(driver.infoMessages, msg) {
			t.Fatalf("expected info %q, got %v", msg, driver.infoMessages)
		}
	}
	if !contains(changed, "cardio.heartRate") || !contains(changed, "weight") {
		t.Fatalf("expected OnChange for measurement paths, got %v", changed)
	}
	if got := driver.inputConfigs[0].Message; got != "Weight (lb)" {
		t.Fatalf("expected magnitude prompt in the chosen unit, got %q", got)
	}
}

func TestRender_UnitChangeConvertsPrefill(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1}, inputs: []string{"149.9"}}
	form := model.FormModel{Fields: []model.Field{{
		Name:     "weight",
		Type:     model.FieldTypeObject,
		Label:    "Weight",
		Metadata: map[string]string{model.MetaMeasurementType: "weight"},
	}}}

	out, err := New(WithPromptDriver(driver)).Render(context.Background(), form, render.RenderOptions{
		Values: map[string]any{"weight": map[string]any{"value": 68.0, "unit": "kg"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if got := driver.inputConfigs[0].Default; got != "149.9" {
		t.Fatalf("expected converted default 149.9, got %q", got)
	}
	validate := driver.inputConfigs[0].Validate
	if validate == nil || validate("abc") == nil || validate("") != nil || validate(" 72.5 ") != nil {
		t.Fatalf("expected the magnitude prompt to reject only non-numeric answers")
	}
	want := map[string]any{"weight": map[string]any{"value": 149.9, "unit": "lb"}}
	if diff := cmp.Diff(want, decodeJSON(t, out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_NumberRetriesUntilValid(t *testing.T) {
	driver := &stubDriver{inputs: []string{"abc", "200", "42"}}
	form := model.FormModel{Fields: []model.Field{{
		Name:  "age",
		Type:  model.FieldTypeInteger,
		Label: "Age",
		Validations: []model.ValidationRule{
			{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "0"}},
			{Kind: model.ValidationRuleMax, Params: map[string]string{"value": "130"}},
		},
	}}}

	out, err := New(WithPromptDriver(driver)).Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if diff := cmp.Diff(map[string]any{"age": 42.0}, decodeJSON(t, out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	wantInfo := []string{"x Age: enter a whole number", "x Age: max 130"}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_RequiredMeasurementRetries(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", "abc", "72"}}
	form := model.FormModel{Fields: []model.Field{{
		Name:     "hr",
		Type:     model.FieldTypeObject,
		Label:    "HR",
		Required: true,
		Metadata: map[string]string{model.MetaMeasurementType: "heart_rate"},
	}}}

	out, err := New(WithPromptDriver(driver)).Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := map[string]any{"hr": map[string]any{"value": 72.0, "unit": "bpm"}}
	if diff := cmp.Diff(want, decodeJSON(t, out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x HR: required", "x HR: enter a number"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_ReadonlyKeepsDefaultAndShowsErrors(t *testing.T) {
	driver := &stubDriver{inputs: []string{"fine"}}
	form := model.FormModel{Fields: []model.Field{
		{Name: "site", Type: model.FieldTypeString, Label: "Site", Readonly: true, Default: "ward 3"},
		{Name: "notes", Type: model.FieldTypeString, Label: "Notes"},
	}}

	out, err := New(WithPromptDriver(driver)).Render(context.Background(), form, render.RenderOptions{
		Errors:     map[string][]string{"notes": {"too short"}},
		FormErrors: []string{"Save failed"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if diff := cmp.Diff(map[string]any{"site": "ward 3", "notes": "fine"}, decodeJSON(t, out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x Save failed", "x Notes: too short"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if driver.inputPos != 1 {
		t.Fatalf("expected one prompt, got %d", driver.inputPos)
	}
}

func TestRender_ArraysAndTextarea(t *testing.T) {
	driver := &stubDriver{
		multiIdx:  [][]int{{0, 2}},
		inputs:    []string{"a, b ,, c"},
		textAreas: []string{"line one\nline two"},
	}
	form := model.FormModel{Fields: []model.Field{
		{Name: "symptoms", Type: model.FieldTypeArray, Items: &model.Field{Type: model.FieldTypeString, Enum: []any{"cough", "fever", "fatigue"}}},
		{Name: "tags", Type: model.FieldTypeArray},
		{Name: "history", Type: model.FieldTypeString, Format: "textarea"},
	}}

	out, err := New(WithPromptDriver(driver)).Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := map[string]any{
		"symptoms": []any{"cough", "fatigue"},
		"tags":     []any{"a", "b", "c"},
		"history":  "line one\nline two",
	}
	if diff := cmp.Diff(want, decodeJSON(t, out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_AbortPropagates(t *testing.T) {
	driver := &stubDriver{inputErr: ErrAborted}
	form := model.FormModel{Fields: []model.Field{{Name: "notes", Type: model.FieldTypeString}}}

	_, err := New(WithPromptDriver(driver)).Render(context.Background(), form, render.RenderOptions{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRender_OutputFormats(t *testing.T) {
	form := model.FormModel{Fields: []model.Field{{
		Name:     "hr",
		Type:     model.FieldTypeObject,
		Metadata: map[string]string{model.MetaMeasurementType: "heart_rate"},
	}}}

	cases := []struct {
		format      OutputFormat
		contentType string
		want        string
	}{
		{format: OutputFormatFormURLEncoded, contentType: "application/x-www-form-urlencoded", want: "hr.unit=bpm&hr.value=88"},
		{format: OutputFormatPrettyText, contentType: "text/plain", want: "hr.unit=bpm\nhr.value=88\n"},
	}

	for _, tc := range cases {
		t.Run(string(tc.format), func(t *testing.T) {
			renderer := New(WithPromptDriver(&stubDriver{inputs: []string{"88"}}), WithOutputFormat(tc.format))
			out, err := renderer.Render(context.Background(), form, render.RenderOptions{})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if string(out) != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, out)
			}
			if renderer.ContentType() != tc.contentType {
				t.Fatalf("unexpected content type %q", renderer.ContentType())
			}
		})
	}
}

func TestRender_SubmitTransformer(t *testing.T) {
	form := model.FormModel{Fields: []model.Field{{Name: "notes", Type: model.FieldTypeString}}}
	renderer := New(
		WithPromptDriver(&stubDriver{inputs: []string{"ok"}}),
		WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
			values["source"] = "tui"
			return values, nil
		}),
	)

	out, err := renderer.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `"source":"tui"`) {
		t.Fatalf("expected transformed output, got %s", out)
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
