package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formgen-clinical/pkg/measurement"
	"github.com/goliatone/go-formgen-clinical/pkg/model"
	"github.com/goliatone/go-formgen-clinical/pkg/render"
	"github.com/goliatone/go-formgen-clinical/pkg/schema"
	"github.com/goliatone/go-formgen-clinical/pkg/widgets"
	measurementwidget "github.com/goliatone/go-formgen-clinical/pkg/widgets/measurement"
)

// Messages recorded by the validator itself; schema violations use the
// reason reported by kin-openapi.
const (
	MessageRequired    = "required"
	MessageUnknownUnit = "unknown unit"
)

// Validator checks submitted values for one form.
type Validator struct {
	form   model.FormModel
	parsed *schema.Parsed
}

// New builds a Validator. parsed may be nil for forms assembled in code, in
// which case only required fields and measurement units are checked.
func New(form model.FormModel, parsed *schema.Parsed) *Validator {
	return &Validator{form: form, parsed: parsed}
}

// Validate returns error messages keyed by dotted field path, in the shape
// render.RenderOptions.Errors expects. A nil map means the values are valid.
func (v *Validator) Validate(values map[string]any) map[string][]string {
	out := make(map[string][]string)
	v.form.Walk(func(path string, field *model.Field) bool {
		if field.Type == model.FieldTypeObject && len(field.Nested) > 0 && !widgets.IsMeasurement(*field) {
			return true
		}
		raw, _ := render.LookupValue(values, path)
		var messages []string
		if widgets.IsMeasurement(*field) {
			messages = v.measurement(path, *field, raw)
		} else {
			messages = v.value(path, *field, raw)
		}
		if len(messages) > 0 {
			out[path] = messages
		}
		return false
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

func (v *Validator) measurement(path string, field model.Field, raw any) []string {
	cfg := measurementwidget.ResolveConfig(field, field.UIHints)
	value := measurement.Parse(raw, cfg)
	if !cfg.HasUnit(value.Unit) {
		return []string{fmt.Sprintf("%s %q", MessageUnknownUnit, value.Unit)}
	}
	if !value.Present() {
		if field.Required {
			return []string{MessageRequired}
		}
		return nil
	}

	s, ok := v.parsed.Lookup(path)
	if !ok {
		return nil
	}
	base := measurement.ToBase(*value.Magnitude, value.Unit, cfg)

	var messages []string
	if prop, ok := s.Properties["value"]; ok && prop.Value != nil {
		messages = append(messages, visit(prop.Value, base)...)
		if unit, ok := s.Properties["unit"]; ok && unit.Value != nil {
			messages = append(messages, visit(unit.Value, value.Unit)...)
		}
		return messages
	}
	if s.Type != nil && (s.Type.Is(openapi3.TypeNumber) || s.Type.Is(openapi3.TypeInteger)) {
		messages = append(messages, visit(s, base)...)
	}
	return messages
}

func (v *Validator) value(path string, field model.Field, raw any) []string {
	if isEmpty(raw) {
		if field.Required {
			return []string{MessageRequired}
		}
		return nil
	}
	s, ok := v.parsed.Lookup(path)
	if !ok {
		return nil
	}
	normalized, err := normalize(raw)
	if err != nil {
		return []string{err.Error()}
	}
	return visit(s, normalized)
}

func visit(s *openapi3.Schema, value any) []string {
	err := s.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	var messages []string
	collect(err, &messages)
	sort.Strings(messages)
	return dedupe(messages)
}

func collect(err error, out *[]string) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, item := range multi {
			collect(item, out)
		}
		return
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) && schemaErr.Reason != "" {
		*out = append(*out, schemaErr.Reason)
		return
	}
	*out = append(*out, err.Error())
}

func dedupe(messages []string) []string {
	out := make([]string, 0, len(messages))
	for i, message := range messages {
		if i > 0 && messages[i-1] == message {
			continue
		}
		out = append(out, message)
	}
	return out
}

// normalize maps Go values onto the types encoding/json produces, which are
// the ones kin-openapi knows how to visit.
func normalize(raw any) (any, error) {
	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("unsupported value: %w", err)
	}
	var out any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("unsupported value: %w", err)
	}
	return out, nil
}

func isEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	default:
		return false
	}
}
