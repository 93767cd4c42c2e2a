package schema

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formgen-clinical/pkg/model"
)

// Builder converts JSON Schema documents into form models.
type Builder struct {
	labeler    func(string) string
	parse      []ParseOption
	decorators []model.Decorator
}

// Option configures a Builder.
type Option func(*Builder)

// WithLabeler overrides how field names become labels when a schema has no
// title.
func WithLabeler(fn func(string) string) Option {
	return func(b *Builder) {
		if fn != nil {
			b.labeler = fn
		}
	}
}

// WithParseOptions forwards options to Parse.
func WithParseOptions(options ...ParseOption) Option {
	return func(b *Builder) {
		b.parse = append(b.parse, options...)
	}
}

// WithDecorators runs decorators over every built form, in order.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(b *Builder) {
		b.decorators = append(b.decorators, decorators...)
	}
}

// NewBuilder returns a Builder using model.DefaultLabeler.
func NewBuilder(options ...Option) *Builder {
	b := &Builder{labeler: model.DefaultLabeler}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Build parses doc and converts it. The form id is derived from the
// document location.
func (b *Builder) Build(ctx context.Context, doc Document) (model.FormModel, *Parsed, error) {
	parsed, err := Parse(ctx, doc, b.parse...)
	if err != nil {
		return model.FormModel{}, nil, err
	}
	form, err := b.Form(doc.ID(), parsed)
	if err != nil {
		return model.FormModel{}, nil, fmt.Errorf("schema: %s: %w", doc.Location(), err)
	}
	return form, parsed, nil
}

// Form converts an already parsed schema. The root must describe an object.
func (b *Builder) Form(id string, parsed *Parsed) (model.FormModel, error) {
	if parsed == nil || parsed.Root == nil {
		return model.FormModel{}, errors.New("schema is empty")
	}
	root := parsed.Root
	if !isObject(root) {
		return model.FormModel{}, fmt.Errorf("root schema must be an object, got %q", schemaType(root))
	}

	form := model.FormModel{
		ID:          id,
		Title:       root.Title,
		Description: root.Description,
	}
	form.Metadata, form.UIHints = model.ParseExtensions(root.Extensions)

	fields, err := b.properties(parsed, "", root)
	if err != nil {
		return model.FormModel{}, err
	}
	form.Fields = fields

	if err := model.Apply(&form, b.decorators...); err != nil {
		return model.FormModel{}, err
	}
	return form, nil
}

func (b *Builder) properties(parsed *Parsed, path string, s *openapi3.Schema) ([]model.Field, error) {
	names := parsed.Properties(path, s)
	if len(names) == 0 {
		return nil, nil
	}
	required := make(map[string]struct{}, len(s.Required))
	for _, name := range s.Required {
		required[name] = struct{}{}
	}

	fields := make([]model.Field, 0, len(names))
	for _, name := range names {
		_, isRequired := required[name]
		field, err := b.field(parsed, joinPath(path, name), name, s.Properties[name].Value, isRequired)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func (b *Builder) field(parsed *Parsed, path, name string, s *openapi3.Schema, required bool) (model.Field, error) {
	field := model.Field{
		Name:        name,
		Type:        mapType(s),
		Format:      s.Format,
		Required:    required,
		Readonly:    s.ReadOnly,
		Label:       s.Title,
		Description: s.Description,
		Default:     s.Default,
	}
	if field.Label == "" {
		field.Label = b.labeler(name)
	}
	if len(s.Enum) > 0 {
		field.Enum = append([]any(nil), s.Enum...)
	}
	field.Metadata, field.UIHints = model.ParseExtensions(s.Extensions)
	field.Validations = validations(s)
	if s.MultipleOf != nil {
		field.SetMeta(model.MetaMultipleOf, formatFloat(*s.MultipleOf))
	}
	if placeholder := field.Hint(model.HintPlaceholder); placeholder != "" {
		field.Placeholder = placeholder
	}

	switch {
	case isMeasurement(field):
		// A measurement is stored as {value, unit}; bounds on the value
		// property describe the magnitude in the base unit.
		field.Type = model.FieldTypeObject
		if value, ok := s.Properties["value"]; ok && value.Value != nil {
			field.Validations = append(field.Validations, validations(value.Value)...)
			if value.Value.MultipleOf != nil && field.Meta(model.MetaMultipleOf) == "" {
				field.SetMeta(model.MetaMultipleOf, formatFloat(*value.Value.MultipleOf))
			}
		}
	case field.Type == model.FieldTypeObject:
		nested, err := b.properties(parsed, path, s)
		if err != nil {
			return model.Field{}, err
		}
		field.Nested = nested
	case field.Type == model.FieldTypeArray:
		if s.Items == nil || s.Items.Value == nil {
			return model.Field{}, fmt.Errorf("array field %q missing items", path)
		}
		item, err := b.field(parsed, path, name+"Item", s.Items.Value, false)
		if err != nil {
			return model.Field{}, err
		}
		field.Items = &item
	}

	if len(field.Validations) == 0 {
		field.Validations = nil
	}
	return field, nil
}

func isMeasurement(field model.Field) bool {
	return field.Meta(model.MetaMeasurementType) != "" ||
		field.Hint(model.HintMeasurementType) != "" ||
		field.Hint(model.HintWidget) == "measurement"
}

func isObject(s *openapi3.Schema) bool {
	if s.Type == nil || len(s.Type.Slice()) == 0 {
		return len(s.Properties) > 0
	}
	return s.Type.Is(openapi3.TypeObject)
}

func schemaType(s *openapi3.Schema) string {
	if s.Type == nil {
		return ""
	}
	return strings.Join(s.Type.Slice(), ",")
}

func mapType(s *openapi3.Schema) model.FieldType {
	if s.Type == nil || len(s.Type.Slice()) == 0 {
		if len(s.Properties) > 0 {
			return model.FieldTypeObject
		}
		if s.Items != nil {
			return model.FieldTypeArray
		}
		return model.FieldTypeString
	}
	// Nullable unions such as ["number", "null"] use their first concrete type.
	for _, typ := range s.Type.Slice() {
		switch typ {
		case openapi3.TypeInteger:
			return model.FieldTypeInteger
		case openapi3.TypeNumber:
			return model.FieldTypeNumber
		case openapi3.TypeBoolean:
			return model.FieldTypeBoolean
		case openapi3.TypeArray:
			return model.FieldTypeArray
		case openapi3.TypeObject:
			return model.FieldTypeObject
		case openapi3.TypeString:
			return model.FieldTypeString
		}
	}
	return model.FieldTypeString
}

func validations(s *openapi3.Schema) []model.ValidationRule {
	var rules []model.ValidationRule
	if s.Min != nil {
		params := map[string]string{"value": formatFloat(*s.Min)}
		if s.ExclusiveMin {
			params["exclusive"] = "true"
		}
		rules = append(rules, model.ValidationRule{Kind: model.ValidationRuleMin, Params: params})
	}
	if s.Max != nil {
		params := map[string]string{"value": formatFloat(*s.Max)}
		if s.ExclusiveMax {
			params["exclusive"] = "true"
		}
		rules = append(rules, model.ValidationRule{Kind: model.ValidationRuleMax, Params: params})
	}
	if s.MultipleOf != nil {
		rules = append(rules, model.ValidationRule{
			Kind:   model.ValidationRuleMultipleOf,
			Params: map[string]string{"value": formatFloat(*s.MultipleOf)},
		})
	}
	if s.MinLength > 0 {
		rules = append(rules, model.ValidationRule{
			Kind:   model.ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.FormatUint(s.MinLength, 10)},
		})
	}
	if s.MaxLength != nil {
		rules = append(rules, model.ValidationRule{
			Kind:   model.ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.FormatUint(*s.MaxLength, 10)},
		})
	}
	if s.Pattern != "" {
		rules = append(rules, model.ValidationRule{
			Kind:   model.ValidationRulePattern,
			Params: map[string]string{"pattern": s.Pattern},
		})
	}
	return rules
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
