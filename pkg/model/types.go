package model

import (
	"strconv"
	"strings"
)

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

const (
	ValidationRuleMin        = "min"
	ValidationRuleMax        = "max"
	ValidationRuleMultipleOf = "multipleOf"
	ValidationRuleMinLength  = "minLength"
	ValidationRuleMaxLength  = "maxLength"
	ValidationRulePattern    = "pattern"
)

// ValidationRule represents a single validation constraint applied to a field.
// Numeric bounds encode their threshold in Params["value"]; pattern rules keep
// the expression in Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Field models an individual input inside a generated form.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Format      string            `json:"format,omitempty"`
	Required    bool              `json:"required"`
	Readonly    bool              `json:"readonly,omitempty"`
	Disabled    bool              `json:"disabled,omitempty"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     any               `json:"default,omitempty"`
	Enum        []any             `json:"enum,omitempty"`
	Nested      []Field           `json:"nested,omitempty"`
	Items       *Field            `json:"items,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty"`
}

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	ID          string            `json:"id"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []Field           `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty"`
}

// Rule returns the first validation rule of the given kind.
func (f Field) Rule(kind string) (ValidationRule, bool) {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return ValidationRule{}, false
}

// NumericRule parses Params["value"] of the first rule of kind.
func (f Field) NumericRule(kind string) (float64, bool) {
	rule, ok := f.Rule(kind)
	if !ok {
		return 0, false
	}
	raw, ok := rule.Params["value"]
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Hint returns the trimmed UI hint stored under key.
func (f Field) Hint(key string) string {
	if f.UIHints == nil {
		return ""
	}
	return strings.TrimSpace(f.UIHints[key])
}

// Meta returns the trimmed metadata value stored under key.
func (f Field) Meta(key string) string {
	if f.Metadata == nil {
		return ""
	}
	return strings.TrimSpace(f.Metadata[key])
}

// SetHint stores a UI hint, allocating the map on demand.
func (f *Field) SetHint(key, value string) {
	if f.UIHints == nil {
		f.UIHints = make(map[string]string)
	}
	f.UIHints[key] = value
}

// SetMeta stores a metadata entry, allocating the map on demand.
func (f *Field) SetMeta(key, value string) {
	if f.Metadata == nil {
		f.Metadata = make(map[string]string)
	}
	f.Metadata[key] = value
}

// Lookup resolves a dotted path ("vitals.weight") to the matching field.
func (m *FormModel) Lookup(path string) (*Field, bool) {
	if m == nil || path == "" {
		return nil, false
	}
	segments := strings.Split(path, ".")
	fields := m.Fields
	var current *Field
	for _, segment := range segments {
		current = nil
		for i := range fields {
			if fields[i].Name == segment {
				current = &fields[i]
				break
			}
		}
		if current == nil {
			return nil, false
		}
		fields = current.Nested
	}
	return current, current != nil
}

// Walk visits every field depth-first along with its dotted path. Returning
// false from fn stops descent into that field's children.
func (m *FormModel) Walk(fn func(path string, field *Field) bool) {
	if m == nil || fn == nil {
		return
	}
	walkFields("", m.Fields, fn)
}

func walkFields(prefix string, fields []Field, fn func(string, *Field) bool) {
	for i := range fields {
		path := fields[i].Name
		if prefix != "" {
			path = prefix + "." + path
		}
		if !fn(path, &fields[i]) {
			continue
		}
		if len(fields[i].Nested) > 0 {
			walkFields(path, fields[i].Nested, fn)
		}
	}
}
