package widgets

import (
	"bytes"

	"github.com/goliatone/go-formgen-clinical/pkg/model"
)

// Widget renders the editing control for one field into buf. Widgets degrade
// on malformed values instead of failing; the error return is reserved for
// writer or template failures.
type Widget func(buf *bytes.Buffer, props Props) error

// Props is the contract every widget receives from the host renderer.
type Props struct {
	ID    string
	Name  string
	Label string
	Value any

	// OnChange receives the next value for the field. The host state is the
	// only owner of record; widgets never keep it.
	OnChange func(value any)
	OnBlur   func(id string, value any)
	OnFocus  func(id string, value any)

	Schema   model.Field
	UISchema map[string]string

	Disabled  bool
	Readonly  bool
	Required  bool
	RawErrors []string
	Locale    string
}

// Emit forwards value to OnChange when one is wired.
func (p Props) Emit(value any) {
	if p.OnChange != nil {
		p.OnChange(value)
	}
}

// Blur notifies OnBlur with the control id.
func (p Props) Blur(value any) {
	if p.OnBlur != nil {
		p.OnBlur(p.ControlID(), value)
	}
}

// Focus notifies OnFocus with the control id.
func (p Props) Focus(value any) {
	if p.OnFocus != nil {
		p.OnFocus(p.ControlID(), value)
	}
}

// Hint reads a UI hint, preferring the UI schema over hints baked into the
// field.
func (p Props) Hint(key string) string {
	if value, ok := p.UISchema[key]; ok && value != "" {
		return value
	}
	return p.Schema.Hint(key)
}

// Interactive reports whether the control accepts input.
func (p Props) Interactive() bool {
	return !p.Disabled && !p.Readonly
}

// FromField builds props for field using its schema flags. Value and
// callbacks are left to the caller.
func FromField(path string, field model.Field) Props {
	return Props{
		Name:     path,
		Label:    field.Label,
		Schema:   field,
		UISchema: field.UIHints,
		Disabled: field.Disabled,
		Readonly: field.Readonly,
		Required: field.Required,
	}
}
