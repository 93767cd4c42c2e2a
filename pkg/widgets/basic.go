package widgets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-formgen-clinical/pkg/model"
)

// Text renders a single-line text input.
func Text(buf *bytes.Buffer, p Props) error {
	var b strings.Builder
	b.WriteString(`<input type="text"`)
	writeCommonAttrs(&b, p, "fg-input")
	Attr(&b, "value", FormatValue(p.Value))
	Attr(&b, "placeholder", p.Hint(model.HintPlaceholder))
	if rule, ok := p.Schema.Rule(model.ValidationRuleMaxLength); ok {
		Attr(&b, "maxlength", rule.Params["value"])
	}
	if rule, ok := p.Schema.Rule(model.ValidationRulePattern); ok {
		Attr(&b, "pattern", rule.Params["pattern"])
	}
	StateAttrs(&b, p)
	b.WriteString(`>`)
	WriteErrors(&b, p)
	buf.WriteString(b.String())
	return nil
}

// Number renders a numeric input carrying min/max/step from the field rules.
func Number(buf *bytes.Buffer, p Props) error {
	var b strings.Builder
	b.WriteString(`<input type="number"`)
	writeCommonAttrs(&b, p, "fg-input fg-input--number")
	Attr(&b, "value", FormatValue(p.Value))
	Attr(&b, "placeholder", p.Hint(model.HintPlaceholder))
	if rule, ok := p.Schema.Rule(model.ValidationRuleMin); ok {
		Attr(&b, "min", rule.Params["value"])
	}
	if rule, ok := p.Schema.Rule(model.ValidationRuleMax); ok {
		Attr(&b, "max", rule.Params["value"])
	}
	step := p.Hint(model.HintStep)
	if step == "" {
		step = p.Schema.Meta(model.MetaMultipleOf)
	}
	if step == "" && p.Schema.Type == model.FieldTypeNumber {
		step = "any"
	}
	Attr(&b, "step", step)
	StateAttrs(&b, p)
	b.WriteString(`>`)
	WriteErrors(&b, p)
	buf.WriteString(b.String())
	return nil
}

// Textarea renders a multi-line input.
func Textarea(buf *bytes.Buffer, p Props) error {
	var b strings.Builder
	b.WriteString(`<textarea`)
	writeCommonAttrs(&b, p, "fg-textarea")
	rows := p.Hint(model.HintRows)
	if _, err := strconv.Atoi(rows); err != nil {
		rows = "4"
	}
	Attr(&b, "rows", rows)
	Attr(&b, "placeholder", p.Hint(model.HintPlaceholder))
	StateAttrs(&b, p)
	b.WriteString(`>`)
	b.WriteString(html.EscapeString(FormatValue(p.Value)))
	b.WriteString(`</textarea>`)
	WriteErrors(&b, p)
	buf.WriteString(b.String())
	return nil
}

// Select renders a dropdown built from the field's enum values.
func Select(buf *bytes.Buffer, p Props) error {
	var b strings.Builder
	b.WriteString(`<select`)
	writeCommonAttrs(&b, p, "fg-select")
	StateAttrs(&b, p)
	b.WriteString(`>`)

	current := FormatValue(p.Value)
	if !p.Required || current == "" {
		b.WriteString(`<option value="">`)
		b.WriteString(html.EscapeString(p.Hint(model.HintPlaceholder)))
		b.WriteString(`</option>`)
	}
	for _, option := range p.Schema.Enum {
		value := FormatValue(option)
		b.WriteString(`<option`)
		Attr(&b, "value", value)
		BoolAttr(&b, "selected", value == current && current != "")
		b.WriteString(`>`)
		b.WriteString(html.EscapeString(value))
		b.WriteString(`</option>`)
	}
	b.WriteString(`</select>`)
	WriteErrors(&b, p)
	buf.WriteString(b.String())
	return nil
}

// Toggle renders a checkbox switch for boolean fields.
func Toggle(buf *bytes.Buffer, p Props) error {
	var b strings.Builder
	b.WriteString(`<input type="checkbox" role="switch" value="true"`)
	writeCommonAttrs(&b, p, "fg-toggle")
	checked, _ := p.Value.(bool)
	if raw, ok := p.Value.(string); ok {
		checked, _ = strconv.ParseBool(raw)
	}
	BoolAttr(&b, "checked", checked)
	StateAttrs(&b, p)
	b.WriteString(`>`)
	WriteErrors(&b, p)
	buf.WriteString(b.String())
	return nil
}

func writeCommonAttrs(b *strings.Builder, p Props, class string) {
	Attr(b, "id", p.ControlID())
	Attr(b, "name", p.Name)
	Attr(b, "class", ClassList(class, p))
}

// FormatValue renders a host value for use inside an HTML attribute.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
