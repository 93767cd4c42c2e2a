package measurement

import (
	"bytes"
	"html"
	"strings"

	"github.com/goliatone/go-formgen-clinical/pkg/measurement"
	"github.com/goliatone/go-formgen-clinical/pkg/widgets"
)

var statusLabels = map[measurement.Status]string{
	measurement.StatusNormal:   "Normal",
	measurement.StatusWarning:  "Warning",
	measurement.StatusCritical: "Critical",
}

// Widget renders a measurement field from props.
func Widget(buf *bytes.Buffer, props widgets.Props) error {
	return New(props).Render(buf)
}

// Render writes the control markup for the current state.
func (in *Input) Render(buf *bytes.Buffer) error {
	p := in.props
	status := in.Status()
	id := p.ControlID()

	var b strings.Builder
	b.WriteString(`<div`)
	widgets.Attr(&b, "id", id+"-measurement")
	widgets.Attr(&b, "class", widgets.ClassList("fg-measurement fg-measurement--"+string(status), p))
	widgets.Attr(&b, "data-measurement-type", in.config.Type)
	widgets.Attr(&b, "data-status", string(status))
	b.WriteString(`>`)

	b.WriteString(`<div class="fg-measurement__controls">`)
	in.writeMagnitude(&b, id)
	in.writeUnit(&b, id)
	b.WriteString(`</div>`)

	if label, ok := statusLabels[status]; ok {
		b.WriteString(`<span`)
		widgets.Attr(&b, "class", "fg-badge fg-badge--"+string(status))
		widgets.Attr(&b, "data-status", string(status))
		b.WriteString(`>`)
		b.WriteString(html.EscapeString(label))
		b.WriteString(`</span>`)
	}
	if status.Alerting() {
		in.writeAlert(&b, status)
	}
	if in.value.Present() {
		b.WriteString(`<p class="fg-measurement__reading"`)
		widgets.Attr(&b, "lang", p.Language().String())
		b.WriteString(`>`)
		b.WriteString(html.EscapeString(in.Reading()))
		b.WriteString(`</p>`)
	}

	widgets.WriteErrors(&b, p)
	b.WriteString(`</div>`)
	buf.WriteString(b.String())
	return nil
}

// Reading formats the current value for display in the props locale.
func (in *Input) Reading() string {
	if !in.value.Present() {
		return ""
	}
	printer := in.props.Printer()
	unit := in.value.Unit
	digits := in.config.UnitPrecision(unit)
	return printer.Sprintf("%.*f %s", digits, in.config.RoundIn(*in.value.Magnitude, unit), unit)
}

func (in *Input) writeMagnitude(b *strings.Builder, id string) {
	p := in.props
	b.WriteString(`<input type="text" inputmode="decimal" class="fg-input fg-measurement__value"`)
	widgets.Attr(b, "id", id)
	widgets.Attr(b, "name", fieldName(p, "value"))
	widgets.Attr(b, "value", in.text)
	widgets.Attr(b, "placeholder", p.Hint("placeholder"))
	if label := strings.TrimSpace(p.Label); label != "" {
		widgets.Attr(b, "aria-label", label)
	}
	widgets.StateAttrs(b, p)
	b.WriteString(`>`)
}

func (in *Input) writeUnit(b *strings.Builder, id string) {
	p := in.props
	current := in.value.Unit

	b.WriteString(`<input type="hidden"`)
	widgets.Attr(b, "name", fieldName(p, "prevUnit"))
	widgets.Attr(b, "value", current)
	b.WriteString(`>`)

	if len(in.config.Units) < 2 {
		b.WriteString(`<span class="fg-measurement__unit">`)
		b.WriteString(html.EscapeString(current))
		b.WriteString(`</span><input type="hidden"`)
		widgets.Attr(b, "name", fieldName(p, "unit"))
		widgets.Attr(b, "value", current)
		b.WriteString(`>`)
		return
	}

	b.WriteString(`<select class="fg-select fg-measurement__unit"`)
	widgets.Attr(b, "id", id+"-unit")
	widgets.Attr(b, "name", fieldName(p, "unit"))
	widgets.Attr(b, "aria-label", "Unit")
	widgets.BoolAttr(b, "disabled", p.Disabled || p.Readonly)
	b.WriteString(`>`)
	for _, unit := range in.config.Units {
		b.WriteString(`<option`)
		widgets.Attr(b, "value", unit.Symbol)
		widgets.Attr(b, "title", unit.Label)
		widgets.BoolAttr(b, "selected", unit.Symbol == current)
		b.WriteString(`>`)
		b.WriteString(html.EscapeString(unit.Symbol))
		b.WriteString(`</option>`)
	}
	b.WriteString(`</select>`)
}

func (in *Input) writeAlert(b *strings.Builder, status measurement.Status) {
	b.WriteString(`<div role="alert"`)
	widgets.Attr(b, "class", "fg-alert fg-alert--"+string(status))
	b.WriteString(`>`)
	b.WriteString(html.EscapeString(in.Alert()))
	b.WriteString(`</div>`)
}

// Alert describes the range the current value falls outside of, with the
// bounds converted to the current unit. It is empty unless the status is
// alerting.
func (in *Input) Alert() string {
	status := in.Status()
	if !status.Alerting() {
		return ""
	}
	ranges := in.config.Ranges
	bounds := ranges.Normal
	message := "Outside the normal range"
	if status == measurement.StatusCritical {
		bounds = ranges.Critical
		message = "Outside the critical range"
	}
	if bounds == nil {
		return message + "."
	}
	unit := in.value.Unit
	low := measurement.Convert(bounds.Min, in.config.DefaultUnit, unit, in.config)
	high := measurement.Convert(bounds.Max, in.config.DefaultUnit, unit, in.config)
	digits := in.config.UnitPrecision(unit)
	return message + in.props.Printer().Sprintf(" of %.*f to %.*f %s.", digits, low, digits, high, unit)
}

func fieldName(p widgets.Props, part string) string {
	if p.Name == "" {
		return ""
	}
	return p.Name + "." + part
}
