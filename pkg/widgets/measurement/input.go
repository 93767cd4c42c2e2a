package measurement

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formgen-clinical/pkg/measurement"
	"github.com/goliatone/go-formgen-clinical/pkg/model"
	"github.com/goliatone/go-formgen-clinical/pkg/widgets"
)

// Input is the interactive state of one measurement field.
type Input struct {
	props  widgets.Props
	config measurement.Config
	value  measurement.Value
	text   string
}

// New builds an Input mirroring props.Value.
func New(props widgets.Props) *Input {
	in := &Input{
		props:  props,
		config: ResolveConfig(props.Schema, props.UISchema),
	}
	in.value = measurement.Parse(props.Value, in.config)
	in.text = formatMagnitude(in.value)
	return in
}

// ResolveConfig picks the measurement type from schema metadata, then from the
// UI hints, falling back to weight for missing or unknown identifiers.
func ResolveConfig(field model.Field, ui map[string]string) measurement.Config {
	typ := field.Meta(model.MetaMeasurementType)
	if typ == "" {
		typ = strings.TrimSpace(ui[model.HintMeasurementType])
	}
	if typ == "" {
		typ = field.Hint(model.HintMeasurementType)
	}
	return measurement.Lookup(typ)
}

// Config returns the resolved measurement configuration.
func (in *Input) Config() measurement.Config {
	return in.config
}

// Value returns the current mirrored value.
func (in *Input) Value() measurement.Value {
	return in.value
}

// Text returns the magnitude input buffer.
func (in *Input) Text() string {
	return in.text
}

// EditMagnitude applies a keystroke-level edit of the magnitude text. Text
// that does not parse as a finite number clears the magnitude; the unit is
// kept and the host is notified either way.
func (in *Input) EditMagnitude(text string) {
	in.text = text
	next := measurement.Value{Unit: in.value.Unit}
	if magnitude, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil && !math.IsNaN(magnitude) && !math.IsInf(magnitude, 0) {
		next.Magnitude = measurement.Float(magnitude)
	}
	in.commit(next)
}

// ChangeUnit switches the unit, converting a present magnitude. Units the
// type does not know are ignored.
func (in *Input) ChangeUnit(unit string) {
	if !in.config.HasUnit(unit) || unit == in.value.Unit {
		return
	}
	next := measurement.Value{Unit: unit}
	if in.value.Present() {
		converted := measurement.Convert(*in.value.Magnitude, in.value.Unit, unit, in.config)
		next.Magnitude = measurement.Float(converted)
	}
	in.text = formatMagnitude(next)
	in.commit(next)
}

// Sync refreshes the mirror from the host's value. The text buffer is only
// replaced when the host value differs from the mirror, so an in-progress
// edit such as "72." survives the echo of its own change.
func (in *Input) Sync(raw any) {
	next := measurement.Parse(raw, in.config)
	if next.Equal(in.value) {
		return
	}
	in.value = next
	in.text = formatMagnitude(next)
}

// Status classifies the current value.
func (in *Input) Status() measurement.Status {
	return measurement.ClassifyValue(in.value, in.config)
}

// Blur reports the current value to the host's OnBlur callback.
func (in *Input) Blur() {
	in.props.Blur(measurement.Serialize(in.value))
}

// Focus reports the current value to the host's OnFocus callback.
func (in *Input) Focus() {
	in.props.Focus(measurement.Serialize(in.value))
}

func (in *Input) commit(next measurement.Value) {
	in.value = next
	in.props.Emit(measurement.Serialize(next))
}

func formatMagnitude(v measurement.Value) string {
	if !v.Present() {
		return ""
	}
	return strconv.FormatFloat(*v.Magnitude, 'f', -1, 64)
}
