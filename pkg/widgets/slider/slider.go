// Package slider renders bounded numeric model parameters (learning rates,
// dose fractions, thresholds) as a range input with a live readout.
package slider

import (
	"bytes"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formgen-clinical/pkg/measurement"
	"github.com/goliatone/go-formgen-clinical/pkg/model"
	"github.com/goliatone/go-formgen-clinical/pkg/widgets"
)

const (
	DefaultMin  = 0.0
	DefaultMax  = 1.0
	DefaultStep = 0.01
)

// Slider holds the resolved bounds and current value of one slider field.
type Slider struct {
	props     widgets.Props
	min       float64
	max       float64
	step      float64
	precision int
	value     float64
}

// New resolves bounds from props and parses props.Value.
func New(props widgets.Props) *Slider {
	s := &Slider{props: props}
	s.min, s.max, s.step = Bounds(props.Schema, props.UISchema)
	s.precision = Precision(s.step)
	s.value = s.Parse(props.Value)
	return s
}

// Widget renders a slider field from props.
func Widget(buf *bytes.Buffer, props widgets.Props) error {
	return New(props).Render(buf)
}

// Bounds reads min and max from the field's validation rules and the step
// from the `step` UI hint or the multipleOf metadata.
func Bounds(field model.Field, ui map[string]string) (lo, hi, step float64) {
	lo, hi, step = DefaultMin, DefaultMax, DefaultStep
	if v, ok := field.NumericRule(model.ValidationRuleMin); ok {
		lo = v
	}
	if v, ok := field.NumericRule(model.ValidationRuleMax); ok {
		hi = v
	}
	if hi < lo {
		hi = lo
	}

	candidates := []string{ui[model.HintStep], field.Hint(model.HintStep), field.Meta(model.MetaMultipleOf)}
	for _, raw := range candidates {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err == nil && v > 0 && !math.IsInf(v, 0) {
			step = v
			break
		}
	}
	return lo, hi, step
}

// Precision returns the number of decimals needed to display multiples of
// step.
func Precision(step float64) int {
	formatted := strconv.FormatFloat(step, 'f', -1, 64)
	if idx := strings.IndexByte(formatted, '.'); idx >= 0 {
		return len(formatted) - idx - 1
	}
	return 0
}

// Min returns the lower bound.
func (s *Slider) Min() float64 { return s.min }

// Max returns the upper bound.
func (s *Slider) Max() float64 { return s.max }

// Step returns the step size.
func (s *Slider) Step() float64 { return s.step }

// Value returns the current value.
func (s *Slider) Value() float64 { return s.value }

// Parse coerces a host value into range. Absent or non-numeric values fall
// back to the field default, then to the lower bound.
func (s *Slider) Parse(raw any) float64 {
	if v, ok := measurement.Number(raw); ok {
		return s.Normalize(v)
	}
	if v, ok := measurement.Number(s.props.Schema.Default); ok {
		return s.Normalize(v)
	}
	return s.min
}

// Normalize clamps v to [min, max], snaps it to min + k*step and rounds it
// to the step precision.
func (s *Slider) Normalize(v float64) float64 {
	v = math.Max(s.min, math.Min(s.max, v))
	k := math.Round((v - s.min) / s.step)
	snapped := s.min + k*s.step
	if snapped > s.max {
		snapped -= s.step
	}
	if snapped < s.min {
		snapped = s.min
	}
	scale := math.Pow(10, float64(s.precision))
	return math.Round(snapped*scale) / scale
}

// Input applies a user edit. Unparsable text keeps the previous value and
// does not notify the host.
func (s *Slider) Input(text string) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	s.value = s.Normalize(v)
	s.props.Emit(s.value)
}

// Format renders the value with the step precision.
func (s *Slider) Format() string {
	return strconv.FormatFloat(s.value, 'f', s.precision, 64)
}

// Render writes the range input, its readout and any host errors.
func (s *Slider) Render(buf *bytes.Buffer) error {
	p := s.props
	id := p.ControlID()

	var b strings.Builder
	b.WriteString(`<div`)
	widgets.Attr(&b, "class", widgets.ClassList("fg-slider", p))
	b.WriteString(`><input type="range" class="fg-slider__input"`)
	widgets.Attr(&b, "id", id)
	widgets.Attr(&b, "name", p.Name)
	widgets.Attr(&b, "min", strconv.FormatFloat(s.min, 'f', -1, 64))
	widgets.Attr(&b, "max", strconv.FormatFloat(s.max, 'f', -1, 64))
	widgets.Attr(&b, "step", strconv.FormatFloat(s.step, 'f', -1, 64))
	widgets.Attr(&b, "value", s.Format())
	widgets.StateAttrs(&b, p)
	b.WriteString(`><output class="fg-slider__output"`)
	widgets.Attr(&b, "for", id)
	b.WriteString(`>`)
	b.WriteString(html.EscapeString(p.Printer().Sprintf("%.*f", s.precision, s.value)))
	b.WriteString(`</output>`)
	widgets.WriteErrors(&b, p)
	b.WriteString(`</div>`)
	buf.WriteString(b.String())
	return nil
}
