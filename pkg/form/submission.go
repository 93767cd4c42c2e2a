package form

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-formgen-clinical/pkg/measurement"
	"github.com/goliatone/go-formgen-clinical/pkg/model"
	"github.com/goliatone/go-formgen-clinical/pkg/widgets"
	measurementwidget "github.com/goliatone/go-formgen-clinical/pkg/widgets/measurement"
	"github.com/goliatone/go-formgen-clinical/pkg/widgets/slider"
)

// Messages recorded for posted values that cannot be decoded.
const (
	MessageNotANumber   = "must be a number"
	MessageNotAnInteger = "must be a whole number"
	MessageNotAllowed   = "is not an allowed value"
)

// DecodeOption customises DecodeSubmission.
type DecodeOption func(*decoder)

// WithWidgetRegistry resolves widgets with reg instead of the built-in
// matchers, so decoding agrees with a customised renderer.
func WithWidgetRegistry(reg *widgets.Registry) DecodeOption {
	return func(d *decoder) {
		if reg != nil {
			d.widgets = reg
		}
	}
}

type decoder struct {
	widgets *widgets.Registry
	posted  url.Values
	state   *State
}

// DecodeSubmission rebuilds field values from a posted HTML form rendered by
// the vanilla renderer. Fields missing from the post are left unset, except
// toggles whose absence means false.
//
// Measurement fields post `path.value`, `path.unit` and `path.prevUnit`. The
// magnitude is read in the unit that was on screen (prevUnit) and converted
// when the unit select changed, exactly as the widget does on a unit change.
// Slider values are clamped and snapped to their step. Values that do not
// decode are recorded as errors on the returned state.
func DecodeSubmission(form model.FormModel, posted url.Values, opts ...DecodeOption) *State {
	d := &decoder{
		widgets: widgets.NewRegistry(),
		posted:  posted,
		state:   NewState(nil, nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	d.fields(form.Fields, "")
	return d.state
}

func (d *decoder) fields(fields []model.Field, parent string) {
	for _, field := range fields {
		path := field.Name
		if parent != "" {
			path = parent + "." + path
		}
		if field.Type == model.FieldTypeObject && len(field.Nested) > 0 {
			d.fields(field.Nested, path)
			continue
		}
		d.field(field, path)
	}
}

func (d *decoder) field(field model.Field, path string) {
	name, _ := d.widgets.Resolve(field)
	props := widgets.FromField(path, field)
	props.OnChange = d.state.OnChange(path)

	switch name {
	case widgets.WidgetMeasurement:
		d.measurement(props, path)
	case widgets.WidgetSlider:
		raw, ok := d.value(path)
		if !ok {
			return
		}
		input := slider.New(props)
		input.Input(raw)
		if _, set := d.state.Get(path); !set {
			d.state.AddError(path, MessageNotANumber)
		}
	case widgets.WidgetToggle:
		raw, _ := d.value(path)
		checked, _ := strconv.ParseBool(raw)
		_ = d.state.Set(path, checked)
	default:
		d.scalar(field, path)
	}
}

func (d *decoder) measurement(props widgets.Props, path string) {
	text, hasValue := d.value(path + ".value")
	unit, hasUnit := d.value(path + ".unit")
	if !hasValue && !hasUnit {
		return
	}

	cfg := measurementwidget.ResolveConfig(props.Schema, props.UISchema)
	shown, _ := d.value(path + ".prevUnit")
	if !cfg.HasUnit(shown) {
		shown = unit
	}
	if !cfg.HasUnit(shown) {
		shown = cfg.DefaultUnit
	}
	props.Value = measurement.Value{Unit: shown}

	input := measurementwidget.New(props)
	input.EditMagnitude(text)
	if hasUnit {
		input.ChangeUnit(unit)
	}
}

func (d *decoder) scalar(field model.Field, path string) {
	if field.Type == model.FieldTypeArray {
		if list, ok := d.posted[path]; ok {
			out := make([]any, 0, len(list))
			for _, item := range list {
				out = append(out, item)
			}
			_ = d.state.Set(path, out)
		}
		return
	}

	raw, ok := d.value(path)
	if !ok {
		return
	}
	raw = strings.TrimSpace(raw)
	if raw == "" && field.Type != model.FieldTypeString {
		_ = d.state.Set(path, nil)
		return
	}

	if len(field.Enum) > 0 {
		for _, option := range field.Enum {
			if widgets.FormatValue(option) == raw {
				_ = d.state.Set(path, option)
				return
			}
		}
		if raw != "" {
			d.state.AddError(path, MessageNotAllowed)
		}
		_ = d.state.Set(path, nil)
		return
	}

	switch field.Type {
	case model.FieldTypeInteger:
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			d.state.AddError(path, MessageNotAnInteger)
			return
		}
		_ = d.state.Set(path, value)
	case model.FieldTypeNumber:
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			d.state.AddError(path, MessageNotANumber)
			return
		}
		_ = d.state.Set(path, value)
	case model.FieldTypeBoolean:
		value, _ := strconv.ParseBool(raw)
		_ = d.state.Set(path, value)
	default:
		_ = d.state.Set(path, raw)
	}
}

func (d *decoder) value(key string) (string, bool) {
	list, ok := d.posted[key]
	if !ok || len(list) == 0 {
		return "", false
	}
	return list[0], true
}
