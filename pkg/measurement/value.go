package measurement

import (
	"encoding/json"
	"math"
	"strings"
)

// Value is the {value, unit} pair a measurement field exchanges with the form
// engine. A nil Magnitude means no reading has been entered.
type Value struct {
	Magnitude *float64 `json:"value"`
	Unit      string   `json:"unit"`
}

// Present reports whether the value carries a magnitude.
func (v Value) Present() bool {
	return v.Magnitude != nil
}

// WithMagnitude returns a copy of v holding magnitude.
func (v Value) WithMagnitude(magnitude float64) Value {
	v.Magnitude = Float(magnitude)
	return v
}

// Equal compares two values by magnitude and unit.
func (v Value) Equal(other Value) bool {
	if v.Unit != other.Unit {
		return false
	}
	if v.Magnitude == nil || other.Magnitude == nil {
		return v.Magnitude == nil && other.Magnitude == nil
	}
	return *v.Magnitude == *other.Magnitude
}

// Float returns a pointer to value.
func Float(value float64) *float64 {
	return &value
}

// Parse builds a Value from whatever the form engine currently holds for the
// field. Bare numbers are read in the default unit and unrecognised payloads
// yield an empty reading; Parse never fails.
func Parse(raw any, cfg Config) Value {
	empty := Value{Unit: cfg.DefaultUnit}

	switch v := raw.(type) {
	case nil:
		return empty
	case Value:
		return withDefaultUnit(v, cfg)
	case *Value:
		if v == nil {
			return empty
		}
		return withDefaultUnit(*v, cfg)
	case map[string]any:
		out := empty
		if unit, ok := v["unit"].(string); ok && strings.TrimSpace(unit) != "" {
			out.Unit = unit
		}
		if magnitude, ok := Number(v["value"]); ok {
			out.Magnitude = Float(magnitude)
		}
		return out
	default:
		if magnitude, ok := Number(raw); ok {
			return Value{Magnitude: Float(magnitude), Unit: cfg.DefaultUnit}
		}
		return empty
	}
}

// Serialize converts v into the object shape emitted to the form engine:
// {"value": number|null, "unit": string}. The object form is always used.
func Serialize(v Value) map[string]any {
	out := map[string]any{
		"value": nil,
		"unit":  v.Unit,
	}
	if v.Magnitude != nil {
		out["value"] = *v.Magnitude
	}
	return out
}

func withDefaultUnit(v Value, cfg Config) Value {
	if strings.TrimSpace(v.Unit) == "" {
		v.Unit = cfg.DefaultUnit
	}
	if v.Magnitude != nil {
		v.Magnitude = Float(*v.Magnitude)
	}
	return v
}

// Number reports raw as a finite float64 when it holds any Go numeric kind
// or a json.Number.
func Number(raw any) (float64, bool) {
	var out float64
	switch v := raw.(type) {
	case float64:
		out = v
	case float32:
		out = float64(v)
	case int:
		out = float64(v)
	case int8:
		out = float64(v)
	case int16:
		out = float64(v)
	case int32:
		out = float64(v)
	case int64:
		out = float64(v)
	case uint:
		out = float64(v)
	case uint8:
		out = float64(v)
	case uint16:
		out = float64(v)
	case uint32:
		out = float64(v)
	case uint64:
		out = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		out = parsed
	default:
		return 0, false
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, false
	}
	return out, true
}
