package measurement

import "sort"

// Built-in measurement type identifiers.
const (
	TypeWeight           = "weight"
	TypeHeight           = "height"
	TypeHeartRate        = "heart_rate"
	TypeTemperature      = "temperature"
	TypeBloodGlucose     = "blood_glucose"
	TypeOxygenSaturation = "oxygen_saturation"
)

// DefaultType is used whenever a field names no type or an unknown one.
const DefaultType = TypeWeight

// mg/dL per mmol/L for glucose.
const glucoseMolarFactor = 18.0182

var builtin = map[string]Config{
	TypeWeight: MustConfig(Config{
		Type:        TypeWeight,
		DefaultUnit: "kg",
		Units: []Unit{
			{Symbol: "kg", Label: "Kilograms", Conversion: Identity()},
			{Symbol: "lb", Label: "Pounds", Conversion: Linear(2.20462)},
		},
		Precision: 1,
	}),
	TypeHeight: MustConfig(Config{
		Type:        TypeHeight,
		DefaultUnit: "cm",
		Units: []Unit{
			{Symbol: "cm", Label: "Centimeters", Conversion: Identity()},
			{Symbol: "m", Label: "Meters", Conversion: Linear(0.01), Precision: 3},
			{Symbol: "in", Label: "Inches", Conversion: Linear(0.393701)},
		},
		Precision: 1,
	}),
	TypeHeartRate: MustConfig(Config{
		Type:        TypeHeartRate,
		DefaultUnit: "bpm",
		Units: []Unit{
			{Symbol: "bpm", Label: "Beats per minute", Conversion: Identity()},
		},
		Ranges: &Ranges{
			Normal:   &Range{Min: 60, Max: 100},
			Critical: &Range{Min: 40, Max: 150},
		},
		Precision: 0,
	}),
	TypeTemperature: MustConfig(Config{
		Type:        TypeTemperature,
		DefaultUnit: "°C",
		Units: []Unit{
			{Symbol: "°C", Label: "Celsius", Conversion: Identity()},
			{Symbol: "°F", Label: "Fahrenheit", Conversion: NonLinear(
				func(c float64) float64 { return c*9/5 + 32 },
				func(f float64) float64 { return (f - 32) * 5 / 9 },
			)},
			{Symbol: "K", Label: "Kelvin", Conversion: NonLinear(
				func(c float64) float64 { return c + 273.15 },
				func(k float64) float64 { return k - 273.15 },
			)},
		},
		Ranges: &Ranges{
			Normal:   &Range{Min: 36.1, Max: 37.2},
			Critical: &Range{Min: 35, Max: 42},
		},
		Precision: 1,
	}),
	TypeBloodGlucose: MustConfig(Config{
		Type:        TypeBloodGlucose,
		DefaultUnit: "mg/dL",
		Units: []Unit{
			{Symbol: "mg/dL", Label: "mg/dL", Conversion: Identity()},
			{Symbol: "mmol/L", Label: "mmol/L", Conversion: Linear(1 / glucoseMolarFactor), Precision: 2},
		},
		Ranges: &Ranges{
			Normal:   &Range{Min: 70, Max: 140},
			Critical: &Range{Min: 50, Max: 400},
		},
		Precision: 1,
	}),
	TypeOxygenSaturation: MustConfig(Config{
		Type:        TypeOxygenSaturation,
		DefaultUnit: "%",
		Units: []Unit{
			{Symbol: "%", Label: "SpO₂ %", Conversion: Identity()},
		},
		Ranges: &Ranges{
			Normal:   &Range{Min: 95, Max: 100},
			Critical: &Range{Min: 90, Max: 100},
		},
		Precision: 0,
	}),
}

// Builtin returns the configuration for a built-in type.
func Builtin(typ string) (Config, bool) {
	cfg, ok := builtin[typ]
	return cfg, ok
}

// Lookup returns the configuration for typ, falling back to the weight
// configuration for empty or unknown identifiers.
func Lookup(typ string) Config {
	if cfg, ok := builtin[typ]; ok {
		return cfg
	}
	return builtin[DefaultType]
}

// Types lists the built-in type identifiers in sorted order.
func Types() []string {
	out := make([]string, 0, len(builtin))
	for typ := range builtin {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}
