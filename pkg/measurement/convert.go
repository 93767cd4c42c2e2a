package measurement

// Convert expresses magnitude, given in unit from, in unit to. Unknown units
// leave the magnitude untouched; the result is rounded to the precision of
// unit to.
func Convert(magnitude float64, from, to string, cfg Config) float64 {
	if from == to {
		return magnitude
	}
	source, ok := cfg.Unit(from)
	if !ok {
		return magnitude
	}
	target, ok := cfg.Unit(to)
	if !ok {
		return magnitude
	}

	base := source.Conversion.ToBase(magnitude)
	return cfg.RoundIn(target.Conversion.FromBase(base), to)
}

// ToBase normalises magnitude from unit into cfg.DefaultUnit without rounding.
// Units missing from the table are assumed to already be the base unit.
func ToBase(magnitude float64, unit string, cfg Config) float64 {
	if unit == cfg.DefaultUnit {
		return magnitude
	}
	descriptor, ok := cfg.Unit(unit)
	if !ok {
		return magnitude
	}
	return descriptor.Conversion.ToBase(magnitude)
}
