package measurement

import "math"

type conversionKind uint8

const (
	conversionIdentity conversionKind = iota
	conversionLinear
	conversionNonLinear
)

// Conversion describes how a unit relates to its measurement's base unit. The
// zero value is the identity conversion.
type Conversion struct {
	kind    conversionKind
	factor  float64
	forward func(float64) float64
	inverse func(float64) float64
}

// Identity marks the base unit.
func Identity() Conversion {
	return Conversion{kind: conversionIdentity}
}

// Linear describes a unit reached by multiplying the base value by factor.
func Linear(factor float64) Conversion {
	return Conversion{kind: conversionLinear, factor: factor}
}

// NonLinear describes a unit reached through forward (base -> unit). inverse
// maps the unit back to the base value and is required by NewConfig.
func NonLinear(forward, inverse func(float64) float64) Conversion {
	return Conversion{kind: conversionNonLinear, forward: forward, inverse: inverse}
}

// IsLinear reports whether the conversion is a plain scale factor (identity
// included).
func (c Conversion) IsLinear() bool {
	return c.kind != conversionNonLinear
}

// Factor returns the linear scale factor, 1 for identity and 0 for non-linear
// conversions.
func (c Conversion) Factor() float64 {
	switch c.kind {
	case conversionIdentity:
		return 1
	case conversionLinear:
		return c.factor
	default:
		return 0
	}
}

// ToBase normalises a magnitude expressed in this unit. Missing inverse
// functions and unusable factors degrade to identity.
func (c Conversion) ToBase(value float64) float64 {
	switch c.kind {
	case conversionLinear:
		if !usableFactor(c.factor) {
			return value
		}
		return value / c.factor
	case conversionNonLinear:
		if c.inverse == nil {
			return value
		}
		return c.inverse(value)
	default:
		return value
	}
}

// FromBase expresses a base magnitude in this unit.
func (c Conversion) FromBase(value float64) float64 {
	switch c.kind {
	case conversionLinear:
		if !usableFactor(c.factor) {
			return value
		}
		return value * c.factor
	case conversionNonLinear:
		if c.forward == nil {
			return value
		}
		return c.forward(value)
	default:
		return value
	}
}

func usableFactor(factor float64) bool {
	return factor != 0 && !math.IsNaN(factor) && !math.IsInf(factor, 0)
}
