package measurement

import (
	"fmt"
	"math"
	"strings"
)

// Unit is one selectable unit of a measurement type.
type Unit struct {
	Symbol     string
	Label      string
	Conversion Conversion
	// Precision raises the number of decimals kept for values in this unit.
	// Values are rounded to the larger of it and Config.Precision.
	Precision int
}

// Range is an inclusive interval expressed in the base unit.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether value lies inside the interval.
func (r Range) Contains(value float64) bool {
	return value >= r.Min && value <= r.Max
}

// Ranges groups the clinical thresholds of a measurement type. Either bound
// may be nil.
type Ranges struct {
	Normal   *Range `json:"normal,omitempty"`
	Critical *Range `json:"critical,omitempty"`
}

// Config is the static description of one measurement type. Ranges are
// always expressed in DefaultUnit.
type Config struct {
	Type        string
	DefaultUnit string
	Units       []Unit
	Ranges      *Ranges
	Precision   int
}

// NewConfig validates cfg and returns it. Configurations built as literals
// skip these checks; the conversion helpers still degrade gracefully for them.
func NewConfig(cfg Config) (Config, error) {
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustConfig mirrors NewConfig but panics, simplifying built-in tables.
func MustConfig(cfg Config) Config {
	out, err := NewConfig(cfg)
	if err != nil {
		panic(err)
	}
	return out
}

// Validate checks the invariants the converter and classifier rely on.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Type) == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.DefaultUnit) == "" {
		return fmt.Errorf("%w: %s: default unit is required", ErrInvalidConfig, c.Type)
	}
	if c.Precision < 0 {
		return fmt.Errorf("%w: %s: precision must not be negative", ErrInvalidConfig, c.Type)
	}

	seen := make(map[string]struct{}, len(c.Units))
	base := 0
	for _, unit := range c.Units {
		symbol := unit.Symbol
		if strings.TrimSpace(symbol) == "" {
			return fmt.Errorf("%w: %s: unit symbol is required", ErrInvalidConfig, c.Type)
		}
		if _, exists := seen[symbol]; exists {
			return fmt.Errorf("%w: %s: duplicate unit %q", ErrInvalidConfig, c.Type, symbol)
		}
		seen[symbol] = struct{}{}
		if unit.Precision < 0 {
			return fmt.Errorf("%w: %s: unit %q precision must not be negative", ErrInvalidConfig, c.Type, symbol)
		}

		conv := unit.Conversion
		switch conv.kind {
		case conversionLinear:
			if !usableFactor(conv.factor) {
				return fmt.Errorf("%w: %s: unit %q has unusable factor %v", ErrInvalidConfig, c.Type, symbol, conv.factor)
			}
		case conversionNonLinear:
			if conv.forward == nil || conv.inverse == nil {
				return fmt.Errorf("%w: %s: non-linear unit %q needs forward and inverse functions", ErrInvalidConfig, c.Type, symbol)
			}
		}

		if symbol == c.DefaultUnit {
			base++
			if conv.kind == conversionNonLinear || conv.Factor() != 1 {
				return fmt.Errorf("%w: %s: base unit %q must use the identity conversion", ErrInvalidConfig, c.Type, symbol)
			}
		}
	}
	if base != 1 {
		return fmt.Errorf("%w: %s: default unit %q must appear exactly once in units", ErrInvalidConfig, c.Type, c.DefaultUnit)
	}

	if c.Ranges != nil {
		if err := validateRange(c.Type, "normal", c.Ranges.Normal); err != nil {
			return err
		}
		if err := validateRange(c.Type, "critical", c.Ranges.Critical); err != nil {
			return err
		}
		if n, cr := c.Ranges.Normal, c.Ranges.Critical; n != nil && cr != nil {
			if n.Min < cr.Min || n.Max > cr.Max {
				return fmt.Errorf("%w: %s: normal range must lie inside the critical range", ErrInvalidConfig, c.Type)
			}
		}
	}
	return nil
}

func validateRange(typ, name string, r *Range) error {
	if r == nil {
		return nil
	}
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Min > r.Max {
		return fmt.Errorf("%w: %s: %s range [%v, %v] is not ordered", ErrInvalidConfig, typ, name, r.Min, r.Max)
	}
	return nil
}

// Unit looks up a unit by symbol.
func (c Config) Unit(symbol string) (Unit, bool) {
	for _, unit := range c.Units {
		if unit.Symbol == symbol {
			return unit, true
		}
	}
	return Unit{}, false
}

// HasUnit reports whether symbol is one of the configured units.
func (c Config) HasUnit(symbol string) bool {
	_, ok := c.Unit(symbol)
	return ok
}

// Symbols returns the unit symbols in declaration order.
func (c Config) Symbols() []string {
	out := make([]string, 0, len(c.Units))
	for _, unit := range c.Units {
		out = append(out, unit.Symbol)
	}
	return out
}

// Label returns the display label for symbol, falling back to the symbol.
func (c Config) Label(symbol string) string {
	if unit, ok := c.Unit(symbol); ok && unit.Label != "" {
		return unit.Label
	}
	return symbol
}

// Round rounds value to the configured precision.
func (c Config) Round(value float64) float64 {
	return round(value, c.Precision)
}

// UnitPrecision returns the number of decimals kept for values in symbol.
// Unknown symbols use Config.Precision.
func (c Config) UnitPrecision(symbol string) int {
	if unit, ok := c.Unit(symbol); ok && unit.Precision > c.Precision {
		return unit.Precision
	}
	return c.Precision
}

// RoundIn rounds value, expressed in symbol, to that unit's precision.
func (c Config) RoundIn(value float64, symbol string) float64 {
	return round(value, c.UnitPrecision(symbol))
}

func round(value float64, precision int) float64 {
	if precision < 0 {
		precision = 0
	}
	scale := math.Pow(10, float64(precision))
	return math.Round(value*scale) / scale
}
