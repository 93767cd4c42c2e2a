package measurement

// Status is the clinical classification of a reading. It is derived on demand
// and never stored.
type Status string

const (
	StatusNone     Status = "none"
	StatusNormal   Status = "normal"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Alerting reports whether the status warrants an inline alert.
func (s Status) Alerting() bool {
	return s == StatusWarning || s == StatusCritical
}

// Classify maps a reading onto a Status. Readings outside the critical range
// are critical even when they are also outside the normal range.
func Classify(magnitude *float64, unit string, cfg Config) Status {
	if magnitude == nil || cfg.Ranges == nil {
		return StatusNone
	}
	base := ToBase(*magnitude, unit, cfg)

	if critical := cfg.Ranges.Critical; critical != nil && !critical.Contains(base) {
		return StatusCritical
	}
	if normal := cfg.Ranges.Normal; normal != nil && !normal.Contains(base) {
		return StatusWarning
	}
	return StatusNormal
}

// ClassifyValue is Classify applied to a Value.
func ClassifyValue(v Value, cfg Config) Status {
	return Classify(v.Magnitude, v.Unit, cfg)
}
