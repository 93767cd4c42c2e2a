package measurement

import "errors"

// ErrInvalidConfig is wrapped by every error NewConfig returns.
var ErrInvalidConfig = errors.New("measurement: invalid config")
