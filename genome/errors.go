package genome

import "errors"

// ErrConfiguration is returned when a configuration value or a gene cannot
// produce a valid network (zero-size layers, out-of-range gene indices, ...).
var ErrConfiguration = errors.New("configuration error")
