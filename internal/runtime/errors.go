package runtime

import "errors"

// ErrSessionLimit is returned when every session slot is in use.
var ErrSessionLimit = errors.New("runtime: open session limit reached")
