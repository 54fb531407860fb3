package commute

import "github.com/rotisserie/eris"

// ErrInvalidConfiguration is returned before any record is processed when the
// detector configuration cannot produce meaningful results.
var ErrInvalidConfiguration = eris.New("commute: invalid configuration")
