package filter

import "errors"

// ErrInvalidParam marks parameter values that fail to parse, such as a
// non-numeric Min or an unknown category key. These indicate a caller
// mistake and abort the run.
var ErrInvalidParam = errors.New("invalid parameter value")
