package filter

import "fmt"

// Diagnostics collects recoverable warnings raised while parsing and
// applying filters, so callers decide how to surface them
type Diagnostics struct {
	Warnings []string
}

// Warnf records one warning
func (d *Diagnostics) Warnf(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}
