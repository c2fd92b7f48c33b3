package summary

import "errors"

// ErrSectionSkipped marks a section that cannot run against this dataset;
// the aggregator records a warning and moves on to the next section
var ErrSectionSkipped = errors.New("section skipped")
