package source

import "codeberg.org/mutker/hwdash/internal/errors"

var errFactory = errors.New()

const (
	ErrNoCPUs = errors.ErrorCode("source_no_cpus")
)
