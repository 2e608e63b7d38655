package series

import "codeberg.org/mutker/hwdash/internal/errors"

var errFactory = errors.New()

const (
	ErrUnknownSeries = errors.ErrorCode("series_unknown")
)
