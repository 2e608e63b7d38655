package telemetry

import "codeberg.org/mutker/hwdash/internal/errors"

var errFactory = errors.New()

const (
	// Collection Errors
	ErrMetricUnavailable  = errors.ErrorCode("telemetry_metric_unavailable")
	ErrAdapterUnreachable = errors.ErrorCode("telemetry_adapter_unreachable")
	ErrInvalidSnapshot    = errors.ErrorCode("telemetry_invalid_snapshot")
)
