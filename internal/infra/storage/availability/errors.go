package availability

import "errors"

var (
	ErrAvailabilityNotFound = errors.New("availability.repository: availability not found")
	ErrBuildQuery           = errors.New("availability.repository: failed to build query")
	ErrExecQuery            = errors.New("availability.repository: failed to execute query")
	ErrScanRow              = errors.New("availability.repository: failed to scan row")
)
