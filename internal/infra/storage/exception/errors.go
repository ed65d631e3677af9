package exception

import "errors"

var (
	ErrExceptionNotFound = errors.New("exception.repository: schedule exception not found")
	ErrBuildQuery        = errors.New("exception.repository: failed to build query")
	ErrExecQuery         = errors.New("exception.repository: failed to execute query")
	ErrScanRow           = errors.New("exception.repository: failed to scan row")
)
