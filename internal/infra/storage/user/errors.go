package user

import "errors"

var (
	ErrUserNotFound   = errors.New("user.repository: user not found")
	ErrDoctorNotFound = errors.New("user.repository: doctor not found")
	ErrBuildQuery     = errors.New("user.repository: failed to build query")
	ErrScanRow        = errors.New("user.repository: failed to scan row")
)
