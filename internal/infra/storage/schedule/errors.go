package schedule

import "errors"

var (
	ErrScheduleNotFound = errors.New("schedule.repository: schedule not found")

	// ErrScheduleExists нарушение уникальности (doctor_id, date, start_time, end_time)
	ErrScheduleExists = errors.New("schedule.repository: schedule already exists")

	ErrBuildQuery = errors.New("schedule.repository: failed to build query")
	ErrExecQuery  = errors.New("schedule.repository: failed to execute query")
	ErrScanRow    = errors.New("schedule.repository: failed to scan row")
)
