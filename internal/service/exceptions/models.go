package exceptions

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// Result исключение с длиной в днях
type Result struct {
	Exception    *domain.ScheduleException
	Days         int
	SlotsCreated int
}

func newResult(e *domain.ScheduleException, slots int) *Result {
	return &Result{Exception: e, Days: e.Days(), SlotsCreated: slots}
}
