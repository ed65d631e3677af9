package create_exception

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateExceptionRequest HTTP request model.
// Без doctorId исключение действует на всю клинику (только администратор).
type CreateExceptionRequest struct {
	DoctorID  *int64  `json:"doctorId,omitempty"`
	DateFrom  string  `json:"dateFrom"`
	DateTo    string  `json:"dateTo"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Type      string  `json:"type"`
	Reason    *string `json:"reason,omitempty"`
}

func (r *CreateExceptionRequest) ToDomain(doctorID *int64, loc *time.Location) (*domain.ScheduleException, error) {
	from, err := handlers.ParseDate(r.DateFrom, loc)
	if err != nil {
		return nil, fmt.Errorf("dateFrom: %w", err)
	}
	to, err := handlers.ParseDate(r.DateTo, loc)
	if err != nil {
		return nil, fmt.Errorf("dateTo: %w", err)
	}

	e := &domain.ScheduleException{
		DoctorID: doctorID,
		DateFrom: from,
		DateTo:   to,
		Type:     domain.ExceptionType(r.Type),
		Reason:   r.Reason,
	}
	if r.StartTime != nil {
		st := types.TimeString(*r.StartTime)
		e.StartTime = &st
	}
	if r.EndTime != nil {
		et := types.TimeString(*r.EndTime)
		e.EndTime = &et
	}
	return e, nil
}
