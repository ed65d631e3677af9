package handlers

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AvailabilityRequest тело создания и изменения окна доступности
type AvailabilityRequest struct {
	DoctorID    *int64     `json:"doctorId,omitempty"`
	IsRecurring bool       `json:"isRecurring"`
	DayOfWeek   *int       `json:"dayOfWeek,omitempty"`
	StartTime   string     `json:"startTime,omitempty"`
	EndTime     string     `json:"endTime,omitempty"`
	StartAt     *time.Time `json:"startAt,omitempty"`
	EndAt       *time.Time `json:"endAt,omitempty"`
	ValidFrom   *string    `json:"validFrom,omitempty"`
	ValidTo     *string    `json:"validTo,omitempty"`
}

// ToDomain собирает окно. Формат времени суток проверяет domain.Availability.Validate.
func (r *AvailabilityRequest) ToDomain(doctorID int64, loc *time.Location) (*domain.Availability, error) {
	a := &domain.Availability{
		DoctorID:    doctorID,
		IsRecurring: r.IsRecurring,
		DayOfWeek:   r.DayOfWeek,
		StartTime:   types.TimeString(r.StartTime),
		EndTime:     types.TimeString(r.EndTime),
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
	}

	var err error
	if a.ValidFrom, err = parseOptionalDate(r.ValidFrom, loc); err != nil {
		return nil, fmt.Errorf("validFrom: %w", err)
	}
	if a.ValidTo, err = parseOptionalDate(r.ValidTo, loc); err != nil {
		return nil, fmt.Errorf("validTo: %w", err)
	}
	return a, nil
}

// ResolveDoctorID врач из тела запроса, для врача по умолчанию - он сам
func ResolveDoctorID(actor domain.Actor, requested *int64) (int64, bool) {
	if requested != nil {
		return *requested, *requested > 0
	}
	if actor.DoctorID != nil {
		return *actor.DoctorID, true
	}
	return 0, false
}

func parseOptionalDate(raw *string, loc *time.Location) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := ParseDate(*raw, loc)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
