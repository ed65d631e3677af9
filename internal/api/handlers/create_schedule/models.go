package create_schedule

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateScheduleRequest HTTP request model
type CreateScheduleRequest struct {
	DoctorID    *int64 `json:"doctorId,omitempty"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	MaxPatients int    `json:"maxPatients"`
}

func (r *CreateScheduleRequest) ToDomain(doctorID int64, loc *time.Location) (*domain.Schedule, error) {
	date, err := handlers.ParseDate(r.Date, loc)
	if err != nil {
		return nil, err
	}
	return &domain.Schedule{
		DoctorID:    doctorID,
		Date:        date,
		StartTime:   types.TimeString(r.StartTime),
		EndTime:     types.TimeString(r.EndTime),
		MaxPatients: r.MaxPatients,
	}, nil
}
