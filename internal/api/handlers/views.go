package handlers

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentResponse запись на приём
type AppointmentResponse struct {
	ID              int64      `json:"id"`
	PatientID       int64      `json:"patientId"`
	DoctorID        int64      `json:"doctorId"`
	AvailabilityID  *int64     `json:"availabilityId,omitempty"`
	SlotID          *int64     `json:"slotId,omitempty"`
	ScheduleID      *int64     `json:"scheduleId,omitempty"`
	StartAt         time.Time  `json:"startAt"`
	EndAt           time.Time  `json:"endAt"`
	Status          string     `json:"status"`
	Notes           *string    `json:"notes,omitempty"`
	PaymentStatus   *string    `json:"paymentStatus,omitempty"`
	PaymentIntentID *string    `json:"paymentIntentId,omitempty"`
	AmountCents     *int64     `json:"amountCents,omitempty"`
	Currency        *string    `json:"currency,omitempty"`
	QueueNumber     *int       `json:"queueNumber,omitempty"`
	ArchivedAt      *time.Time `json:"archivedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func NewAppointmentResponse(a *domain.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		ID:              a.ID,
		PatientID:       a.PatientID,
		DoctorID:        a.DoctorID,
		AvailabilityID:  a.AvailabilityID,
		SlotID:          a.SlotID,
		ScheduleID:      a.ScheduleID,
		StartAt:         a.StartAt,
		EndAt:           a.EndAt,
		Status:          a.Status.String(),
		Notes:           a.Notes,
		PaymentIntentID: a.PaymentIntentID,
		AmountCents:     a.AmountCents,
		Currency:        a.Currency,
		QueueNumber:     a.QueueNumber,
		ArchivedAt:      a.ArchivedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.PaymentStatus != domain.PaymentNone {
		ps := string(a.PaymentStatus)
		resp.PaymentStatus = &ps
	}
	return resp
}

func NewAppointmentListResponse(list []*domain.Appointment) []AppointmentResponse {
	result := make([]AppointmentResponse, 0, len(list))
	for _, a := range list {
		result = append(result, NewAppointmentResponse(a))
	}
	return result
}

// AvailabilityResponse окно доступности врача
type AvailabilityResponse struct {
	ID           int64      `json:"id"`
	DoctorID     int64      `json:"doctorId"`
	IsRecurring  bool       `json:"isRecurring"`
	DayOfWeek    *int       `json:"dayOfWeek,omitempty"`
	StartTime    string     `json:"startTime,omitempty"`
	EndTime      string     `json:"endTime,omitempty"`
	StartAt      *time.Time `json:"startAt,omitempty"`
	EndAt        *time.Time `json:"endAt,omitempty"`
	ValidFrom    *string    `json:"validFrom,omitempty"`
	ValidTo      *string    `json:"validTo,omitempty"`
	SlotsCreated *int       `json:"slotsCreated,omitempty"`
}

func NewAvailabilityResponse(a *domain.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		ID:          a.ID,
		DoctorID:    a.DoctorID,
		IsRecurring: a.IsRecurring,
		DayOfWeek:   a.DayOfWeek,
		StartTime:   a.StartTime.String(),
		EndTime:     a.EndTime.String(),
		StartAt:     a.StartAt,
		EndAt:       a.EndAt,
		ValidFrom:   formatDate(a.ValidFrom),
		ValidTo:     formatDate(a.ValidTo),
	}
}

// SlotResponse слот врача
type SlotResponse struct {
	ID                 int64     `json:"id"`
	DoctorID           int64     `json:"doctorId"`
	AvailabilityID     *int64    `json:"availabilityId,omitempty"`
	ExceptionID        *int64    `json:"exceptionId,omitempty"`
	StartAt            time.Time `json:"startAt"`
	EndAt              time.Time `json:"endAt"`
	Status             string    `json:"status"`
	Bookable           *bool     `json:"bookable,omitempty"`
	BlockedByException *bool     `json:"blockedByException,omitempty"`
}

func NewSlotResponse(s *domain.Slot) SlotResponse {
	return SlotResponse{
		ID:             s.ID,
		DoctorID:       s.DoctorID,
		AvailabilityID: s.AvailabilityID,
		ExceptionID:    s.ExceptionID,
		StartAt:        s.StartAt,
		EndAt:          s.EndAt,
		Status:         string(s.Status),
	}
}

// SlotTemplateResponse шаблон нарезки слотов
type SlotTemplateResponse struct {
	DoctorID           int64 `json:"doctorId"`
	DurationMinutes    int   `json:"durationMinutes"`
	BufferMinutes      int   `json:"bufferMinutes"`
	AdvanceBookingDays int   `json:"advanceBookingDays"`
}

func NewSlotTemplateResponse(t *domain.SlotTemplate) SlotTemplateResponse {
	return SlotTemplateResponse{
		DoctorID:           t.DoctorID,
		DurationMinutes:    t.DurationMinutes,
		BufferMinutes:      t.BufferMinutes,
		AdvanceBookingDays: t.AdvanceBookingDays,
	}
}

// ExceptionResponse исключение из расписания
type ExceptionResponse struct {
	ID           int64   `json:"id"`
	DoctorID     *int64  `json:"doctorId,omitempty"`
	DateFrom     string  `json:"dateFrom"`
	DateTo       string  `json:"dateTo"`
	StartTime    *string `json:"startTime,omitempty"`
	EndTime      *string `json:"endTime,omitempty"`
	Type         string  `json:"type"`
	Reason       *string `json:"reason,omitempty"`
	Days         int     `json:"days"`
	SlotsCreated *int    `json:"slotsCreated,omitempty"`
}

func NewExceptionResponse(e *domain.ScheduleException, days int) ExceptionResponse {
	return ExceptionResponse{
		ID:        e.ID,
		DoctorID:  e.DoctorID,
		DateFrom:  e.DateFrom.Format(domain.DateFormat),
		DateTo:    e.DateTo.Format(domain.DateFormat),
		StartTime: timeStringPtr(e.StartTime),
		EndTime:   timeStringPtr(e.EndTime),
		Type:      string(e.Type),
		Reason:    e.Reason,
		Days:      days,
	}
}

// ScheduleResponse окно приёма
type ScheduleResponse struct {
	ID          int64  `json:"id"`
	DoctorID    int64  `json:"doctorId"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	MaxPatients int    `json:"maxPatients"`
}

func NewScheduleResponse(s *domain.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:          s.ID,
		DoctorID:    s.DoctorID,
		Date:        s.Date.Format(domain.DateFormat),
		StartTime:   s.StartTime.String(),
		EndTime:     s.EndTime.String(),
		MaxPatients: s.MaxPatients,
	}
}

// AvailabilityWindowResponse окно приёма с загрузкой
type AvailabilityWindowResponse struct {
	ScheduleResponse
	ConfirmedCount int     `json:"confirmedCount"`
	Remaining      int     `json:"remaining"`
	IsBookable     bool    `json:"isBookable"`
	DisabledReason *string `json:"disabledReason,omitempty"`
}

func NewAvailabilityWindowResponse(w domain.AvailabilityWindow) AvailabilityWindowResponse {
	resp := AvailabilityWindowResponse{
		ScheduleResponse: NewScheduleResponse(w.Schedule),
		ConfirmedCount:   w.ConfirmedCount,
		Remaining:        w.Remaining,
		IsBookable:       w.IsBookable,
	}
	if w.DisabledReason != nil {
		reason := string(*w.DisabledReason)
		resp.DisabledReason = &reason
	}
	return resp
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateFormat)
	return &s
}

func timeStringPtr(t *types.TimeString) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
