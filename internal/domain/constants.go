package domain

import "time"

// Значения шаблона слотов по умолчанию
const (
	DefaultSlotDurationMinutes = 30
	DefaultBufferMinutes       = 0
	DefaultAdvanceBookingDays  = 30
)

// Ограничения бизнес-валидации
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 часов
	MinBufferMinutes       = 0
	MaxBufferMinutes       = 240
	MinAdvanceBookingDays  = 1
	MaxAdvanceBookingDays  = 365

	// MaxGenerationDays жёсткий предел обхода дат генератором слотов
	MaxGenerationDays = 366

	MinAppointmentMinutes = 15
	MaxAppointmentMinutes = 24 * 60

	MinMaxPatients = 1

	MaxNotesLength              = 1000
	MaxCancellationReasonLength = 500
)

// Напоминания
const (
	ReminderLeadLong  = 24 * time.Hour
	ReminderLeadShort = time.Hour
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveAppointmentStatuses статусы, удерживающие слот или время врача
var ActiveAppointmentStatuses = []AppointmentStatus{
	StatusPending,
	StatusPendingPayment,
	StatusConfirmed,
	StatusBooked,
}

// NonCancelledAppointmentStatuses все статусы, кроме CANCELLED
var NonCancelledAppointmentStatuses = []AppointmentStatus{
	StatusPending,
	StatusPendingPayment,
	StatusConfirmed,
	StatusBooked,
	StatusCompleted,
	StatusNoShow,
}

// TerminalAppointmentStatuses статусы без исходящих переходов
var TerminalAppointmentStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}
