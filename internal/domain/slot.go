package domain

import "time"

// SlotStatus статус слота
type SlotStatus string

const (
	SlotAvailable SlotStatus = "AVAILABLE"
	SlotBooked    SlotStatus = "BOOKED"
	SlotBlocked   SlotStatus = "BLOCKED"
)

// IsValid проверяет, что статус известен
func (s SlotStatus) IsValid() bool {
	switch s {
	case SlotAvailable, SlotBooked, SlotBlocked:
		return true
	}
	return false
}

// Slot конкретный интервал времени врача, который можно забронировать
type Slot struct {
	ID             int64
	DoctorID       int64
	AvailabilityID *int64
	ExceptionID    *int64
	StartAt        time.Time
	EndAt          time.Time
	Status         SlotStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SlotCandidate слот, ещё не сохранённый в хранилище
type SlotCandidate struct {
	DoctorID       int64
	AvailabilityID *int64
	ExceptionID    *int64
	StartAt        time.Time
	EndAt          time.Time
}

// SlotFilter фильтр списка слотов
type SlotFilter struct {
	DoctorID *int64
	From     *time.Time
	To       *time.Time
	Status   *SlotStatus
	// IncludeOrphans включает слоты, у которых удалены и окно, и исключение
	IncludeOrphans bool
}

// IsOrphan слот, источник которого (окно или исключение) удалён
func (s *Slot) IsOrphan() bool {
	return s.AvailabilityID == nil && s.ExceptionID == nil
}

// DurationMinutes длительность слота
func (s *Slot) DurationMinutes() int {
	return int(s.EndAt.Sub(s.StartAt).Minutes())
}

// Key ключ дедупликации слота
func (c SlotCandidate) Key() string {
	return c.StartAt.UTC().Format(time.RFC3339) + "|" + c.EndAt.UTC().Format(time.RFC3339)
}

// Key ключ дедупликации слота
func (s *Slot) Key() string {
	return SlotCandidate{StartAt: s.StartAt, EndAt: s.EndAt}.Key()
}
