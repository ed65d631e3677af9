// Package memstore хранилище в памяти с теми же контрактами и ошибками, что и репозитории PostgreSQL.
// Используется в тестах сервисов и сценариев.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type txKey struct{}

// Store общее состояние всех репозиториев.
// Транзакции выполняются строго по одной (txMu), при ошибке состояние откатывается к снимку.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   *state

	serializable int

	// Now время для полей created_at/updated_at и отметок напоминаний
	Now func() time.Time
}

type state struct {
	nextID         int64
	users          map[int64]domain.User
	doctors        map[int64]domain.Doctor
	templates      map[int64]domain.SlotTemplate
	availabilities map[int64]domain.Availability
	exceptions     map[int64]domain.ScheduleException
	slots          map[int64]domain.Slot
	schedules      map[int64]domain.Schedule
	appointments   map[int64]domain.Appointment
	reminders      map[int64]domain.Reminder // ключ - ID записи
}

func New() *Store {
	return &Store{
		st: &state{
			users:          make(map[int64]domain.User),
			doctors:        make(map[int64]domain.Doctor),
			templates:      make(map[int64]domain.SlotTemplate),
			availabilities: make(map[int64]domain.Availability),
			exceptions:     make(map[int64]domain.ScheduleException),
			slots:          make(map[int64]domain.Slot),
			schedules:      make(map[int64]domain.Schedule),
			appointments:   make(map[int64]domain.Appointment),
			reminders:      make(map[int64]domain.Reminder),
		},
		Now: time.Now,
	}
}

func (s *state) clone() *state {
	c := &state{
		nextID:         s.nextID,
		users:          make(map[int64]domain.User, len(s.users)),
		doctors:        make(map[int64]domain.Doctor, len(s.doctors)),
		templates:      make(map[int64]domain.SlotTemplate, len(s.templates)),
		availabilities: make(map[int64]domain.Availability, len(s.availabilities)),
		exceptions:     make(map[int64]domain.ScheduleException, len(s.exceptions)),
		slots:          make(map[int64]domain.Slot, len(s.slots)),
		schedules:      make(map[int64]domain.Schedule, len(s.schedules)),
		appointments:   make(map[int64]domain.Appointment, len(s.appointments)),
		reminders:      make(map[int64]domain.Reminder, len(s.reminders)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.doctors {
		c.doctors[k] = v
	}
	for k, v := range s.templates {
		c.templates[k] = v
	}
	for k, v := range s.availabilities {
		c.availabilities[k] = v
	}
	for k, v := range s.exceptions {
		c.exceptions[k] = v
	}
	for k, v := range s.slots {
		c.slots[k] = v
	}
	for k, v := range s.schedules {
		c.schedules[k] = v
	}
	for k, v := range s.appointments {
		c.appointments[k] = v
	}
	for k, v := range s.reminders {
		c.reminders[k] = v
	}
	return c
}

func (s *Store) id() int64 {
	s.st.nextID++
	return s.st.nextID
}

// Do выполняет fn в транзакции. Вложенный вызов использует внешнюю транзакцию.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// DoSerializable как Do, дополнительно считает вызовы
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	s.serializable++
	s.mu.Unlock()
	return s.Do(ctx, fn)
}

// SerializableRuns число вызовов DoSerializable
func (s *Store) SerializableRuns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serializable
}

// AddUser добавляет пользователя
func (s *Store) AddUser(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.st.users[u.ID] = u
	return u
}

// AddDoctor добавляет врача
func (s *Store) AddDoctor(d domain.Doctor) domain.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == 0 {
		d.ID = s.id()
	}
	s.st.doctors[d.ID] = d
	return d
}

// AddSlot добавляет слот
func (s *Store) AddSlot(sl domain.Slot) domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl.ID == 0 {
		sl.ID = s.id()
	}
	if sl.Status == "" {
		sl.Status = domain.SlotAvailable
	}
	s.st.slots[sl.ID] = sl
	return sl
}

// AddAppointment добавляет запись в обход проверок
func (s *Store) AddAppointment(a domain.Appointment) domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.id()
	}
	s.st.appointments[a.ID] = a
	return a
}

// AddSchedule добавляет окно приёма
func (s *Store) AddSchedule(sc domain.Schedule) domain.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc.ID == 0 {
		sc.ID = s.id()
	}
	s.st.schedules[sc.ID] = sc
	return sc
}

// AddAvailability добавляет окно доступности
func (s *Store) AddAvailability(a domain.Availability) domain.Availability {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.id()
	}
	s.st.availabilities[a.ID] = a
	return a
}

// AddException добавляет исключение из расписания
func (s *Store) AddException(e domain.ScheduleException) domain.ScheduleException {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.id()
	}
	s.st.exceptions[e.ID] = e
	return e
}

// Slot текущее состояние слота
func (s *Store) Slot(id int64) (domain.Slot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.st.slots[id]
	return sl, ok
}

// Appointment текущее состояние записи
func (s *Store) Appointment(id int64) (domain.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.st.appointments[id]
	return a, ok
}

// Appointments все записи
func (s *Store) Appointments() []domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]domain.Appointment, 0, len(s.st.appointments))
	for _, a := range s.st.appointments {
		result = append(result, a)
	}
	return result
}

// SlotsOf все слоты врача
func (s *Store) SlotsOf(doctorID int64) []domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]domain.Slot, 0)
	for _, sl := range s.st.slots {
		if sl.DoctorID == doctorID {
			result = append(result, sl)
		}
	}
	return result
}

// Reminder напоминание записи
func (s *Store) Reminder(appointmentID int64) (domain.Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.st.reminders[appointmentID]
	return r, ok
}

// Template шаблон слотов врача
func (s *Store) Template(doctorID int64) (domain.SlotTemplate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.st.templates[doctorID]
	return t, ok
}
