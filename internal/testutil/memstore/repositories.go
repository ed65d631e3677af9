package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/availability"
	exceptionRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/exception"
	reminderRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/reminder"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	templateRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slottemplate"
	userRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/user"
)

// ---------- Пользователи ----------

type UserRepository struct{ s *Store }

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (r *UserRepository) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetDoctorByID(_ context.Context, id int64) (*domain.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.st.doctors[id]
	if !ok {
		return nil, userRepo.ErrDoctorNotFound
	}
	return &d, nil
}

func (r *UserRepository) LockDoctor(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.doctors[id]; !ok {
		return userRepo.ErrDoctorNotFound
	}
	return nil
}

// ---------- Шаблоны слотов ----------

type TemplateRepository struct{ s *Store }

func (s *Store) Templates() *TemplateRepository { return &TemplateRepository{s: s} }

func (r *TemplateRepository) GetByDoctorID(_ context.Context, doctorID int64) (*domain.SlotTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.st.templates[doctorID]
	if !ok {
		return nil, templateRepo.ErrTemplateNotFound
	}
	return &t, nil
}

func (r *TemplateRepository) Upsert(_ context.Context, t *domain.SlotTemplate) (*domain.SlotTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.Now()
	saved := *t
	if existing, ok := r.s.st.templates[t.DoctorID]; ok {
		saved.CreatedAt = existing.CreatedAt
	} else {
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now
	r.s.st.templates[t.DoctorID] = saved
	return &saved, nil
}

func (r *TemplateRepository) CreateIfMissing(_ context.Context, t *domain.SlotTemplate) (*domain.SlotTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.st.templates[t.DoctorID]; ok {
		return &existing, nil
	}
	saved := *t
	saved.CreatedAt = r.s.Now()
	saved.UpdatedAt = saved.CreatedAt
	r.s.st.templates[t.DoctorID] = saved
	return &saved, nil
}

// ---------- Окна доступности ----------

type AvailabilityRepository struct{ s *Store }

func (s *Store) Availabilities() *AvailabilityRepository { return &AvailabilityRepository{s: s} }

func (r *AvailabilityRepository) Create(_ context.Context, a *domain.Availability) (*domain.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.ID = r.s.id()
	a.CreatedAt = r.s.Now()
	a.UpdatedAt = a.CreatedAt
	r.s.st.availabilities[a.ID] = *a
	return a, nil
}

func (r *AvailabilityRepository) GetByID(_ context.Context, id int64) (*domain.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.st.availabilities[id]
	if !ok {
		return nil, availabilityRepo.ErrAvailabilityNotFound
	}
	return &a, nil
}

func (r *AvailabilityRepository) ListByDoctor(_ context.Context, doctorID int64) ([]*domain.Availability, error) {
	return r.filter(func(a domain.Availability) bool { return a.DoctorID == doctorID }), nil
}

func (r *AvailabilityRepository) ListActiveRecurring(_ context.Context, today time.Time) ([]*domain.Availability, error) {
	return r.filter(func(a domain.Availability) bool {
		return a.IsRecurring && (a.ValidTo == nil || !a.ValidTo.Before(today))
	}), nil
}

func (r *AvailabilityRepository) filter(match func(domain.Availability) bool) []*domain.Availability {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*domain.Availability, 0)
	for _, a := range r.s.st.availabilities {
		if match(a) {
			a := a
			result = append(result, &a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *AvailabilityRepository) Update(_ context.Context, a *domain.Availability) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.availabilities[a.ID]; !ok {
		return availabilityRepo.ErrAvailabilityNotFound
	}
	a.UpdatedAt = r.s.Now()
	r.s.st.availabilities[a.ID] = *a
	return nil
}

func (r *AvailabilityRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.availabilities[id]; !ok {
		return availabilityRepo.ErrAvailabilityNotFound
	}
	delete(r.s.st.availabilities, id)
	for sid, sl := range r.s.st.slots {
		if sl.AvailabilityID != nil && *sl.AvailabilityID == id {
			sl.AvailabilityID = nil
			r.s.st.slots[sid] = sl
		}
	}
	for aid, ap := range r.s.st.appointments {
		if ap.AvailabilityID != nil && *ap.AvailabilityID == id {
			ap.AvailabilityID = nil
			r.s.st.appointments[aid] = ap
		}
	}
	return nil
}

// ---------- Исключения ----------

type ExceptionRepository struct{ s *Store }

func (s *Store) Exceptions() *ExceptionRepository { return &ExceptionRepository{s: s} }

func (r *ExceptionRepository) Create(_ context.Context, e *domain.ScheduleException) (*domain.ScheduleException, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	e.CreatedAt = r.s.Now()
	e.UpdatedAt = e.CreatedAt
	r.s.st.exceptions[e.ID] = *e
	return e, nil
}

func (r *ExceptionRepository) GetByID(_ context.Context, id int64) (*domain.ScheduleException, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.st.exceptions[id]
	if !ok {
		return nil, exceptionRepo.ErrExceptionNotFound
	}
	return &e, nil
}

func (r *ExceptionRepository) List(_ context.Context, f domain.ExceptionFilter) ([]*domain.ScheduleException, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*domain.ScheduleException, 0)
	for _, e := range r.s.st.exceptions {
		if f.DoctorID != nil {
			own := e.DoctorID != nil && *e.DoctorID == *f.DoctorID
			if !own && !(f.IncludeGlobal && e.DoctorID == nil) {
				continue
			}
		}
		if f.From != nil && e.DateTo.Format(domain.DateFormat) < f.From.Format(domain.DateFormat) {
			continue
		}
		if f.To != nil && e.DateFrom.Format(domain.DateFormat) > f.To.Format(domain.DateFormat) {
			continue
		}
		if f.Type != nil && e.Type != *f.Type {
			continue
		}
		e := e
		result = append(result, &e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *ExceptionRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.exceptions[id]; !ok {
		return exceptionRepo.ErrExceptionNotFound
	}
	delete(r.s.st.exceptions, id)
	for sid, sl := range r.s.st.slots {
		if sl.ExceptionID != nil && *sl.ExceptionID == id {
			sl.ExceptionID = nil
			r.s.st.slots[sid] = sl
		}
	}
	return nil
}

// ---------- Слоты ----------

type SlotRepository struct{ s *Store }

func (s *Store) Slots() *SlotRepository { return &SlotRepository{s: s} }

func (r *SlotRepository) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sl, ok := r.s.st.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return &sl, nil
}

func (r *SlotRepository) List(_ context.Context, f domain.SlotFilter) ([]*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*domain.Slot, 0)
	for _, sl := range r.s.st.slots {
		if f.DoctorID != nil && sl.DoctorID != *f.DoctorID {
			continue
		}
		if f.From != nil && sl.StartAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !sl.StartAt.Before(*f.To) {
			continue
		}
		if f.Status != nil && sl.Status != *f.Status {
			continue
		}
		if !f.IncludeOrphans && sl.IsOrphan() {
			continue
		}
		sl := sl
		result = append(result, &sl)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartAt.Before(result[j].StartAt) })
	return result, nil
}

func (r *SlotRepository) BulkCreate(_ context.Context, candidates []domain.SlotCandidate) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var created int64
	for _, c := range candidates {
		if r.exists(c) {
			continue
		}
		id := r.s.id()
		r.s.st.slots[id] = domain.Slot{
			ID:             id,
			DoctorID:       c.DoctorID,
			AvailabilityID: c.AvailabilityID,
			ExceptionID:    c.ExceptionID,
			StartAt:        c.StartAt,
			EndAt:          c.EndAt,
			Status:         domain.SlotAvailable,
			CreatedAt:      r.s.Now(),
			UpdatedAt:      r.s.Now(),
		}
		created++
	}
	return created, nil
}

func (r *SlotRepository) exists(c domain.SlotCandidate) bool {
	for _, sl := range r.s.st.slots {
		if sl.DoctorID == c.DoctorID && sl.StartAt.Equal(c.StartAt) && sl.EndAt.Equal(c.EndAt) {
			return true
		}
	}
	return false
}

func (r *SlotRepository) UpdateStatus(_ context.Context, id int64, status domain.SlotStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sl, ok := r.s.st.slots[id]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	sl.Status = status
	sl.UpdatedAt = r.s.Now()
	r.s.st.slots[id] = sl
	return nil
}

func (r *SlotRepository) DeleteUnbookedByAvailability(_ context.Context, availabilityID int64, from *time.Time) (int64, error) {
	return r.deleteUnbooked(func(sl domain.Slot) bool {
		if sl.AvailabilityID == nil || *sl.AvailabilityID != availabilityID {
			return false
		}
		return from == nil || !sl.StartAt.Before(*from)
	}), nil
}

func (r *SlotRepository) DeleteUnbookedByException(_ context.Context, exceptionID int64) (int64, error) {
	return r.deleteUnbooked(func(sl domain.Slot) bool {
		return sl.ExceptionID != nil && *sl.ExceptionID == exceptionID
	}), nil
}

func (r *SlotRepository) deleteUnbooked(match func(domain.Slot) bool) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, sl := range r.s.st.slots {
		if sl.Status != domain.SlotBooked && match(sl) {
			delete(r.s.st.slots, id)
			n++
		}
	}
	return n
}

// ---------- Окна приёма ----------

type ScheduleRepository struct{ s *Store }

func (s *Store) Schedules() *ScheduleRepository { return &ScheduleRepository{s: s} }

func (r *ScheduleRepository) Create(_ context.Context, sc *domain.Schedule) (*domain.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.schedules {
		if existing.SameWindow(sc) {
			return nil, scheduleRepo.ErrScheduleExists
		}
	}
	sc.ID = r.s.id()
	sc.CreatedAt = r.s.Now()
	sc.UpdatedAt = sc.CreatedAt
	r.s.st.schedules[sc.ID] = *sc
	return sc, nil
}

func (r *ScheduleRepository) GetByID(_ context.Context, id int64) (*domain.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sc, ok := r.s.st.schedules[id]
	if !ok {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	return &sc, nil
}

func (r *ScheduleRepository) ListByDoctorAndDate(_ context.Context, doctorID int64, date time.Time) ([]*domain.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	day := date.Format(domain.DateFormat)
	result := make([]*domain.Schedule, 0)
	for _, sc := range r.s.st.schedules {
		if sc.DoctorID == doctorID && sc.Date.Format(domain.DateFormat) == day {
			sc := sc
			result = append(result, &sc)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

func (r *ScheduleRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.schedules[id]; !ok {
		return scheduleRepo.ErrScheduleNotFound
	}
	delete(r.s.st.schedules, id)
	for aid, ap := range r.s.st.appointments {
		if ap.ScheduleID != nil && *ap.ScheduleID == id {
			ap.ScheduleID = nil
			r.s.st.appointments[aid] = ap
		}
	}
	return nil
}

// ---------- Записи ----------

type AppointmentRepository struct{ s *Store }

func (s *Store) AppointmentsRepo() *AppointmentRepository { return &AppointmentRepository{s: s} }

func (r *AppointmentRepository) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.slotTaken(a, 0) {
		return nil, appointmentRepo.ErrSlotAlreadyTaken
	}
	a.ID = r.s.id()
	a.CreatedAt = r.s.Now()
	a.UpdatedAt = a.CreatedAt
	r.s.st.appointments[a.ID] = *a
	return a, nil
}

func (r *AppointmentRepository) slotTaken(a *domain.Appointment, selfID int64) bool {
	if a.SlotID == nil || a.Status.IsTerminal() {
		return false
	}
	for _, other := range r.s.st.appointments {
		if other.ID == selfID || other.SlotID == nil || other.Status.IsTerminal() {
			continue
		}
		if *other.SlotID == *a.SlotID {
			return true
		}
	}
	return false
}

func (r *AppointmentRepository) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.st.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *AppointmentRepository) GetByPaymentIntentID(_ context.Context, intentID string) (*domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.st.appointments {
		if a.PaymentIntentID != nil && *a.PaymentIntentID == intentID {
			a := a
			return &a, nil
		}
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (r *AppointmentRepository) List(_ context.Context, f domain.AppointmentFilter) ([]*domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*domain.Appointment, 0)
	for _, a := range r.s.st.appointments {
		if f.PatientID != nil && a.PatientID != *f.PatientID {
			continue
		}
		if f.DoctorID != nil && a.DoctorID != *f.DoctorID {
			continue
		}
		if len(f.Statuses) > 0 && !hasStatus(f.Statuses, a.Status) {
			continue
		}
		if f.From != nil && a.StartAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !a.StartAt.Before(*f.To) {
			continue
		}
		if !f.IncludeArchived && a.ArchivedAt != nil {
			continue
		}
		a := a
		result = append(result, &a)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartAt.Equal(result[j].StartAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].StartAt.Before(result[j].StartAt)
	})
	if f.Offset > 0 {
		if f.Offset >= uint64(len(result)) {
			return []*domain.Appointment{}, nil
		}
		result = result[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < uint64(len(result)) {
		result = result[:f.Limit]
	}
	return result, nil
}

func (r *AppointmentRepository) HasOverlapping(_ context.Context, doctorID int64, start, end time.Time, excludeID *int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.st.appointments {
		if a.DoctorID != doctorID || a.Status == domain.StatusCancelled {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.StartAt.Before(end) && a.EndAt.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *AppointmentRepository) CountBySchedule(_ context.Context, scheduleID int64, statuses []domain.AppointmentStatus) (int, error) {
	return r.count(func(a domain.Appointment) bool {
		return a.ScheduleID != nil && *a.ScheduleID == scheduleID && hasStatus(statuses, a.Status)
	}), nil
}

func (r *AppointmentRepository) CountByAvailability(_ context.Context, availabilityID int64, statuses []domain.AppointmentStatus) (int, error) {
	return r.count(func(a domain.Appointment) bool {
		return a.AvailabilityID != nil && *a.AvailabilityID == availabilityID && hasStatus(statuses, a.Status)
	}), nil
}

func (r *AppointmentRepository) count(match func(domain.Appointment) bool) int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, a := range r.s.st.appointments {
		if match(a) {
			n++
		}
	}
	return n
}

func (r *AppointmentRepository) Update(_ context.Context, a *domain.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.st.appointments[a.ID]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	if r.slotTaken(a, a.ID) {
		return appointmentRepo.ErrSlotAlreadyTaken
	}
	saved := *a
	saved.ScheduleID = existing.ScheduleID
	saved.ArchivedAt = existing.ArchivedAt
	saved.CreatedAt = existing.CreatedAt
	saved.UpdatedAt = r.s.Now()
	a.UpdatedAt = saved.UpdatedAt
	r.s.st.appointments[a.ID] = saved
	return nil
}

func (r *AppointmentRepository) ListExpiredAwaiting(_ context.Context, now time.Time, limit uint64) ([]*domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*domain.Appointment, 0)
	for _, a := range r.s.st.appointments {
		if a.Status.IsAwaiting() && a.EndAt.Before(now) {
			a := a
			result = append(result, &a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EndAt.Before(result[j].EndAt) })
	if limit > 0 && uint64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *AppointmentRepository) ArchiveFinished(_ context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.Now()
	var n int64
	for id, a := range r.s.st.appointments {
		if a.Status.IsTerminal() && a.ArchivedAt == nil && a.EndAt.Before(before) {
			a.ArchivedAt = &now
			r.s.st.appointments[id] = a
			n++
		}
	}
	return n, nil
}

func hasStatus(statuses []domain.AppointmentStatus, status domain.AppointmentStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// ---------- Напоминания ----------

type ReminderRepository struct{ s *Store }

func (s *Store) Reminders() *ReminderRepository { return &ReminderRepository{s: s} }

func (r *ReminderRepository) Upsert(_ context.Context, appointmentID int64, scheduledFor time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rem, ok := r.s.st.reminders[appointmentID]
	if !ok {
		rem = domain.Reminder{ID: r.s.id(), AppointmentID: appointmentID, CreatedAt: r.s.Now()}
	}
	rem.ScheduledFor = scheduledFor
	rem.SentAt = nil
	rem.CancelledAt = nil
	r.s.st.reminders[appointmentID] = rem
	return nil
}

func (r *ReminderRepository) CancelByAppointment(_ context.Context, appointmentID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rem, ok := r.s.st.reminders[appointmentID]
	if !ok || !rem.IsPending() {
		return nil
	}
	now := r.s.Now()
	rem.CancelledAt = &now
	r.s.st.reminders[appointmentID] = rem
	return nil
}

func (r *ReminderRepository) ListDue(_ context.Context, now time.Time, limit uint64) ([]*domain.Reminder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*domain.Reminder, 0)
	for _, rem := range r.s.st.reminders {
		if rem.IsPending() && !rem.ScheduledFor.After(now) {
			rem := rem
			result = append(result, &rem)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ScheduledFor.Before(result[j].ScheduledFor) })
	if limit > 0 && uint64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *ReminderRepository) MarkSent(_ context.Context, id int64) error {
	return r.mark(id, func(rem *domain.Reminder, now time.Time) { rem.SentAt = &now })
}

func (r *ReminderRepository) MarkCancelled(_ context.Context, id int64) error {
	return r.mark(id, func(rem *domain.Reminder, now time.Time) { rem.CancelledAt = &now })
}

func (r *ReminderRepository) mark(id int64, apply func(*domain.Reminder, time.Time)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for key, rem := range r.s.st.reminders {
		if rem.ID == id {
			apply(&rem, r.s.Now())
			r.s.st.reminders[key] = rem
			return nil
		}
	}
	return reminderRepo.ErrReminderNotFound
}
