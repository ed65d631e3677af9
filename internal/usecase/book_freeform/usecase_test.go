package book_freeform

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/testutil/memstore"
	"github.com/m04kA/SMC-AppointmentService/pkg/clock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	now       = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) // вторник
	wednesday = time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
)

type recorder struct {
	mu        sync.Mutex
	reminders []int64
	created   []int64
}

func (r *recorder) Schedule(_ context.Context, appt *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reminders = append(r.reminders, appt.ID)
	return nil
}

func (r *recorder) AppointmentCreated(_ context.Context, appt *domain.Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, appt.ID)
}

func newUseCase(t *testing.T) (*UseCase, *memstore.Store, *recorder, domain.Availability) {
	t.Helper()

	store := memstore.New()
	store.Now = func() time.Time { return now }
	store.AddUser(domain.User{ID: 7, Role: domain.RolePatient})
	store.AddDoctor(domain.Doctor{ID: 3})
	availability := store.AddAvailability(domain.Availability{
		DoctorID:    3,
		IsRecurring: true,
		DayOfWeek:   ptr.Ptr(3),
		StartTime:   "09:00",
		EndTime:     "17:00",
		ValidFrom:   ptr.Ptr(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	})

	rec := &recorder{}
	uc := NewUseCase(store.Availabilities(), store.AppointmentsRepo(), store.Exceptions(), store.Users(),
		rec, rec, nil, store, time.UTC, logger.Nop())
	uc.timeProvider = clock.NewFixed(now)

	return uc, store, rec, availability
}

func request(startHour, startMin, minutes int) *Request {
	start := wednesday.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute)
	return &Request{PatientID: 7, DoctorID: 3, StartAt: start, EndAt: start.Add(time.Duration(minutes) * time.Minute)}
}

func TestExecute_Success(t *testing.T) {
	uc, store, rec, availability := newUseCase(t)

	appt, err := uc.Execute(context.Background(), request(10, 0, 45))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, appt.Status)
	assert.Nil(t, appt.SlotID)
	assert.Equal(t, availability.ID, *appt.AvailabilityID)
	assert.Equal(t, 45, appt.DurationMinutes())
	assert.Len(t, store.Appointments(), 1)
	assert.Equal(t, []int64{appt.ID}, rec.reminders)
	assert.Equal(t, []int64{appt.ID}, rec.created)
}

func TestExecute_OneTimeAvailability(t *testing.T) {
	uc, store, _, _ := newUseCase(t)
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	oneTime := store.AddAvailability(domain.Availability{
		DoctorID: 3,
		StartAt:  ptr.Ptr(start),
		EndAt:    ptr.Ptr(start.Add(2 * time.Hour)),
	})

	appt, err := uc.Execute(context.Background(), &Request{
		PatientID: 7, DoctorID: 3, StartAt: start.Add(time.Hour), EndAt: start.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, oneTime.ID, *appt.AvailabilityID)

	_, err = uc.Execute(context.Background(), &Request{
		PatientID: 7, DoctorID: 3, StartAt: start.Add(90 * time.Minute), EndAt: start.Add(150 * time.Minute),
	})
	assert.ErrorIs(t, err, ErrOutsideAvailability)
}

func TestExecute_OvernightCheckedAgainstNextDayException(t *testing.T) {
	uc, store, _, _ := newUseCase(t)
	// суббота 22:00 - воскресенье 04:00
	start := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)
	store.AddAvailability(domain.Availability{
		DoctorID: 3,
		StartAt:  ptr.Ptr(start),
		EndAt:    ptr.Ptr(start.Add(6 * time.Hour)),
	})
	sunday := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	store.AddException(domain.ScheduleException{
		DoctorID:  ptr.Ptr(int64(3)),
		DateFrom:  sunday,
		DateTo:    sunday,
		StartTime: ptr.Ptr(types.TimeString("01:00")),
		EndTime:   ptr.Ptr(types.TimeString("02:00")),
		Type:      domain.ExceptionUnavailable,
	})

	_, err := uc.Execute(context.Background(), &Request{
		PatientID: 7, DoctorID: 3, StartAt: start.Add(90 * time.Minute), EndAt: start.Add(210 * time.Minute),
	})
	assert.ErrorIs(t, err, ErrDoctorUnavailable)

	appt, err := uc.Execute(context.Background(), &Request{
		PatientID: 7, DoctorID: 3, StartAt: start, EndAt: start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, appt.Status)
}

func TestExecute_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		prepare func(store *memstore.Store)
		req     *Request
		wantErr error
	}{
		{name: "too short", req: request(10, 0, 10), wantErr: ErrInvalidDuration},
		{name: "too long", req: request(10, 0, 25*60), wantErr: ErrInvalidDuration},
		{
			name:    "in the past",
			req:     &Request{PatientID: 7, DoctorID: 3, StartAt: now.Add(-time.Hour), EndAt: now},
			wantErr: ErrStartInPast,
		},
		{name: "outside window", req: request(16, 30, 60), wantErr: ErrOutsideAvailability},
		{name: "wrong weekday", req: &Request{PatientID: 7, DoctorID: 3, StartAt: wednesday.AddDate(0, 0, 1).Add(10 * time.Hour), EndAt: wednesday.AddDate(0, 0, 1).Add(11 * time.Hour)}, wantErr: ErrOutsideAvailability},
		{
			name: "overlaps another appointment",
			prepare: func(store *memstore.Store) {
				start := wednesday.Add(10*time.Hour + 30*time.Minute)
				store.AddAppointment(domain.Appointment{PatientID: 8, DoctorID: 3, StartAt: start, EndAt: start.Add(30 * time.Minute), Status: domain.StatusConfirmed})
			},
			req:     request(10, 0, 45),
			wantErr: ErrTimeConflict,
		},
		{
			name: "doctor on leave",
			prepare: func(store *memstore.Store) {
				store.AddException(domain.ScheduleException{DoctorID: ptr.Ptr(int64(3)), DateFrom: wednesday, DateTo: wednesday, Type: domain.ExceptionUnavailable})
			},
			req:     request(10, 0, 30),
			wantErr: ErrDoctorUnavailable,
		},
		{name: "unknown doctor", req: &Request{PatientID: 7, DoctorID: 99, StartAt: wednesday.Add(10 * time.Hour), EndAt: wednesday.Add(11 * time.Hour)}, wantErr: ErrDoctorNotFound},
		{name: "unknown patient", req: &Request{PatientID: 404, DoctorID: 3, StartAt: wednesday.Add(10 * time.Hour), EndAt: wednesday.Add(11 * time.Hour)}, wantErr: ErrPatientNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, store, rec, _ := newUseCase(t)
			if tt.prepare != nil {
				tt.prepare(store)
			}
			before := len(store.Appointments())

			_, err := uc.Execute(ctx, tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, store.Appointments(), before)
			assert.Empty(t, rec.created)
		})
	}
}

func TestExecute_CancelledAppointmentDoesNotConflict(t *testing.T) {
	uc, store, _, _ := newUseCase(t)
	start := wednesday.Add(10 * time.Hour)
	store.AddAppointment(domain.Appointment{PatientID: 8, DoctorID: 3, StartAt: start, EndAt: start.Add(time.Hour), Status: domain.StatusCancelled})

	_, err := uc.Execute(context.Background(), request(10, 0, 60))
	assert.NoError(t, err)
}
