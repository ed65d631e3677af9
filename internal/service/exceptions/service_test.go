package exceptions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots"
	"github.com/m04kA/SMC-AppointmentService/internal/testutil/memstore"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const doctorID int64 = 3

func newTestService(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()

	store := memstore.New()
	store.AddDoctor(domain.Doctor{ID: doctorID})

	generator := slots.NewService(store.Availabilities(), store.Slots(), store.Templates(), store.Exceptions(),
		store, nil, time.UTC, logger.Nop())
	return NewService(store.Exceptions(), store.Slots(), generator, store, logger.Nop()), store
}

func doctor() domain.Actor {
	return domain.Actor{UserID: 30, Role: domain.RoleDoctor, DoctorID: ptr.Ptr(doctorID)}
}

// дни в будущем относительно реального времени: генератор отбрасывает прошедшие слоты
func futureDay(offset int) time.Time {
	d := time.Now().UTC().AddDate(0, 0, offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func extraHours(from, to time.Time) *domain.ScheduleException {
	start, end := types.TimeString("18:00"), types.TimeString("20:00")
	return &domain.ScheduleException{
		DoctorID: ptr.Ptr(doctorID), DateFrom: from, DateTo: to,
		StartTime: &start, EndTime: &end, Type: domain.ExceptionAvailable,
	}
}

func TestCreate_AvailableGeneratesSlots(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	res, err := svc.Create(ctx, doctor(), extraHours(futureDay(2), futureDay(4)))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Days)
	assert.Equal(t, 12, res.SlotsCreated)
	assert.Len(t, store.SlotsOf(doctorID), 12)
}

func TestCreate_Unavailable(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	reason := "отпуск"
	res, err := svc.Create(ctx, doctor(), &domain.ScheduleException{
		DoctorID: ptr.Ptr(doctorID), DateFrom: futureDay(1), DateTo: futureDay(14),
		Type: domain.ExceptionUnavailable, Reason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, 14, res.Days)
	assert.Zero(t, res.SlotsCreated)
	assert.Empty(t, store.SlotsOf(doctorID))
}

func TestCreate_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	t.Run("inverted dates", func(t *testing.T) {
		_, err := svc.Create(ctx, doctor(), extraHours(futureDay(4), futureDay(2)))
		assert.ErrorIs(t, err, domain.ErrInvalidException)
	})

	t.Run("inverted times", func(t *testing.T) {
		e := extraHours(futureDay(2), futureDay(2))
		start := types.TimeString("21:00")
		e.StartTime = &start
		_, err := svc.Create(ctx, doctor(), e)
		assert.ErrorIs(t, err, domain.ErrInvalidException)
	})

	t.Run("unknown type", func(t *testing.T) {
		e := extraHours(futureDay(2), futureDay(2))
		e.Type = "HOLIDAY"
		_, err := svc.Create(ctx, doctor(), e)
		assert.ErrorIs(t, err, domain.ErrInvalidException)
	})

	t.Run("clinic-wide requires admin", func(t *testing.T) {
		_, err := svc.Create(ctx, doctor(), &domain.ScheduleException{
			DateFrom: futureDay(1), DateTo: futureDay(1), Type: domain.ExceptionUnavailable,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestDelete_KeepsBookedSlots(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	res, err := svc.Create(ctx, doctor(), extraHours(futureDay(2), futureDay(2)))
	require.NoError(t, err)
	require.Len(t, store.SlotsOf(doctorID), 4)

	booked := store.SlotsOf(doctorID)[0]
	require.NoError(t, store.Slots().UpdateStatus(ctx, booked.ID, domain.SlotBooked))

	require.NoError(t, svc.Delete(ctx, doctor(), res.Exception.ID))

	left := store.SlotsOf(doctorID)
	require.Len(t, left, 1)
	assert.Equal(t, booked.ID, left[0].ID)
	assert.Nil(t, left[0].ExceptionID)

	err = svc.Delete(ctx, doctor(), res.Exception.ID)
	assert.ErrorIs(t, err, ErrExceptionNotFound)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	store.AddException(domain.ScheduleException{DateFrom: futureDay(1), DateTo: futureDay(1), Type: domain.ExceptionUnavailable})
	store.AddException(domain.ScheduleException{DoctorID: ptr.Ptr(doctorID), DateFrom: futureDay(3), DateTo: futureDay(5), Type: domain.ExceptionUnavailable})
	store.AddException(domain.ScheduleException{DoctorID: ptr.Ptr(int64(4)), DateFrom: futureDay(3), DateTo: futureDay(5), Type: domain.ExceptionUnavailable})

	list, err := svc.List(ctx, domain.ExceptionFilter{DoctorID: ptr.Ptr(doctorID), IncludeGlobal: true})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].Days)
	assert.Equal(t, 3, list[1].Days)
}
