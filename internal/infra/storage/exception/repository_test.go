package exception

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO schedule_exceptions (doctor_id,date_from,date_to,start_time,end_time,type,reason)")).
		WithArgs(int64(3), "2026-03-10", "2026-03-12", "12:00", "13:00", "UNAVAILABLE", "conference").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(8), now, now))

	e, err := repo.Create(context.Background(), &domain.ScheduleException{
		DoctorID:  ptr.Ptr(int64(3)),
		DateFrom:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		DateTo:    time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		StartTime: ptr.Ptr(types.TimeString("12:00")),
		EndTime:   ptr.Ptr(types.TimeString("13:00")),
		Type:      domain.ExceptionUnavailable,
		Reason:    ptr.Ptr("conference"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(8), e.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_DoctorWithGlobal(t *testing.T) {
	repo, mock := newRepo(t)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE (doctor_id = $1 OR doctor_id IS NULL) AND date_to >= $2 AND date_from <= $3 ORDER BY date_from ASC, id ASC")).
		WithArgs(int64(3), "2026-03-01", "2026-03-31").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), nil, from, from, nil, nil, "UNAVAILABLE", "holiday", now, now).
			AddRow(int64(2), int64(3), from, to, "12:00:00", "13:00:00", "UNAVAILABLE", nil, now, now))

	list, err := repo.List(context.Background(), domain.ExceptionFilter{
		DoctorID: ptr.Ptr(int64(3)), IncludeGlobal: true, From: &from, To: &to,
	})

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].IsGlobal())
	assert.True(t, list[0].IsFullDay())
	assert.Equal(t, types.TimeString("12:00"), *list[1].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}
