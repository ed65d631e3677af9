package schedule

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func newSchedule() *domain.Schedule {
	return &domain.Schedule{
		DoctorID:    3,
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("09:00"),
		EndTime:     types.TimeString("12:00"),
		MaxPatients: 10,
	}
}

func TestCreate(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO schedules (doctor_id,date,start_time,end_time,max_patients)")).
		WithArgs(int64(3), "2026-03-10", "09:00", "12:00", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(4), now, now))

	s, err := repo.Create(context.Background(), newSchedule())
	require.NoError(t, err)
	assert.Equal(t, int64(4), s.ID)
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO schedules")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), newSchedule())
	assert.ErrorIs(t, err, ErrScheduleExists)
}

func TestListByDoctorAndDate(t *testing.T) {
	repo, mock := newRepo(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules WHERE doctor_id = $1 AND date = $2 ORDER BY start_time ASC")).
		WithArgs(int64(3), "2026-03-10").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(4), int64(3), date, "09:00:00", "12:00:00", 10, now, now))

	list, err := repo.ListByDoctorAndDate(context.Background(), 3, date)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, types.TimeString("09:00"), list[0].StartTime)
	assert.Equal(t, 10, list[0].MaxPatients)
}
