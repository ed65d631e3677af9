package slot

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func newRepo(t *testing.T) (*Repository, *dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped), wrapped, mock
}

func TestGetByID_ForUpdateInTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM slots WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(42), int64(3), int64(5), nil, start, start.Add(30*time.Minute), "AVAILABLE", start, start))
	mock.ExpectCommit()

	var got *domain.Slot
	err := txmanager.NewTransactionManager(db).Do(context.Background(), func(ctx context.Context) error {
		var err error
		got, err = repo.GetByID(ctx, 42)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SlotAvailable, got.Status)
	assert.Equal(t, int64(5), *got.AvailabilityID)
	assert.Nil(t, got.ExceptionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .* FROM slots`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestList_ExcludesOrphansByDefault(t *testing.T) {
	repo, _, mock := newRepo(t)
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM slots WHERE doctor_id = $1 AND start_at >= $2 AND start_at < $3 AND (availability_id IS NOT NULL OR exception_id IS NOT NULL) ORDER BY start_at ASC")).
		WithArgs(int64(3), from, to).
		WillReturnRows(sqlmock.NewRows(columns))

	slots, err := repo.List(context.Background(), domain.SlotFilter{DoctorID: ptr.Ptr(int64(3)), From: &from, To: &to})
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkCreate_SkipsConflicts(t *testing.T) {
	repo, _, mock := newRepo(t)
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	candidates := []domain.SlotCandidate{
		{DoctorID: 3, AvailabilityID: ptr.Ptr(int64(5)), StartAt: start, EndAt: start.Add(30 * time.Minute)},
		{DoctorID: 3, AvailabilityID: ptr.Ptr(int64(5)), StartAt: start.Add(30 * time.Minute), EndAt: start.Add(time.Hour)},
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO slots (doctor_id,availability_id,exception_id,start_at,end_at,status) VALUES ($1,$2,$3,$4,$5,$6),($7,$8,$9,$10,$11,$12) ON CONFLICT (doctor_id, start_at, end_at) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.BulkCreate(context.Background(), candidates)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkCreate_Empty(t *testing.T) {
	repo, _, mock := newRepo(t)

	n, err := repo.BulkCreate(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE slots SET status = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs("BOOKED", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE slots")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateStatus(context.Background(), 42, domain.SlotBooked))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), 43, domain.SlotBooked), ErrSlotNotFound)
}

func TestDeleteUnbookedByException(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM slots WHERE exception_id = $1 AND status <> $2")).
		WithArgs(int64(8), "BOOKED").
		WillReturnResult(sqlmock.NewResult(0, 6))

	n, err := repo.DeleteUnbookedByException(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
}
