package user

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func TestGetUserByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, role, email, full_name FROM users WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role", "email", "full_name"}).
			AddRow(int64(7), "PATIENT", "anna@example.com", "Anna"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WillReturnError(sql.ErrNoRows)

	u, err := repo.GetUserByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.RolePatient, u.Role)

	_, err = repo.GetUserByID(context.Background(), 8)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLockDoctor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	wrapped := dbmetrics.Wrap(db, nil)
	repo := NewRepository(wrapped)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM doctors WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM doctors WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(4)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err = txmanager.NewTransactionManager(wrapped).Do(context.Background(), func(ctx context.Context) error {
		require.NoError(t, repo.LockDoctor(ctx, 3))
		return repo.LockDoctor(ctx, 4)
	})

	assert.ErrorIs(t, err, ErrDoctorNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
