package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository доступ только на чтение к пользователям и врачам.
// Справочники ведёт внешняя система.
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetUserByID получает пользователя по ID
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "role", "email", "full_name").
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetUserByID - build select query: %v", ErrBuildQuery, err)
	}

	var u domain.User
	err = executor.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Role, &u.Email, &u.FullName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetUserByID - scan user: %v", ErrScanRow, err)
	}

	return &u, nil
}

// GetDoctorByID получает врача по ID
func (r *Repository) GetDoctorByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "user_id", "full_name", "email", "consultation_fee_cents", "currency").
		From("doctors").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDoctorByID - build select query: %v", ErrBuildQuery, err)
	}

	var d domain.Doctor
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&d.ID, &d.UserID, &d.FullName, &d.Email, &d.ConsultationFeeCents, &d.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDoctorByID - scan doctor: %v", ErrScanRow, err)
	}

	return &d, nil
}

// LockDoctor блокирует строку врача до конца транзакции.
// Используется для сериализации проверок пересечений (окна доступности, окна приёма, записи без слота).
// Вне транзакции только проверяет существование врача.
func (r *Repository) LockDoctor(ctx context.Context, doctorID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("id").
		From("doctors").
		Where(squirrel.Eq{"id": doctorID})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockDoctor - build select query: %v", ErrBuildQuery, err)
	}

	var id int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDoctorNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: LockDoctor - scan: %v", ErrScanRow, err)
	}

	return nil
}
