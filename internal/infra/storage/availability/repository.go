package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const tableName = "availabilities"

var columns = []string{
	"id",
	"doctor_id",
	"is_recurring",
	"day_of_week",
	"start_time",
	"end_time",
	"start_at",
	"end_at",
	"valid_from",
	"valid_to",
	"created_at",
	"updated_at",
}

// Repository репозиторий окон доступности врачей
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет окно доступности
func (r *Repository) Create(ctx context.Context, a *domain.Availability) (*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("doctor_id", "is_recurring", "day_of_week", "start_time", "end_time",
			"start_at", "end_at", "valid_from", "valid_to").
		Values(a.DoctorID, a.IsRecurring, a.DayOfWeek, timeOrNil(a.StartTime), timeOrNil(a.EndTime),
			a.StartAt, a.EndAt, a.ValidFrom, a.ValidTo).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return a, nil
}

// GetByID получает окно по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAvailability(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAvailabilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan availability: %v", ErrScanRow, err)
	}

	return a, nil
}

// ListByDoctor возвращает все окна врача
func (r *Repository) ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.Availability, error) {
	return r.list(ctx, "ListByDoctor", squirrel.Eq{"doctor_id": doctorID})
}

// ListActiveRecurring возвращает повторяющиеся окна, действующие на дату today или позже
func (r *Repository) ListActiveRecurring(ctx context.Context, today time.Time) ([]*domain.Availability, error) {
	return r.list(ctx, "ListActiveRecurring", squirrel.And{
		squirrel.Eq{"is_recurring": true},
		squirrel.Or{
			squirrel.Eq{"valid_to": nil},
			squirrel.GtOrEq{"valid_to": today},
		},
	})
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(where).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	result := make([]*domain.Availability, 0)
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan availability: %v", ErrScanRow, op, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return result, nil
}

// Update сохраняет изменённое окно
func (r *Repository) Update(ctx context.Context, a *domain.Availability) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("is_recurring", a.IsRecurring).
		Set("day_of_week", a.DayOfWeek).
		Set("start_time", timeOrNil(a.StartTime)).
		Set("end_time", timeOrNil(a.EndTime)).
		Set("start_at", a.StartAt).
		Set("end_at", a.EndAt).
		Set("valid_from", a.ValidFrom).
		Set("valid_to", a.ValidTo).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAvailabilityNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// Delete удаляет окно. Слоты окна остаются со сброшенной ссылкой (ON DELETE SET NULL).
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAvailabilityNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAvailability(row rowScanner) (*domain.Availability, error) {
	var (
		a                  domain.Availability
		startTime, endTime types.TimeString
	)

	err := row.Scan(
		&a.ID,
		&a.DoctorID,
		&a.IsRecurring,
		&a.DayOfWeek,
		&startTime,
		&endTime,
		&a.StartAt,
		&a.EndAt,
		&a.ValidFrom,
		&a.ValidTo,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.StartTime = startTime
	a.EndTime = endTime

	return &a, nil
}

func timeOrNil(t types.TimeString) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.String()
}
