package exception

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

const tableName = "schedule_exceptions"

var columns = []string{
	"id",
	"doctor_id",
	"date_from",
	"date_to",
	"start_time",
	"end_time",
	"type",
	"reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий исключений из расписания
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет исключение
func (r *Repository) Create(ctx context.Context, e *domain.ScheduleException) (*domain.ScheduleException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("doctor_id", "date_from", "date_to", "start_time", "end_time", "type", "reason").
		Values(
			e.DoctorID,
			e.DateFrom.Format(domain.DateFormat),
			e.DateTo.Format(domain.DateFormat),
			e.StartTime,
			e.EndTime,
			string(e.Type),
			e.Reason,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return e, nil
}

// GetByID получает исключение по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ScheduleException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	e, err := scanException(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExceptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan exception: %v", ErrScanRow, err)
	}

	return e, nil
}

// List возвращает исключения, пересекающиеся с периодом фильтра.
// Для врача вместе с IncludeGlobal возвращаются и исключения всей клиники.
func (r *Repository) List(ctx context.Context, filter domain.ExceptionFilter) ([]*domain.ScheduleException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		OrderBy("date_from ASC", "id ASC")

	if filter.DoctorID != nil {
		if filter.IncludeGlobal {
			builder = builder.Where(squirrel.Or{
				squirrel.Eq{"doctor_id": *filter.DoctorID},
				squirrel.Eq{"doctor_id": nil},
			})
		} else {
			builder = builder.Where(squirrel.Eq{"doctor_id": *filter.DoctorID})
		}
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"date_to": filter.From.Format(domain.DateFormat)})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.LtOrEq{"date_from": filter.To.Format(domain.DateFormat)})
	}
	if filter.Type != nil {
		builder = builder.Where(squirrel.Eq{"type": string(*filter.Type)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.ScheduleException, 0)
	for rows.Next() {
		e, err := scanException(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan exception: %v", ErrScanRow, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Delete удаляет исключение
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
		return ErrExceptionNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanException(row rowScanner) (*domain.ScheduleException, error) {
	var e domain.ScheduleException
	err := row.Scan(
		&e.ID,
		&e.DoctorID,
		&e.DateFrom,
		&e.DateTo,
		&e.StartTime,
		&e.EndTime,
		&e.Type,
		&e.Reason,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
