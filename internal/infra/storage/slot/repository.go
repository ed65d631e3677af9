package slot

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
)

const (
	tableName = "slots"

	// insertBatchSize ограничивает число строк в одном INSERT
	insertBatchSize = 500
)

var columns = []string{
	"id",
	"doctor_id",
	"availability_id",
	"exception_id",
	"start_at",
	"end_at",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий слотов
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает слот по ID.
// Внутри транзакции строка блокируется (FOR UPDATE), что сериализует конкурентные бронирования слота.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
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

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// List возвращает слоты по фильтру в порядке начала
func (r *Repository) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		OrderBy("start_at ASC")

	if filter.DoctorID != nil {
		builder = builder.Where(squirrel.Eq{"doctor_id": *filter.DoctorID})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"start_at": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"start_at": *filter.To})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if !filter.IncludeOrphans {
		builder = builder.Where(squirrel.Or{
			squirrel.NotEq{"availability_id": nil},
			squirrel.NotEq{"exception_id": nil},
		})
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

	result := make([]*domain.Slot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan slot: %v", ErrScanRow, err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// BulkCreate вставляет слоты пачками. Слоты с уже существующим (doctor_id, start_at, end_at)
// пропускаются. Возвращает количество реально созданных строк.
func (r *Repository) BulkCreate(ctx context.Context, candidates []domain.SlotCandidate) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var created int64
	for from := 0; from < len(candidates); from += insertBatchSize {
		to := from + insertBatchSize
		if to > len(candidates) {
			to = len(candidates)
		}

		builder := psqlbuilder.Insert(tableName).
			Columns("doctor_id", "availability_id", "exception_id", "start_at", "end_at", "status")
		for _, c := range candidates[from:to] {
			builder = builder.Values(c.DoctorID, c.AvailabilityID, c.ExceptionID, c.StartAt, c.EndAt, string(domain.SlotAvailable))
		}

		query, args, err := builder.
			Suffix("ON CONFLICT (doctor_id, start_at, end_at) DO NOTHING").
			ToSql()
		if err != nil {
			return created, fmt.Errorf("%w: BulkCreate - build insert query: %v", ErrBuildQuery, err)
		}

		result, err := executor.ExecContext(ctx, query, args...)
		if err != nil {
			return created, fmt.Errorf("%w: BulkCreate - execute insert: %v", ErrExecQuery, err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return created, fmt.Errorf("%w: BulkCreate - get rows affected: %v", ErrExecQuery, err)
		}
		created += n
	}

	return created, nil
}

// UpdateStatus меняет статус слота
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.SlotStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// DeleteUnbookedByAvailability удаляет незанятые слоты окна доступности.
// Если from задан, удаляются только слоты, начинающиеся не раньше from.
func (r *Repository) DeleteUnbookedByAvailability(ctx context.Context, availabilityID int64, from *time.Time) (int64, error) {
	return r.deleteUnbooked(ctx, "DeleteUnbookedByAvailability", squirrel.Eq{"availability_id": availabilityID}, from)
}

// DeleteUnbookedByException удаляет незанятые слоты, созданные исключением AVAILABLE
func (r *Repository) DeleteUnbookedByException(ctx context.Context, exceptionID int64) (int64, error) {
	return r.deleteUnbooked(ctx, "DeleteUnbookedByException", squirrel.Eq{"exception_id": exceptionID}, nil)
}

func (r *Repository) deleteUnbooked(ctx context.Context, op string, owner squirrel.Sqlizer, from *time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Delete(tableName).
		Where(owner).
		Where(squirrel.NotEq{"status": string(domain.SlotBooked)})
	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"start_at": *from})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build delete query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute delete: %v", ErrExecQuery, op, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var s domain.Slot
	err := row.Scan(
		&s.ID,
		&s.DoctorID,
		&s.AvailabilityID,
		&s.ExceptionID,
		&s.StartAt,
		&s.EndAt,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
