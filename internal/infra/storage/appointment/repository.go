package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const tableName = "appointments"

var columns = []string{
	"id",
	"patient_id",
	"doctor_id",
	"availability_id",
	"slot_id",
	"schedule_id",
	"start_at",
	"end_at",
	"status",
	"notes",
	"payment_status",
	"payment_intent_id",
	"amount_cents",
	"currency",
	"queue_number",
	"archived_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создаёт запись. Нарушение уникальности активной записи на слот возвращает ErrSlotAlreadyTaken.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"patient_id",
			"doctor_id",
			"availability_id",
			"slot_id",
			"schedule_id",
			"start_at",
			"end_at",
			"status",
			"notes",
			"payment_status",
			"payment_intent_id",
			"amount_cents",
			"currency",
			"queue_number",
		).
		Values(
			a.PatientID,
			a.DoctorID,
			a.AvailabilityID,
			a.SlotID,
			a.ScheduleID,
			a.StartAt,
			a.EndAt,
			a.Status,
			a.Notes,
			nullablePaymentStatus(a.PaymentStatus),
			a.PaymentIntentID,
			a.AmountCents,
			a.Currency,
			a.QueueNumber,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if pgerr.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: Create: %v", ErrSlotAlreadyTaken, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return a, nil
}

// GetByID получает запись по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByPaymentIntentID получает запись по идентификатору платежа.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByPaymentIntentID(ctx context.Context, intentID string) (*domain.Appointment, error) {
	return r.getOne(ctx, "GetByPaymentIntentID", squirrel.Eq{"payment_intent_id": intentID})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
	}

	return a, nil
}

// List возвращает записи по фильтру, сортировка по началу приёма
func (r *Repository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		OrderBy("start_at ASC", "id ASC")

	if filter.PatientID != nil {
		builder = builder.Where(squirrel.Eq{"patient_id": *filter.PatientID})
	}
	if filter.DoctorID != nil {
		builder = builder.Where(squirrel.Eq{"doctor_id": *filter.DoctorID})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"start_at": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"start_at": *filter.To})
	}
	if !filter.IncludeArchived {
		builder = builder.Where(squirrel.Eq{"archived_at": nil})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
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

	return scanAppointments(rows, "List")
}

// HasOverlapping проверяет, есть ли у врача неотменённая запись, пересекающаяся с [start, end)
func (r *Repository) HasOverlapping(ctx context.Context, doctorID int64, start, end time.Time, excludeID *int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("1").
		From(tableName).
		Where(squirrel.Eq{"doctor_id": doctorID}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		Where(squirrel.Lt{"start_at": end}).
		Where(squirrel.Gt{"end_at": start}).
		Limit(1)

	if excludeID != nil {
		builder = builder.Where(squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasOverlapping - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// CountBySchedule считает записи окна приёма в указанных статусах
func (r *Repository) CountBySchedule(ctx context.Context, scheduleID int64, statuses []domain.AppointmentStatus) (int, error) {
	return r.count(ctx, "CountBySchedule", squirrel.Eq{"schedule_id": scheduleID}, statuses)
}

// CountByAvailability считает записи, созданные по окну доступности, в указанных статусах
func (r *Repository) CountByAvailability(ctx context.Context, availabilityID int64, statuses []domain.AppointmentStatus) (int, error) {
	return r.count(ctx, "CountByAvailability", squirrel.Eq{"availability_id": availabilityID}, statuses)
}

func (r *Repository) count(ctx context.Context, op string, where squirrel.Sqlizer, statuses []domain.AppointmentStatus) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select("COUNT(*)").
		From(tableName).
		Where(where)
	if len(statuses) > 0 {
		builder = builder.Where(squirrel.Eq{"status": statusStrings(statuses)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - build count query: %v", ErrBuildQuery, op, err)
	}

	var n int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %s - scan count: %v", ErrScanRow, op, err)
	}

	return n, nil
}

// Update сохраняет изменяемые поля записи
func (r *Repository) Update(ctx context.Context, a *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("availability_id", a.AvailabilityID).
		Set("slot_id", a.SlotID).
		Set("start_at", a.StartAt).
		Set("end_at", a.EndAt).
		Set("status", a.Status).
		Set("notes", a.Notes).
		Set("payment_status", nullablePaymentStatus(a.PaymentStatus)).
		Set("payment_intent_id", a.PaymentIntentID).
		Set("amount_cents", a.AmountCents).
		Set("currency", a.Currency).
		Set("queue_number", a.QueueNumber).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAppointmentNotFound
	}
	if pgerr.IsUniqueViolation(err) {
		return fmt.Errorf("%w: Update: %v", ErrSlotAlreadyTaken, err)
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// ListExpiredAwaiting возвращает неподтверждённые записи, время которых прошло
func (r *Repository) ListExpiredAwaiting(ctx context.Context, now time.Time, limit uint64) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"status": []string{string(domain.StatusPending), string(domain.StatusPendingPayment)}}).
		Where(squirrel.Lt{"end_at": now}).
		OrderBy("end_at ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredAwaiting - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredAwaiting - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows, "ListExpiredAwaiting")
}

// ArchiveFinished помечает завершённые записи, закончившиеся раньше before, как архивные
func (r *Repository) ArchiveFinished(ctx context.Context, before time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("archived_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": statusStrings(domain.TerminalAppointmentStatuses)}).
		Where(squirrel.Eq{"archived_at": nil}).
		Where(squirrel.Lt{"end_at": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ArchiveFinished - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ArchiveFinished - execute update: %v", ErrExecQuery, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ArchiveFinished - get rows affected: %v", ErrExecQuery, err)
	}

	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a             domain.Appointment
		paymentStatus sql.NullString
	)

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.AvailabilityID,
		&a.SlotID,
		&a.ScheduleID,
		&a.StartAt,
		&a.EndAt,
		&a.Status,
		&a.Notes,
		&paymentStatus,
		&a.PaymentIntentID,
		&a.AmountCents,
		&a.Currency,
		&a.QueueNumber,
		&a.ArchivedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.PaymentStatus = domain.PaymentStatus(paymentStatus.String)

	return &a, nil
}

func scanAppointments(rows *sql.Rows, op string) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return result, nil
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func nullablePaymentStatus(s domain.PaymentStatus) interface{} {
	if s == domain.PaymentNone {
		return nil
	}
	return string(s)
}
