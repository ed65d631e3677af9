package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const tableName = "reminders"

// Repository репозиторий напоминаний (не более одного на запись)
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert планирует напоминание на scheduledFor. Существующее напоминание записи
// переносится и снова становится ожидающим.
func (r *Repository) Upsert(ctx context.Context, appointmentID int64, scheduledFor time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("appointment_id", "scheduled_for").
		Values(appointmentID, scheduledFor).
		Suffix("ON CONFLICT (appointment_id) DO UPDATE SET " +
			"scheduled_for = EXCLUDED.scheduled_for, sent_at = NULL, cancelled_at = NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// CancelByAppointment отменяет неотправленное напоминание записи
func (r *Repository) CancelByAppointment(ctx context.Context, appointmentID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		Where(squirrel.Eq{"sent_at": nil}).
		Where(squirrel.Eq{"cancelled_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CancelByAppointment - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CancelByAppointment - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// ListDue возвращает ожидающие напоминания, время которых наступило
func (r *Repository) ListDue(ctx context.Context, now time.Time, limit uint64) ([]*domain.Reminder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "appointment_id", "scheduled_for", "sent_at", "cancelled_at", "created_at").
		From(tableName).
		Where(squirrel.LtOrEq{"scheduled_for": now}).
		Where(squirrel.Eq{"sent_at": nil}).
		Where(squirrel.Eq{"cancelled_at": nil}).
		OrderBy("scheduled_for ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDue - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDue - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Reminder, 0)
	for rows.Next() {
		var rem domain.Reminder
		if err := rows.Scan(&rem.ID, &rem.AppointmentID, &rem.ScheduledFor, &rem.SentAt, &rem.CancelledAt, &rem.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListDue - scan reminder: %v", ErrScanRow, err)
		}
		result = append(result, &rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDue - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// MarkSent отмечает напоминание отправленным
func (r *Repository) MarkSent(ctx context.Context, id int64) error {
	return r.mark(ctx, "MarkSent", id, "sent_at")
}

// MarkCancelled отмечает напоминание отменённым
func (r *Repository) MarkCancelled(ctx context.Context, id int64) error {
	return r.mark(ctx, "MarkCancelled", id, "cancelled_at")
}

func (r *Repository) mark(ctx context.Context, op string, id int64, column string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set(column, squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrReminderNotFound
	}

	return nil
}
