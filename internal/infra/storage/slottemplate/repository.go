package slottemplate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const tableName = "slot_templates"

// Repository репозиторий шаблонов слотов (одна строка на врача)
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByDoctorID получает шаблон врача
func (r *Repository) GetByDoctorID(ctx context.Context, doctorID int64) (*domain.SlotTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"doctor_id",
		"duration_minutes",
		"buffer_minutes",
		"advance_booking_days",
		"created_at",
		"updated_at",
	).
		From(tableName).
		Where(squirrel.Eq{"doctor_id": doctorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorID - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.SlotTemplate
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.DoctorID,
		&t.DurationMinutes,
		&t.BufferMinutes,
		&t.AdvanceBookingDays,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorID - scan template: %v", ErrScanRow, err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}

// Upsert создаёт или обновляет шаблон врача
func (r *Repository) Upsert(ctx context.Context, t *domain.SlotTemplate) (*domain.SlotTemplate, error) {
	return r.insert(ctx, "Upsert", t,
		"ON CONFLICT (doctor_id) DO UPDATE SET "+
			"duration_minutes = EXCLUDED.duration_minutes, "+
			"buffer_minutes = EXCLUDED.buffer_minutes, "+
			"advance_booking_days = EXCLUDED.advance_booking_days, "+
			"updated_at = NOW() "+
			"RETURNING created_at, updated_at")
}

// CreateIfMissing сохраняет шаблон, только если у врача его ещё нет.
// Возвращает сохранённый шаблон (новый или существующий).
func (r *Repository) CreateIfMissing(ctx context.Context, t *domain.SlotTemplate) (*domain.SlotTemplate, error) {
	created, err := r.insert(ctx, "CreateIfMissing", t,
		"ON CONFLICT (doctor_id) DO NOTHING RETURNING created_at, updated_at")
	if err == nil {
		return created, nil
	}
	if err != ErrTemplateNotFound {
		return nil, err
	}
	// Строку успел вставить конкурентный запрос
	return r.GetByDoctorID(ctx, t.DoctorID)
}

func (r *Repository) insert(ctx context.Context, op string, t *domain.SlotTemplate, suffix string) (*domain.SlotTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("doctor_id", "duration_minutes", "buffer_minutes", "advance_booking_days").
		Values(t.DoctorID, t.DurationMinutes, t.BufferMinutes, t.AdvanceBookingDays).
		Suffix(suffix).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build insert query: %v", ErrBuildQuery, op, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute insert: %v", ErrExecQuery, op, err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return t, nil
}
