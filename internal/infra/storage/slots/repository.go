package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	"github.com/m04kA/TLB-TutorBot/internal/infra/storage"
	"github.com/m04kA/TLB-TutorBot/pkg/psqlbuilder"
	"github.com/m04kA/TLB-TutorBot/pkg/txmanager"
)

const uniqueViolation = "23505"

// Repository репозиторий слотов поверх PostgreSQL.
// Инвариант "не более одного слота на (date, time)" обеспечивается
// уникальным ограничением таблицы.
type Repository struct {
	db txmanager.Executor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db txmanager.Executor) *Repository {
	return &Repository{db: db}
}

// List возвращает все слоты
func (r *Repository) List(ctx context.Context) ([]*domain.Slot, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"slot_date",
		"slot_time",
		"available",
		"deleted_by_admin",
	).
		From("slots").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var result []*domain.Slot
	for rows.Next() {
		var slot domain.Slot
		if err := rows.Scan(&slot.Date, &slot.Time, &slot.Available, &slot.DeletedByAdmin); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		result = append(result, &slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %v", ErrScanRow, err)
	}

	return result, nil
}

// Add вставляет слот. При существующей идентичности (date, time)
// возвращает storage.ErrSlotExists.
func (r *Repository) Add(ctx context.Context, slot *domain.Slot) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns("slot_date", "slot_time", "available", "deleted_by_admin").
		Values(slot.Date, slot.Time, slot.Available, slot.DeletedByAdmin).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Add - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("%w: (%s, %s)", storage.ErrSlotExists, slot.Date, slot.Time)
		}
		return fmt.Errorf("%w: Add - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// SetAvailability меняет доступность слота с указанной идентичностью
func (r *Repository) SetAvailability(ctx context.Context, date, timeRange string, available bool) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("available", available).
		Where(squirrel.Eq{"slot_date": date, "slot_time": timeRange}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: (%s, %s)", storage.ErrSlotNotFound, date, timeRange)
	}

	return nil
}

// MarkDeletedByAdmin помечает слот удалённым администратором.
// Флаг односторонний: снять его нельзя, доступность сбрасывается безусловно.
func (r *Repository) MarkDeletedByAdmin(ctx context.Context, date, timeRange string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("deleted_by_admin", true).
		Set("available", false).
		Where(squirrel.Eq{"slot_date": date, "slot_time": timeRange}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkDeletedByAdmin - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkDeletedByAdmin - execute update: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkDeletedByAdmin - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: (%s, %s)", storage.ErrSlotNotFound, date, timeRange)
	}

	return nil
}
