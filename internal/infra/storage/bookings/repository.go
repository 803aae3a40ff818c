package bookings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	"github.com/m04kA/TLB-TutorBot/internal/infra/storage"
	"github.com/m04kA/TLB-TutorBot/pkg/psqlbuilder"
	"github.com/m04kA/TLB-TutorBot/pkg/txmanager"
)

// Repository репозиторий бронирований поверх PostgreSQL
type Repository struct {
	db txmanager.Executor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db txmanager.Executor) *Repository {
	return &Repository{db: db}
}

var bookingColumns = []string{
	"id",
	"user_id",
	"slot_date",
	"slot_time",
	"guardian_name",
	"child_name",
	"phone",
	"created_ts",
	"confirmed",
	"cancelled_by_user",
	"cancelled_by_admin",
}

// Create добавляет бронирование и возвращает его с присвоенным id.
// Доступность слота репозиторий не перепроверяет: за порядок
// "занять слот, затем создать запись" отвечает вызывающая сторона.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"slot_date",
			"slot_time",
			"guardian_name",
			"child_name",
			"phone",
			"created_ts",
			"confirmed",
			"cancelled_by_user",
			"cancelled_by_admin",
		).
		Values(
			booking.UserID,
			booking.Date,
			booking.Time,
			booking.GuardianName,
			booking.ChildName,
			booking.Phone,
			booking.Timestamp,
			booking.Confirmed,
			booking.CancelledByUser,
			booking.CancelledByAdmin,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по id
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id=%d", storage.ErrBookingNotFound, id)
		}
		return nil, fmt.Errorf("%w: GetByID - scan row: %v", ErrScanRow, err)
	}

	return booking, nil
}

// List возвращает бронирования по фильтру в порядке создания
func (r *Repository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("id")

	if filter.UserID != nil {
		builder = builder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.ActiveOnly {
		builder = builder.Where(squirrel.Eq{"cancelled_by_user": false, "cancelled_by_admin": false})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var result []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		result = append(result, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %v", ErrScanRow, err)
	}

	return result, nil
}

// FindActiveByIdentity находит неотменённое бронирование по тройке
// (пользователь, дата, время) — идентичности из callback-данных напоминания
func (r *Repository) FindActiveByIdentity(ctx context.Context, userID int64, date, timeRange string) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"user_id":            userID,
			"slot_date":          date,
			"slot_time":          timeRange,
			"cancelled_by_user":  false,
			"cancelled_by_admin": false,
		}).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveByIdentity - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user=%d slot=(%s, %s)", storage.ErrBookingNotFound, userID, date, timeRange)
		}
		return nil, fmt.Errorf("%w: FindActiveByIdentity - scan row: %v", ErrScanRow, err)
	}

	return booking, nil
}

// SetConfirmed помечает бронирование подтверждённым. Идемпотентно.
func (r *Repository) SetConfirmed(ctx context.Context, id int64) error {
	return r.setFlag(ctx, "SetConfirmed", id, "confirmed")
}

// CancelByUser помечает бронирование отменённым пользователем. Идемпотентно.
func (r *Repository) CancelByUser(ctx context.Context, id int64) error {
	return r.setFlag(ctx, "CancelByUser", id, "cancelled_by_user")
}

// CancelBySlot помечает отменёнными администратором все активные бронирования
// на указанную идентичность слота и возвращает затронутые записи
func (r *Repository) CancelBySlot(ctx context.Context, date, timeRange string) ([]*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("cancelled_by_admin", true).
		Where(squirrel.Eq{
			"slot_date":          date,
			"slot_time":          timeRange,
			"cancelled_by_user":  false,
			"cancelled_by_admin": false,
		}).
		Suffix("RETURNING " + joinColumns(bookingColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CancelBySlot - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CancelBySlot - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var result []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: CancelBySlot - scan row: %v", ErrScanRow, err)
		}
		result = append(result, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CancelBySlot - iterate rows: %v", ErrScanRow, err)
	}

	return result, nil
}

func (r *Repository) setFlag(ctx context.Context, method string, id int64, column string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set(column, true).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %v", ErrExecQuery, method, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id=%d", storage.ErrBookingNotFound, id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Date,
		&b.Time,
		&b.GuardianName,
		&b.ChildName,
		&b.Phone,
		&b.Timestamp,
		&b.Confirmed,
		&b.CancelledByUser,
		&b.CancelledByAdmin,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func joinColumns(columns []string) string {
	result := ""
	for i, c := range columns {
		if i > 0 {
			result += ", "
		}
		result += c
	}
	return result
}
