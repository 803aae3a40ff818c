package homeworks

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	"github.com/m04kA/TLB-TutorBot/pkg/psqlbuilder"
	"github.com/m04kA/TLB-TutorBot/pkg/txmanager"
)

// Repository репозиторий домашних заданий поверх PostgreSQL.
// Ядро сервиса задания только читает.
type Repository struct {
	db txmanager.Executor
}

// NewRepository создает новый экземпляр репозитория домашних заданий
func NewRepository(db txmanager.Executor) *Repository {
	return &Repository{db: db}
}

// ListByUser возвращает домашние задания пользователя
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.Homework, error) {
	return r.list(ctx, "ListByUser", squirrel.Eq{"user_id": userID})
}

// ListByBooking возвращает домашние задания, привязанные к бронированию
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.Homework, error) {
	return r.list(ctx, "ListByBooking", squirrel.Eq{"booking_id": bookingID})
}

func (r *Repository) list(ctx context.Context, method string, where squirrel.Eq) ([]*domain.Homework, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "booking_id", "user_id", "file_id", "comment", "sent_at").
		From("homeworks").
		Where(where).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute select: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	var result []*domain.Homework
	for rows.Next() {
		var hw domain.Homework
		if err := rows.Scan(&hw.ID, &hw.BookingID, &hw.UserID, &hw.FileID, &hw.Comment, &hw.SentAt); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		result = append(result, &hw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - iterate rows: %v", ErrScanRow, method, err)
	}

	return result, nil
}
