package users

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

// Repository репозиторий профилей пользователей поверх PostgreSQL
type Repository struct {
	db txmanager.Executor
}

// NewRepository создает новый экземпляр репозитория пользователей
func NewRepository(db txmanager.Executor) *Repository {
	return &Repository{db: db}
}

// Upsert вставляет или обновляет профиль пользователя
func (r *Repository) Upsert(ctx context.Context, user *domain.UserProfile) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("users").
		Columns("user_id", "guardian_name", "phone", "created_ts").
		Values(user.UserID, user.GuardianName, user.Phone, user.Timestamp).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET guardian_name = EXCLUDED.guardian_name, phone = EXCLUDED.phone, created_ts = EXCLUDED.created_ts").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает профиль пользователя
func (r *Repository) GetByID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("user_id", "guardian_name", "phone", "created_ts").
		From("users").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var user domain.UserProfile
	err = executor.QueryRowContext(ctx, query, args...).
		Scan(&user.UserID, &user.GuardianName, &user.Phone, &user.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user_id=%d", storage.ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("%w: GetByID - scan row: %v", ErrScanRow, err)
	}

	return &user, nil
}

// List возвращает все профили пользователей
func (r *Repository) List(ctx context.Context) ([]*domain.UserProfile, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("user_id", "guardian_name", "phone", "created_ts").
		From("users").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var result []*domain.UserProfile
	for rows.Next() {
		var user domain.UserProfile
		if err := rows.Scan(&user.UserID, &user.GuardianName, &user.Phone, &user.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		result = append(result, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %v", ErrScanRow, err)
	}

	return result, nil
}
