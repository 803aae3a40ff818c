package jsonstore

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	"github.com/m04kA/TLB-TutorBot/internal/infra/storage"
)

// userRecord формат значения в users.json, ключ карты — user_id строкой
type userRecord struct {
	ParentName string `json:"parent_name"`
	Phone      string `json:"phone"`
	Timestamp  string `json:"timestamp"`
}

// UserRepo файловый репозиторий профилей пользователей
type UserRepo struct {
	store *Store
}

// Upsert вставляет или обновляет профиль пользователя
func (r *UserRepo) Upsert(ctx context.Context, user *domain.UserProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}

	users[strconv.FormatInt(user.UserID, 10)] = userRecord{
		ParentName: user.GuardianName,
		Phone:      user.Phone,
		Timestamp:  user.Timestamp,
	}

	return r.store.writeFile(usersFile, users)
}

// GetByID получает профиль пользователя
func (r *UserRepo) GetByID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, err
	}

	rec, ok := users[strconv.FormatInt(userID, 10)]
	if !ok {
		return nil, fmt.Errorf("%w: user_id=%d", storage.ErrUserNotFound, userID)
	}

	return &domain.UserProfile{
		UserID:       userID,
		GuardianName: rec.ParentName,
		Phone:        rec.Phone,
		Timestamp:    rec.Timestamp,
	}, nil
}

// List возвращает все профили пользователей в порядке user_id.
// Записи с нечисловым ключом пропускаются.
func (r *UserRepo) List(ctx context.Context) ([]*domain.UserProfile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, err
	}

	var result []*domain.UserProfile
	for key, rec := range users {
		userID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		result = append(result, &domain.UserProfile{
			UserID:       userID,
			GuardianName: rec.ParentName,
			Phone:        rec.Phone,
			Timestamp:    rec.Timestamp,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UserID < result[j].UserID
	})

	return result, nil
}

func (r *UserRepo) load() (map[string]userRecord, error) {
	users := map[string]userRecord{}
	if err := r.store.readFile(usersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}
