package jsonstore

import (
	"context"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
)

// homeworkRecord формат записи в homeworks.json
type homeworkRecord struct {
	ID        int64  `json:"id"`
	BookingID int64  `json:"booking_id"`
	UserID    int64  `json:"user_id"`
	FileID    string `json:"file_id"`
	Comment   string `json:"comment"`
	SentAt    string `json:"sent_at"`
}

// HomeworkRepo файловый репозиторий домашних заданий
type HomeworkRepo struct {
	store *Store
}

// ListByUser возвращает домашние задания пользователя
func (r *HomeworkRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.Homework, error) {
	return r.list(func(rec homeworkRecord) bool {
		return rec.UserID == userID
	})
}

// ListByBooking возвращает домашние задания, привязанные к бронированию
func (r *HomeworkRepo) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.Homework, error) {
	return r.list(func(rec homeworkRecord) bool {
		return rec.BookingID == bookingID
	})
}

func (r *HomeworkRepo) list(match func(homeworkRecord) bool) ([]*domain.Homework, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var records []homeworkRecord
	if err := r.store.readFile(homeworksFile, &records); err != nil {
		return nil, err
	}

	var result []*domain.Homework
	for _, rec := range records {
		if !match(rec) {
			continue
		}
		result = append(result, &domain.Homework{
			ID:        rec.ID,
			BookingID: rec.BookingID,
			UserID:    rec.UserID,
			FileID:    rec.FileID,
			Comment:   rec.Comment,
			SentAt:    rec.SentAt,
		})
	}

	return result, nil
}
