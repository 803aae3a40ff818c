package bookings

import (
	"context"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	FindActiveByIdentity(ctx context.Context, userID int64, date, timeRange string) (*domain.Booking, error)
	SetConfirmed(ctx context.Context, id int64) error
	CancelByUser(ctx context.Context, id int64) error
	CancelBySlot(ctx context.Context, date, timeRange string) ([]*domain.Booking, error)
}

// UserRepository интерфейс репозитория профилей пользователей
type UserRepository interface {
	Upsert(ctx context.Context, user *domain.UserProfile) error
	GetByID(ctx context.Context, userID int64) (*domain.UserProfile, error)
	List(ctx context.Context) ([]*domain.UserProfile, error)
}

// HomeworkRepository интерфейс репозитория домашних заданий
type HomeworkRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]*domain.Homework, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.Homework, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
