package analytics

import (
	"context"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
}

// UserRepository интерфейс репозитория профилей пользователей
type UserRepository interface {
	List(ctx context.Context) ([]*domain.UserProfile, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
