package book_lesson

import (
	"context"
	"time"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
)

// SlotLedger интерфейс леджера слотов
type SlotLedger interface {
	OfferableDates(ctx context.Context, now time.Time) ([]string, error)
	OfferableTimes(ctx context.Context, date string, now time.Time) ([]string, error)
	SetAvailability(ctx context.Context, date, timeRange string, available bool) error
}

// BookingLedger интерфейс леджера бронирований
type BookingLedger interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	UpsertUser(ctx context.Context, user *domain.UserProfile) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
