package send_reminders

import (
	"context"
	"time"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
)

// BookingLedger интерфейс леджера бронирований
type BookingLedger interface {
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	FindActiveByIdentity(ctx context.Context, userID int64, date, timeRange string) (*domain.Booking, error)
	SetConfirmed(ctx context.Context, id int64) error
	CancelByUser(ctx context.Context, id, userID int64) (*domain.Booking, error)
}

// SlotLedger интерфейс леджера слотов
type SlotLedger interface {
	SetAvailability(ctx context.Context, date, timeRange string, available bool) error
}

// Notifier доставляет напоминания пользователям
type Notifier interface {
	SendReminder(userID int64, booking *domain.Booking) error
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
