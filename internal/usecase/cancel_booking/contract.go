package cancel_booking

import (
	"context"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
)

// BookingLedger интерфейс леджера бронирований
type BookingLedger interface {
	ListActiveByUser(ctx context.Context, userID int64) ([]*domain.Booking, error)
	CancelByUser(ctx context.Context, id, userID int64) (*domain.Booking, error)
}

// SlotLedger интерфейс леджера слотов
type SlotLedger interface {
	SetAvailability(ctx context.Context, date, timeRange string, available bool) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
