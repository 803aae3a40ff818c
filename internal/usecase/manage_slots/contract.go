package manage_slots

import (
	"context"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	slotsService "github.com/m04kA/TLB-TutorBot/internal/service/slots"
)

// SlotLedger интерфейс леджера слотов
type SlotLedger interface {
	List(ctx context.Context) ([]*domain.Slot, error)
	AddRange(ctx context.Context, date, timeRange string) (*slotsService.AddResult, error)
	MarkDeletedByAdmin(ctx context.Context, date, timeRange string) error
}

// BookingLedger интерфейс леджера бронирований
type BookingLedger interface {
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	CancelBySlot(ctx context.Context, date, timeRange string) ([]*domain.Booking, error)
}

// Notifier доставляет уведомления пользователям
type Notifier interface {
	SendText(userID int64, text string) error
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
