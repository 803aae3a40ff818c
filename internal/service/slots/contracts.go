package slots

import (
	"context"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	List(ctx context.Context) ([]*domain.Slot, error)
	Add(ctx context.Context, slot *domain.Slot) error
	SetAvailability(ctx context.Context, date, timeRange string, available bool) error
	MarkDeletedByAdmin(ctx context.Context, date, timeRange string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
