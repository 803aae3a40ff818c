package manage_slots

import "github.com/m04kA/TLB-TutorBot/internal/domain"

// State этап диалога добавления слотов
type State string

const (
	// StateDate ожидание даты
	StateDate State = "date"

	// StateTime ожидание диапазона времени
	StateTime State = "time"
)

// Prompt следующий шаг диалога администратора
type Prompt struct {
	Text string
	Done bool
}

// DateSlots слоты одной даты для обзора расписания
type DateSlots struct {
	Date  string
	Slots []*domain.Slot
}

// DeleteResult итог удаления слота: отменённые бронирования и число
// пользователей, которых не удалось уведомить
type DeleteResult struct {
	Cancelled    []*domain.Booking
	NotifyFailed int
}
