package bot

import (
	"fmt"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
)

// ReminderNotifier доставляет напоминания с кнопками подтверждения и отмены.
// Callback-данные несут идентичность (пользователь, дата, время): к моменту
// нажатия числовой id записи пользователю неизвестен.
type ReminderNotifier struct {
	messenger Messenger
}

// NewReminderNotifier создает нотификатор напоминаний поверх транспорта
func NewReminderNotifier(messenger Messenger) *ReminderNotifier {
	return &ReminderNotifier{messenger: messenger}
}

// SendReminder отправляет пользователю напоминание о завтрашнем занятии
func (n *ReminderNotifier) SendReminder(userID int64, booking *domain.Booking) error {
	text := fmt.Sprintf(msgReminderText, booking.Date, booking.Time)
	choices := []Choice{
		{Label: msgReminderConfirm, Value: reminderConfirmValue(userID, booking.Date, booking.Time)},
		{Label: msgReminderDecline, Value: reminderCancelValue(userID, booking.Date, booking.Time)},
	}
	return n.messenger.SendChoices(userID, text, choices)
}
