package bot

import (
	"fmt"
	"strings"
)

// Значения callback-данных главного меню
const (
	cbBookLesson    = "book_lesson"
	cbMyBookings    = "my_bookings"
	cbMyHomework    = "my_homework"
	cbCancelBooking = "cancel_booking"
	cbHelp          = "help"
	cbMainMenu      = "main_menu"

	cbAddSlots     = "add_slots"
	cbViewSlots    = "view_slots"
	cbViewBookings = "view_bookings"
	cbAnalytics    = "analytics"
)

// Префиксы параметризованных callback-данных. Дата и диапазон времени
// передаются как есть: они же являются ключами леджера слотов.
const (
	prefixFlow     = "flow:"     // выбор в диалоге записи
	prefixUCancel  = "ucancel:"  // отмена бронирования по id
	prefixDelSlot  = "delslot:"  // удаление слота администратором
	prefixRConfirm = "rconfirm:" // подтверждение из напоминания
	prefixRCancel  = "rcancel:"  // отмена из напоминания
)

func flowValue(value string) string {
	return prefixFlow + value
}

func cancelValue(bookingID int64) string {
	return fmt.Sprintf("%s%d", prefixUCancel, bookingID)
}

func deleteSlotValue(date, timeRange string) string {
	return fmt.Sprintf("%s%s:%s", prefixDelSlot, date, timeRange)
}

// parseDeleteSlot разбирает "delslot:<дата>:<диапазон>".
// Диапазон содержит двоеточия, поэтому делим строку не более чем на 3 части.
func parseDeleteSlot(data string) (date, timeRange string, ok bool) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

func reminderConfirmValue(userID int64, date, timeRange string) string {
	return fmt.Sprintf("%s%d:%s:%s", prefixRConfirm, userID, date, timeRange)
}

func reminderCancelValue(userID int64, date, timeRange string) string {
	return fmt.Sprintf("%s%d:%s:%s", prefixRCancel, userID, date, timeRange)
}

// parseReminder разбирает "<префикс><пользователь>:<дата>:<диапазон>"
func parseReminder(data string) (userID string, date, timeRange string, ok bool) {
	parts := strings.SplitN(data, ":", 4)
	if len(parts) != 4 || parts[1] == "" || parts[2] == "" || parts[3] == "" {
		return "", "", "", false
	}
	return parts[1], parts[2], parts[3], true
}
