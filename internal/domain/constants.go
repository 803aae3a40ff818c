package domain

// Форматы даты и времени являются частью идентичности слота: строки в этих
// форматах используются как ключи леджера и передаются в callback-данных,
// менять их нельзя без миграции существующих данных.
const (
	DateFormat      = "02.01.2006"                 // DD.MM.YYYY
	TimeFormat      = "15:04"                      // HH:MM
	TimestampFormat = "2006-01-02T15:04:05Z07:00" // RFC 3339, поле timestamp бронирования
)

// Business constants
const (
	// MaxOfferedDates максимум дат, предлагаемых клиенту при записи
	MaxOfferedDates = 7

	// MinPhoneDigits минимальное количество цифр в номере телефона
	MinPhoneDigits = 10

	// SlotCellMinutes длительность одной ячейки слота
	SlotCellMinutes = 60

	// DefaultReminderHour час суток, начиная с которого рассылаются напоминания
	DefaultReminderHour = 9

	// TopListLimit размер топ-списков в аналитике
	TopListLimit = 5
)
