package send_reminders

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование по идентичности
	// из напоминания уже не существует или не активно
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("internal error")
)
