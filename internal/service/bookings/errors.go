package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrUserNotFound возвращается, когда профиль пользователя не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrAccessDenied возвращается при попытке действия над чужим бронированием
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyCancelled возвращается при повторной отмене бронирования
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	// ErrInternal возвращается при внутренних ошибках хранилища
	ErrInternal = errors.New("internal error")
)
