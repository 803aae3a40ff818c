package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotExists возвращается при попытке добавить уже существующий слот
	ErrSlotExists = errors.New("slot already exists")

	// ErrInvalidSlot возвращается при некорректной дате или времени слота
	ErrInvalidSlot = errors.New("invalid slot data")

	// ErrInternal возвращается при внутренних ошибках хранилища
	ErrInternal = errors.New("internal error")
)
