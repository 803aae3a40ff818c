package manage_slots

import "errors"

var (
	// ErrNoActiveSession возвращается, когда диалог добавления не начат
	ErrNoActiveSession = errors.New("no active add-slots session")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("internal error")
)
