package book_lesson

import "errors"

var (
	// ErrNoActiveSession возвращается, когда у пользователя нет начатого диалога
	ErrNoActiveSession = errors.New("no active booking session")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("internal error")

	// errSlotTaken сигнал отката коммита: слот заняли раньше подтверждения
	errSlotTaken = errors.New("slot taken before confirm")
)
