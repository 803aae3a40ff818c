package analytics

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках хранилища
	ErrInternal = errors.New("internal error")
)
