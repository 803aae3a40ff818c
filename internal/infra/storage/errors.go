// Package storage содержит общие для всех бэкендов хранилища ошибки.
// Файловый и postgres-бэкенды оборачивают их, сервисный слой сопоставляет
// через errors.Is, не зная, какой бэкенд сконфигурирован.
package storage

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот с указанной идентичностью не найден
	ErrSlotNotFound = errors.New("storage: slot not found")

	// ErrSlotExists возвращается при попытке добавить слот с существующей идентичностью (date, time)
	ErrSlotExists = errors.New("storage: slot already exists")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("storage: booking not found")

	// ErrUserNotFound возвращается, когда профиль пользователя не найден
	ErrUserNotFound = errors.New("storage: user not found")
)
