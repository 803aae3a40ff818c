package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Slot represents a bookable (date, time-range) cell in the schedule
//
// Идентичность слота — пара (Date, Time) в форматах DD.MM.YYYY и HH:MM-HH:MM.
// На одну идентичность существует не более одного слота.
type Slot struct {
	Date           string // DD.MM.YYYY
	Time           string // HH:MM-HH:MM
	Available      bool
	DeletedByAdmin bool
}

// NewSlot создает свободный слот с валидной идентичностью
func NewSlot(date, timeRange string) (*Slot, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	if _, _, err := ParseTimeRange(timeRange); err != nil {
		return nil, err
	}

	return &Slot{
		Date:      date,
		Time:      timeRange,
		Available: true,
	}, nil
}

// IsOfferable returns true if the slot can be offered to a client
// Слот, удалённый администратором, не предлагается никогда, даже если Available=true
func (s *Slot) IsOfferable() bool {
	return s.Available && !s.DeletedByAdmin
}

// StartTime возвращает момент начала занятия (дата + первое HH:MM диапазона)
func (s *Slot) StartTime() (time.Time, error) {
	return LessonStart(s.Date, s.Time)
}

// ParseDate парсит дату в формате DD.MM.YYYY.
// Дата трактуется в локальной зоне процесса: расписание и текущее время
// живут в одном часовом поясе, и сравнения начала занятия с Now() не должны
// смещаться на UTC-офсет хоста.
func ParseDate(date string) (time.Time, error) {
	d, err := time.ParseInLocation(DateFormat, date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, date)
	}
	return d, nil
}

// ParseTimeRange парсит диапазон HH:MM-HH:MM и возвращает часы начала и конца.
// Диапазон валиден, только если час начала строго меньше часа конца.
func ParseTimeRange(timeRange string) (startHour, endHour int, err error) {
	parts := strings.SplitN(timeRange, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, timeRange)
	}

	start, err := time.Parse(TimeFormat, strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, timeRange)
	}
	end, err := time.Parse(TimeFormat, strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, timeRange)
	}

	if start.Hour() >= end.Hour() {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeRange, timeRange)
	}

	return start.Hour(), end.Hour(), nil
}

// SplitTimeRange разбивает диапазон на часовые ячейки вида HH:00-HH:00.
// Например, 09:00-12:00 -> [09:00-10:00, 10:00-11:00, 11:00-12:00].
func SplitTimeRange(timeRange string) ([]string, error) {
	startHour, endHour, err := ParseTimeRange(timeRange)
	if err != nil {
		return nil, err
	}

	cells := make([]string, 0, endHour-startHour)
	for hour := startHour; hour < endHour; hour++ {
		cells = append(cells, fmt.Sprintf("%02d:00-%02d:00", hour, hour+1))
	}

	return cells, nil
}

// LessonStart возвращает момент начала занятия для пары (дата, диапазон).
// Берётся первое HH:MM диапазона; если разделителя нет, строка целиком
// трактуется как время начала (поведение исходной системы).
func LessonStart(date, timeRange string) (time.Time, error) {
	day, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}

	startStr := timeRange
	if idx := strings.Index(timeRange, "-"); idx >= 0 {
		startStr = timeRange[:idx]
	}
	startStr = strings.TrimSpace(startStr)

	start, err := time.Parse(TimeFormat, startStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, timeRange)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, day.Location()), nil
}

// TimeSortKey возвращает ключ сортировки времени слота по часу начала.
// Нечисловые значения сортируются в конец.
func TimeSortKey(timeRange string) int {
	hourStr, _, found := strings.Cut(timeRange, ":")
	if !found {
		return 99
	}
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return 99
	}
	return hour
}
