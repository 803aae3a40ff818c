package domain

import "errors"

var (
	// ErrInvalidDateFormat возвращается, когда дата не соответствует формату DD.MM.YYYY
	ErrInvalidDateFormat = errors.New("domain: invalid date format, expected DD.MM.YYYY")

	// ErrInvalidTimeFormat возвращается, когда время не соответствует формату HH:MM-HH:MM
	ErrInvalidTimeFormat = errors.New("domain: invalid time format, expected HH:MM-HH:MM")

	// ErrInvalidTimeRange возвращается, когда час начала не меньше часа конца
	ErrInvalidTimeRange = errors.New("domain: invalid time range, start hour must be before end hour")
)
