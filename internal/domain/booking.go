package domain

import "time"

// Booking represents a guardian's reservation against one slot
//
// Date и Time — денормализованный снимок идентичности слота на момент создания
// записи; при последующих изменениях слота они не обновляются.
type Booking struct {
	ID           int64
	UserID       int64
	Date         string // DD.MM.YYYY, снимок
	Time         string // HH:MM-HH:MM, снимок
	GuardianName string
	ChildName    string
	Phone        string

	// Timestamp момент создания в формате RFC 3339. Хранится текстом: леджер
	// исторически содержит записи с битыми значениями, читатели обязаны
	// пропускать их, не прерывая обработку остальных.
	Timestamp string

	Confirmed        bool
	CancelledByUser  bool
	CancelledByAdmin bool
}

// IsActive returns true if neither cancellation flag is set
func (b *Booking) IsActive() bool {
	return !b.CancelledByUser && !b.CancelledByAdmin
}

// CreatedAt парсит момент создания записи
func (b *Booking) CreatedAt() (time.Time, error) {
	return time.Parse(TimestampFormat, b.Timestamp)
}

// BookingFilter фильтр для выборки бронирований
type BookingFilter struct {
	UserID     *int64 // только бронирования пользователя (опционально)
	ActiveOnly bool   // только записи без флагов отмены
}
