package domain

// Homework ties a booking to an attachment and a tutor's comment
//
// Со стороны ядра записи домашних заданий только читаются.
type Homework struct {
	ID        int64
	BookingID int64
	UserID    int64
	FileID    string // идентификатор вложения в транспорте
	Comment   string
	SentAt    string // RFC 3339
}
