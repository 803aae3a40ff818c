package domain

// UserProfile represents a registered guardian
//
// Профиль обновляется при каждой успешной записи (upsert) и никогда не
// удаляется.
type UserProfile struct {
	UserID       int64
	GuardianName string
	Phone        string
	Timestamp    string // RFC 3339, момент последнего обновления
}
