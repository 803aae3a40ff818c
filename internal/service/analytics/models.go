package analytics

// NameCount пара (имя, количество) для топ-списков
type NameCount struct {
	Name  string
	Count int
}

// Report сводка по леджеру бронирований
type Report struct {
	Total            int
	Active           int
	Confirmed        int
	CancelledByUser  int
	CancelledByAdmin int

	// Окна по полю timestamp записи; записи с нечитаемым timestamp
	// в окна не попадают
	Last7Days  int
	Last30Days int
	LastYear   int

	// TopChildren дети с наибольшим числом бронирований
	TopChildren []NameCount

	// TopCancellers пользователи с наибольшим числом отмен,
	// идентифицируются именем опекуна из профиля
	TopCancellers []NameCount
}
