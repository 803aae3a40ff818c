package book_lesson

// State этап диалога записи
type State string

const (
	// StateGuardianName ожидание имени родителя
	StateGuardianName State = "guardian_name"

	// StateChildName ожидание имени ребёнка
	StateChildName State = "child_name"

	// StatePhone ожидание номера телефона
	StatePhone State = "phone"

	// StateDateChoice ожидание выбора даты
	StateDateChoice State = "date_choice"

	// StateTimeChoice ожидание выбора времени
	StateTimeChoice State = "time_choice"

	// StateFinalConfirm ожидание финального подтверждения
	StateFinalConfirm State = "final_confirm"
)

// Значения выбора на финальном шаге
const (
	ChoiceConfirm = "confirm"
	ChoiceCancel  = "cancel"
)

// Session накопленное состояние диалога одного пользователя
type Session struct {
	State        State
	GuardianName string
	ChildName    string
	Phone        string
	Date         string
	Time         string
}

// Choice кнопка выбора, предлагаемая пользователю
type Choice struct {
	Label string
	Value string
}

// Prompt следующий шаг диалога: текст и, возможно, варианты выбора.
// Done означает, что диалог завершён и сессия очищена; Booked выставляется
// только при успешной фиксации записи.
type Prompt struct {
	Text    string
	Choices []Choice
	Done    bool
	Booked  bool
}
