package manage_slots

// Тексты диалога добавления слотов и уведомлений
const (
	msgAskDate      = "Введите дату в формате ДД.ММ.ГГГГ:"
	msgAskTimeRange = "Введите диапазон времени в формате ЧЧ:ММ-ЧЧ:ММ, например 09:00-12:00:"

	msgInvalidDate      = "Дата указана некорректно. Нужен формат ДД.ММ.ГГГГ, например 15.09.2026."
	msgInvalidTimeRange = "Диапазон указан некорректно. Нужен формат ЧЧ:ММ-ЧЧ:ММ, время начала раньше времени конца."

	msgAddedTemplate    = "Добавлены слоты на %s: %s"
	msgExistingTemplate = "\nУже существовали: %s"

	msgSlotDeletedNotification = "К сожалению, занятие %s в %s отменено преподавателем. Приносим извинения за неудобства."
)
