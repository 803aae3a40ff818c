package book_lesson

// Тексты шагов диалога записи
const (
	msgAskGuardianName = "Как вас зовут? Введите имя родителя."
	msgAskChildName    = "Как зовут ребёнка?"
	msgAskPhone        = "Введите контактный номер телефона."
	msgChooseDate      = "Выберите удобную дату:"
	msgChooseTime      = "Выберите удобное время:"

	msgInvalidName  = "Имя не должно быть пустым или слишком длинным. Попробуйте ещё раз."
	msgInvalidPhone = "Номер телефона указан некорректно. Используйте цифры, +, -, скобки и пробелы, не менее 10 цифр."

	msgNoDates       = "Свободных дат для записи пока нет. Загляните позже."
	msgNoTimesOnDate = "На эту дату свободного времени не осталось. Выберите другую дату:"
	msgUseButtons    = "Пожалуйста, воспользуйтесь кнопками выше."
	msgUnknownDate   = "Эта дата уже недоступна. Выберите другую:"
	msgUnknownTime   = "Это время уже недоступно. Выберите другое:"

	msgConfirmTemplate = "Проверьте данные записи:\n\nРодитель: %s\nРебёнок: %s\nТелефон: %s\nДата: %s\nВремя: %s\n\nПодтверждаете запись?"
	msgConfirmButton   = "Подтвердить"
	msgCancelButton    = "Отменить"

	msgSlotTaken = "К сожалению, это время только что заняли. Начните запись заново."
	msgBooked    = "Запись подтверждена!\n\nДата: %s\nВремя: %s\n\nЖдём вас на занятии."
	msgAborted   = "Запись отменена. Вы всегда можете начать заново."
)
