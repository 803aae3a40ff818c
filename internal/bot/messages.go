package bot

// Пользовательские тексты бота
const (
	msgWelcome = "Здравствуйте! Я бот-помощник репетитора. Здесь можно записаться на занятие, посмотреть свои записи и домашние задания."
	msgMenu    = "Выберите действие:"
	msgHelp    = "Я умею:\n\n- записывать на занятие\n- показывать ваши записи\n- показывать домашние задания\n- отменять запись\n\nЗапись подтверждается в диалоге шаг за шагом. За день до занятия придёт напоминание."

	msgNoBookings      = "У вас пока нет активных записей."
	msgBookingsHeader  = "Ваши записи:\n"
	msgNoHomework      = "Домашних заданий пока нет."
	msgHomeworkHeader  = "Ваши домашние задания:\n"
	msgChooseCancel    = "Выберите запись для отмены:"
	msgCancelDone      = "Запись на %s в %s отменена. Слот снова свободен."
	msgCancelNotFound  = "Эта запись уже не активна."
	msgReminderGone    = "Эта запись уже не активна, подтверждать или отменять нечего."
	msgConfirmThanks   = "Спасибо за подтверждение! Ждём вас на занятии %s в %s."
	msgReminderCancel  = "Запись на %s в %s отменена. Слот снова свободен."
	msgReminderText    = "Напоминание: завтра, %s, в %s у вас занятие. Подтвердите, пожалуйста, участие."
	msgReminderConfirm = "Подтверждаю"
	msgReminderDecline = "Отменить запись"

	msgNotAdmin       = "Эта операция доступна только администратору."
	msgAdminMenu      = "Панель администратора:"
	msgAdminHelp      = "Команды администратора:\n\n- добавление слотов в расписание\n- просмотр расписания со статусами\n- просмотр всех бронирований\n- удаление слота с отменой записей и уведомлением\n- аналитика по записям"
	msgNoSlots        = "Слотов в расписании пока нет."
	msgSlotsHeader    = "Расписание:\n"
	msgNoAllBookings  = "Бронирований пока нет."
	msgSlotDeleted    = "Слот %s %s удалён. Отменено бронирований: %d."
	msgSlotNotFound   = "Такого слота нет в расписании."
	msgSessionExpired = "Диалог записи был прерван. Начните запись заново."
	msgUnknownAction  = "Не понимаю это действие. Вернитесь в меню."
	msgInternalError  = "Что-то пошло не так. Попробуйте ещё раз чуть позже."
	msgTypeOrMenu     = "Чтобы начать, выберите действие в меню: /start"
)

// Подписи кнопок меню
const (
	btnBookLesson    = "Записаться на занятие"
	btnMyBookings    = "Мои записи"
	btnMyHomework    = "Домашние задания"
	btnCancelBooking = "Отменить запись"
	btnHelp          = "Помощь"
	btnMainMenu      = "В меню"

	btnAddSlots     = "Добавить слоты"
	btnViewSlots    = "Расписание"
	btnViewBookings = "Все бронирования"
	btnAnalytics    = "Аналитика"
)

// Глифы состояния слота в обзоре расписания
const (
	glyphFree    = "✅"
	glyphBooked  = "❌"
	glyphDeleted = "🗑"
)
