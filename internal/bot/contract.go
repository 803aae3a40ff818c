package bot

import (
	"context"
	"time"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	"github.com/m04kA/TLB-TutorBot/internal/service/analytics"
	"github.com/m04kA/TLB-TutorBot/internal/usecase/book_lesson"
	"github.com/m04kA/TLB-TutorBot/internal/usecase/manage_slots"
)

// Choice кнопка инлайн-клавиатуры
type Choice struct {
	Label string
	Value string
}

// Update входящее событие транспорта в обобщённом виде
type Update struct {
	UserID       int64
	ChatID       int64
	Text         string
	Command      string // команда без слэша, если сообщение начинается с неё
	CallbackID   string
	CallbackData string
}

// IsCallback сообщает, является ли событие нажатием кнопки
func (u *Update) IsCallback() bool {
	return u.CallbackID != ""
}

// Messenger исходящий транспорт
type Messenger interface {
	SendText(chatID int64, text string) error
	SendChoices(chatID int64, text string, choices []Choice) error
	AnswerCallback(callbackID string) error
}

// BookingDialog диалог записи на занятие
type BookingDialog interface {
	Start(ctx context.Context, userID int64) (*book_lesson.Prompt, error)
	HandleText(ctx context.Context, userID int64, text string) (*book_lesson.Prompt, error)
	HandleChoice(ctx context.Context, userID int64, value string) (*book_lesson.Prompt, error)
	InProgress(userID int64) bool
	Abort(userID int64)
}

// CancelFlow отмена бронирования пользователем
type CancelFlow interface {
	Execute(ctx context.Context, userID, bookingID int64) (*domain.Booking, error)
}

// AdminOps административные операции с расписанием
type AdminOps interface {
	StartAddSlots(userID int64) *manage_slots.Prompt
	HandleText(ctx context.Context, userID int64, text string) (*manage_slots.Prompt, error)
	InProgress(userID int64) bool
	Abort(userID int64)
	ListSlots(ctx context.Context) ([]manage_slots.DateSlots, error)
	ViewBookings(ctx context.Context) ([]*domain.Booking, error)
	DeleteSlot(ctx context.Context, date, timeRange string) (*manage_slots.DeleteResult, error)
}

// ReminderFlow действия из напоминания
type ReminderFlow interface {
	Confirm(ctx context.Context, userID int64, date, timeRange string) error
	Cancel(ctx context.Context, userID int64, date, timeRange string) (*domain.Booking, error)
}

// AnalyticsProvider сводка по леджеру бронирований
type AnalyticsProvider interface {
	BuildReport(ctx context.Context, now time.Time) (*analytics.Report, error)
}

// LedgerViewer выборки леджеров для пользовательских экранов
type LedgerViewer interface {
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]*domain.Booking, error)
	ListHomeworksByUser(ctx context.Context, userID int64) ([]*domain.Homework, error)
}

// AdminChecker проверка привилегий пользователя
type AdminChecker interface {
	IsAdmin(userID int64) bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
