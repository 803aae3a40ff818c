package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	"github.com/m04kA/TLB-TutorBot/internal/usecase/book_lesson"
	"github.com/m04kA/TLB-TutorBot/internal/usecase/cancel_booking"
	"github.com/m04kA/TLB-TutorBot/internal/usecase/manage_slots"
	"github.com/m04kA/TLB-TutorBot/internal/usecase/send_reminders"
	"github.com/m04kA/TLB-TutorBot/pkg/metrics"
)

// timeNow переопределяется в тестах
var timeNow = time.Now

// Router принимает обобщённые события транспорта и ведёт пользователя по
// сценариям бота. Ошибка обработки одного события не влияет на остальные.
type Router struct {
	messenger Messenger
	booking   BookingDialog
	cancel    CancelFlow
	admin     AdminOps
	reminders ReminderFlow
	analytics AnalyticsProvider
	ledger    LedgerViewer
	admins    AdminChecker
	metrics   *metrics.Metrics
	logger    Logger
}

// NewRouter создает новый маршрутизатор событий бота
func NewRouter(
	messenger Messenger,
	booking BookingDialog,
	cancel CancelFlow,
	admin AdminOps,
	reminders ReminderFlow,
	analytics AnalyticsProvider,
	ledger LedgerViewer,
	admins AdminChecker,
	m *metrics.Metrics,
	logger Logger,
) *Router {
	return &Router{
		messenger: messenger,
		booking:   booking,
		cancel:    cancel,
		admin:     admin,
		reminders: reminders,
		analytics: analytics,
		ledger:    ledger,
		admins:    admins,
		metrics:   m,
		logger:    logger,
	}
}

// HandleUpdate обрабатывает одно событие транспорта.
// Паника в обработчике гасится: одно сообщение не должно ронять процесс.
func (r *Router) HandleUpdate(ctx context.Context, upd *Update) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Router: panic while handling update from user=%d: %v", upd.UserID, rec)
			r.reply(upd, msgInternalError)
		}
	}()

	if upd.IsCallback() {
		r.metrics.UpdatesTotal.WithLabelValues("callback").Inc()
		if err := r.messenger.AnswerCallback(upd.CallbackID); err != nil {
			r.logger.Warn("Router: failed to answer callback for user=%d: %v", upd.UserID, err)
		}
		r.handleCallback(ctx, upd)
		return
	}

	r.metrics.UpdatesTotal.WithLabelValues("message").Inc()
	r.handleMessage(ctx, upd)
}

func (r *Router) handleMessage(ctx context.Context, upd *Update) {
	switch upd.Command {
	case "start":
		r.booking.Abort(upd.UserID)
		r.admin.Abort(upd.UserID)
		r.reply(upd, msgWelcome)
		r.sendMenu(upd)
		return
	case "help":
		r.reply(upd, msgHelp)
		return
	case "admin":
		if !r.requireAdmin(upd) {
			return
		}
		r.booking.Abort(upd.UserID)
		r.admin.Abort(upd.UserID)
		r.sendAdminMenu(upd)
		return
	case "admin_help":
		if !r.requireAdmin(upd) {
			return
		}
		r.reply(upd, msgAdminHelp)
		return
	}

	// Текст вне команд принадлежит идущему диалогу
	if r.admins.IsAdmin(upd.UserID) && r.admin.InProgress(upd.UserID) {
		prompt, err := r.admin.HandleText(ctx, upd.UserID, upd.Text)
		if err != nil {
			r.failure(upd, "admin dialog", err)
			return
		}
		r.reply(upd, prompt.Text)
		if prompt.Done {
			r.sendMenu(upd)
		}
		return
	}

	if r.booking.InProgress(upd.UserID) {
		prompt, err := r.booking.HandleText(ctx, upd.UserID, upd.Text)
		if err != nil {
			r.failure(upd, "booking dialog", err)
			return
		}
		r.sendPrompt(upd, prompt)
		return
	}

	r.reply(upd, msgTypeOrMenu)
}

func (r *Router) handleCallback(ctx context.Context, upd *Update) {
	data := upd.CallbackData

	switch {
	case strings.HasPrefix(data, prefixFlow):
		r.handleFlowChoice(ctx, upd, strings.TrimPrefix(data, prefixFlow))
	case strings.HasPrefix(data, prefixUCancel):
		r.handleUserCancel(ctx, upd, strings.TrimPrefix(data, prefixUCancel))
	case strings.HasPrefix(data, prefixDelSlot):
		r.handleDeleteSlot(ctx, upd, data)
	case strings.HasPrefix(data, prefixRConfirm):
		r.handleReminderAction(ctx, upd, data, true)
	case strings.HasPrefix(data, prefixRCancel):
		r.handleReminderAction(ctx, upd, data, false)
	default:
		r.handleMenuAction(ctx, upd, data)
	}
}

func (r *Router) handleMenuAction(ctx context.Context, upd *Update, action string) {
	switch action {
	case cbMainMenu:
		r.booking.Abort(upd.UserID)
		r.admin.Abort(upd.UserID)
		r.sendMenu(upd)

	case cbHelp:
		r.reply(upd, msgHelp)

	case cbBookLesson:
		prompt, err := r.booking.Start(ctx, upd.UserID)
		if err != nil {
			r.failure(upd, "start booking", err)
			return
		}
		r.sendPrompt(upd, prompt)

	case cbMyBookings:
		r.showMyBookings(ctx, upd)

	case cbMyHomework:
		r.showMyHomework(ctx, upd)

	case cbCancelBooking:
		r.showCancelList(ctx, upd)

	case cbAddSlots:
		if !r.requireAdmin(upd) {
			return
		}
		prompt := r.admin.StartAddSlots(upd.UserID)
		r.reply(upd, prompt.Text)

	case cbViewSlots:
		if !r.requireAdmin(upd) {
			return
		}
		r.showSlots(ctx, upd)

	case cbViewBookings:
		if !r.requireAdmin(upd) {
			return
		}
		r.showAllBookings(ctx, upd)

	case cbAnalytics:
		if !r.requireAdmin(upd) {
			return
		}
		r.showAnalytics(ctx, upd)

	default:
		r.logger.Warn("Router: unknown callback %q from user=%d", action, upd.UserID)
		r.reply(upd, msgUnknownAction)
	}
}

func (r *Router) handleFlowChoice(ctx context.Context, upd *Update, value string) {
	prompt, err := r.booking.HandleChoice(ctx, upd.UserID, value)
	if err != nil {
		if errors.Is(err, book_lesson.ErrNoActiveSession) {
			r.reply(upd, msgSessionExpired)
			r.sendMenu(upd)
			return
		}
		r.failure(upd, "booking choice", err)
		return
	}

	if prompt.Booked {
		r.metrics.BookingsCreated.Inc()
	}
	r.sendPrompt(upd, prompt)
}

func (r *Router) handleUserCancel(ctx context.Context, upd *Update, rawID string) {
	bookingID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		r.reply(upd, msgUnknownAction)
		return
	}

	booking, err := r.cancel.Execute(ctx, upd.UserID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, cancel_booking.ErrBookingNotFound),
			errors.Is(err, cancel_booking.ErrAlreadyCancelled),
			errors.Is(err, cancel_booking.ErrAccessDenied):
			r.reply(upd, msgCancelNotFound)
		default:
			r.failure(upd, "cancel booking", err)
		}
		return
	}

	r.metrics.BookingsCancelled.WithLabelValues("user").Inc()
	r.reply(upd, fmt.Sprintf(msgCancelDone, booking.Date, booking.Time))
}

func (r *Router) handleDeleteSlot(ctx context.Context, upd *Update, data string) {
	if !r.requireAdmin(upd) {
		return
	}

	date, timeRange, ok := parseDeleteSlot(data)
	if !ok {
		r.reply(upd, msgUnknownAction)
		return
	}

	result, err := r.admin.DeleteSlot(ctx, date, timeRange)
	if err != nil {
		if errors.Is(err, manage_slots.ErrSlotNotFound) {
			r.reply(upd, msgSlotNotFound)
			return
		}
		r.failure(upd, "delete slot", err)
		return
	}

	r.metrics.BookingsCancelled.WithLabelValues("admin").Add(float64(len(result.Cancelled)))
	if result.NotifyFailed > 0 {
		r.metrics.NotifyFailures.Add(float64(result.NotifyFailed))
	}
	r.reply(upd, fmt.Sprintf(msgSlotDeleted, date, timeRange, len(result.Cancelled)))
}

func (r *Router) handleReminderAction(ctx context.Context, upd *Update, data string, confirm bool) {
	rawUser, date, timeRange, ok := parseReminder(data)
	if !ok {
		r.reply(upd, msgUnknownAction)
		return
	}

	// Кнопка живёт в личном чате адресата; чужой идентификатор в данных
	// означает подделку callback-данных
	if rawUser != strconv.FormatInt(upd.UserID, 10) {
		r.logger.Warn("Router: reminder callback user mismatch: data=%s from user=%d", data, upd.UserID)
		r.reply(upd, msgUnknownAction)
		return
	}

	if confirm {
		if err := r.reminders.Confirm(ctx, upd.UserID, date, timeRange); err != nil {
			if errors.Is(err, send_reminders.ErrBookingNotFound) {
				r.reply(upd, msgReminderGone)
				return
			}
			r.failure(upd, "reminder confirm", err)
			return
		}
		r.reply(upd, fmt.Sprintf(msgConfirmThanks, date, timeRange))
		return
	}

	if _, err := r.reminders.Cancel(ctx, upd.UserID, date, timeRange); err != nil {
		if errors.Is(err, send_reminders.ErrBookingNotFound) {
			r.reply(upd, msgReminderGone)
			return
		}
		r.failure(upd, "reminder cancel", err)
		return
	}

	r.metrics.BookingsCancelled.WithLabelValues("user").Inc()
	r.reply(upd, fmt.Sprintf(msgReminderCancel, date, timeRange))
}

func (r *Router) showMyBookings(ctx context.Context, upd *Update) {
	userID := upd.UserID
	bookings, err := r.ledger.List(ctx, domain.BookingFilter{UserID: &userID})
	if err != nil {
		r.failure(upd, "list bookings", err)
		return
	}

	var sb strings.Builder
	var shown int
	sb.WriteString(msgBookingsHeader)
	for _, b := range bookings {
		// Отменённые самим пользователем записи не показываем
		if b.CancelledByUser {
			continue
		}
		status := " (ожидает подтверждения)"
		switch {
		case b.CancelledByAdmin:
			status = " (отменено репетитором)"
		case b.Confirmed:
			status = " (подтверждено)"
		}
		fmt.Fprintf(&sb, "\n%s в %s, ребёнок: %s%s", b.Date, b.Time, b.ChildName, status)
		shown++
	}
	if shown == 0 {
		r.reply(upd, msgNoBookings)
		return
	}
	r.reply(upd, sb.String())
}

func (r *Router) showMyHomework(ctx context.Context, upd *Update) {
	homeworks, err := r.ledger.ListHomeworksByUser(ctx, upd.UserID)
	if err != nil {
		r.failure(upd, "list homework", err)
		return
	}
	if len(homeworks) == 0 {
		r.reply(upd, msgNoHomework)
		return
	}

	var sb strings.Builder
	sb.WriteString(msgHomeworkHeader)
	for _, hw := range homeworks {
		fmt.Fprintf(&sb, "\nЗадание #%d", hw.ID)
		if hw.Comment != "" {
			fmt.Fprintf(&sb, ": %s", hw.Comment)
		}
	}
	r.reply(upd, sb.String())
}

func (r *Router) showCancelList(ctx context.Context, upd *Update) {
	bookings, err := r.ledger.ListActiveByUser(ctx, upd.UserID)
	if err != nil {
		r.failure(upd, "list bookings", err)
		return
	}
	if len(bookings) == 0 {
		r.reply(upd, msgNoBookings)
		return
	}

	choices := make([]Choice, 0, len(bookings))
	for _, b := range bookings {
		choices = append(choices, Choice{
			Label: fmt.Sprintf("%s в %s", b.Date, b.Time),
			Value: cancelValue(b.ID),
		})
	}
	r.replyChoices(upd, msgChooseCancel, choices)
}

func (r *Router) showSlots(ctx context.Context, upd *Update) {
	grouped, err := r.admin.ListSlots(ctx)
	if err != nil {
		r.failure(upd, "list slots", err)
		return
	}
	if len(grouped) == 0 {
		r.reply(upd, msgNoSlots)
		return
	}

	var sb strings.Builder
	sb.WriteString(msgSlotsHeader)
	var choices []Choice
	for _, day := range grouped {
		fmt.Fprintf(&sb, "\n%s:", day.Date)
		for _, slot := range day.Slots {
			glyph := glyphFree
			switch {
			case slot.DeletedByAdmin:
				glyph = glyphDeleted
			case !slot.Available:
				glyph = glyphBooked
			}
			fmt.Fprintf(&sb, "\n  %s %s", glyph, slot.Time)

			if !slot.DeletedByAdmin {
				choices = append(choices, Choice{
					Label: fmt.Sprintf("Удалить %s %s", day.Date, slot.Time),
					Value: deleteSlotValue(day.Date, slot.Time),
				})
			}
		}
	}
	r.replyChoices(upd, sb.String(), choices)
}

func (r *Router) showAllBookings(ctx context.Context, upd *Update) {
	bookings, err := r.admin.ViewBookings(ctx)
	if err != nil {
		r.failure(upd, "view bookings", err)
		return
	}
	if len(bookings) == 0 {
		r.reply(upd, msgNoAllBookings)
		return
	}

	var sb strings.Builder
	for _, b := range bookings {
		fmt.Fprintf(&sb, "#%d %s в %s, %s (%s), тел. %s%s\n",
			b.ID, b.Date, b.Time, b.ChildName, b.GuardianName, b.Phone, bookingStatus(b))
	}
	r.reply(upd, sb.String())
}

func (r *Router) showAnalytics(ctx context.Context, upd *Update) {
	report, err := r.analytics.BuildReport(ctx, timeNow())
	if err != nil {
		r.failure(upd, "analytics", err)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Всего бронирований: %d\n", report.Total)
	fmt.Fprintf(&sb, "Активных: %d, подтверждено: %d\n", report.Active, report.Confirmed)
	fmt.Fprintf(&sb, "Отменено пользователями: %d, администратором: %d\n\n",
		report.CancelledByUser, report.CancelledByAdmin)
	fmt.Fprintf(&sb, "За 7 дней: %d\nЗа 30 дней: %d\nЗа год: %d\n", report.Last7Days, report.Last30Days, report.LastYear)

	if len(report.TopChildren) > 0 {
		sb.WriteString("\nЧастые ученики:\n")
		for _, item := range report.TopChildren {
			fmt.Fprintf(&sb, "  %s: %d\n", item.Name, item.Count)
		}
	}
	if len(report.TopCancellers) > 0 {
		sb.WriteString("\nЧасто отменяют:\n")
		for _, item := range report.TopCancellers {
			fmt.Fprintf(&sb, "  %s: %d\n", item.Name, item.Count)
		}
	}
	r.reply(upd, sb.String())
}

// sendPrompt отображает шаг диалога записи, добавляя префикс flow
// к значениям кнопок
func (r *Router) sendPrompt(upd *Update, prompt *book_lesson.Prompt) {
	if len(prompt.Choices) == 0 {
		r.reply(upd, prompt.Text)
		return
	}

	choices := make([]Choice, 0, len(prompt.Choices)+1)
	for _, c := range prompt.Choices {
		choices = append(choices, Choice{Label: c.Label, Value: flowValue(c.Value)})
	}
	// Из любого шага с клавиатурой можно выйти в главное меню
	choices = append(choices, Choice{Label: btnMainMenu, Value: cbMainMenu})
	r.replyChoices(upd, prompt.Text, choices)
}

func (r *Router) sendMenu(upd *Update) {
	choices := []Choice{
		{Label: btnBookLesson, Value: cbBookLesson},
		{Label: btnMyBookings, Value: cbMyBookings},
		{Label: btnMyHomework, Value: cbMyHomework},
		{Label: btnCancelBooking, Value: cbCancelBooking},
		{Label: btnHelp, Value: cbHelp},
	}
	if r.admins.IsAdmin(upd.UserID) {
		choices = append(choices,
			Choice{Label: btnAddSlots, Value: cbAddSlots},
			Choice{Label: btnViewSlots, Value: cbViewSlots},
			Choice{Label: btnViewBookings, Value: cbViewBookings},
			Choice{Label: btnAnalytics, Value: cbAnalytics},
		)
	}
	r.replyChoices(upd, msgMenu, choices)
}

func (r *Router) sendAdminMenu(upd *Update) {
	r.replyChoices(upd, msgAdminMenu, []Choice{
		{Label: btnAddSlots, Value: cbAddSlots},
		{Label: btnViewSlots, Value: cbViewSlots},
		{Label: btnViewBookings, Value: cbViewBookings},
		{Label: btnAnalytics, Value: cbAnalytics},
	})
}

func (r *Router) requireAdmin(upd *Update) bool {
	if r.admins.IsAdmin(upd.UserID) {
		return true
	}
	r.logger.Warn("Router: user=%d tried admin action without privileges", upd.UserID)
	r.reply(upd, msgNotAdmin)
	return false
}

func (r *Router) failure(upd *Update, op string, err error) {
	r.logger.Error("Router: %s failed for user=%d: %v", op, upd.UserID, err)
	r.reply(upd, msgInternalError)
}

func (r *Router) reply(upd *Update, text string) {
	if err := r.messenger.SendText(upd.ChatID, text); err != nil {
		r.metrics.NotifyFailures.Inc()
		r.logger.Error("Router: failed to send message to chat=%d: %v", upd.ChatID, err)
	}
}

func (r *Router) replyChoices(upd *Update, text string, choices []Choice) {
	if err := r.messenger.SendChoices(upd.ChatID, text, choices); err != nil {
		r.metrics.NotifyFailures.Inc()
		r.logger.Error("Router: failed to send choices to chat=%d: %v", upd.ChatID, err)
	}
}

// bookingStatus помечает подтверждённость: список содержит только активные записи
func bookingStatus(b *domain.Booking) string {
	if b.Confirmed {
		return " [подтверждено]"
	}
	return " [ожидает подтверждения]"
}
