package send_reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	bookingsService "github.com/m04kA/TLB-TutorBot/internal/service/bookings"
	slotsService "github.com/m04kA/TLB-TutorBot/internal/service/slots"
)

// UseCase use case напоминаний о занятиях за день до начала
type UseCase struct {
	bookingLedger BookingLedger
	slotLedger    SlotLedger
	notifier      Notifier
	timeProvider  TimeProvider
	logger        Logger

	reminderHour int
	sent         *sentCache
}

// NewUseCase создает новый экземпляр use case напоминаний.
// reminderHour — час суток, начиная с которого напоминания считаются
// подлежащими отправке.
func NewUseCase(
	bookingLedger BookingLedger,
	slotLedger SlotLedger,
	notifier Notifier,
	reminderHour int,
	logger Logger,
) *UseCase {
	if reminderHour < 0 || reminderHour > 23 {
		reminderHour = domain.DefaultReminderHour
	}

	return &UseCase{
		bookingLedger: bookingLedger,
		slotLedger:    slotLedger,
		notifier:      notifier,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
		reminderHour:  reminderHour,
		sent:          newSentCache(),
	}
}

// Sweep отправляет напоминания по всем активным бронированиям, до начала
// которых остался ровно один календарный день. Каждое напоминание уходит
// не более одного раза; сбой доставки одному пользователю не мешает
// остальным. Возвращает число отправленных напоминаний.
func (uc *UseCase) Sweep(ctx context.Context) (int, error) {
	now := uc.timeProvider.Now()
	uc.logger.Info("SendReminders: sweep started at %s", now.Format("2006-01-02 15:04"))

	if now.Hour() < uc.reminderHour {
		uc.logger.Info("SendReminders: before reminder hour %d, nothing to do", uc.reminderHour)
		return 0, nil
	}

	active, err := uc.bookingLedger.List(ctx, domain.BookingFilter{ActiveOnly: true})
	if err != nil {
		uc.logger.Error("SendReminders: failed to list bookings: %v", err)
		return 0, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	sent := 0
	for _, booking := range active {
		start, err := domain.LessonStart(booking.Date, booking.Time)
		if err != nil {
			// Запись с нечитаемой идентичностью пропускаем, не прерывая обход
			uc.logger.Warn("SendReminders: skipping booking id=%d with bad identity (%s, %s)",
				booking.ID, booking.Date, booking.Time)
			continue
		}

		if !dayBefore(now, start) {
			continue
		}

		key := reminderKey(booking.UserID, booking.Date, booking.Time)
		if !uc.sent.markIfNew(key) {
			continue
		}

		if err := uc.notifier.SendReminder(booking.UserID, booking); err != nil {
			// Возвращаем ключ, чтобы следующий проход повторил попытку
			uc.sent.forget(key)
			uc.logger.Error("SendReminders: failed to notify user=%d about (%s, %s): %v",
				booking.UserID, booking.Date, booking.Time, err)
			continue
		}

		sent++
		uc.logger.Info("SendReminders: reminder sent to user=%d for (%s, %s)",
			booking.UserID, booking.Date, booking.Time)
	}

	uc.logger.Info("SendReminders: sweep finished, %d reminders sent", sent)
	return sent, nil
}

// Confirm подтверждает бронирование по идентичности из напоминания
func (uc *UseCase) Confirm(ctx context.Context, userID int64, date, timeRange string) error {
	booking, err := uc.findActive(ctx, userID, date, timeRange)
	if err != nil {
		return err
	}

	if err := uc.bookingLedger.SetConfirmed(ctx, booking.ID); err != nil {
		if errors.Is(err, bookingsService.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		uc.logger.Error("SendReminders: confirm failed for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
	}

	uc.logger.Info("SendReminders: booking id=%d confirmed from reminder by user=%d", booking.ID, userID)
	return nil
}

// Cancel отменяет бронирование по идентичности из напоминания и
// освобождает слот
func (uc *UseCase) Cancel(ctx context.Context, userID int64, date, timeRange string) (*domain.Booking, error) {
	booking, err := uc.findActive(ctx, userID, date, timeRange)
	if err != nil {
		return nil, err
	}

	cancelled, err := uc.bookingLedger.CancelByUser(ctx, booking.ID, userID)
	if err != nil {
		if errors.Is(err, bookingsService.ErrBookingNotFound) ||
			errors.Is(err, bookingsService.ErrAlreadyCancelled) {
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("SendReminders: cancel failed for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
	}

	if err := uc.slotLedger.SetAvailability(ctx, date, timeRange, true); err != nil {
		if errors.Is(err, slotsService.ErrSlotNotFound) {
			uc.logger.Warn("SendReminders: slot (%s, %s) not found while releasing", date, timeRange)
		} else {
			return nil, fmt.Errorf("%w: failed to release slot: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("SendReminders: booking id=%d cancelled from reminder by user=%d", booking.ID, userID)
	return cancelled, nil
}

func (uc *UseCase) findActive(ctx context.Context, userID int64, date, timeRange string) (*domain.Booking, error) {
	booking, err := uc.bookingLedger.FindActiveByIdentity(ctx, userID, date, timeRange)
	if err != nil {
		if errors.Is(err, bookingsService.ErrBookingNotFound) {
			uc.logger.Warn("SendReminders: no active booking for user=%d slot=(%s, %s)", userID, date, timeRange)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("SendReminders: lookup failed for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to find booking: %v", ErrInternal, err)
	}
	return booking, nil
}

// dayBefore проверяет, что начало занятия приходится на следующий
// календарный день относительно now
func dayBefore(now, start time.Time) bool {
	tomorrow := now.AddDate(0, 0, 1)
	return start.Year() == tomorrow.Year() &&
		start.Month() == tomorrow.Month() &&
		start.Day() == tomorrow.Day()
}
