package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	bookingsService "github.com/m04kA/TLB-TutorBot/internal/service/bookings"
	slotsService "github.com/m04kA/TLB-TutorBot/internal/service/slots"
)

// UseCase use case отмены бронирования пользователем
type UseCase struct {
	bookingLedger BookingLedger
	slotLedger    SlotLedger
	txManager     TransactionManager
	logger        Logger
}

// NewUseCase создает новый экземпляр use case отмены
func NewUseCase(
	bookingLedger BookingLedger,
	slotLedger SlotLedger,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingLedger: bookingLedger,
		slotLedger:    slotLedger,
		txManager:     txManager,
		logger:        logger,
	}
}

// ListActive возвращает активные бронирования пользователя, которые он может
// отменить
func (uc *UseCase) ListActive(ctx context.Context, userID int64) ([]*domain.Booking, error) {
	result, err := uc.bookingLedger.ListActiveByUser(ctx, userID)
	if err != nil {
		uc.logger.Error("CancelBooking: failed to list bookings for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}
	return result, nil
}

// Execute отменяет бронирование пользователя и освобождает слот
func (uc *UseCase) Execute(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	uc.logger.Info("CancelBooking: user=%d cancelling booking id=%d", userID, bookingID)

	var cancelled *domain.Booking

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Отменяем бронирование с проверкой владельца
		booking, err := uc.bookingLedger.CancelByUser(txCtx, bookingID, userID)
		if err != nil {
			switch {
			case errors.Is(err, bookingsService.ErrBookingNotFound):
				return ErrBookingNotFound
			case errors.Is(err, bookingsService.ErrAccessDenied):
				return ErrAccessDenied
			case errors.Is(err, bookingsService.ErrAlreadyCancelled):
				return ErrAlreadyCancelled
			}
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		// 2. Освобождаем слот. Удалённый администратором слот останется
		// непредлагаемым независимо от доступности.
		if err := uc.slotLedger.SetAvailability(txCtx, booking.Date, booking.Time, true); err != nil {
			if errors.Is(err, slotsService.ErrSlotNotFound) {
				// Запись без слота в леджере: отмену не блокируем
				uc.logger.Warn("CancelBooking: slot (%s, %s) not found while releasing", booking.Date, booking.Time)
			} else {
				return fmt.Errorf("%w: failed to release slot: %v", ErrInternal, err)
			}
		}

		cancelled = booking
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrInternal) {
			uc.logger.Warn("CancelBooking: cancel rejected for user=%d booking id=%d: %v", userID, bookingID, err)
		} else {
			uc.logger.Error("CancelBooking: failed for user=%d booking id=%d: %v", userID, bookingID, err)
		}
		return nil, err
	}

	uc.logger.Info("CancelBooking: booking id=%d cancelled, slot (%s, %s) released",
		cancelled.ID, cancelled.Date, cancelled.Time)
	return cancelled, nil
}
