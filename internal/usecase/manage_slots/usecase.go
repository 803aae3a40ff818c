package manage_slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	slotsService "github.com/m04kA/TLB-TutorBot/internal/service/slots"
)

// UseCase use case административных операций с расписанием
type UseCase struct {
	slotLedger    SlotLedger
	bookingLedger BookingLedger
	notifier      Notifier
	txManager     TransactionManager
	logger        Logger

	mu       sync.Mutex
	sessions map[int64]State
	dates    map[int64]string
}

// NewUseCase создает новый экземпляр use case администрирования
func NewUseCase(
	slotLedger SlotLedger,
	bookingLedger BookingLedger,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotLedger:    slotLedger,
		bookingLedger: bookingLedger,
		notifier:      notifier,
		txManager:     txManager,
		logger:        logger,
		sessions:      make(map[int64]State),
		dates:         make(map[int64]string),
	}
}

// StartAddSlots начинает диалог добавления слотов
func (uc *UseCase) StartAddSlots(userID int64) *Prompt {
	uc.logger.Info("ManageSlots: admin=%d started add-slots dialog", userID)

	uc.mu.Lock()
	uc.sessions[userID] = StateDate
	delete(uc.dates, userID)
	uc.mu.Unlock()

	return &Prompt{Text: msgAskDate}
}

// InProgress сообщает, идёт ли у администратора диалог добавления
func (uc *UseCase) InProgress(userID int64) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	_, ok := uc.sessions[userID]
	return ok
}

// Abort прерывает диалог добавления слотов
func (uc *UseCase) Abort(userID int64) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	delete(uc.sessions, userID)
	delete(uc.dates, userID)
}

// HandleText обрабатывает ввод администратора в диалоге добавления
func (uc *UseCase) HandleText(ctx context.Context, userID int64, text string) (*Prompt, error) {
	uc.mu.Lock()
	state, ok := uc.sessions[userID]
	uc.mu.Unlock()
	if !ok {
		return nil, ErrNoActiveSession
	}

	text = strings.TrimSpace(text)

	switch state {
	case StateDate:
		if _, err := domain.ParseDate(text); err != nil {
			uc.logger.Warn("ManageSlots: admin=%d sent invalid date %q", userID, text)
			return &Prompt{Text: msgInvalidDate}, nil
		}
		uc.mu.Lock()
		uc.dates[userID] = text
		uc.sessions[userID] = StateTime
		uc.mu.Unlock()
		return &Prompt{Text: msgAskTimeRange}, nil

	case StateTime:
		uc.mu.Lock()
		date := uc.dates[userID]
		uc.mu.Unlock()

		result, err := uc.slotLedger.AddRange(ctx, date, text)
		if err != nil {
			if errors.Is(err, slotsService.ErrInvalidSlot) {
				uc.logger.Warn("ManageSlots: admin=%d sent invalid range %q", userID, text)
				return &Prompt{Text: msgInvalidTimeRange}, nil
			}
			uc.logger.Error("ManageSlots: add range failed for admin=%d: %v", userID, err)
			return nil, fmt.Errorf("%w: failed to add slots: %v", ErrInternal, err)
		}

		uc.Abort(userID)

		text := fmt.Sprintf(msgAddedTemplate, date, joinOrDash(result.Added))
		if len(result.Existing) > 0 {
			text += fmt.Sprintf(msgExistingTemplate, strings.Join(result.Existing, ", "))
		}
		return &Prompt{Text: text, Done: true}, nil

	default:
		return nil, ErrNoActiveSession
	}
}

// ListSlots возвращает расписание, сгруппированное по датам
func (uc *UseCase) ListSlots(ctx context.Context) ([]DateSlots, error) {
	slots, err := uc.slotLedger.List(ctx)
	if err != nil {
		uc.logger.Error("ManageSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	var result []DateSlots
	for _, slot := range slots {
		if len(result) == 0 || result[len(result)-1].Date != slot.Date {
			result = append(result, DateSlots{Date: slot.Date})
		}
		last := &result[len(result)-1]
		last.Slots = append(last.Slots, slot)
	}

	return result, nil
}

// ViewBookings возвращает активные бронирования леджера в порядке создания
func (uc *UseCase) ViewBookings(ctx context.Context) ([]*domain.Booking, error) {
	bookings, err := uc.bookingLedger.List(ctx, domain.BookingFilter{ActiveOnly: true})
	if err != nil {
		uc.logger.Error("ManageSlots: failed to list bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}
	return bookings, nil
}

// DeleteSlot помечает слот удалённым и каскадно отменяет активные
// бронирования на него. Каждому затронутому пользователю отправляется
// уведомление; сбой доставки одному пользователю не мешает остальным.
func (uc *UseCase) DeleteSlot(ctx context.Context, date, timeRange string) (*DeleteResult, error) {
	uc.logger.Info("ManageSlots: deleting slot (%s, %s)", date, timeRange)

	result := &DeleteResult{}

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Помечаем слот удалённым
		if err := uc.slotLedger.MarkDeletedByAdmin(txCtx, date, timeRange); err != nil {
			if errors.Is(err, slotsService.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to delete slot: %v", ErrInternal, err)
		}

		// 2. Каскадно отменяем активные бронирования
		cancelled, err := uc.bookingLedger.CancelBySlot(txCtx, date, timeRange)
		if err != nil {
			return fmt.Errorf("%w: failed to cancel bookings: %v", ErrInternal, err)
		}
		result.Cancelled = cancelled
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			uc.logger.Warn("ManageSlots: slot (%s, %s) not found", date, timeRange)
		} else {
			uc.logger.Error("ManageSlots: delete slot (%s, %s) failed: %v", date, timeRange, err)
		}
		return nil, err
	}

	// 3. Уведомляем затронутых пользователей уже вне транзакции
	text := fmt.Sprintf(msgSlotDeletedNotification, date, timeRange)
	for _, booking := range result.Cancelled {
		if err := uc.notifier.SendText(booking.UserID, text); err != nil {
			result.NotifyFailed++
			uc.logger.Error("ManageSlots: failed to notify user=%d about slot (%s, %s): %v",
				booking.UserID, date, timeRange, err)
		}
	}

	uc.logger.Info("ManageSlots: slot (%s, %s) deleted, %d bookings cancelled, %d notifications failed",
		date, timeRange, len(result.Cancelled), result.NotifyFailed)
	return result, nil
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "—"
	}
	return strings.Join(values, ", ")
}
