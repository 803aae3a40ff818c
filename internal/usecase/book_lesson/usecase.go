package book_lesson

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
)

// UseCase use case диалога записи на занятие.
//
// Диалог линейный: имя родителя -> имя ребёнка -> телефон -> дата -> время ->
// подтверждение. Промежуточное состояние живёт только в памяти; леджеры
// меняются одной операцией на финальном шаге.
type UseCase struct {
	slotLedger    SlotLedger
	bookingLedger BookingLedger
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger

	sessions *sessionStore
}

// NewUseCase создает новый экземпляр use case записи
func NewUseCase(
	slotLedger SlotLedger,
	bookingLedger BookingLedger,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotLedger:    slotLedger,
		bookingLedger: bookingLedger,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
		sessions:      newSessionStore(),
	}
}

// InProgress сообщает, идёт ли у пользователя диалог записи
func (uc *UseCase) InProgress(userID int64) bool {
	_, ok := uc.sessions.get(userID)
	return ok
}

// Abort прерывает диалог записи, если он был начат
func (uc *UseCase) Abort(userID int64) {
	uc.sessions.delete(userID)
}

// Start начинает диалог записи. Уже идущий диалог сбрасывается.
func (uc *UseCase) Start(ctx context.Context, userID int64) (*Prompt, error) {
	uc.logger.Info("BookLesson: user=%d started booking dialog", userID)

	uc.sessions.put(userID, &Session{State: StateGuardianName})
	return &Prompt{Text: msgAskGuardianName}, nil
}

// HandleText обрабатывает текстовое сообщение пользователя в рамках диалога
func (uc *UseCase) HandleText(ctx context.Context, userID int64, text string) (*Prompt, error) {
	session, ok := uc.sessions.get(userID)
	if !ok {
		return nil, ErrNoActiveSession
	}

	switch session.State {
	case StateGuardianName:
		name, ok := validName(text)
		if !ok {
			uc.logger.Warn("BookLesson: user=%d sent invalid guardian name", userID)
			return &Prompt{Text: msgInvalidName}, nil
		}
		session.GuardianName = name
		session.State = StateChildName
		uc.sessions.put(userID, session)
		return &Prompt{Text: msgAskChildName}, nil

	case StateChildName:
		name, ok := validName(text)
		if !ok {
			uc.logger.Warn("BookLesson: user=%d sent invalid child name", userID)
			return &Prompt{Text: msgInvalidName}, nil
		}
		session.ChildName = name
		session.State = StatePhone
		uc.sessions.put(userID, session)
		return &Prompt{Text: msgAskPhone}, nil

	case StatePhone:
		phone, ok := validPhone(text)
		if !ok {
			uc.logger.Warn("BookLesson: user=%d sent invalid phone", userID)
			return &Prompt{Text: msgInvalidPhone}, nil
		}
		session.Phone = phone
		session.State = StateDateChoice
		uc.sessions.put(userID, session)
		return uc.offerDates(ctx, userID)

	default:
		// На шагах выбора текст не ожидается
		return &Prompt{Text: msgUseButtons}, nil
	}
}

// HandleChoice обрабатывает выбор пользователя на шагах с кнопками
func (uc *UseCase) HandleChoice(ctx context.Context, userID int64, value string) (*Prompt, error) {
	session, ok := uc.sessions.get(userID)
	if !ok {
		return nil, ErrNoActiveSession
	}

	switch session.State {
	case StateDateChoice:
		return uc.handleDateChoice(ctx, userID, session, value)
	case StateTimeChoice:
		return uc.handleTimeChoice(ctx, userID, session, value)
	case StateFinalConfirm:
		return uc.handleFinalConfirm(ctx, userID, session, value)
	default:
		return &Prompt{Text: msgUseButtons}, nil
	}
}

func (uc *UseCase) handleDateChoice(ctx context.Context, userID int64, session *Session, value string) (*Prompt, error) {
	now := uc.timeProvider.Now()

	// Дату перепроверяем по свежей выдаче: между показом кнопок и выбором
	// слоты могли разобрать
	dates, err := uc.slotLedger.OfferableDates(ctx, now)
	if err != nil {
		uc.logger.Error("BookLesson: failed to list dates for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to list dates: %v", ErrInternal, err)
	}
	if !contains(dates, value) {
		uc.logger.Warn("BookLesson: user=%d picked unavailable date %s", userID, value)
		return uc.datesPrompt(dates, msgUnknownDate), nil
	}

	times, err := uc.slotLedger.OfferableTimes(ctx, value, now)
	if err != nil {
		uc.logger.Error("BookLesson: failed to list times for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to list times: %v", ErrInternal, err)
	}
	if len(times) == 0 {
		return uc.datesPrompt(dates, msgNoTimesOnDate), nil
	}

	session.Date = value
	session.State = StateTimeChoice
	uc.sessions.put(userID, session)

	return timesPrompt(times), nil
}

func (uc *UseCase) handleTimeChoice(ctx context.Context, userID int64, session *Session, value string) (*Prompt, error) {
	now := uc.timeProvider.Now()

	times, err := uc.slotLedger.OfferableTimes(ctx, session.Date, now)
	if err != nil {
		uc.logger.Error("BookLesson: failed to list times for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to list times: %v", ErrInternal, err)
	}
	if !contains(times, value) {
		uc.logger.Warn("BookLesson: user=%d picked unavailable time %s on %s", userID, value, session.Date)
		if len(times) == 0 {
			session.State = StateDateChoice
			uc.sessions.put(userID, session)
			return uc.offerDates(ctx, userID)
		}
		prompt := timesPrompt(times)
		prompt.Text = msgUnknownTime
		return prompt, nil
	}

	session.Time = value
	session.State = StateFinalConfirm
	uc.sessions.put(userID, session)

	return &Prompt{
		Text: fmt.Sprintf(msgConfirmTemplate,
			session.GuardianName, session.ChildName, session.Phone, session.Date, session.Time),
		Choices: []Choice{
			{Label: msgConfirmButton, Value: ChoiceConfirm},
			{Label: msgCancelButton, Value: ChoiceCancel},
		},
	}, nil
}

func (uc *UseCase) handleFinalConfirm(ctx context.Context, userID int64, session *Session, value string) (*Prompt, error) {
	switch value {
	case ChoiceCancel:
		uc.logger.Info("BookLesson: user=%d aborted booking dialog", userID)
		uc.sessions.delete(userID)
		return &Prompt{Text: msgAborted, Done: true}, nil

	case ChoiceConfirm:
		return uc.commit(ctx, userID, session)

	default:
		return &Prompt{Text: msgUseButtons}, nil
	}
}

// commit атомарно фиксирует запись: профиль пользователя, занятие слота и
// запись в леджере бронирований
func (uc *UseCase) commit(ctx context.Context, userID int64, session *Session) (*Prompt, error) {
	now := uc.timeProvider.Now()
	timestamp := now.Format(domain.TimestampFormat)

	var created *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Перепроверяем, что слот всё ещё свободен
		times, err := uc.slotLedger.OfferableTimes(txCtx, session.Date, now)
		if err != nil {
			return fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
		}
		if !contains(times, session.Time) {
			return errSlotTaken
		}

		// 2. Сохраняем профиль пользователя
		profile := &domain.UserProfile{
			UserID:       userID,
			GuardianName: session.GuardianName,
			Phone:        session.Phone,
			Timestamp:    timestamp,
		}
		if err := uc.bookingLedger.UpsertUser(txCtx, profile); err != nil {
			return fmt.Errorf("%w: failed to upsert user: %v", ErrInternal, err)
		}

		// 3. Занимаем слот
		if err := uc.slotLedger.SetAvailability(txCtx, session.Date, session.Time, false); err != nil {
			return fmt.Errorf("%w: failed to occupy slot: %v", ErrInternal, err)
		}

		// 4. Создаем запись в леджере бронирований
		booking := &domain.Booking{
			UserID:       userID,
			Date:         session.Date,
			Time:         session.Time,
			GuardianName: session.GuardianName,
			ChildName:    session.ChildName,
			Phone:        session.Phone,
			Timestamp:    timestamp,
		}
		created, err = uc.bookingLedger.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return nil
	})

	if errors.Is(err, errSlotTaken) {
		uc.logger.Warn("BookLesson: slot (%s, %s) taken before confirm, user=%d", session.Date, session.Time, userID)
		uc.sessions.delete(userID)
		return &Prompt{Text: msgSlotTaken, Done: true}, nil
	}
	if err != nil {
		uc.logger.Error("BookLesson: commit failed for user=%d: %v", userID, err)
		return nil, err
	}

	uc.logger.Info("BookLesson: booking id=%d created for user=%d on (%s, %s)",
		created.ID, userID, session.Date, session.Time)
	uc.sessions.delete(userID)

	return &Prompt{
		Text:   fmt.Sprintf(msgBooked, session.Date, session.Time),
		Done:   true,
		Booked: true,
	}, nil
}

// offerDates строит шаг выбора даты. При отсутствии дат диалог завершается.
func (uc *UseCase) offerDates(ctx context.Context, userID int64) (*Prompt, error) {
	dates, err := uc.slotLedger.OfferableDates(ctx, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Error("BookLesson: failed to list dates for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to list dates: %v", ErrInternal, err)
	}
	if len(dates) == 0 {
		uc.logger.Info("BookLesson: no offerable dates, closing dialog for user=%d", userID)
		uc.sessions.delete(userID)
		return &Prompt{Text: msgNoDates, Done: true}, nil
	}

	return uc.datesPrompt(dates, msgChooseDate), nil
}

func (uc *UseCase) datesPrompt(dates []string, text string) *Prompt {
	choices := make([]Choice, 0, len(dates))
	for _, date := range dates {
		choices = append(choices, Choice{Label: date, Value: date})
	}
	return &Prompt{Text: text, Choices: choices}
}

func timesPrompt(times []string) *Prompt {
	choices := make([]Choice, 0, len(times))
	for _, timeRange := range times {
		choices = append(choices, Choice{Label: timeRange, Value: timeRange})
	}
	return &Prompt{Text: msgChooseTime, Choices: choices}
}

func contains(values []string, v string) bool {
	for _, item := range values {
		if item == v {
			return true
		}
	}
	return false
}
