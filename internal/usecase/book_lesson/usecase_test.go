package book_lesson

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TLB-TutorBot/internal/infra/storage/jsonstore"
	bookingsService "github.com/m04kA/TLB-TutorBot/internal/service/bookings"
	slotsService "github.com/m04kA/TLB-TutorBot/internal/service/slots"
	"github.com/m04kA/TLB-TutorBot/pkg/txmanager"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type stubTime struct {
	now time.Time
}

func (s *stubTime) Now() time.Time { return s.now }

type fixture struct {
	uc       *UseCase
	slots    *slotsService.Service
	bookings *bookingsService.Service
}

var dialogNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)

	slotSvc := slotsService.NewService(store.Slots, nopLogger{})
	bookingSvc := bookingsService.NewService(store.Bookings, store.Users, store.Homeworks, nopLogger{})

	uc := NewUseCase(slotSvc, bookingSvc, txmanager.Nop{}, nopLogger{})
	uc.timeProvider = &stubTime{now: dialogNow}

	return &fixture{uc: uc, slots: slotSvc, bookings: bookingSvc}
}

func (f *fixture) addSlots(t *testing.T, date, timeRange string) {
	t.Helper()

	_, err := f.slots.AddRange(context.Background(), date, timeRange)
	require.NoError(t, err)
}

// walkToDateChoice проводит диалог до шага выбора даты
func (f *fixture) walkToDateChoice(t *testing.T, userID int64) *Prompt {
	t.Helper()
	ctx := context.Background()

	_, err := f.uc.Start(ctx, userID)
	require.NoError(t, err)

	_, err = f.uc.HandleText(ctx, userID, "Анна Иванова")
	require.NoError(t, err)
	_, err = f.uc.HandleText(ctx, userID, "Миша")
	require.NoError(t, err)

	prompt, err := f.uc.HandleText(ctx, userID, "+7 (912) 345-67-89")
	require.NoError(t, err)
	return prompt
}

func TestDialog_HappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSlots(t, "15.09.2026", "10:00-12:00")

	prompt := f.walkToDateChoice(t, 100)
	require.Len(t, prompt.Choices, 1)
	assert.Equal(t, "15.09.2026", prompt.Choices[0].Value)

	prompt, err := f.uc.HandleChoice(ctx, 100, "15.09.2026")
	require.NoError(t, err)
	assert.Equal(t, []Choice{
		{Label: "10:00-11:00", Value: "10:00-11:00"},
		{Label: "11:00-12:00", Value: "11:00-12:00"},
	}, prompt.Choices)

	prompt, err = f.uc.HandleChoice(ctx, 100, "10:00-11:00")
	require.NoError(t, err)
	assert.Contains(t, prompt.Text, "Анна Иванова")
	assert.Contains(t, prompt.Text, "Миша")
	assert.Contains(t, prompt.Text, "15.09.2026")
	require.Len(t, prompt.Choices, 2)

	prompt, err = f.uc.HandleChoice(ctx, 100, ChoiceConfirm)
	require.NoError(t, err)
	assert.True(t, prompt.Done)
	assert.True(t, prompt.Booked)
	assert.False(t, f.uc.InProgress(100))

	// Запись создана, слот занят, профиль сохранён
	active, err := f.bookings.ListActiveByUser(ctx, 100)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "15.09.2026", active[0].Date)
	assert.Equal(t, "10:00-11:00", active[0].Time)
	assert.Equal(t, "Миша", active[0].ChildName)
	assert.False(t, active[0].Confirmed)

	times, err := f.slots.OfferableTimes(ctx, "15.09.2026", dialogNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00-12:00"}, times)

	profile, err := f.bookings.GetUser(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Анна Иванова", profile.GuardianName)
}

func TestDialog_InvalidInputsKeepState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSlots(t, "15.09.2026", "10:00-11:00")

	_, err := f.uc.Start(ctx, 100)
	require.NoError(t, err)

	// Пустое имя не продвигает диалог
	prompt, err := f.uc.HandleText(ctx, 100, "   ")
	require.NoError(t, err)
	assert.Equal(t, msgInvalidName, prompt.Text)

	prompt, err = f.uc.HandleText(ctx, 100, strings.Repeat("а", 101))
	require.NoError(t, err)
	assert.Equal(t, msgInvalidName, prompt.Text)

	_, err = f.uc.HandleText(ctx, 100, "Анна")
	require.NoError(t, err)
	_, err = f.uc.HandleText(ctx, 100, "Миша")
	require.NoError(t, err)

	// Буквы в номере недопустимы
	prompt, err = f.uc.HandleText(ctx, 100, "позвоните вечером")
	require.NoError(t, err)
	assert.Equal(t, msgInvalidPhone, prompt.Text)

	// Меньше десяти цифр
	prompt, err = f.uc.HandleText(ctx, 100, "+7 912")
	require.NoError(t, err)
	assert.Equal(t, msgInvalidPhone, prompt.Text)

	prompt, err = f.uc.HandleText(ctx, 100, "8 (912) 345-67-89")
	require.NoError(t, err)
	assert.Equal(t, msgChooseDate, prompt.Text)
}

func TestDialog_NoDatesClosesDialog(t *testing.T) {
	f := newFixture(t)

	prompt := f.walkToDateChoice(t, 100)
	assert.True(t, prompt.Done)
	assert.Equal(t, msgNoDates, prompt.Text)
	assert.False(t, f.uc.InProgress(100))
}

func TestDialog_TextOnChoiceStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSlots(t, "15.09.2026", "10:00-11:00")

	f.walkToDateChoice(t, 100)

	prompt, err := f.uc.HandleText(ctx, 100, "завтра")
	require.NoError(t, err)
	assert.Equal(t, msgUseButtons, prompt.Text)
}

func TestDialog_StaleDateReoffers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSlots(t, "15.09.2026", "10:00-11:00")
	f.addSlots(t, "16.09.2026", "10:00-11:00")

	f.walkToDateChoice(t, 100)

	// Пока пользователь думал, дату разобрали
	require.NoError(t, f.slots.SetAvailability(ctx, "16.09.2026", "10:00-11:00", false))

	prompt, err := f.uc.HandleChoice(ctx, 100, "16.09.2026")
	require.NoError(t, err)
	assert.Equal(t, msgUnknownDate, prompt.Text)
	require.Len(t, prompt.Choices, 1)
	assert.Equal(t, "15.09.2026", prompt.Choices[0].Value)
	assert.True(t, f.uc.InProgress(100))
}

func TestDialog_SlotTakenBeforeConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSlots(t, "15.09.2026", "10:00-11:00")

	f.walkToDateChoice(t, 100)
	_, err := f.uc.HandleChoice(ctx, 100, "15.09.2026")
	require.NoError(t, err)
	_, err = f.uc.HandleChoice(ctx, 100, "10:00-11:00")
	require.NoError(t, err)

	// Другой пользователь успел занять слот до подтверждения
	require.NoError(t, f.slots.SetAvailability(ctx, "15.09.2026", "10:00-11:00", false))

	prompt, err := f.uc.HandleChoice(ctx, 100, ChoiceConfirm)
	require.NoError(t, err)
	assert.True(t, prompt.Done)
	assert.Equal(t, msgSlotTaken, prompt.Text)
	assert.False(t, f.uc.InProgress(100))

	// Запись не создана
	active, err := f.bookings.ListActiveByUser(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestDialog_CancelOnConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSlots(t, "15.09.2026", "10:00-11:00")

	f.walkToDateChoice(t, 100)
	_, err := f.uc.HandleChoice(ctx, 100, "15.09.2026")
	require.NoError(t, err)
	_, err = f.uc.HandleChoice(ctx, 100, "10:00-11:00")
	require.NoError(t, err)

	prompt, err := f.uc.HandleChoice(ctx, 100, ChoiceCancel)
	require.NoError(t, err)
	assert.True(t, prompt.Done)
	assert.Equal(t, msgAborted, prompt.Text)
	assert.False(t, f.uc.InProgress(100))

	// Слот остался свободен
	times, err := f.slots.OfferableTimes(ctx, "15.09.2026", dialogNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00-11:00"}, times)
}

func TestDialog_NoActiveSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.HandleText(ctx, 100, "Анна")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = f.uc.HandleChoice(ctx, 100, "15.09.2026")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestDialog_MaxSevenDatesOffered(t *testing.T) {
	f := newFixture(t)

	for day := 10; day < 19; day++ {
		date := time.Date(2026, 9, day, 0, 0, 0, 0, time.Local).Format("02.01.2006")
		f.addSlots(t, date, "10:00-11:00")
	}

	prompt := f.walkToDateChoice(t, 100)
	require.Len(t, prompt.Choices, 7)
	assert.Equal(t, "10.09.2026", prompt.Choices[0].Value)
	assert.Equal(t, "16.09.2026", prompt.Choices[6].Value)
}
