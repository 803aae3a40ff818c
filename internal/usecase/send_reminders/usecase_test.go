package send_reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	"github.com/m04kA/TLB-TutorBot/internal/infra/storage/jsonstore"
	bookingsService "github.com/m04kA/TLB-TutorBot/internal/service/bookings"
	slotsService "github.com/m04kA/TLB-TutorBot/internal/service/slots"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type stubTime struct {
	now time.Time
}

func (s *stubTime) Now() time.Time { return s.now }

type fakeReminderNotifier struct {
	sent    []int64
	failFor map[int64]bool
}

func newFakeReminderNotifier() *fakeReminderNotifier {
	return &fakeReminderNotifier{failFor: make(map[int64]bool)}
}

func (f *fakeReminderNotifier) SendReminder(userID int64, booking *domain.Booking) error {
	if f.failFor[userID] {
		return errors.New("chat blocked")
	}
	f.sent = append(f.sent, userID)
	return nil
}

type fixture struct {
	uc       *UseCase
	clock    *stubTime
	notifier *fakeReminderNotifier
	slots    *slotsService.Service
	bookings *bookingsService.Service
}

// 14 сентября 2026, 10:00 — занятия 15 сентября в одном дне от now
var sweepNow = time.Date(2026, 9, 14, 10, 0, 0, 0, time.Local)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)

	slotSvc := slotsService.NewService(store.Slots, nopLogger{})
	bookingSvc := bookingsService.NewService(store.Bookings, store.Users, store.Homeworks, nopLogger{})
	notifier := newFakeReminderNotifier()
	clock := &stubTime{now: sweepNow}

	uc := NewUseCase(bookingSvc, slotSvc, notifier, domain.DefaultReminderHour, nopLogger{})
	uc.timeProvider = clock

	return &fixture{uc: uc, clock: clock, notifier: notifier, slots: slotSvc, bookings: bookingSvc}
}

func (f *fixture) book(t *testing.T, userID int64, date, timeRange string) *domain.Booking {
	t.Helper()

	booking, err := f.bookings.Create(context.Background(), &domain.Booking{
		UserID:    userID,
		Date:      date,
		Time:      timeRange,
		ChildName: "Миша",
		Timestamp: "2026-09-01T12:00:00+03:00",
	})
	require.NoError(t, err)
	return booking
}

func TestSweep_SendsForTomorrowOnly(t *testing.T) {
	f := newFixture(t)

	f.book(t, 100, "15.09.2026", "10:00-11:00") // завтра
	f.book(t, 200, "16.09.2026", "10:00-11:00") // послезавтра
	f.book(t, 300, "14.09.2026", "18:00-19:00") // сегодня

	sent, err := f.uc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []int64{100}, f.notifier.sent)
}

func TestSweep_DedupAcrossRuns(t *testing.T) {
	f := newFixture(t)

	f.book(t, 100, "15.09.2026", "10:00-11:00")

	sent, err := f.uc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	sent, err = f.uc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, f.notifier.sent, 1)
}

func TestSweep_BeforeReminderHour(t *testing.T) {
	f := newFixture(t)
	f.clock.now = time.Date(2026, 9, 14, 8, 59, 0, 0, time.Local)

	f.book(t, 100, "15.09.2026", "10:00-11:00")

	sent, err := f.uc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, f.notifier.sent)
}

func TestSweep_SkipsCancelledAndMalformed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cancelled := f.book(t, 100, "15.09.2026", "10:00-11:00")
	_, err := f.bookings.CancelByUser(ctx, cancelled.ID, 100)
	require.NoError(t, err)

	f.book(t, 200, "когда-нибудь", "10:00-11:00")
	f.book(t, 300, "15.09.2026", "11:00-12:00")

	sent, err := f.uc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []int64{300}, f.notifier.sent)
}

func TestSweep_RetriesAfterNotifyFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.book(t, 100, "15.09.2026", "10:00-11:00")
	f.notifier.failFor[100] = true

	sent, err := f.uc.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)

	// После восстановления доставки напоминание уходит
	f.notifier.failFor[100] = false
	sent, err = f.uc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking := f.book(t, 100, "15.09.2026", "10:00-11:00")

	require.NoError(t, f.uc.Confirm(ctx, 100, "15.09.2026", "10:00-11:00"))

	got, err := f.bookings.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, got.Confirmed)

	// Идентичность без активной записи
	err = f.uc.Confirm(ctx, 100, "16.09.2026", "10:00-11:00")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_ReleasesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.slots.AddRange(ctx, "15.09.2026", "10:00-11:00")
	require.NoError(t, err)
	require.NoError(t, f.slots.SetAvailability(ctx, "15.09.2026", "10:00-11:00", false))
	booking := f.book(t, 100, "15.09.2026", "10:00-11:00")

	cancelled, err := f.uc.Cancel(ctx, 100, "15.09.2026", "10:00-11:00")
	require.NoError(t, err)
	assert.Equal(t, booking.ID, cancelled.ID)
	assert.True(t, cancelled.CancelledByUser)

	times, err := f.slots.OfferableTimes(ctx, "15.09.2026", sweepNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00-11:00"}, times)

	// Повторная отмена по той же идентичности
	_, err = f.uc.Cancel(ctx, 100, "15.09.2026", "10:00-11:00")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
