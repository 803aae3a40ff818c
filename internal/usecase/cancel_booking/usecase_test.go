package cancel_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	"github.com/m04kA/TLB-TutorBot/internal/infra/storage/jsonstore"
	bookingsService "github.com/m04kA/TLB-TutorBot/internal/service/bookings"
	slotsService "github.com/m04kA/TLB-TutorBot/internal/service/slots"
	"github.com/m04kA/TLB-TutorBot/pkg/txmanager"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixture struct {
	uc       *UseCase
	slots    *slotsService.Service
	bookings *bookingsService.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)

	slotSvc := slotsService.NewService(store.Slots, nopLogger{})
	bookingSvc := bookingsService.NewService(store.Bookings, store.Users, store.Homeworks, nopLogger{})

	return &fixture{
		uc:       NewUseCase(bookingSvc, slotSvc, txmanager.Nop{}, nopLogger{}),
		slots:    slotSvc,
		bookings: bookingSvc,
	}
}

// book создает занятый слот и бронирование на него
func (f *fixture) book(t *testing.T, userID int64, date, timeRange string) *domain.Booking {
	t.Helper()
	ctx := context.Background()

	_, err := f.slots.AddRange(ctx, date, timeRange)
	require.NoError(t, err)
	require.NoError(t, f.slots.SetAvailability(ctx, date, timeRange, false))

	booking, err := f.bookings.Create(ctx, &domain.Booking{
		UserID:       userID,
		Date:         date,
		Time:         timeRange,
		GuardianName: "Анна Иванова",
		ChildName:    "Миша",
		Phone:        "+79123456789",
		Timestamp:    "2026-09-01T12:00:00+03:00",
	})
	require.NoError(t, err)
	return booking
}

func TestExecute_CancelsAndReleasesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking := f.book(t, 100, "15.09.2026", "10:00-11:00")

	cancelled, err := f.uc.Execute(ctx, 100, booking.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.CancelledByUser)

	active, err := f.uc.ListActive(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, active)

	// Слот снова предлагается
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
	times, err := f.slots.OfferableTimes(ctx, "15.09.2026", now)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00-11:00"}, times)
}

func TestExecute_ForeignBooking(t *testing.T) {
	f := newFixture(t)

	booking := f.book(t, 100, "15.09.2026", "10:00-11:00")

	_, err := f.uc.Execute(context.Background(), 200, booking.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_AlreadyCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking := f.book(t, 100, "15.09.2026", "10:00-11:00")

	_, err := f.uc.Execute(ctx, 100, booking.ID)
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, 100, booking.ID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), 100, 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_DeletedSlotStaysUnofferable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking := f.book(t, 100, "15.09.2026", "10:00-11:00")
	require.NoError(t, f.slots.MarkDeletedByAdmin(ctx, "15.09.2026", "10:00-11:00"))

	_, err := f.uc.Execute(ctx, 100, booking.ID)
	require.NoError(t, err)

	// Отмена вернула доступность, но удалённый слот не предлагается
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
	times, err := f.slots.OfferableTimes(ctx, "15.09.2026", now)
	require.NoError(t, err)
	assert.Empty(t, times)
}

func TestListActive_OnlyOwnActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.book(t, 100, "15.09.2026", "10:00-11:00")
	f.book(t, 200, "15.09.2026", "11:00-12:00")
	cancelled := f.book(t, 100, "16.09.2026", "10:00-11:00")
	_, err := f.uc.Execute(ctx, 100, cancelled.ID)
	require.NoError(t, err)

	active, err := f.uc.ListActive(ctx, 100)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "15.09.2026", active[0].Date)
}
