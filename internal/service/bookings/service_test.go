package bookings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	"github.com/m04kA/TLB-TutorBot/internal/infra/storage/jsonstore"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestService(t *testing.T) *Service {
	t.Helper()

	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)
	return NewService(store.Bookings, store.Users, store.Homeworks, nopLogger{})
}

func newBooking(userID int64, date, timeRange string) *domain.Booking {
	return &domain.Booking{
		UserID:       userID,
		Date:         date,
		Time:         timeRange,
		GuardianName: "Анна Иванова",
		ChildName:    "Миша",
		Phone:        "+79123456789",
		Timestamp:    "2026-09-01T12:00:00+03:00",
	}
}

func TestCreateAndGetByID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, newBooking(100, "15.09.2026", "10:00-11:00"))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Миша", got.ChildName)

	_, err = svc.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListActiveByUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, newBooking(100, "15.09.2026", "10:00-11:00"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, newBooking(100, "16.09.2026", "11:00-12:00"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, newBooking(200, "15.09.2026", "12:00-13:00"))
	require.NoError(t, err)

	_, err = svc.CancelByUser(ctx, first.ID, 100)
	require.NoError(t, err)

	active, err := svc.ListActiveByUser(ctx, 100)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "16.09.2026", active[0].Date)
}

func TestCancelByUser_OwnershipAndState(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, newBooking(100, "15.09.2026", "10:00-11:00"))
	require.NoError(t, err)

	// Чужое бронирование отменить нельзя
	_, err = svc.CancelByUser(ctx, created.ID, 200)
	assert.ErrorIs(t, err, ErrAccessDenied)

	cancelled, err := svc.CancelByUser(ctx, created.ID, 100)
	require.NoError(t, err)
	assert.True(t, cancelled.CancelledByUser)

	// Повторная отмена
	_, err = svc.CancelByUser(ctx, created.ID, 100)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	_, err = svc.CancelByUser(ctx, 999, 100)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestSetConfirmed(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, newBooking(100, "15.09.2026", "10:00-11:00"))
	require.NoError(t, err)

	require.NoError(t, svc.SetConfirmed(ctx, created.ID))

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Confirmed)

	assert.ErrorIs(t, svc.SetConfirmed(ctx, 999), ErrBookingNotFound)
}

func TestFindActiveByIdentity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, newBooking(100, "15.09.2026", "10:00-11:00"))
	require.NoError(t, err)

	found, err := svc.FindActiveByIdentity(ctx, 100, "15.09.2026", "10:00-11:00")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.FindActiveByIdentity(ctx, 100, "15.09.2026", "11:00-12:00")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancelBySlot(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, newBooking(100, "15.09.2026", "10:00-11:00"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, newBooking(200, "15.09.2026", "10:00-11:00"))
	require.NoError(t, err)

	affected, err := svc.CancelBySlot(ctx, "15.09.2026", "10:00-11:00")
	require.NoError(t, err)
	assert.Len(t, affected, 2)

	affected, err = svc.CancelBySlot(ctx, "15.09.2026", "10:00-11:00")
	require.NoError(t, err)
	assert.Empty(t, affected)
}

func TestUserProfiles(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetUser(ctx, 100)
	assert.ErrorIs(t, err, ErrUserNotFound)

	profile := &domain.UserProfile{
		UserID:       100,
		GuardianName: "Анна Иванова",
		Phone:        "+79123456789",
		Timestamp:    "2026-09-01T12:00:00+03:00",
	}
	require.NoError(t, svc.UpsertUser(ctx, profile))

	got, err := svc.GetUser(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Анна Иванова", got.GuardianName)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
