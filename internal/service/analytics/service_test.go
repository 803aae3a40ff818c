package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	"github.com/m04kA/TLB-TutorBot/internal/infra/storage/jsonstore"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var reportNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *jsonstore.Store {
	t.Helper()

	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)
	return store
}

func seedBooking(t *testing.T, store *jsonstore.Store, b *domain.Booking) *domain.Booking {
	t.Helper()

	created, err := store.Bookings.Create(context.Background(), b)
	require.NoError(t, err)
	return created
}

func ts(daysAgo int) string {
	return reportNow.AddDate(0, 0, -daysAgo).Format(domain.TimestampFormat)
}

func TestBuildReport_StatusCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedBooking(t, store, &domain.Booking{UserID: 100, ChildName: "Миша", Date: "15.09.2026", Time: "09:00-10:00", Timestamp: ts(1), Confirmed: true})
	seedBooking(t, store, &domain.Booking{UserID: 100, ChildName: "Миша", Date: "15.09.2026", Time: "10:00-11:00", Timestamp: ts(2)})
	cancelledByUser := seedBooking(t, store, &domain.Booking{UserID: 200, ChildName: "Катя", Date: "15.09.2026", Time: "11:00-12:00", Timestamp: ts(3)})
	cancelledByAdmin := seedBooking(t, store, &domain.Booking{UserID: 300, ChildName: "Петя", Date: "15.09.2026", Time: "12:00-13:00", Timestamp: ts(4)})

	require.NoError(t, store.Bookings.CancelByUser(ctx, cancelledByUser.ID))
	_, err := store.Bookings.CancelBySlot(ctx, cancelledByAdmin.Date, cancelledByAdmin.Time)
	require.NoError(t, err)

	svc := NewService(store.Bookings, store.Users, nopLogger{})
	report, err := svc.BuildReport(ctx, reportNow)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Active)
	assert.Equal(t, 1, report.Confirmed)
	assert.Equal(t, 1, report.CancelledByUser)
	assert.Equal(t, 1, report.CancelledByAdmin)
}

func TestBuildReport_TimeWindows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedBooking(t, store, &domain.Booking{UserID: 100, Timestamp: ts(1)})
	seedBooking(t, store, &domain.Booking{UserID: 100, Timestamp: ts(10)})
	seedBooking(t, store, &domain.Booking{UserID: 100, Timestamp: ts(100)})
	seedBooking(t, store, &domain.Booking{UserID: 100, Timestamp: ts(400)})
	// Нечитаемый timestamp в окна не входит, но в Total учитывается
	seedBooking(t, store, &domain.Booking{UserID: 100, Timestamp: "вчера"})
	// Отменённая запись в окна не входит
	cancelled := seedBooking(t, store, &domain.Booking{UserID: 200, Timestamp: ts(2)})
	require.NoError(t, store.Bookings.CancelByUser(ctx, cancelled.ID))

	svc := NewService(store.Bookings, store.Users, nopLogger{})
	report, err := svc.BuildReport(ctx, reportNow)
	require.NoError(t, err)

	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 1, report.Last7Days)
	assert.Equal(t, 2, report.Last30Days)
	assert.Equal(t, 3, report.LastYear)
}

func TestBuildReport_TopChildren(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		seedBooking(t, store, &domain.Booking{UserID: 100, ChildName: fmt.Sprintf("Ребёнок-%d", i), Timestamp: ts(1)})
	}
	for i := 0; i < 3; i++ {
		seedBooking(t, store, &domain.Booking{UserID: 100, ChildName: "Миша", Timestamp: ts(1)})
	}
	// Отменённые записи в счётчик детей не входят
	for i := 0; i < 5; i++ {
		b := seedBooking(t, store, &domain.Booking{UserID: 200, ChildName: "Катя", Timestamp: ts(1)})
		require.NoError(t, store.Bookings.CancelByUser(ctx, b.ID))
	}

	svc := NewService(store.Bookings, store.Users, nopLogger{})
	report, err := svc.BuildReport(ctx, reportNow)
	require.NoError(t, err)

	require.Len(t, report.TopChildren, domain.TopListLimit)
	assert.Equal(t, NameCount{Name: "Миша", Count: 3}, report.TopChildren[0])
	for _, nc := range report.TopChildren {
		assert.NotEqual(t, "Катя", nc.Name)
	}
}

func TestBuildReport_TopCancellersResolvedToGuardianNames(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Users.Upsert(ctx, &domain.UserProfile{UserID: 100, GuardianName: "Анна Иванова"}))

	for i := 0; i < 2; i++ {
		b := seedBooking(t, store, &domain.Booking{UserID: 100, Timestamp: ts(1)})
		require.NoError(t, store.Bookings.CancelByUser(ctx, b.ID))
	}
	// Пользователь без профиля попадает в топ под числовым идентификатором
	b := seedBooking(t, store, &domain.Booking{UserID: 200, Timestamp: ts(1)})
	require.NoError(t, store.Bookings.CancelByUser(ctx, b.ID))

	svc := NewService(store.Bookings, store.Users, nopLogger{})
	report, err := svc.BuildReport(ctx, reportNow)
	require.NoError(t, err)

	require.Len(t, report.TopCancellers, 2)
	assert.Equal(t, NameCount{Name: "Анна Иванова", Count: 2}, report.TopCancellers[0])
	assert.Equal(t, NameCount{Name: "ID 200", Count: 1}, report.TopCancellers[1])
}
