package jsonstore

import (
	"context"
	"fmt"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	"github.com/m04kA/TLB-TutorBot/internal/infra/storage"
)

// bookingRecord формат записи в bookings.json. Имена полей совместимы с
// исходной системой (parent_name, date, time); id присваивается хранилищем.
type bookingRecord struct {
	ID               int64  `json:"id"`
	UserID           int64  `json:"user_id"`
	ParentName       string `json:"parent_name"`
	ChildName        string `json:"child_name"`
	Phone            string `json:"phone"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Timestamp        string `json:"timestamp"`
	Confirmed        bool   `json:"confirmed"`
	CancelledByUser  bool   `json:"cancelled_by_user"`
	CancelledByAdmin bool   `json:"cancelled_by_admin"`
}

func (rec bookingRecord) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:               rec.ID,
		UserID:           rec.UserID,
		GuardianName:     rec.ParentName,
		ChildName:        rec.ChildName,
		Phone:            rec.Phone,
		Date:             rec.Date,
		Time:             rec.Time,
		Timestamp:        rec.Timestamp,
		Confirmed:        rec.Confirmed,
		CancelledByUser:  rec.CancelledByUser,
		CancelledByAdmin: rec.CancelledByAdmin,
	}
}

func (rec bookingRecord) isActive() bool {
	return !rec.CancelledByUser && !rec.CancelledByAdmin
}

// BookingRepo файловый репозиторий бронирований
type BookingRepo struct {
	store *Store
}

// Create добавляет бронирование, присваивая следующий свободный id
func (r *BookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, rec := range records {
		if rec.ID > maxID {
			maxID = rec.ID
		}
	}
	booking.ID = maxID + 1

	records = append(records, bookingRecord{
		ID:               booking.ID,
		UserID:           booking.UserID,
		ParentName:       booking.GuardianName,
		ChildName:        booking.ChildName,
		Phone:            booking.Phone,
		Date:             booking.Date,
		Time:             booking.Time,
		Timestamp:        booking.Timestamp,
		Confirmed:        booking.Confirmed,
		CancelledByUser:  booking.CancelledByUser,
		CancelledByAdmin: booking.CancelledByAdmin,
	})

	if err := r.store.writeFile(bookingsFile, records); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetByID получает бронирование по id
func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.ID == id {
			return rec.toDomain(), nil
		}
	}

	return nil, fmt.Errorf("%w: id=%d", storage.ErrBookingNotFound, id)
}

// List возвращает бронирования по фильтру в порядке создания
func (r *BookingRepo) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	var result []*domain.Booking
	for _, rec := range records {
		if filter.UserID != nil && rec.UserID != *filter.UserID {
			continue
		}
		if filter.ActiveOnly && !rec.isActive() {
			continue
		}
		result = append(result, rec.toDomain())
	}

	return result, nil
}

// FindActiveByIdentity находит неотменённое бронирование по тройке
// (пользователь, дата, время)
func (r *BookingRepo) FindActiveByIdentity(ctx context.Context, userID int64, date, timeRange string) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.UserID == userID && rec.Date == date && rec.Time == timeRange && rec.isActive() {
			return rec.toDomain(), nil
		}
	}

	return nil, fmt.Errorf("%w: user=%d slot=(%s, %s)", storage.ErrBookingNotFound, userID, date, timeRange)
}

// SetConfirmed помечает бронирование подтверждённым. Идемпотентно.
func (r *BookingRepo) SetConfirmed(ctx context.Context, id int64) error {
	return r.setFlag(id, func(rec *bookingRecord) {
		rec.Confirmed = true
	})
}

// CancelByUser помечает бронирование отменённым пользователем. Идемпотентно.
func (r *BookingRepo) CancelByUser(ctx context.Context, id int64) error {
	return r.setFlag(id, func(rec *bookingRecord) {
		rec.CancelledByUser = true
	})
}

// CancelBySlot помечает отменёнными администратором все активные бронирования
// на указанную идентичность слота и возвращает затронутые записи
func (r *BookingRepo) CancelBySlot(ctx context.Context, date, timeRange string) ([]*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	var affected []*domain.Booking
	for i := range records {
		if records[i].Date == date && records[i].Time == timeRange && records[i].isActive() {
			records[i].CancelledByAdmin = true
			affected = append(affected, records[i].toDomain())
		}
	}

	if len(affected) == 0 {
		return nil, nil
	}

	if err := r.store.writeFile(bookingsFile, records); err != nil {
		return nil, err
	}

	return affected, nil
}

func (r *BookingRepo) setFlag(id int64, apply func(*bookingRecord)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].ID == id {
			apply(&records[i])
			return r.store.writeFile(bookingsFile, records)
		}
	}

	return fmt.Errorf("%w: id=%d", storage.ErrBookingNotFound, id)
}

func (r *BookingRepo) load() ([]bookingRecord, error) {
	var records []bookingRecord
	if err := r.store.readFile(bookingsFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}
