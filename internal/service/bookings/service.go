package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	"github.com/m04kA/TLB-TutorBot/internal/infra/storage"
	"github.com/m04kA/TLB-TutorBot/pkg/ptr"
)

// Service сервис леджера бронирований
type Service struct {
	bookingRepo  BookingRepository
	userRepo     UserRepository
	homeworkRepo HomeworkRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	userRepo UserRepository,
	homeworkRepo HomeworkRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		homeworkRepo: homeworkRepo,
		logger:       logger,
	}
}

// Create добавляет бронирование в леджер
func (s *Service) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s.logger.Info("Create: booking slot (%s, %s) for user=%d", booking.Date, booking.Time, booking.UserID)

	created, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		s.logger.Error("Create: repository error for user=%d: %v", booking.UserID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: booking id=%d created for user=%d", created.ID, created.UserID)
	return created, nil
}

// GetByID получает бронирование по id
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

// List возвращает бронирования по фильтру в порядке создания
func (s *Service) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	result, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return result, nil
}

// ListActiveByUser возвращает активные бронирования пользователя
func (s *Service) ListActiveByUser(ctx context.Context, userID int64) ([]*domain.Booking, error) {
	return s.List(ctx, domain.BookingFilter{UserID: ptr.Ptr(userID), ActiveOnly: true})
}

// FindActiveByIdentity находит активное бронирование по тройке
// (пользователь, дата, время)
func (s *Service) FindActiveByIdentity(ctx context.Context, userID int64, date, timeRange string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindActiveByIdentity(ctx, userID, date, timeRange)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("FindActiveByIdentity: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: FindActiveByIdentity - repository error: %v", ErrInternal, err)
	}
	return booking, nil
}

// SetConfirmed помечает бронирование подтверждённым. Идемпотентно.
func (s *Service) SetConfirmed(ctx context.Context, id int64) error {
	if err := s.bookingRepo.SetConfirmed(ctx, id); err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			s.logger.Warn("SetConfirmed: booking id=%d not found", id)
			return ErrBookingNotFound
		}
		s.logger.Error("SetConfirmed: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: SetConfirmed - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetConfirmed: booking id=%d confirmed", id)
	return nil
}

// CancelByUser отменяет бронирование по инициативе пользователя.
// Пользователь может отменить только своё активное бронирование.
func (s *Service) CancelByUser(ctx context.Context, id, userID int64) (*domain.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		s.logger.Warn("CancelByUser: user=%d tried to cancel foreign booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}
	if !booking.IsActive() {
		s.logger.Warn("CancelByUser: booking id=%d already cancelled", id)
		return nil, ErrAlreadyCancelled
	}

	if err := s.bookingRepo.CancelByUser(ctx, id); err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("CancelByUser: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: CancelByUser - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CancelByUser: booking id=%d cancelled by user=%d", id, userID)
	booking.CancelledByUser = true
	return booking, nil
}

// CancelBySlot отменяет от имени администратора все активные бронирования
// на идентичность слота и возвращает затронутые записи
func (s *Service) CancelBySlot(ctx context.Context, date, timeRange string) ([]*domain.Booking, error) {
	affected, err := s.bookingRepo.CancelBySlot(ctx, date, timeRange)
	if err != nil {
		s.logger.Error("CancelBySlot: repository error for (%s, %s): %v", date, timeRange, err)
		return nil, fmt.Errorf("%w: CancelBySlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CancelBySlot: cancelled %d bookings on (%s, %s)", len(affected), date, timeRange)
	return affected, nil
}

// UpsertUser сохраняет или обновляет профиль пользователя
func (s *Service) UpsertUser(ctx context.Context, user *domain.UserProfile) error {
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		s.logger.Error("UpsertUser: repository error for user=%d: %v", user.UserID, err)
		return fmt.Errorf("%w: UpsertUser - repository error: %v", ErrInternal, err)
	}
	return nil
}

// GetUser получает профиль пользователя
func (s *Service) GetUser(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("GetUser: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUser - repository error: %v", ErrInternal, err)
	}
	return user, nil
}

// ListUsers возвращает все профили пользователей
func (s *Service) ListUsers(ctx context.Context) ([]*domain.UserProfile, error) {
	result, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListUsers: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListUsers - repository error: %v", ErrInternal, err)
	}
	return result, nil
}

// ListHomeworksByUser возвращает домашние задания пользователя
func (s *Service) ListHomeworksByUser(ctx context.Context, userID int64) ([]*domain.Homework, error) {
	result, err := s.homeworkRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListHomeworksByUser: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListHomeworksByUser - repository error: %v", ErrInternal, err)
	}
	return result, nil
}
