package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
)

// Service сервис аналитики по леджеру бронирований
type Service struct {
	bookingRepo BookingRepository
	userRepo    UserRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса аналитики
func NewService(bookingRepo BookingRepository, userRepo UserRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// BuildReport собирает сводку по всем бронированиям на момент now
func (s *Service) BuildReport(ctx context.Context, now time.Time) (*Report, error) {
	s.logger.Info("BuildReport: building analytics report")

	all, err := s.bookingRepo.List(ctx, domain.BookingFilter{})
	if err != nil {
		s.logger.Error("BuildReport: bookings repository error: %v", err)
		return nil, fmt.Errorf("%w: BuildReport - bookings repository error: %v", ErrInternal, err)
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error("BuildReport: users repository error: %v", err)
		return nil, fmt.Errorf("%w: BuildReport - users repository error: %v", ErrInternal, err)
	}

	guardianNames := make(map[int64]string, len(users))
	for _, u := range users {
		guardianNames[u.UserID] = u.GuardianName
	}

	report := &Report{Total: len(all)}
	childCounts := make(map[string]int)
	cancellerCounts := make(map[int64]int)

	for _, b := range all {
		switch {
		case b.CancelledByUser:
			report.CancelledByUser++
			cancellerCounts[b.UserID]++
		case b.CancelledByAdmin:
			report.CancelledByAdmin++
		default:
			report.Active++
		}
		if b.Confirmed {
			report.Confirmed++
		}

		// Окна и топ детей считаются только по активным записям
		if !b.IsActive() {
			continue
		}

		if b.ChildName != "" {
			childCounts[b.ChildName]++
		}

		createdAt, err := b.CreatedAt()
		if err != nil {
			s.logger.Warn("BuildReport: skipping booking id=%d with bad timestamp %q", b.ID, b.Timestamp)
			continue
		}
		age := now.Sub(createdAt)
		if age < 0 {
			continue
		}
		if age <= 7*24*time.Hour {
			report.Last7Days++
		}
		if age <= 30*24*time.Hour {
			report.Last30Days++
		}
		if age <= 365*24*time.Hour {
			report.LastYear++
		}
	}

	report.TopChildren = topNames(childCounts)

	named := make(map[string]int, len(cancellerCounts))
	for userID, count := range cancellerCounts {
		name, ok := guardianNames[userID]
		if !ok || name == "" {
			name = fmt.Sprintf("ID %d", userID)
		}
		named[name] += count
	}
	report.TopCancellers = topNames(named)

	s.logger.Info("BuildReport: report ready, total=%d active=%d", report.Total, report.Active)
	return report, nil
}

// topNames возвращает до domain.TopListLimit имён по убыванию счётчика.
// При равных счётчиках порядок алфавитный, чтобы выдача была стабильной.
func topNames(counts map[string]int) []NameCount {
	result := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, NameCount{Name: name, Count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})

	if len(result) > domain.TopListLimit {
		result = result[:domain.TopListLimit]
	}

	return result
}
