package slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	"github.com/m04kA/TLB-TutorBot/internal/infra/storage"
)

// Service сервис леджера слотов
type Service struct {
	slotRepo SlotRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(slotRepo SlotRepository, logger Logger) *Service {
	return &Service{
		slotRepo: slotRepo,
		logger:   logger,
	}
}

// AddResult итог добавления диапазона: какие часовые ячейки созданы,
// а какие уже существовали
type AddResult struct {
	Added    []string
	Existing []string
}

// List возвращает все слоты расписания, включая занятые и удалённые
func (s *Service) List(ctx context.Context) ([]*domain.Slot, error) {
	result, err := s.slotRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return result, nil
}

// ListOfferable возвращает слоты, которые можно предложить клиенту:
// свободные, не удалённые администратором и не начавшиеся до момента now
func (s *Service) ListOfferable(ctx context.Context, now time.Time) ([]*domain.Slot, error) {
	all, err := s.slotRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListOfferable: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListOfferable - repository error: %v", ErrInternal, err)
	}

	var result []*domain.Slot
	for _, slot := range all {
		if !slot.IsOfferable() {
			continue
		}
		start, err := slot.StartTime()
		if err != nil {
			// Слот с нечитаемой идентичностью не предлагаем, но и не роняем выдачу
			s.logger.Warn("ListOfferable: skipping slot (%s, %s): %v", slot.Date, slot.Time, err)
			continue
		}
		if !start.After(now) {
			continue
		}
		result = append(result, slot)
	}

	return result, nil
}

// OfferableDates возвращает даты, по которым есть предлагаемые слоты,
// в хронологическом порядке, не более domain.MaxOfferedDates
func (s *Service) OfferableDates(ctx context.Context, now time.Time) ([]string, error) {
	offerable, err := s.ListOfferable(ctx, now)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var dates []string
	for _, slot := range offerable {
		if _, ok := seen[slot.Date]; ok {
			continue
		}
		seen[slot.Date] = struct{}{}
		dates = append(dates, slot.Date)
	}

	sort.Slice(dates, func(i, j int) bool {
		di, _ := domain.ParseDate(dates[i])
		dj, _ := domain.ParseDate(dates[j])
		return di.Before(dj)
	})

	if len(dates) > domain.MaxOfferedDates {
		dates = dates[:domain.MaxOfferedDates]
	}

	return dates, nil
}

// OfferableTimes возвращает предлагаемые времена на дату,
// отсортированные по часу начала
func (s *Service) OfferableTimes(ctx context.Context, date string, now time.Time) ([]string, error) {
	offerable, err := s.ListOfferable(ctx, now)
	if err != nil {
		return nil, err
	}

	var times []string
	for _, slot := range offerable {
		if slot.Date == date {
			times = append(times, slot.Time)
		}
	}

	sort.Slice(times, func(i, j int) bool {
		return domain.TimeSortKey(times[i]) < domain.TimeSortKey(times[j])
	})

	return times, nil
}

// AddRange разбивает диапазон на часовые ячейки и добавляет каждую как
// свободный слот. Уже существующие ячейки не трогаются и возвращаются
// отдельным списком.
func (s *Service) AddRange(ctx context.Context, date, timeRange string) (*AddResult, error) {
	s.logger.Info("AddRange: adding slots on %s range %s", date, timeRange)

	if _, err := domain.ParseDate(date); err != nil {
		s.logger.Warn("AddRange: invalid date %q: %v", date, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}

	cells, err := domain.SplitTimeRange(timeRange)
	if err != nil {
		s.logger.Warn("AddRange: invalid time range %q: %v", timeRange, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}

	result := &AddResult{}
	for _, cell := range cells {
		slot, err := domain.NewSlot(date, cell)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
		}

		if err := s.slotRepo.Add(ctx, slot); err != nil {
			if errors.Is(err, storage.ErrSlotExists) {
				result.Existing = append(result.Existing, cell)
				continue
			}
			s.logger.Error("AddRange: repository error for (%s, %s): %v", date, cell, err)
			return nil, fmt.Errorf("%w: AddRange - repository error: %v", ErrInternal, err)
		}
		result.Added = append(result.Added, cell)
	}

	s.logger.Info("AddRange: added %d cells, %d already existed on %s", len(result.Added), len(result.Existing), date)
	return result, nil
}

// SetAvailability меняет доступность слота
func (s *Service) SetAvailability(ctx context.Context, date, timeRange string, available bool) error {
	if err := s.slotRepo.SetAvailability(ctx, date, timeRange, available); err != nil {
		if errors.Is(err, storage.ErrSlotNotFound) {
			s.logger.Warn("SetAvailability: slot (%s, %s) not found", date, timeRange)
			return ErrSlotNotFound
		}
		s.logger.Error("SetAvailability: repository error for (%s, %s): %v", date, timeRange, err)
		return fmt.Errorf("%w: SetAvailability - repository error: %v", ErrInternal, err)
	}
	return nil
}

// MarkDeletedByAdmin помечает слот удалённым администратором.
// Слот перестаёт предлагаться навсегда, запись о нём сохраняется.
func (s *Service) MarkDeletedByAdmin(ctx context.Context, date, timeRange string) error {
	s.logger.Info("MarkDeletedByAdmin: deleting slot (%s, %s)", date, timeRange)

	if err := s.slotRepo.MarkDeletedByAdmin(ctx, date, timeRange); err != nil {
		if errors.Is(err, storage.ErrSlotNotFound) {
			s.logger.Warn("MarkDeletedByAdmin: slot (%s, %s) not found", date, timeRange)
			return ErrSlotNotFound
		}
		s.logger.Error("MarkDeletedByAdmin: repository error for (%s, %s): %v", date, timeRange, err)
		return fmt.Errorf("%w: MarkDeletedByAdmin - repository error: %v", ErrInternal, err)
	}
	return nil
}
