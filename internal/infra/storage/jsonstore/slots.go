package jsonstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/TLB-TutorBot/internal/domain"
	"github.com/m04kA/TLB-TutorBot/internal/infra/storage"
)

// slotRecord формат ячейки слота в slots.json
type slotRecord struct {
	Time           string `json:"time"`
	Available      bool   `json:"available"`
	DeletedByAdmin bool   `json:"deleted_by_admin,omitempty"`
}

// slotsmap карта дата -> ячейки, формат slots.json исходной системы
type slotsMap map[string][]slotRecord

// SlotRepo файловый репозиторий слотов
type SlotRepo struct {
	store *Store
}

// List возвращает все слоты, упорядоченные по дате и часу начала
func (r *SlotRepo) List(ctx context.Context) ([]*domain.Slot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slots, err := r.load()
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(slots))
	for date := range slots {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool {
		di, erri := domain.ParseDate(dates[i])
		dj, errj := domain.ParseDate(dates[j])
		if erri != nil || errj != nil {
			return dates[i] < dates[j]
		}
		return di.Before(dj)
	})

	var result []*domain.Slot
	for _, date := range dates {
		cells := append([]slotRecord(nil), slots[date]...)
		sort.Slice(cells, func(i, j int) bool {
			return domain.TimeSortKey(cells[i].Time) < domain.TimeSortKey(cells[j].Time)
		})
		for _, cell := range cells {
			result = append(result, &domain.Slot{
				Date:           date,
				Time:           cell.Time,
				Available:      cell.Available,
				DeletedByAdmin: cell.DeletedByAdmin,
			})
		}
	}

	return result, nil
}

// Add вставляет слот, возвращая storage.ErrSlotExists при существующей идентичности
func (r *SlotRepo) Add(ctx context.Context, slot *domain.Slot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slots, err := r.load()
	if err != nil {
		return err
	}

	for _, cell := range slots[slot.Date] {
		if cell.Time == slot.Time {
			return fmt.Errorf("%w: (%s, %s)", storage.ErrSlotExists, slot.Date, slot.Time)
		}
	}

	slots[slot.Date] = append(slots[slot.Date], slotRecord{
		Time:           slot.Time,
		Available:      slot.Available,
		DeletedByAdmin: slot.DeletedByAdmin,
	})

	return r.store.writeFile(slotsFile, slots)
}

// SetAvailability меняет доступность слота
func (r *SlotRepo) SetAvailability(ctx context.Context, date, timeRange string, available bool) error {
	return r.update(date, timeRange, func(cell *slotRecord) {
		cell.Available = available
	})
}

// MarkDeletedByAdmin помечает слот удалённым администратором и занятым
func (r *SlotRepo) MarkDeletedByAdmin(ctx context.Context, date, timeRange string) error {
	return r.update(date, timeRange, func(cell *slotRecord) {
		cell.DeletedByAdmin = true
		cell.Available = false
	})
}

func (r *SlotRepo) update(date, timeRange string, apply func(*slotRecord)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slots, err := r.load()
	if err != nil {
		return err
	}

	cells := slots[date]
	for i := range cells {
		if cells[i].Time == timeRange {
			apply(&cells[i])
			slots[date] = cells
			return r.store.writeFile(slotsFile, slots)
		}
	}

	return fmt.Errorf("%w: (%s, %s)", storage.ErrSlotNotFound, date, timeRange)
}

func (r *SlotRepo) load() (slotsMap, error) {
	slots := slotsMap{}
	if err := r.store.readFile(slotsFile, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}
