// Package availability движок доступности кроватей: чистая функция от
// (каталог, хранилище броней, now). Сервис не хранит изменяемого состояния;
// момент "now" передаётся явно в каждый вызов, чтобы все сравнения внутри
// одного вызова шли от одного снимка времени.
package availability

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
	bedRepo "github.com/m04kA/O2Spa-SchedulingService/internal/infra/storage/bed"
	"github.com/m04kA/O2Spa-SchedulingService/internal/service/availability/models"
)

// ScheduleConfig параметры дневного расписания зала
type ScheduleConfig struct {
	Location    *time.Location // часовой пояс заведения
	OpenHour    int
	CloseHour   int
	SlotMinutes int
}

// DefaultScheduleConfig возвращает рабочее окно 08:00-22:00 со слотами 30 минут
func DefaultScheduleConfig(loc *time.Location) ScheduleConfig {
	if loc == nil {
		loc = time.Local
	}
	return ScheduleConfig{
		Location:    loc,
		OpenHour:    domain.BusinessOpenHour,
		CloseHour:   domain.BusinessCloseHour,
		SlotMinutes: domain.ScheduleSlotMinutes,
	}
}

// Service сервис вычисления доступности кроватей
type Service struct {
	bedRepo   BedRepository
	allocRepo AllocationRepository
	schedule  ScheduleConfig
	logger    Logger
}

// NewService создает новый экземпляр движка доступности
func NewService(
	bedRepo BedRepository,
	allocRepo AllocationRepository,
	schedule ScheduleConfig,
	logger Logger,
) *Service {
	return &Service{
		bedRepo:   bedRepo,
		allocRepo: allocRepo,
		schedule:  schedule,
		logger:    logger,
	}
}

// deriveStatus единственное правило вывода статуса кровати.
// Порядок приоритетов фиксирован: maintenance > occupied > booked_soon >
// available. Maintenance побеждает всегда, независимо от броней.
// И StatusOf, и refresh статусов в reconciler проходят через эту функцию,
// поэтому "живое" и сохранённое значения не могут разойтись.
func deriveStatus(b *domain.Bed, active, upcoming []*domain.Allocation) domain.BedStatus {
	if b.InMaintenance() {
		return domain.BedStatusMaintenance
	}
	if len(active) > 0 {
		return domain.BedStatusOccupied
	}
	if len(upcoming) > 0 {
		return domain.BedStatusBookedSoon
	}
	return domain.BedStatusAvailable
}

// StatusOf возвращает выведенный статус кровати на момент now
func (s *Service) StatusOf(ctx context.Context, bedID int64, now time.Time) (domain.BedStatus, error) {
	b, err := s.bedRepo.GetByID(ctx, bedID)
	if err != nil {
		if errors.Is(err, bedRepo.ErrBedNotFound) {
			return "", ErrBedNotFound
		}
		return "", fmt.Errorf("%w: StatusOf - get bed: %v", ErrInternal, err)
	}

	// Maintenance побеждает до любых запросов по броням
	if b.InMaintenance() {
		return domain.BedStatusMaintenance, nil
	}

	active, upcoming, err := s.loadCurrentAndUpcoming(ctx, now)
	if err != nil {
		return "", err
	}

	return deriveStatus(b, active[bedID], upcoming[bedID]), nil
}

// ListWithStatus возвращает все кровати зала с выведенным статусом и кратким
// описанием текущей оплаченной брони, в порядке позиции в сетке
func (s *Service) ListWithStatus(ctx context.Context, now time.Time) ([]models.BedWithStatus, error) {
	beds, err := s.bedRepo.ListBookable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithStatus - list beds: %v", ErrInternal, err)
	}

	active, upcoming, err := s.loadCurrentAndUpcoming(ctx, now)
	if err != nil {
		return nil, err
	}

	result := make([]models.BedWithStatus, 0, len(beds))
	for _, b := range beds {
		item := models.BedWithStatus{
			BedID:        b.ID,
			DisplayLabel: b.Label(),
			GridRow:      b.GridRow,
			GridCol:      b.GridCol,
			Type:         b.Type,
			Status:       deriveStatus(b, active[b.ID], upcoming[b.ID]),
		}
		if current := active[b.ID]; len(current) > 0 {
			item.CurrentAllocation = models.FromDomainAllocation(current[0])
		}
		result = append(result, item)
	}

	return result, nil
}

// IsAvailable проверяет, свободна ли кровать в окне [start, end).
// Оплата здесь не учитывается: неоплаченная подтверждённая бронь удерживает
// слот, хотя в статусной картине кровать остаётся available.
// При конфликте возвращается структурированный список пересекающихся броней.
func (s *Service) IsAvailable(ctx context.Context, bedID int64, start, end time.Time, excludingID *int64) (bool, []models.Conflict, error) {
	b, err := s.bedRepo.GetByID(ctx, bedID)
	if err != nil {
		if errors.Is(err, bedRepo.ErrBedNotFound) {
			return false, nil, ErrBedNotFound
		}
		return false, nil, fmt.Errorf("%w: IsAvailable - get bed: %v", ErrInternal, err)
	}

	if b.InMaintenance() {
		return false, nil, nil
	}

	overlapping, err := s.allocRepo.FindOverlapping(ctx, bedID, start, end, excludingID)
	if err != nil {
		return false, nil, fmt.Errorf("%w: IsAvailable - find overlapping: %v", ErrInternal, err)
	}

	if len(overlapping) == 0 {
		return true, nil, nil
	}

	conflicts := make([]models.Conflict, 0, len(overlapping))
	for _, a := range overlapping {
		conflicts = append(conflicts, models.ConflictFromDomain(a))
	}

	return false, conflicts, nil
}

// AvailableBeds возвращает кровати, свободные на всём окне [start, end):
// каталог минус кровати с пересекающимися неотменёнными бронями минус
// кровати в maintenance
func (s *Service) AvailableBeds(ctx context.Context, start, end time.Time) ([]*domain.Bed, error) {
	beds, err := s.bedRepo.ListBookable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: AvailableBeds - list beds: %v", ErrInternal, err)
	}

	available := make([]*domain.Bed, 0, len(beds))
	for _, b := range beds {
		if b.InMaintenance() {
			continue
		}

		overlapping, err := s.allocRepo.FindOverlapping(ctx, b.ID, start, end, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: AvailableBeds - find overlapping for bed %d: %v", ErrInternal, b.ID, err)
		}
		if len(overlapping) > 0 {
			continue
		}

		available = append(available, b)
	}

	return available, nil
}

// DaySchedule возвращает ленивую конечную последовательность слотов дневного
// расписания кровати. Слоты фиксированы при создании (шаг 30 минут в окне
// 08:00-22:00 локального времени заведения) и считаются по одному снимку
// броней, поэтому последовательность можно проходить повторно с тем же
// результатом. Бронь, выходящая за 22:00, видна в последнем слоте, который
// она пересекает, но за пределы окна слоты не генерируются.
func (s *Service) DaySchedule(ctx context.Context, bedID int64, date time.Time, now time.Time) (iter.Seq[models.ScheduleSlot], error) {
	b, err := s.bedRepo.GetByID(ctx, bedID)
	if err != nil {
		if errors.Is(err, bedRepo.ErrBedNotFound) {
			return nil, ErrBedNotFound
		}
		return nil, fmt.Errorf("%w: DaySchedule - get bed: %v", ErrInternal, err)
	}

	loc := s.schedule.Location
	y, m, d := date.In(loc).Date()
	open := time.Date(y, m, d, s.schedule.OpenHour, 0, 0, 0, loc)
	close := time.Date(y, m, d, s.schedule.CloseHour, 0, 0, 0, loc)
	slotStep := time.Duration(s.schedule.SlotMinutes) * time.Minute

	allocations, err := s.allocRepo.ListForBedBetween(ctx, bedID, open, close)
	if err != nil {
		return nil, fmt.Errorf("%w: DaySchedule - list allocations: %v", ErrInternal, err)
	}

	inMaintenance := b.InMaintenance()

	return func(yield func(models.ScheduleSlot) bool) {
		for slotStart := open; !slotStart.Add(slotStep).After(close); slotStart = slotStart.Add(slotStep) {
			slotEnd := slotStart.Add(slotStep)

			occupying := firstOccupying(allocations, slotStart, slotEnd)
			isPast := slotStart.Before(now)

			slot := models.ScheduleSlot{
				SlotStart:   slotStart,
				SlotEnd:     slotEnd,
				IsAvailable: occupying == nil && !isPast && !inMaintenance,
				IsPast:      isPast,
			}
			if occupying != nil {
				slot.Allocation = models.FromDomainAllocation(occupying)
			}

			if !yield(slot) {
				return
			}
		}
	}, nil
}

// firstOccupying выбирает бронь для отображения в слоте.
// Разрешение неоднозначности: из пересекающихся побеждает самая ранняя
// бронь, чьё окно содержит начало слота; если такой нет — самая ранняя
// из пересекающихся. Список приходит отсортированным по start_time.
func firstOccupying(allocations []*domain.Allocation, slotStart, slotEnd time.Time) *domain.Allocation {
	var firstOverlap *domain.Allocation

	for _, a := range allocations {
		if !a.Overlaps(slotStart, slotEnd) {
			continue
		}
		if a.Covers(slotStart) {
			return a
		}
		if firstOverlap == nil {
			firstOverlap = a
		}
	}

	return firstOverlap
}

// DeriveAll выводит статусы всех небронируемых вручную кроватей одним
// проходом. Кровати в maintenance в карту не попадают: их статус липкий
// и автоматикой не трогается.
// Используется reconciler-ом для refresh сохранённых статусов — то же
// правило вывода, что и в StatusOf.
func (s *Service) DeriveAll(ctx context.Context, now time.Time) (map[int64]domain.BedStatus, error) {
	beds, err := s.bedRepo.ListBookable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: DeriveAll - list beds: %v", ErrInternal, err)
	}

	active, upcoming, err := s.loadCurrentAndUpcoming(ctx, now)
	if err != nil {
		return nil, err
	}

	derived := make(map[int64]domain.BedStatus, len(beds))
	for _, b := range beds {
		if b.InMaintenance() {
			continue
		}
		derived[b.ID] = deriveStatus(b, active[b.ID], upcoming[b.ID])
	}

	return derived, nil
}

// loadCurrentAndUpcoming загружает оплаченные текущие и скоро начинающиеся
// брони одним снимком, сгруппированными по кроватям
func (s *Service) loadCurrentAndUpcoming(ctx context.Context, now time.Time) (map[int64][]*domain.Allocation, map[int64][]*domain.Allocation, error) {
	active, err := s.allocRepo.ActiveAt(ctx, now)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: load active allocations: %v", ErrInternal, err)
	}

	horizon := time.Duration(domain.BookedSoonWindowMinutes) * time.Minute
	upcoming, err := s.allocRepo.UpcomingWithin(ctx, now, horizon)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: load upcoming allocations: %v", ErrInternal, err)
	}

	return groupByBed(active), groupByBed(upcoming), nil
}

// groupByBed группирует брони по кроватям, сохраняя порядок выборки
func groupByBed(allocations []*domain.Allocation) map[int64][]*domain.Allocation {
	grouped := make(map[int64][]*domain.Allocation, len(allocations))
	for _, a := range allocations {
		grouped[a.BedID] = append(grouped[a.BedID], a)
	}
	return grouped
}
