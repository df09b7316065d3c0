package availability

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
	bedRepo "github.com/m04kA/O2Spa-SchedulingService/internal/infra/storage/bed"
	"github.com/m04kA/O2Spa-SchedulingService/internal/service/availability/models"
)

// fakeBedRepo in-memory каталог кроватей
type fakeBedRepo struct {
	beds []*domain.Bed
}

func (f *fakeBedRepo) ListBookable(_ context.Context) ([]*domain.Bed, error) {
	return f.beds, nil
}

func (f *fakeBedRepo) GetByID(_ context.Context, id int64) (*domain.Bed, error) {
	for _, b := range f.beds {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, bedRepo.ErrBedNotFound
}

// fakeAllocRepo in-memory хранилище броней, повторяющее фильтры SQL-выборок
type fakeAllocRepo struct {
	allocations []*domain.Allocation
}

func (f *fakeAllocRepo) FindOverlapping(_ context.Context, bedID int64, start, end time.Time, excludingID *int64) ([]*domain.Allocation, error) {
	var result []*domain.Allocation
	for _, a := range f.allocations {
		if a.BedID != bedID || !a.IsActive() || !a.Overlaps(start, end) {
			continue
		}
		if excludingID != nil && a.ID == *excludingID {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (f *fakeAllocRepo) ActiveAt(_ context.Context, at time.Time) ([]*domain.Allocation, error) {
	var result []*domain.Allocation
	for _, a := range f.allocations {
		if a.IsCurrent() && a.PaymentStatus.IsPaid() && a.Covers(at) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeAllocRepo) UpcomingWithin(_ context.Context, at time.Time, horizon time.Duration) ([]*domain.Allocation, error) {
	var result []*domain.Allocation
	for _, a := range f.allocations {
		if a.IsCurrent() && a.PaymentStatus.IsPaid() &&
			a.StartTime.After(at) && !a.StartTime.After(at.Add(horizon)) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeAllocRepo) ListForBedBetween(_ context.Context, bedID int64, from, to time.Time) ([]*domain.Allocation, error) {
	var result []*domain.Allocation
	for _, a := range f.allocations {
		if a.BedID == bedID && a.IsActive() && a.Overlaps(from, to) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

// nopLogger логгер-заглушка для тестов
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(beds []*domain.Bed, allocations []*domain.Allocation) *Service {
	return NewService(
		&fakeBedRepo{beds: beds},
		&fakeAllocRepo{allocations: allocations},
		DefaultScheduleConfig(time.UTC),
		nopLogger{},
	)
}

func bed(id int64, status domain.BedStatus) *domain.Bed {
	return &domain.Bed{ID: id, Number: int(id), Status: status, Type: "standard"}
}

func alloc(id, bedID int64, start, end time.Time, status domain.AllocationStatus, payment domain.PaymentStatus) *domain.Allocation {
	return &domain.Allocation{
		ID:            id,
		BedID:         bedID,
		CustomerID:    100 + id,
		BookingNumber: "BK-TEST",
		CustomerName:  "Иванов Иван",
		StartTime:     start,
		EndTime:       end,
		Status:        status,
		PaymentStatus: payment,
	}
}

func TestService_StatusOf(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 40, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		bedStatus   domain.BedStatus
		allocations []*domain.Allocation
		expected    domain.BedStatus
	}{
		{
			name:      "no allocations",
			bedStatus: domain.BedStatusAvailable,
			expected:  domain.BedStatusAvailable,
		},
		{
			name:      "paid session in progress",
			bedStatus: domain.BedStatusAvailable,
			allocations: []*domain.Allocation{
				alloc(1, 1, now.Add(-20*time.Minute), now.Add(40*time.Minute), domain.StatusInProgress, domain.PaymentPaid),
			},
			expected: domain.BedStatusOccupied,
		},
		{
			name:      "paid confirmed booking starting in 20 minutes",
			bedStatus: domain.BedStatusAvailable,
			allocations: []*domain.Allocation{
				alloc(1, 1, now.Add(20*time.Minute), now.Add(80*time.Minute), domain.StatusConfirmed, domain.PaymentPaid),
			},
			expected: domain.BedStatusBookedSoon,
		},
		{
			name:      "paid booking starting exactly at the horizon",
			bedStatus: domain.BedStatusAvailable,
			allocations: []*domain.Allocation{
				alloc(1, 1, now.Add(30*time.Minute), now.Add(90*time.Minute), domain.StatusConfirmed, domain.PaymentPaid),
			},
			expected: domain.BedStatusBookedSoon,
		},
		{
			name:      "paid booking just past the horizon",
			bedStatus: domain.BedStatusAvailable,
			allocations: []*domain.Allocation{
				alloc(1, 1, now.Add(31*time.Minute), now.Add(91*time.Minute), domain.StatusConfirmed, domain.PaymentPaid),
			},
			expected: domain.BedStatusAvailable,
		},
		{
			// неоплаченная бронь удерживает слот, но в статусной картине
			// кровать остаётся свободной
			name:      "unpaid confirmed hold shows available",
			bedStatus: domain.BedStatusAvailable,
			allocations: []*domain.Allocation{
				alloc(1, 1, now.Add(-10*time.Minute), now.Add(50*time.Minute), domain.StatusConfirmed, domain.PaymentUnpaid),
			},
			expected: domain.BedStatusAvailable,
		},
		{
			name:      "partially paid does not count as paid",
			bedStatus: domain.BedStatusAvailable,
			allocations: []*domain.Allocation{
				alloc(1, 1, now.Add(-10*time.Minute), now.Add(50*time.Minute), domain.StatusConfirmed, domain.PaymentPartiallyPaid),
			},
			expected: domain.BedStatusAvailable,
		},
		{
			name:      "cancelled paid booking is invisible",
			bedStatus: domain.BedStatusAvailable,
			allocations: []*domain.Allocation{
				alloc(1, 1, now.Add(-10*time.Minute), now.Add(50*time.Minute), domain.StatusCancelled, domain.PaymentPaid),
			},
			expected: domain.BedStatusAvailable,
		},
		{
			name:      "maintenance wins over paid active session",
			bedStatus: domain.BedStatusMaintenance,
			allocations: []*domain.Allocation{
				alloc(1, 1, now.Add(-10*time.Minute), now.Add(50*time.Minute), domain.StatusInProgress, domain.PaymentPaid),
			},
			expected: domain.BedStatusMaintenance,
		},
		{
			name:      "occupied wins over booked_soon",
			bedStatus: domain.BedStatusAvailable,
			allocations: []*domain.Allocation{
				alloc(1, 1, now.Add(-10*time.Minute), now.Add(10*time.Minute), domain.StatusInProgress, domain.PaymentPaid),
				alloc(2, 1, now.Add(15*time.Minute), now.Add(75*time.Minute), domain.StatusConfirmed, domain.PaymentPaid),
			},
			expected: domain.BedStatusOccupied,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService([]*domain.Bed{bed(1, tc.bedStatus)}, tc.allocations)

			status, err := svc.StatusOf(context.Background(), 1, now)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, status)
		})
	}
}

func TestService_StatusOf_BedNotFound(t *testing.T) {
	svc := newTestService(nil, nil)

	_, err := svc.StatusOf(context.Background(), 42, time.Now())
	assert.ErrorIs(t, err, ErrBedNotFound)
}

func TestService_IsAvailable(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// существующая бронь [10:00, 11:00), неоплаченная
	existing := alloc(7, 1, base, base.Add(time.Hour), domain.StatusConfirmed, domain.PaymentUnpaid)

	t.Run("unpaid hold still blocks the window", func(t *testing.T) {
		svc := newTestService([]*domain.Bed{bed(1, domain.BedStatusAvailable)}, []*domain.Allocation{existing})

		available, conflicts, err := svc.IsAvailable(context.Background(), 1, base.Add(30*time.Minute), base.Add(90*time.Minute), nil)
		require.NoError(t, err)
		assert.False(t, available)
		require.Len(t, conflicts, 1)
		assert.Equal(t, int64(7), conflicts[0].AllocationID)
		assert.Equal(t, "Иванов Иван", conflicts[0].CustomerName)
	})

	t.Run("back-to-back window is free", func(t *testing.T) {
		svc := newTestService([]*domain.Bed{bed(1, domain.BedStatusAvailable)}, []*domain.Allocation{existing})

		available, conflicts, err := svc.IsAvailable(context.Background(), 1, base.Add(time.Hour), base.Add(2*time.Hour), nil)
		require.NoError(t, err)
		assert.True(t, available)
		assert.Empty(t, conflicts)
	})

	t.Run("maintenance bed is never available", func(t *testing.T) {
		svc := newTestService([]*domain.Bed{bed(1, domain.BedStatusMaintenance)}, nil)

		available, conflicts, err := svc.IsAvailable(context.Background(), 1, base, base.Add(time.Hour), nil)
		require.NoError(t, err)
		assert.False(t, available)
		assert.Empty(t, conflicts)
	})

	t.Run("excluding own allocation", func(t *testing.T) {
		svc := newTestService([]*domain.Bed{bed(1, domain.BedStatusAvailable)}, []*domain.Allocation{existing})

		excluding := int64(7)
		available, _, err := svc.IsAvailable(context.Background(), 1, base, base.Add(time.Hour), &excluding)
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("unknown bed", func(t *testing.T) {
		svc := newTestService(nil, nil)

		_, _, err := svc.IsAvailable(context.Background(), 99, base, base.Add(time.Hour), nil)
		assert.ErrorIs(t, err, ErrBedNotFound)
	})
}

func TestService_AvailableBeds(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	beds := []*domain.Bed{
		bed(1, domain.BedStatusAvailable),
		bed(2, domain.BedStatusAvailable),
		bed(3, domain.BedStatusMaintenance),
	}
	allocations := []*domain.Allocation{
		alloc(1, 2, base, base.Add(time.Hour), domain.StatusConfirmed, domain.PaymentUnpaid),
		alloc(2, 1, base, base.Add(time.Hour), domain.StatusCancelled, domain.PaymentPaid),
	}

	svc := newTestService(beds, allocations)

	available, err := svc.AvailableBeds(context.Background(), base.Add(30*time.Minute), base.Add(90*time.Minute))
	require.NoError(t, err)

	// кровать 2 занята бронью, кровать 3 в maintenance, отменённая бронь
	// на кровати 1 не мешает
	require.Len(t, available, 1)
	assert.Equal(t, int64(1), available[0].ID)
}

func TestService_ListWithStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	beds := []*domain.Bed{
		bed(1, domain.BedStatusAvailable),
		bed(2, domain.BedStatusAvailable),
	}
	allocations := []*domain.Allocation{
		alloc(5, 1, now.Add(-30*time.Minute), now.Add(30*time.Minute), domain.StatusInProgress, domain.PaymentPaid),
	}

	svc := newTestService(beds, allocations)

	result, err := svc.ListWithStatus(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, domain.BedStatusOccupied, result[0].Status)
	require.NotNil(t, result[0].CurrentAllocation)
	assert.Equal(t, int64(5), result[0].CurrentAllocation.ID)

	assert.Equal(t, domain.BedStatusAvailable, result[1].Status)
	assert.Nil(t, result[1].CurrentAllocation)
}

func TestService_DaySchedule(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 12, 10, 0, 0, time.UTC)

	// бронь [10:00, 11:00) и бронь, выходящая за закрытие [21:30, 22:30)
	allocations := []*domain.Allocation{
		alloc(1, 1, day.Add(10*time.Hour), day.Add(11*time.Hour), domain.StatusConfirmed, domain.PaymentPaid),
		alloc(2, 1, day.Add(21*time.Hour+30*time.Minute), day.Add(22*time.Hour+30*time.Minute), domain.StatusConfirmed, domain.PaymentPaid),
	}

	svc := newTestService([]*domain.Bed{bed(1, domain.BedStatusAvailable)}, allocations)

	seq, err := svc.DaySchedule(context.Background(), 1, day, now)
	require.NoError(t, err)

	var slots []models.ScheduleSlot
	for slot := range seq {
		slots = append(slots, slot)
	}

	// 08:00-22:00 с шагом 30 минут = 28 слотов
	require.Len(t, slots, 28)
	assert.Equal(t, day.Add(8*time.Hour), slots[0].SlotStart)
	assert.Equal(t, day.Add(22*time.Hour), slots[27].SlotEnd)

	// слоты 10:00 и 10:30 заняты бронью 1
	for _, idx := range []int{4, 5} {
		require.NotNil(t, slots[idx].Allocation, "slot %d", idx)
		assert.Equal(t, int64(1), slots[idx].Allocation.ID)
		assert.False(t, slots[idx].IsAvailable)
	}
	assert.Nil(t, slots[6].Allocation) // 11:00 свободен

	// прошедшие слоты помечены и недоступны: now = 12:10, слот 12:00 уже начался
	assert.True(t, slots[8].IsPast)
	assert.False(t, slots[8].IsAvailable)
	assert.False(t, slots[9].IsPast) // 12:30 ещё впереди

	// бронь за «закрытием» видна в последнем слоте, лишних слотов нет
	require.NotNil(t, slots[27].Allocation)
	assert.Equal(t, int64(2), slots[27].Allocation.ID)
}

func TestService_DaySchedule_Restartable(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now := day.Add(9 * time.Hour)

	svc := newTestService([]*domain.Bed{bed(1, domain.BedStatusAvailable)}, []*domain.Allocation{
		alloc(1, 1, day.Add(14*time.Hour), day.Add(15*time.Hour), domain.StatusConfirmed, domain.PaymentPaid),
	})

	seq, err := svc.DaySchedule(context.Background(), 1, day, now)
	require.NoError(t, err)

	count := func() (n int, occupied int) {
		for slot := range seq {
			n++
			if slot.Allocation != nil {
				occupied++
			}
		}
		return
	}

	n1, occ1 := count()
	n2, occ2 := count()
	assert.Equal(t, n1, n2)
	assert.Equal(t, occ1, occ2)
	assert.Equal(t, 28, n1)
	assert.Equal(t, 2, occ1)
}

func TestService_DaySchedule_MaintenanceBed(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	svc := newTestService([]*domain.Bed{bed(1, domain.BedStatusMaintenance)}, nil)

	seq, err := svc.DaySchedule(context.Background(), 1, day, day)
	require.NoError(t, err)

	for slot := range seq {
		assert.False(t, slot.IsAvailable)
	}
}

func TestService_DaySchedule_EarlyBreak(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	svc := newTestService([]*domain.Bed{bed(1, domain.BedStatusAvailable)}, nil)

	seq, err := svc.DaySchedule(context.Background(), 1, day, day)
	require.NoError(t, err)

	var n int
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestService_DeriveAll(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	beds := []*domain.Bed{
		bed(1, domain.BedStatusAvailable),
		bed(2, domain.BedStatusBookedSoon), // устаревший сохранённый статус
		bed(3, domain.BedStatusMaintenance),
	}
	allocations := []*domain.Allocation{
		alloc(1, 1, now.Add(-10*time.Minute), now.Add(50*time.Minute), domain.StatusInProgress, domain.PaymentPaid),
	}

	svc := newTestService(beds, allocations)

	derived, err := svc.DeriveAll(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, domain.BedStatusOccupied, derived[1])
	assert.Equal(t, domain.BedStatusAvailable, derived[2])

	// maintenance липкий: в карту вывода не попадает вовсе
	_, ok := derived[3]
	assert.False(t, ok)
}
