package allocation

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
	"github.com/m04kA/O2Spa-SchedulingService/pkg/ptr"
)

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func allocationRows(allocations ...*domain.Allocation) *sqlmock.Rows {
	rows := sqlmock.NewRows(allocationColumns)
	for _, a := range allocations {
		rows.AddRow(
			a.ID, a.BedID, a.CustomerID, a.ServicePackageID, a.BookingNumber,
			a.StartTime, a.EndTime, a.Status, a.PaymentStatus,
			a.CustomerName, a.Notes, a.CreatedAt, a.UpdatedAt,
		)
	}
	return rows
}

func testAllocation(id int64) *domain.Allocation {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Allocation{
		ID:            id,
		BedID:         1,
		CustomerID:    10,
		BookingNumber: "BK-20250601-0001",
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.PaymentUnpaid,
		CustomerName:  "Иванов Иван",
		CreatedAt:     start.Add(-24 * time.Hour),
		UpdatedAt:     start.Add(-24 * time.Hour),
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newTestRepository(t)

	a := testAllocation(0)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO allocations`).
		WithArgs(
			a.BedID, a.CustomerID, a.ServicePackageID, a.BookingNumber,
			a.StartTime, a.EndTime, a.Status, a.PaymentStatus,
			a.CustomerName, a.Notes,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(42, now, now))

	created, err := repo.Create(context.Background(), a)
	require.NoError(t, err)

	assert.Equal(t, int64(42), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_InvalidWindow(t *testing.T) {
	repo, mock := newTestRepository(t)

	a := testAllocation(0)
	a.EndTime = a.StartTime

	// вывернутое окно отклоняется до обращения к БД
	_, err := repo.Create(context.Background(), a)
	assert.ErrorIs(t, err, ErrInvalidWindow)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT .+ FROM allocations WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(allocationRows())

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAllocationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindOverlapping(t *testing.T) {
	repo, mock := newTestRepository(t)

	existing := testAllocation(7)
	start := existing.StartTime.Add(30 * time.Minute)
	end := existing.EndTime.Add(30 * time.Minute)

	mock.ExpectQuery(`SELECT .+ FROM allocations WHERE bed_id = \$1 AND status <> \$2 AND start_time < \$3 AND end_time > \$4 ORDER BY start_time ASC`).
		WithArgs(int64(1), domain.StatusCancelled, end, start).
		WillReturnRows(allocationRows(existing))

	found, err := repo.FindOverlapping(context.Background(), 1, start, end, nil)
	require.NoError(t, err)

	require.Len(t, found, 1)
	assert.Equal(t, int64(7), found[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindOverlapping_Excluding(t *testing.T) {
	repo, mock := newTestRepository(t)

	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectQuery(`SELECT .+ FROM allocations WHERE bed_id = \$1 AND status <> \$2 AND start_time < \$3 AND end_time > \$4 AND id <> \$5 ORDER BY start_time ASC`).
		WithArgs(int64(1), domain.StatusCancelled, end, start, int64(7)).
		WillReturnRows(allocationRows())

	found, err := repo.FindOverlapping(context.Background(), 1, start, end, ptr.Ptr(int64(7)))
	require.NoError(t, err)

	assert.Empty(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CompleteElapsed(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE allocations SET status = \$1, updated_at = NOW\(\) WHERE \(status = \$2 AND end_time <= \$3\)`).
		WithArgs(domain.StatusCompleted, domain.StatusInProgress, now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.CompleteElapsed(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ActivateCurrent(t *testing.T) {
	repo, mock := newTestRepository(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE allocations SET status = \$1, updated_at = NOW\(\) WHERE \(status = \$2 AND payment_status = \$3 AND start_time <= \$4 AND end_time > \$5\)`).
		WithArgs(domain.StatusInProgress, domain.StatusConfirmed, domain.PaymentPaid, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.ActivateCurrent(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindOverdueUnpaid(t *testing.T) {
	repo, mock := newTestRepository(t)

	cutoff := time.Date(2025, 6, 1, 11, 45, 0, 0, time.UTC)
	overdue := testAllocation(5)

	mock.ExpectQuery(`SELECT .+ FROM allocations WHERE status = \$1 AND payment_status <> \$2 AND start_time < \$3 ORDER BY start_time ASC`).
		WithArgs(domain.StatusConfirmed, domain.PaymentPaid, cutoff).
		WillReturnRows(allocationRows(overdue))

	found, err := repo.FindOverdueUnpaid(context.Background(), cutoff)
	require.NoError(t, err)

	require.Len(t, found, 1)
	assert.Equal(t, int64(5), found[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CancelWithNote(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(`UPDATE allocations SET status = \$1, notes = CASE WHEN notes IS NULL OR notes = '' THEN \$2::text ELSE notes \|\| \$3 \|\| \$4 END, updated_at = NOW\(\) WHERE id = \$5 AND status = \$6`).
		WithArgs(
			domain.StatusCancelled,
			domain.AutoCancelNote, domain.NoteSeparator, domain.AutoCancelNote,
			int64(7), domain.StatusConfirmed,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CancelWithNote(context.Background(), 7, domain.AutoCancelNote)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CancelWithNote_AlreadyTransitioned(t *testing.T) {
	repo, mock := newTestRepository(t)

	// бронь уже не confirmed: предикат не совпал, ноль строк
	mock.ExpectExec(`UPDATE allocations SET status = `).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CancelWithNote(context.Background(), 7, domain.AutoCancelNote)
	assert.ErrorIs(t, err, ErrAllocationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
