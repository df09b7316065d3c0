package allocation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
	"github.com/m04kA/O2Spa-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/O2Spa-SchedulingService/pkg/psqlbuilder"
)

// allocationColumns список колонок таблицы allocations
var allocationColumns = []string{
	"id",
	"bed_id",
	"customer_id",
	"service_package_id",
	"booking_number",
	"start_time",
	"end_time",
	"status",
	"payment_status",
	"customer_name",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронями кроватей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория броней
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую бронь.
// Окно с end <= start отклоняется здесь, до обращения к БД —
// движок доступности с такими окнами не работает.
func (r *Repository) Create(ctx context.Context, alloc *domain.Allocation) (*domain.Allocation, error) {
	if !alloc.EndTime.After(alloc.StartTime) {
		return nil, ErrInvalidWindow
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("allocations").
		Columns(
			"bed_id",
			"customer_id",
			"service_package_id",
			"booking_number",
			"start_time",
			"end_time",
			"status",
			"payment_status",
			"customer_name",
			"notes",
		).
		Values(
			alloc.BedID,
			alloc.CustomerID,
			alloc.ServicePackageID,
			alloc.BookingNumber,
			alloc.StartTime,
			alloc.EndTime,
			alloc.Status,
			alloc.PaymentStatus,
			alloc.CustomerName,
			alloc.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&alloc.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	alloc.CreatedAt = createdAt.Time
	alloc.UpdatedAt = updatedAt.Time

	return alloc, nil
}

// GetByID получает бронь по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(allocationColumns...).
		From("allocations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var a domain.Allocation
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&a.BedID,
		&a.CustomerID,
		&a.ServicePackageID,
		&a.BookingNumber,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.PaymentStatus,
		&a.CustomerName,
		&a.Notes,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAllocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan allocation: %v", ErrScanRow, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// FindOverlapping возвращает все неотменённые брони кровати, пересекающие
// окно [start, end) по полуинтервальной семантике: бронь, заканчивающаяся
// ровно в start, не конфликтует. Оплата не учитывается — неоплаченная
// подтверждённая бронь всё равно удерживает слот.
// excludingID исключает одну запись (повторная валидация при редактировании).
//
// Внутри транзакции выборка блокируется FOR UPDATE — защита от гонки
// при одновременном создании двух броней на одно окно.
func (r *Repository) FindOverlapping(ctx context.Context, bedID int64, start, end time.Time, excludingID *int64) ([]*domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(allocationColumns...).
		From("allocations").
		Where(squirrel.Eq{"bed_id": bedID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC")

	if excludingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludingID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAllocations(rows)
}

// ActiveAt возвращает оплаченные текущие брони (confirmed/in_progress),
// чьё окно содержит указанный момент
func (r *Repository) ActiveAt(ctx context.Context, at time.Time) ([]*domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(allocationColumns...).
		From("allocations").
		Where(squirrel.Eq{"status": domain.CurrentStatuses}).
		Where(squirrel.Eq{"payment_status": domain.PaymentPaid}).
		Where(squirrel.LtOrEq{"start_time": at}).
		Where(squirrel.Gt{"end_time": at}).
		OrderBy("bed_id ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ActiveAt - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveAt - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAllocations(rows)
}

// UpcomingWithin возвращает оплаченные текущие брони, начинающиеся строго
// после at и не позже at+horizon
func (r *Repository) UpcomingWithin(ctx context.Context, at time.Time, horizon time.Duration) ([]*domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(allocationColumns...).
		From("allocations").
		Where(squirrel.Eq{"status": domain.CurrentStatuses}).
		Where(squirrel.Eq{"payment_status": domain.PaymentPaid}).
		Where(squirrel.Gt{"start_time": at}).
		Where(squirrel.LtOrEq{"start_time": at.Add(horizon)}).
		OrderBy("bed_id ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpcomingWithin - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: UpcomingWithin - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAllocations(rows)
}

// ListForBedBetween возвращает неотменённые брони кровати, пересекающие
// окно [from, to), в порядке начала — используется дневным расписанием
func (r *Repository) ListForBedBetween(ctx context.Context, bedID int64, from, to time.Time) ([]*domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(allocationColumns...).
		From("allocations").
		Where(squirrel.Eq{"bed_id": bedID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListForBedBetween - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForBedBetween - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAllocations(rows)
}

// CompleteElapsed переводит все брони in_progress с истёкшим окном
// (end_time <= now) в completed. Возвращает число затронутых строк.
func (r *Repository) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	return r.bulkStatusUpdate(ctx, "CompleteElapsed", domain.StatusCompleted, squirrel.And{
		squirrel.Eq{"status": domain.StatusInProgress},
		squirrel.LtOrEq{"end_time": now},
	})
}

// ActivateCurrent переводит все оплаченные подтверждённые брони, чьё окно
// содержит now, в in_progress. Возвращает число затронутых строк.
// Неоплаченные брони не активируются: они остаются confirmed и либо
// дожидаются оплаты, либо попадают под автоотмену.
func (r *Repository) ActivateCurrent(ctx context.Context, now time.Time) (int64, error) {
	return r.bulkStatusUpdate(ctx, "ActivateCurrent", domain.StatusInProgress, squirrel.And{
		squirrel.Eq{"status": domain.StatusConfirmed},
		squirrel.Eq{"payment_status": domain.PaymentPaid},
		squirrel.LtOrEq{"start_time": now},
		squirrel.Gt{"end_time": now},
	})
}

// FindOverdueUnpaid возвращает подтверждённые неоплаченные брони,
// начавшиеся раньше cutoff — кандидатов на автоотмену.
// Проверка оплаты по счёту (invoice) выполняется вызывающей стороной
// отдельно: это два независимых условия.
func (r *Repository) FindOverdueUnpaid(ctx context.Context, cutoff time.Time) ([]*domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(allocationColumns...).
		From("allocations").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.NotEq{"payment_status": domain.PaymentPaid}).
		Where(squirrel.Lt{"start_time": cutoff}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindOverdueUnpaid - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverdueUnpaid - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAllocations(rows)
}

// CancelWithNote отменяет бронь, дописывая заметку после существующих
// через перевод строки. Существующие заметки никогда не затираются.
// Срабатывает только для confirmed: уже активированная или отменённая
// бронь не трогается.
func (r *Repository) CancelWithNote(ctx context.Context, id int64, note string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("allocations").
		Set("status", domain.StatusCancelled).
		Set("notes", squirrel.Expr(
			"CASE WHEN notes IS NULL OR notes = '' THEN ?::text ELSE notes || ? || ? END",
			note, domain.NoteSeparator, note,
		)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CancelWithNote - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CancelWithNote - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: CancelWithNote - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAllocationNotFound
	}

	return nil
}

// bulkStatusUpdate выполняет массовое обновление статуса по предикату
func (r *Repository) bulkStatusUpdate(ctx context.Context, op string, status domain.AllocationStatus, pred squirrel.Sqlizer) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("allocations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(pred).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	return rowsAffected, nil
}

// scanAllocations сканирует строки результата в список броней
func scanAllocations(rows *sql.Rows) ([]*domain.Allocation, error) {
	allocations := make([]*domain.Allocation, 0)

	for rows.Next() {
		var a domain.Allocation
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(
			&a.ID,
			&a.BedID,
			&a.CustomerID,
			&a.ServicePackageID,
			&a.BookingNumber,
			&a.StartTime,
			&a.EndTime,
			&a.Status,
			&a.PaymentStatus,
			&a.CustomerName,
			&a.Notes,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanAllocations - scan allocation: %v", ErrScanRow, err)
		}

		a.CreatedAt = createdAt.Time
		a.UpdatedAt = updatedAt.Time
		allocations = append(allocations, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAllocations - rows error: %v", ErrScanRow, err)
	}

	return allocations, nil
}
