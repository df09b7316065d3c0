package bed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
	"github.com/m04kA/O2Spa-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/O2Spa-SchedulingService/pkg/psqlbuilder"
)

// bedColumns список колонок таблицы beds
var bedColumns = []string{
	"id",
	"number",
	"display_label",
	"grid_row",
	"grid_col",
	"type",
	"status",
	"deleted_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с кроватями (каталог ресурсов)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория кроватей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListBookable возвращает все не списанные кровати в порядке позиции в сетке
// зала (grid_row, grid_col) — стабильный порядок для отображения
func (r *Repository) ListBookable(ctx context.Context) ([]*domain.Bed, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bedColumns...).
		From("beds").
		Where(squirrel.Eq{"deleted_at": nil}).
		OrderBy("grid_row ASC", "grid_col ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBookable - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookable - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBeds(rows)
}

// GetByID получает кровать по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Bed, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bedColumns...).
		From("beds").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var b domain.Bed
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.Number,
		&b.DisplayLabel,
		&b.GridRow,
		&b.GridCol,
		&b.Type,
		&b.Status,
		&b.DeletedAt,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBedNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan bed: %v", ErrScanRow, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// UpdateStatus устанавливает статус кровати по явному запросу оператора.
// Единственный путь, которым кровать входит в maintenance и выходит из него.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BedStatus) error {
	if !domain.IsValidBedStatus(string(status)) {
		return fmt.Errorf("%w: UpdateStatus - status %q", ErrInvalidStatus, status)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("beds").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBedNotFound
	}

	return nil
}

// UpdateStatusDerived устанавливает статус, вычисленный reconciler-ом.
// Кровати в maintenance пропускаются на уровне SQL: флаг выставляет
// и снимает только оператор. Пропуск не является ошибкой.
// Возвращает true, если строка была обновлена.
func (r *Repository) UpdateStatusDerived(ctx context.Context, id int64, status domain.BedStatus) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("beds").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": domain.BedStatusMaintenance}).
		Where(squirrel.NotEq{"status": status}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatusDerived - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatusDerived - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatusDerived - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// scanBeds сканирует строки результата в список кроватей
func scanBeds(rows *sql.Rows) ([]*domain.Bed, error) {
	beds := make([]*domain.Bed, 0)

	for rows.Next() {
		var b domain.Bed
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(
			&b.ID,
			&b.Number,
			&b.DisplayLabel,
			&b.GridRow,
			&b.GridCol,
			&b.Type,
			&b.Status,
			&b.DeletedAt,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanBeds - scan bed: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time
		beds = append(beds, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBeds - rows error: %v", ErrScanRow, err)
	}

	return beds, nil
}
