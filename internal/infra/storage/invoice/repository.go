// Package invoice узкий read-only доступ к счетам биллинговой подсистемы.
// Сервису планирования нужен единственный предикат: есть ли у брони счёт,
// отменяющий автоотмену.
package invoice

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/O2Spa-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/O2Spa-SchedulingService/pkg/psqlbuilder"
)

// qualifyingStatuses статусы счёта, при которых он считается действующим
var qualifyingStatuses = []string{"draft", "pending", "completed"}

// Repository репозиторий для проверки счетов по броням
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория счетов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// HasQualifyingInvoice сообщает, есть ли у брони счёт в статусе
// draft/pending/completed с payment_status != unpaid.
// Наличие такого счёта отменяет автоотмену просроченной брони.
func (r *Repository) HasQualifyingInvoice(ctx context.Context, allocationID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	sub, subArgs, err := psqlbuilder.Select("1").
		From("invoices").
		Where(squirrel.Eq{"allocation_id": allocationID}).
		Where(squirrel.Eq{"status": qualifyingStatuses}).
		Where(squirrel.NotEq{"payment_status": "unpaid"}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasQualifyingInvoice - build query: %v", ErrBuildQuery, err)
	}

	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (%s)", sub)
	if err := executor.QueryRowContext(ctx, query, subArgs...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: HasQualifyingInvoice - execute query: %v", ErrExecQuery, err)
	}

	return exists, nil
}
