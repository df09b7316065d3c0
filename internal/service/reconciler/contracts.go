package reconciler

import (
	"context"
	"time"

	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
)

// AllocationRepository интерфейс хранилища броней для sweep-операций
type AllocationRepository interface {
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
	ActivateCurrent(ctx context.Context, now time.Time) (int64, error)
	FindOverdueUnpaid(ctx context.Context, cutoff time.Time) ([]*domain.Allocation, error)
	CancelWithNote(ctx context.Context, id int64, note string) error
}

// BedRepository интерфейс каталога кроватей
type BedRepository interface {
	UpdateStatusDerived(ctx context.Context, id int64, status domain.BedStatus) (bool, error)
}

// InvoiceLookup предикат биллинговой подсистемы: есть ли у брони
// действующий счёт, отменяющий автоотмену
type InvoiceLookup interface {
	HasQualifyingInvoice(ctx context.Context, allocationID int64) (bool, error)
}

// StatusEngine движок доступности. Reconciler переиспользует его правило
// вывода статуса, чтобы сохранённый статус и вычисляемый на лету совпадали.
type StatusEngine interface {
	DeriveAll(ctx context.Context, now time.Time) (map[int64]domain.BedStatus, error)
}

// MetricsRecorder счётчики sweep-а
type MetricsRecorder interface {
	ObserveSweep(result string, duration time.Duration)
	AddSweepTransitions(step string, n int64)
}

// NopMetrics заглушка MetricsRecorder, когда метрики выключены
type NopMetrics struct{}

func (NopMetrics) ObserveSweep(string, time.Duration) {}
func (NopMetrics) AddSweepTransitions(string, int64)  {}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
