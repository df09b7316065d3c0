package create_allocation

import (
	"context"
	"time"

	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
	availModels "github.com/m04kA/O2Spa-SchedulingService/internal/service/availability/models"
)

// AllocationRepository интерфейс хранилища броней
type AllocationRepository interface {
	Create(ctx context.Context, alloc *domain.Allocation) (*domain.Allocation, error)
}

// AvailabilityEngine интерфейс движка доступности.
// Внутри сериализуемой транзакции проверка конфликтов блокирует
// пересекающиеся строки (FOR UPDATE).
type AvailabilityEngine interface {
	IsAvailable(ctx context.Context, bedID int64, start, end time.Time, excludingID *int64) (bool, []availModels.Conflict, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
