package availability

import (
	"context"
	"time"

	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
)

// BedRepository интерфейс каталога кроватей
type BedRepository interface {
	ListBookable(ctx context.Context) ([]*domain.Bed, error)
	GetByID(ctx context.Context, id int64) (*domain.Bed, error)
}

// AllocationRepository интерфейс хранилища броней
type AllocationRepository interface {
	FindOverlapping(ctx context.Context, bedID int64, start, end time.Time, excludingID *int64) ([]*domain.Allocation, error)
	ActiveAt(ctx context.Context, at time.Time) ([]*domain.Allocation, error)
	UpcomingWithin(ctx context.Context, at time.Time, horizon time.Duration) ([]*domain.Allocation, error)
	ListForBedBetween(ctx context.Context, bedID int64, from, to time.Time) ([]*domain.Allocation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
