package get_available_beds

import (
	"context"
	"time"

	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
)

// AvailabilityService интерфейс движка доступности
type AvailabilityService interface {
	AvailableBeds(ctx context.Context, start, end time.Time) ([]*domain.Bed, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
