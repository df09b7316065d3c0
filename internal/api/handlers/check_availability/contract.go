package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/O2Spa-SchedulingService/internal/service/availability/models"
)

// AvailabilityService интерфейс движка доступности
type AvailabilityService interface {
	IsAvailable(ctx context.Context, bedID int64, start, end time.Time, excludingID *int64) (bool, []models.Conflict, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
