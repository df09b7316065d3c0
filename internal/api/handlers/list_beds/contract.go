package list_beds

import (
	"context"
	"time"

	"github.com/m04kA/O2Spa-SchedulingService/internal/service/availability/models"
)

// AvailabilityService интерфейс движка доступности
type AvailabilityService interface {
	ListWithStatus(ctx context.Context, now time.Time) ([]models.BedWithStatus, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
