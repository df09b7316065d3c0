package get_day_schedule

import (
	"context"
	"iter"
	"time"

	availModels "github.com/m04kA/O2Spa-SchedulingService/internal/service/availability/models"
)

// AvailabilityEngine интерфейс движка доступности
type AvailabilityEngine interface {
	DaySchedule(ctx context.Context, bedID int64, date time.Time, now time.Time) (iter.Seq[availModels.ScheduleSlot], error)
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
