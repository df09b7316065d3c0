package get_day_schedule

import (
	"context"

	uc "github.com/m04kA/O2Spa-SchedulingService/internal/usecase/get_day_schedule"
)

// UseCase интерфейс use case дневного расписания
type UseCase interface {
	Execute(ctx context.Context, req *uc.Request) (*uc.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
