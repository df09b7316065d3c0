package run_reconciliation

import (
	"context"
	"time"

	"github.com/m04kA/O2Spa-SchedulingService/internal/service/reconciler"
)

// SweepRunner интерфейс reconciler-а
type SweepRunner interface {
	Run(ctx context.Context, now time.Time) (*reconciler.Report, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
