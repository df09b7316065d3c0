// Package scheduler запускает периодический sweep reconciler-а по cron-расписанию.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

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

// Scheduler периодический запуск sweep-а
type Scheduler struct {
	cron   *cron.Cron
	runner SweepRunner
	logger Logger
}

// New создает планировщик, привязанный к таймзоне площадки.
// SkipIfStillRunning страхует от наложения прогонов, если sweep
// затянется дольше интервала расписания.
func New(spec string, loc *time.Location, runner SweepRunner, logger Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		runner: runner,
		logger: logger,
	}

	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return nil, err
	}

	return s, nil
}

// Start запускает планировщик в собственной горутине cron-а
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler: started")
}

// Stop останавливает планировщик и дожидается завершения текущего прогона
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler: stopped")
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.runner.Run(ctx, time.Now()); err != nil {
		// повторный вход отсечёт сам reconciler, это не ошибка прогона
		if errors.Is(err, reconciler.ErrSweepInProgress) {
			return
		}
		s.logger.Error("Scheduler: sweep failed: %v", err)
	}
}
