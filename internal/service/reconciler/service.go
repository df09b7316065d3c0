// Package reconciler периодический sweep жизненного цикла броней:
// завершение, активация, автоотмена неоплаченных и refresh сохранённых
// статусов кроватей. Sweep идемпотентен — повторный прогон на том же
// моменте времени не даёт изменений — и безопасен при частичном
// выполнении: каждый шаг выводит состояние заново, а не диффом.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
)

// Report счётчики одного прогона reconciliation — для наблюдаемости
type Report struct {
	Completed     int64 `json:"completed"`
	Activated     int64 `json:"activated"`
	AutoCancelled int64 `json:"autoCancelled"`
	StatusChanges int64 `json:"statusChanges"`
}

// IsZero сообщает, что прогон не внёс ни одного изменения
func (r *Report) IsZero() bool {
	return r.Completed == 0 && r.Activated == 0 && r.AutoCancelled == 0 && r.StatusChanges == 0
}

// Service сервис reconciliation жизненного цикла броней
type Service struct {
	allocRepo AllocationRepository
	bedRepo   BedRepository
	invoices  InvoiceLookup
	engine    StatusEngine
	metrics   MetricsRecorder
	logger    Logger

	// mu гарантирует один sweep в моменте внутри процесса
	mu sync.Mutex
}

// NewService создает новый экземпляр reconciler-а
func NewService(
	allocRepo AllocationRepository,
	bedRepo BedRepository,
	invoices InvoiceLookup,
	engine StatusEngine,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		allocRepo: allocRepo,
		bedRepo:   bedRepo,
		invoices:  invoices,
		engine:    engine,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run выполняет один sweep на момент now. Шаги идут строго по порядку:
// поздние должны видеть результат ранних (активация — после завершения,
// refresh статусов — после всех переходов броней).
func (s *Service) Run(ctx context.Context, now time.Time) (*Report, error) {
	if !s.mu.TryLock() {
		s.logger.Warn("Reconciler: sweep skipped, previous run still in progress")
		return nil, ErrSweepInProgress
	}
	defer s.mu.Unlock()

	started := time.Now()
	report := &Report{}

	// Шаг 1: завершение сеансов с истёкшим окном
	completed, err := s.allocRepo.CompleteElapsed(ctx, now)
	if err != nil {
		return s.fail(started, fmt.Errorf("%w: complete elapsed: %v", ErrInternal, err))
	}
	report.Completed = completed

	// Шаг 2: активация оплаченных подтверждённых броней, чьё окно наступило.
	// Неоплаченные остаются confirmed — их видит шаг 3
	activated, err := s.allocRepo.ActivateCurrent(ctx, now)
	if err != nil {
		return s.fail(started, fmt.Errorf("%w: activate current: %v", ErrInternal, err))
	}
	report.Activated = activated

	// Шаг 3: автоотмена неоплаченных броней, просроченных на 15 минут
	autoCancelled, err := s.autoCancelOverdue(ctx, now)
	if err != nil {
		return s.fail(started, err)
	}
	report.AutoCancelled = autoCancelled

	// Шаг 4: полный refresh сохранённых статусов кроватей.
	// Полное перевычисление, не инкрементальное — сходимся к корректному
	// состоянию, даже если предыдущий прогон был пропущен или оборван.
	statusChanges, err := s.refreshBedStatuses(ctx, now)
	if err != nil {
		return s.fail(started, err)
	}
	report.StatusChanges = statusChanges

	s.metrics.AddSweepTransitions("completed", report.Completed)
	s.metrics.AddSweepTransitions("activated", report.Activated)
	s.metrics.AddSweepTransitions("auto_cancelled", report.AutoCancelled)
	s.metrics.AddSweepTransitions("status_changes", report.StatusChanges)
	s.metrics.ObserveSweep("success", time.Since(started))

	if !report.IsZero() {
		s.logger.Info("Reconciler: sweep done, completed=%d activated=%d autoCancelled=%d statusChanges=%d",
			report.Completed, report.Activated, report.AutoCancelled, report.StatusChanges)
	}

	return report, nil
}

// autoCancelOverdue отменяет подтверждённые брони, оставшиеся неоплаченными
// спустя 15 минут после начала и не имеющие действующего счёта.
// Проверки оплаты две и они независимы: payment_status самой брони
// (в выборке) и предикат по счёту (здесь).
// Обработка по-записьная и best-effort: сбой одной брони логируется и не
// прерывает остальные — следующий прогон доведёт её сам.
func (s *Service) autoCancelOverdue(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-time.Duration(domain.AutoCancelGraceMinutes) * time.Minute)

	overdue, err := s.allocRepo.FindOverdueUnpaid(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: find overdue unpaid: %v", ErrInternal, err)
	}

	var cancelled int64
	for _, a := range overdue {
		hasInvoice, err := s.invoices.HasQualifyingInvoice(ctx, a.ID)
		if err != nil {
			s.logger.Error("Reconciler: invoice check failed for allocation id=%d: %v", a.ID, err)
			continue
		}
		if hasInvoice {
			continue
		}

		if err := s.allocRepo.CancelWithNote(ctx, a.ID, domain.AutoCancelNote); err != nil {
			s.logger.Error("Reconciler: auto-cancel failed for allocation id=%d (booking=%s): %v",
				a.ID, a.BookingNumber, err)
			continue
		}

		s.logger.Info("Reconciler: auto-cancelled allocation id=%d (booking=%s), unpaid since %s",
			a.ID, a.BookingNumber, a.StartTime.Format(time.RFC3339))
		cancelled++
	}

	return cancelled, nil
}

// refreshBedStatuses перевыводит статус каждой кровати вне maintenance
// и сохраняет изменившиеся. Кровати в maintenance не попадают в выборку
// движка, а на случай гонки с оператором защищены ещё и в SQL.
func (s *Service) refreshBedStatuses(ctx context.Context, now time.Time) (int64, error) {
	derived, err := s.engine.DeriveAll(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("%w: derive statuses: %v", ErrInternal, err)
	}

	var changes int64
	for bedID, status := range derived {
		updated, err := s.bedRepo.UpdateStatusDerived(ctx, bedID, status)
		if err != nil {
			s.logger.Error("Reconciler: status refresh failed for bed id=%d: %v", bedID, err)
			continue
		}
		if updated {
			changes++
		}
	}

	return changes, nil
}

// fail фиксирует неуспешный прогон в метриках
func (s *Service) fail(started time.Time, err error) (*Report, error) {
	s.metrics.ObserveSweep("error", time.Since(started))
	if !errors.Is(err, ErrInternal) {
		err = fmt.Errorf("%w: %v", ErrInternal, err)
	}
	s.logger.Error("Reconciler: sweep failed: %v", err)
	return nil, err
}
