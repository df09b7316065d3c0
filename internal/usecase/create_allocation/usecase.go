package create_allocation

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
	"github.com/m04kA/O2Spa-SchedulingService/internal/service/availability"
)

// UseCase use case создания брони (booking intake)
type UseCase struct {
	allocRepo    AllocationRepository
	engine       AvailabilityEngine
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	allocRepo AllocationRepository,
	engine AvailabilityEngine,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		allocRepo:    allocRepo,
		engine:       engine,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания брони.
// Проверка доступности и вставка идут в одной сериализуемой транзакции:
// две конкурирующие брони на одно окно не могут пройти обе.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAllocation: bed=%d, customer=%d, window=[%s, %s)",
		req.BedID, req.CustomerID,
		req.StartTime.Format(domain.TimeFormat), req.EndTime.Format(domain.TimeFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAllocation: validation failed: %v", err)
		return nil, err
	}

	// 2. Единый снимок текущего времени на весь вызов
	now := uc.timeProvider.Now()

	var result *domain.Allocation

	// 3. Проверка доступности и создание в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		available, conflicts, err := uc.engine.IsAvailable(txCtx, req.BedID, req.StartTime, req.EndTime, nil)
		if err != nil {
			if errors.Is(err, availability.ErrBedNotFound) {
				uc.logger.Warn("CreateAllocation: bed id=%d not found", req.BedID)
				return ErrBedNotFound
			}
			uc.logger.Error("CreateAllocation: availability check failed: %v", err)
			return fmt.Errorf("%w: availability check: %v", ErrInternal, err)
		}

		if !available {
			uc.logger.Warn("CreateAllocation: bed id=%d not available, %d conflict(s)",
				req.BedID, len(conflicts))
			return &ConflictError{Conflicts: conflicts}
		}

		alloc := &domain.Allocation{
			BedID:            req.BedID,
			CustomerID:       req.CustomerID,
			ServicePackageID: req.ServicePackageID,
			BookingNumber:    generateBookingNumber(req.StartTime),
			StartTime:        req.StartTime,
			EndTime:          req.EndTime,
			Status:           domain.StatusConfirmed,
			PaymentStatus:    domain.PaymentUnpaid,
			CustomerName:     req.CustomerName,
			Notes:            req.Notes,
		}

		created, err := uc.allocRepo.Create(txCtx, alloc)
		if err != nil {
			uc.logger.Error("CreateAllocation: failed to create allocation: %v", err)
			return fmt.Errorf("%w: create allocation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAllocation: created allocation id=%d booking=%s (requested at %s)",
		result.ID, result.BookingNumber, now.Format(domain.TimeFormat))

	return &Response{
		ID:               result.ID,
		BedID:            result.BedID,
		CustomerID:       result.CustomerID,
		ServicePackageID: result.ServicePackageID,
		BookingNumber:    result.BookingNumber,
		StartTime:        result.StartTime,
		EndTime:          result.EndTime,
		Status:           string(result.Status),
		PaymentStatus:    string(result.PaymentStatus),
		CustomerName:     result.CustomerName,
		Notes:            result.Notes,
		CreatedAt:        result.CreatedAt,
	}, nil
}

// generateBookingNumber генерирует человекочитаемый номер брони
// вида BK-20260115-0042
func generateBookingNumber(start time.Time) string {
	return fmt.Sprintf("BK-%s-%04d", start.Format("20060102"), rand.IntN(10000))
}
