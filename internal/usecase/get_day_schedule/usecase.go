package get_day_schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/O2Spa-SchedulingService/internal/domain"
	"github.com/m04kA/O2Spa-SchedulingService/internal/service/availability"
)

// UseCase use case получения дневного расписания кровати
type UseCase struct {
	engine       AvailabilityEngine
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(engine AvailabilityEngine, logger Logger) *UseCase {
	return &UseCase{
		engine:       engine,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения дневного расписания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.BedID <= 0 {
		return nil, fmt.Errorf("%w: bedID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()
	if req.At != nil {
		now = *req.At
	}

	uc.logger.Info("GetDaySchedule: bed=%d, date=%s", req.BedID, req.Date.Format(domain.DateFormat))

	slots, err := uc.engine.DaySchedule(ctx, req.BedID, req.Date, now)
	if err != nil {
		if errors.Is(err, availability.ErrBedNotFound) {
			uc.logger.Warn("GetDaySchedule: bed id=%d not found", req.BedID)
			return nil, ErrBedNotFound
		}
		uc.logger.Error("GetDaySchedule: failed to build schedule: %v", err)
		return nil, fmt.Errorf("%w: build schedule: %v", ErrInternal, err)
	}

	resp := &Response{
		BedID: req.BedID,
		Date:  req.Date.Format(domain.DateFormat),
		Slots: make([]Slot, 0),
	}

	for slot := range slots {
		resp.Slots = append(resp.Slots, Slot{
			SlotStart:   slot.SlotStart.Format(domain.TimeFormat),
			SlotEnd:     slot.SlotEnd.Format(domain.TimeFormat),
			IsAvailable: slot.IsAvailable,
			IsPast:      slot.IsPast,
			Allocation:  slot.Allocation,
		})
	}

	return resp, nil
}
