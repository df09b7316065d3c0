package create_allocation

import (
	"errors"

	availModels "github.com/m04kA/O2Spa-SchedulingService/internal/service/availability/models"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidWindow возвращается, когда конец окна не строго позже начала
	ErrInvalidWindow = errors.New("end time must be strictly after start time")

	// ErrBedNotFound возвращается, когда кровать не найдена
	ErrBedNotFound = errors.New("bed not found")

	// ErrBedNotAvailable возвращается, когда окно пересекается с существующей
	// бронью или кровать в maintenance
	ErrBedNotAvailable = errors.New("bed is not available for the requested window")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)

// ConflictError ошибка занятости окна со структурированным списком
// пересекающихся броней — вызывающая сторона может объяснить конфликт
// человеку, а не просто отказать
type ConflictError struct {
	Conflicts []availModels.Conflict
}

// Error реализует error
func (e *ConflictError) Error() string {
	return ErrBedNotAvailable.Error()
}

// Unwrap позволяет errors.Is(err, ErrBedNotAvailable)
func (e *ConflictError) Unwrap() error {
	return ErrBedNotAvailable
}
