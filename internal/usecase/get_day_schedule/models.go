package get_day_schedule

import (
	"time"

	availModels "github.com/m04kA/O2Spa-SchedulingService/internal/service/availability/models"
)

// Request модель запроса дневного расписания кровати
type Request struct {
	BedID int64
	Date  time.Time // дата без времени
	At    *time.Time // переопределение "now" (для тестирования)
}

// Response модель ответа с дневным расписанием
type Response struct {
	BedID int64  `json:"bedId"`
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// Slot слот расписания с временем в формате HH:MM
type Slot struct {
	SlotStart   string                         `json:"slotStart"`
	SlotEnd     string                         `json:"slotEnd"`
	IsAvailable bool                           `json:"isAvailable"`
	IsPast      bool                           `json:"isPast"`
	Allocation  *availModels.AllocationSummary `json:"allocation,omitempty"`
}
